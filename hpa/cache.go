// File: cache.go
// Role: The abstract-edge path cache: every persistent abstract edge
//       keys exactly one concrete ground path, canonicalized to start
//       at the edge's From endpoint.

package hpa

import "github.com/katalvlaran/clearpath/core"

// AddPathToCache stores the concrete path for an abstract edge,
// overwriting any previous entry. A nil edge or nil path is a no-op.
func (a *Abstraction) AddPathToCache(e *core.Edge, p core.Path) {
	if e == nil || p == nil {
		return
	}
	a.cache[e.ID] = p
}

// PathFromCache returns the cached path for an abstract edge, or nil
// when the edge is nil or has no entry.
func (a *Abstraction) PathFromCache(e *core.Edge) core.Path {
	if e == nil {
		return nil
	}

	return a.cache[e.ID]
}

// DropPathFromCache removes the entry for an abstract edge, freeing the
// path. Unknown or nil edges are a no-op.
func (a *Abstraction) DropPathFromCache(e *core.Edge) {
	if e == nil {
		return
	}
	delete(a.cache, e.ID)
}

// PathCacheSize returns the number of cached paths. After
// BuildEntrances it equals the abstract edge count, and every
// insert/remove pair restores it exactly.
func (a *Abstraction) PathCacheSize() int { return len(a.cache) }
