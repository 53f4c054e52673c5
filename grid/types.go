// Package grid defines the immutable 2-D terrain map and builds the
// fully annotated ground graph the clearpath abstraction searches over.
package grid

import (
	"errors"

	"github.com/katalvlaran/clearpath/core"
)

// Sentinel errors for map construction and parsing.
var (
	// ErrEmptyMap indicates the input has no rows or no columns.
	ErrEmptyMap = errors.New("grid: map must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
	// ErrBadTerrain indicates an unrecognized terrain character during parsing.
	ErrBadTerrain = errors.New("grid: unrecognized terrain character")
)

// Map is an immutable rectangular terrain grid.
// Width and Height give dimensions; the terrain of every tile is fixed
// at construction and safe for concurrent reads thereafter.
type Map struct {
	Width, Height int
	cells         [][]core.Terrain // cells[y][x]
}

// NewMap constructs a Map from a non-empty rectangular 2-D slice.
// It deep-copies the input to ensure immutability.
// Returns ErrEmptyMap if cells has no rows or no columns,
// ErrNonRectangular if any row length differs.
// Complexity: O(W×H) time and memory.
func NewMap(cells [][]core.Terrain) (*Map, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmptyMap
	}
	h, w := len(cells), len(cells[0])
	cp := make([][]core.Terrain, h)
	for y, row := range cells {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
		cp[y] = make([]core.Terrain, w)
		copy(cp[y], row)
	}

	return &Map{Width: w, Height: h, cells: cp}, nil
}

// InBounds reports whether (x,y) lies within the map boundaries.
// Complexity: O(1).
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// TerrainAt returns the terrain class of tile (x,y), or Obstacle for
// coordinates outside the map.
// Complexity: O(1).
func (m *Map) TerrainAt(x, y int) core.Terrain {
	if !m.InBounds(x, y) {
		return core.Obstacle
	}

	return m.cells[y][x]
}
