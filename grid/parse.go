// File: parse.go
// Role: Minimal octile-text map reader: '.' ground, 'T' trees,
//       '@' obstacle, one row per line.

package grid

import (
	"bufio"
	"fmt"
	"io"

	"github.com/katalvlaran/clearpath/core"
)

// Parse reads an octile-style text map: one row per line, '.' for
// ground, 'T' for trees, '@' for obstacle. Blank lines are skipped.
// Returns ErrBadTerrain (with position context) on any other character,
// and the NewMap sentinels on empty or ragged input.
// Complexity: O(W×H).
func Parse(r io.Reader) (*Map, error) {
	var cells [][]core.Terrain
	sc := bufio.NewScanner(r)
	y := 0
	for sc.Scan() {
		line := sc.Text()
		if len(line) == 0 {
			continue
		}
		row := make([]core.Terrain, 0, len(line))
		for x, ch := range line {
			switch ch {
			case '.':
				row = append(row, core.Ground)
			case 'T':
				row = append(row, core.Trees)
			case '@':
				row = append(row, core.Obstacle)
			default:
				return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrBadTerrain, ch, x, y)
			}
		}
		cells = append(cells, row)
		y++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("grid: reading map: %w", err)
	}

	return NewMap(cells)
}
