package levelgen

import (
	"dungeon3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// layout maps grid indices to world coordinates. Even indices are walls of
// the wall thickness, odd indices rooms of the cell size. The maze is
// centered on the origin in X and Z.
type layout struct {
	cell, wall float32
}

// edge is the distance from the maze border to the near side of index i.
func (l layout) edge(i int) float32 {
	return float32(i/2)*(l.cell+l.wall) + float32(i%2)*l.wall
}

func (l layout) width(i int) float32 {
	if i%2 == 0 {
		return l.wall
	}
	return l.cell
}

// center of index i on an axis with n indices.
func (l layout) center(i, n int) float32 {
	return l.edge(i) + l.width(i)/2 - l.edge(n)/2
}

func (l layout) walls(grid [][]bool, height float32) []Placement {
	rows, cols := len(grid), len(grid[0])
	var out []Placement
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; {
			if grid[y][x] != Wall {
				x++
				continue
			}
			run := x
			for run < cols && grid[y][run] == Wall {
				run++
			}
			lo := l.edge(x) - l.edge(cols)/2
			hi := l.edge(run-1) + l.width(run-1) - l.edge(cols)/2
			out = append(out, Placement{
				Center: rl.Vector3{X: (lo + hi) / 2, Y: height / 2, Z: l.center(y, rows)},
				Size:   rl.Vector3{X: hi - lo, Y: height, Z: l.width(y)},
			})
			x = run
		}
	}
	return out
}

// CellCenter returns the floor-level world position of a grid cell.
func (r Result) CellCenter(p Point) rl.Vector3 {
	l := layout{cell: r.Config.CellSize, wall: r.Config.WallThickness}
	return rl.Vector3{
		X: l.center(p.X, len(r.Grid[0])),
		Z: l.center(p.Y, len(r.Grid)),
	}
}

// Build adds the floor and walls to w as static boxes and refreshes their
// bounds. The floor is the first body returned.
func Build(w *physics.World, r Result) []*physics.Body {
	bodies := make([]*physics.Body, 0, len(r.Walls)+1)
	bodies = append(bodies, w.CreateBox(r.Floor.Center, r.Floor.Size, true))
	for _, p := range r.Walls {
		bodies = append(bodies, w.CreateBox(p.Center, p.Size, true))
	}
	w.RefreshStatics()
	w.UpdateBounds()
	return bodies
}
