// Package levelgen generates maze levels as static box placements.
package levelgen

import (
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Cell types
const (
	Wall    = true
	Passage = false
)

type Point struct {
	X, Y int
}

type Config struct {
	Width, Height int // rooms along X and Z

	CellSize      float32
	WallHeight    float32
	WallThickness float32

	Seed int64 // Optional (0 = Random)
}

func DefaultConfig() Config {
	return Config{
		Width:         8,
		Height:        8,
		CellSize:      4,
		WallHeight:    3,
		WallThickness: 0.5,
	}
}

// Placement is one static box in world space.
type Placement struct {
	Center rl.Vector3
	Size   rl.Vector3
}

type Result struct {
	Config     Config
	Grid       [][]bool // [row][col]; rooms sit at odd indices
	Start, End Point
	Path       []Point // start to end, inclusive
	Floor      Placement
	Walls      []Placement
}

// Generate builds a perfect maze with Kruskal's algorithm and lays out its
// walls. Rows of adjacent wall cells become one placement.
func Generate(cfg Config) Result {
	def := DefaultConfig()
	cfg.Width = max(cfg.Width, 1)
	cfg.Height = max(cfg.Height, 1)
	if !(cfg.CellSize > 0) {
		cfg.CellSize = def.CellSize
	}
	if !(cfg.WallHeight > 0) {
		cfg.WallHeight = def.WallHeight
	}
	if !(cfg.WallThickness > 0) {
		cfg.WallThickness = def.WallThickness
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	rows, cols := cfg.Height*2+1, cfg.Width*2+1
	grid := make([][]bool, rows)
	for i := range grid {
		grid[i] = make([]bool, cols)
		for j := range grid[i] {
			grid[i][j] = Wall
		}
	}
	kruskal(grid, cfg.Width, cfg.Height, rng)

	start := Point{1, 1}
	end := Point{cols - 2, rows - 2}
	l := layout{cell: cfg.CellSize, wall: cfg.WallThickness}

	res := Result{
		Config: cfg,
		Grid:   grid,
		Start:  start,
		End:    end,
		Path:   solveBFS(grid, start, end),
	}
	w, d := l.edge(cols), l.edge(rows)
	res.Floor = Placement{
		Center: rl.Vector3{Y: -0.5},
		Size:   rl.Vector3{X: w, Y: 1, Z: d},
	}
	res.Walls = l.walls(grid, cfg.WallHeight)
	return res
}

// kruskal opens one wall between every pair of rooms joined by the
// spanning tree. Rooms are numbered row-major.
func kruskal(grid [][]bool, width, height int, rng *rand.Rand) {
	type edge struct{ a, b int }
	edges := make([]edge, 0, 2*width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid[y*2+1][x*2+1] = Passage
			id := y*width + x
			if x+1 < width {
				edges = append(edges, edge{id, id + 1})
			}
			if y+1 < height {
				edges = append(edges, edge{id, id + width})
			}
		}
	}
	rng.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })

	sets := newDisjointSet(width * height)
	for _, e := range edges {
		if !sets.union(e.a, e.b) {
			continue
		}
		ax, ay := e.a%width, e.a/width
		bx, by := e.b%width, e.b/width
		grid[ay+by+1][ax+bx+1] = Passage
	}
}

type disjointSet struct {
	parent []int
	rank   []uint8
}

func newDisjointSet(n int) *disjointSet {
	s := &disjointSet{parent: make([]int, n), rank: make([]uint8, n)}
	for i := range s.parent {
		s.parent[i] = i
	}
	return s
}

func (s *disjointSet) find(i int) int {
	for s.parent[i] != i {
		s.parent[i] = s.parent[s.parent[i]]
		i = s.parent[i]
	}
	return i
}

// union joins the sets of a and b and reports whether they were distinct.
func (s *disjointSet) union(a, b int) bool {
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		return false
	}
	switch {
	case s.rank[ra] < s.rank[rb]:
		s.parent[ra] = rb
	case s.rank[ra] > s.rank[rb]:
		s.parent[rb] = ra
	default:
		s.parent[rb] = ra
		s.rank[ra]++
	}
	return true
}

func solveBFS(grid [][]bool, start, end Point) []Point {
	rows, cols := len(grid), len(grid[0])
	prev := make(map[Point]Point, rows*cols/2)
	prev[start] = start
	queue := []Point{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			break
		}
		for _, d := range [4]Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			n := Point{cur.X + d.X, cur.Y + d.Y}
			if n.X < 0 || n.X >= cols || n.Y < 0 || n.Y >= rows || grid[n.Y][n.X] == Wall {
				continue
			}
			if _, seen := prev[n]; seen {
				continue
			}
			prev[n] = cur
			queue = append(queue, n)
		}
	}

	if _, ok := prev[end]; !ok {
		return nil
	}
	var path []Point
	for p := end; p != start; p = prev[p] {
		path = append(path, p)
	}
	path = append(path, start)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
