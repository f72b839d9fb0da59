// Package spatial implements a dynamic cube tree over items that carry a
// shape. Nodes split into 2^k children across the enabled axes, the root
// grows outward when an item lands outside it, and moved items are
// re-homed by Recalculate.
package spatial

import (
	"errors"
	"fmt"

	"dungeon3d/internal/shape"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Item is anything the tree can hold. Items are compared by identity.
type Item interface {
	comparable
	Shape() shape.Shape
}

// Config describes the initial root and the split policy.
type Config struct {
	Center      rl.Vector3
	HalfSize    float32
	MinHalfSize float32
	MaxItems    int
	Axes        shape.Axes
}

// MaxExpansions caps how many times the root may double while placing one item.
const MaxExpansions = 32

var ErrInvalidConfig = errors.New("spatial: invalid tree config")

func DefaultConfig() Config {
	return Config{
		HalfSize:    64,
		MinHalfSize: 2,
		MaxItems:    8,
		Axes:        shape.AllAxes,
	}
}

func (c Config) Validate() error {
	switch {
	case !(c.HalfSize > 0):
		return fmt.Errorf("%w: half size must be positive, got %v", ErrInvalidConfig, c.HalfSize)
	case !(c.MinHalfSize > 0) || c.MinHalfSize > c.HalfSize:
		return fmt.Errorf("%w: min half size must be in (0, %v], got %v", ErrInvalidConfig, c.HalfSize, c.MinHalfSize)
	case c.MaxItems < 1:
		return fmt.Errorf("%w: max items must be at least 1, got %d", ErrInvalidConfig, c.MaxItems)
	case c.Axes == 0 || c.Axes&^shape.AllAxes != 0:
		return fmt.Errorf("%w: bad axis mask %08b", ErrInvalidConfig, c.Axes)
	case shape.HasNaN(c.Center):
		return fmt.Errorf("%w: center is NaN", ErrInvalidConfig)
	}
	return nil
}

// Tree is a generic spatial index. It is not safe for concurrent use.
type Tree[T Item] struct {
	cfg     Config
	axes    []int
	root    *Node[T]
	owner   map[T]*Node[T]
	pending []T
	logger  *log.Logger
}

func New[T Item](cfg Config) (*Tree[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Tree[T]{
		cfg:    cfg,
		owner:  make(map[T]*Node[T]),
		logger: log.Default().WithPrefix("spatial"),
	}
	for i := 0; i < 3; i++ {
		if cfg.Axes.Has(i) {
			t.axes = append(t.axes, i)
		}
	}
	t.root = t.newNode(cfg.Center, cfg.HalfSize, nil)
	return t, nil
}

// SetLogger replaces the logger used for warnings. nil is ignored.
func (t *Tree[T]) SetLogger(l *log.Logger) {
	if l != nil {
		t.logger = l
	}
}

func (t *Tree[T]) Config() Config { return t.cfg }
func (t *Tree[T]) Root() *Node[T] { return t.root }
func (t *Tree[T]) Len() int       { return len(t.owner) }

// Contains reports whether item is in the tree.
func (t *Tree[T]) Contains(item T) bool {
	_, ok := t.owner[item]
	return ok
}

// NodeOf returns the node currently holding item, or nil.
func (t *Tree[T]) NodeOf(item T) *Node[T] {
	return t.owner[item]
}

func (t *Tree[T]) newNode(center rl.Vector3, half float32, parent *Node[T]) *Node[T] {
	return &Node[T]{
		center: center,
		half:   half,
		parent: parent,
		volume: shape.NewVolume(center, rl.Vector3{X: half, Y: half, Z: half}, t.cfg.Axes),
	}
}

func (t *Tree[T]) childIndex(n *Node[T], p rl.Vector3) int {
	idx := 0
	for bit, axis := range t.axes {
		if axisOf(p, axis) >= axisOf(n.center, axis) {
			idx |= 1 << uint(bit)
		}
	}
	return idx
}

func (t *Tree[T]) childCenter(n *Node[T], idx int) rl.Vector3 {
	c := n.center
	off := n.half / 2
	for bit, axis := range t.axes {
		if idx&(1<<uint(bit)) != 0 {
			addAxis(&c, axis, off)
		} else {
			addAxis(&c, axis, -off)
		}
	}
	return c
}

func (t *Tree[T]) makeChildren(n *Node[T]) {
	n.children = make([]*Node[T], 1<<uint(len(t.axes)))
	for i := range n.children {
		n.children[i] = t.newNode(t.childCenter(n, i), n.half/2, n)
	}
}

// childFor returns the child that fully contains min..max, or nil.
func (t *Tree[T]) childFor(n *Node[T], min, max rl.Vector3) *Node[T] {
	if n.IsLeaf() {
		return nil
	}
	mid := rl.Vector3Scale(rl.Vector3Add(min, max), 0.5)
	c := n.children[t.childIndex(n, mid)]
	if c.contains(min, max) {
		return c
	}
	return nil
}

// Insert adds item, growing the root as needed. An item already present is
// re-homed. Items with NaN bounds, or bounds the root cannot reach within
// MaxExpansions doublings, are rejected with a warning.
func (t *Tree[T]) Insert(item T) bool {
	if n, ok := t.owner[item]; ok {
		n.removeItem(item)
		delete(t.owner, item)
	}

	min, max := item.Shape().Bounds()
	if shape.HasNaN(min) || shape.HasNaN(max) {
		t.logger.Warn("rejecting item with NaN bounds", "min", min, "max", max)
		return false
	}

	for i := 0; !t.root.contains(min, max); i++ {
		if i >= MaxExpansions {
			t.logger.Warn("item out of reach after root expansion", "min", min, "max", max, "half", t.root.half)
			return false
		}
		if !t.expand(min, max) {
			return false
		}
	}

	t.place(t.root, item, min, max)
	return true
}

// place descends from n to the deepest node containing the item.
func (t *Tree[T]) place(n *Node[T], item T, min, max rl.Vector3) {
	for {
		c := t.childFor(n, min, max)
		if c == nil {
			break
		}
		n = c
	}
	n.items = append(n.items, item)
	t.owner[item] = n
	t.maybeSplit(n)
}

func (t *Tree[T]) maybeSplit(n *Node[T]) {
	if !n.IsLeaf() || len(n.items) <= t.cfg.MaxItems || n.half/2 < t.cfg.MinHalfSize {
		return
	}
	t.makeChildren(n)

	items := n.items
	n.items = nil
	for _, it := range items {
		min, max := it.Shape().Bounds()
		if c := t.childFor(n, min, max); c != nil {
			c.items = append(c.items, it)
			t.owner[it] = c
			continue
		}
		n.items = append(n.items, it)
	}
	for _, c := range n.children {
		t.maybeSplit(c)
	}
}

// expand doubles the root toward min..max. The old root becomes the child
// of the new root whose center coincides with its own.
func (t *Tree[T]) expand(min, max rl.Vector3) bool {
	old := t.root
	mid := rl.Vector3Scale(rl.Vector3Add(min, max), 0.5)

	center := old.center
	for _, axis := range t.axes {
		if axisOf(mid, axis) >= axisOf(old.center, axis) {
			addAxis(&center, axis, old.half)
		} else {
			addAxis(&center, axis, -old.half)
		}
	}

	root := t.newNode(center, old.half*2, nil)
	t.makeChildren(root)

	idx := t.childIndex(root, old.center)
	slot := root.children[idx]
	tolerance := old.half * 1e-4
	if rl.Vector3Distance(slot.center, old.center) > tolerance || math32.Abs(slot.half-old.half) > tolerance {
		t.logger.Warn("root expansion could not relocate the old root",
			"old_center", old.center, "slot_center", slot.center, "half", old.half)
		return false
	}

	root.children[idx] = old
	old.parent = root
	t.root = root
	t.logger.Debug("root expanded", "center", center, "half", root.half)
	return true
}

// Remove deletes item and reports whether it was present.
func (t *Tree[T]) Remove(item T) bool {
	n, ok := t.owner[item]
	if !ok {
		return false
	}
	n.removeItem(item)
	delete(t.owner, item)
	return true
}

// Recalculate walks the tree depth-first, calling fn for every item so the
// caller can refresh its shape, then re-homes items whose bounds left their
// node. Items that now fit a child are pushed down.
func (t *Tree[T]) Recalculate(fn func(T)) {
	t.pending = t.pending[:0]
	t.recalculate(t.root, fn)

	for _, it := range t.pending {
		if !t.Insert(it) {
			t.logger.Warn("dropped item during recalculation")
		}
	}
	clear(t.pending)
	t.pending = t.pending[:0]
}

func (t *Tree[T]) recalculate(n *Node[T], fn func(T)) {
	for _, c := range n.children {
		t.recalculate(c, fn)
	}

	for i := 0; i < len(n.items); {
		it := n.items[i]
		if fn != nil {
			fn(it)
		}
		min, max := it.Shape().Bounds()
		if n.contains(min, max) {
			if c := t.childFor(n, min, max); c != nil {
				n.items = append(n.items[:i], n.items[i+1:]...)
				t.place(c, it, min, max)
				continue
			}
			i++
			continue
		}
		n.items = append(n.items[:i], n.items[i+1:]...)
		delete(t.owner, it)
		t.pending = append(t.pending, it)
	}
}

// Prune drops the children of every branch whose subtree holds no items.
func (t *Tree[T]) Prune() {
	t.prune(t.root)
}

func (t *Tree[T]) prune(n *Node[T]) {
	if n.IsLeaf() {
		return
	}
	for _, c := range n.children {
		t.prune(c)
	}
	for _, c := range n.children {
		if !c.empty() {
			return
		}
	}
	n.children = nil
}

// Clear removes every item and resets the root to its configured size.
func (t *Tree[T]) Clear() {
	t.owner = make(map[T]*Node[T])
	t.root = t.newNode(t.cfg.Center, t.cfg.HalfSize, nil)
}

// Query returns the items whose bounds overlap any of shapes. Subtrees
// whose volume misses every shape are skipped.
func (t *Tree[T]) Query(shapes ...shape.Shape) []T {
	var out []T
	t.QueryFunc(func(it T) bool {
		out = append(out, it)
		return true
	}, shapes...)
	return out
}

// QueryFunc calls visit for each match until visit returns false.
func (t *Tree[T]) QueryFunc(visit func(T) bool, shapes ...shape.Shape) {
	if len(shapes) == 0 {
		return
	}
	var bounds [8][2]rl.Vector3
	bs := bounds[:0]
	for _, s := range shapes {
		lo, hi := s.Bounds()
		bs = append(bs, [2]rl.Vector3{lo, hi})
	}
	t.query(t.root, shapes, bs, visit)
}

func (t *Tree[T]) query(n *Node[T], shapes []shape.Shape, bs [][2]rl.Vector3, visit func(T) bool) bool {
	if !shape.OverlapAny(n.volume, shapes...) {
		return true
	}
	for _, it := range n.items {
		lo, hi := it.Shape().Bounds()
		for _, b := range bs {
			if shape.Overlaps(lo, hi, b[0], b[1]) {
				if !visit(it) {
					return false
				}
				break
			}
		}
	}
	for _, c := range n.children {
		if !t.query(c, shapes, bs, visit) {
			return false
		}
	}
	return true
}

// RayQuery returns the items whose bounds the ray enters within maxDistance.
func (t *Tree[T]) RayQuery(ray *shape.Ray, maxDistance float32) []T {
	limit := math32.Min(maxDistance, ray.Length())
	var out []T
	t.rayQuery(t.root, ray.Origin(), ray.Direction(), limit, &out)
	return out
}

func (t *Tree[T]) rayQuery(n *Node[T], origin, dir rl.Vector3, limit float32, out *[]T) {
	// a miss is +Inf, which an unbounded limit would otherwise accept
	if d := n.volume.Raycast(origin, dir); math32.IsInf(d, 1) || d > limit {
		return
	}
	for _, it := range n.items {
		lo, hi := it.Shape().Bounds()
		if d := shape.RaycastAABB(lo, hi, origin, dir); !math32.IsInf(d, 1) && d <= limit {
			*out = append(*out, it)
		}
	}
	for _, c := range n.children {
		t.rayQuery(c, origin, dir, limit, out)
	}
}

// Walk visits nodes in pre-order. Returning false skips a node's children.
func (t *Tree[T]) Walk(fn func(*Node[T]) bool) {
	walk(t.root, fn)
}

func walk[T Item](n *Node[T], fn func(*Node[T]) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		walk(c, fn)
	}
}

// Stats summarizes the tree shape.
type Stats struct {
	Nodes    int
	Leaves   int
	Items    int
	MaxDepth int
	MaxItems int
}

func (t *Tree[T]) Stats() Stats {
	var s Stats
	t.Walk(func(n *Node[T]) bool {
		s.Nodes++
		if n.IsLeaf() {
			s.Leaves++
		}
		s.Items += len(n.items)
		if d := n.depth(); d > s.MaxDepth {
			s.MaxDepth = d
		}
		if len(n.items) > s.MaxItems {
			s.MaxItems = len(n.items)
		}
		return true
	})
	return s
}

// Validate checks that every item sits in the node recorded for it and
// inside that node's volume, and that every branch is fully populated.
func (t *Tree[T]) Validate() error {
	var err error
	count := 0
	want := 1 << uint(len(t.axes))
	t.Walk(func(n *Node[T]) bool {
		if err != nil {
			return false
		}
		if !n.IsLeaf() && len(n.children) != want {
			err = fmt.Errorf("spatial: branch at %v has %d children, want %d", n.center, len(n.children), want)
			return false
		}
		for _, it := range n.items {
			count++
			if t.owner[it] != n {
				err = fmt.Errorf("spatial: owner map disagrees for item in node at %v", n.center)
				return false
			}
			lo, hi := it.Shape().Bounds()
			if !n.contains(lo, hi) {
				err = fmt.Errorf("spatial: item %v..%v escapes node at %v half %v", lo, hi, n.center, n.half)
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	if count != len(t.owner) {
		return fmt.Errorf("spatial: %d items reachable but %d owned", count, len(t.owner))
	}
	return nil
}

func axisOf(v rl.Vector3, i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func addAxis(v *rl.Vector3, i int, d float32) {
	switch i {
	case 0:
		v.X += d
	case 1:
		v.Y += d
	default:
		v.Z += d
	}
}
