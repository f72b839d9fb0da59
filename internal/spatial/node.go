package spatial

import (
	"dungeon3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is one cube of the tree. Branch nodes have 2^k children, k being
// the number of enabled axes. Items that straddle a child boundary stay on
// the branch.
type Node[T Item] struct {
	center   rl.Vector3
	half     float32
	volume   *shape.Volume
	parent   *Node[T]
	children []*Node[T]
	items    []T
}

func (n *Node[T]) Center() rl.Vector3     { return n.center }
func (n *Node[T]) HalfSize() float32      { return n.half }
func (n *Node[T]) Volume() *shape.Volume  { return n.volume }
func (n *Node[T]) Parent() *Node[T]       { return n.parent }
func (n *Node[T]) Children() []*Node[T]   { return n.children }
func (n *Node[T]) Items() []T             { return n.items }
func (n *Node[T]) IsLeaf() bool           { return len(n.children) == 0 }

func (n *Node[T]) contains(min, max rl.Vector3) bool {
	return n.volume.Contains(min, max)
}

func (n *Node[T]) removeItem(item T) bool {
	for i, it := range n.items {
		if it == item {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}

// empty reports whether the node and all its descendants hold no items.
func (n *Node[T]) empty() bool {
	if len(n.items) > 0 {
		return false
	}
	for _, c := range n.children {
		if !c.empty() {
			return false
		}
	}
	return true
}

func (n *Node[T]) depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}
