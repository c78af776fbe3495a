// Package localsort orders the structs or classes of a single package so that
// every type is emitted after the same-package types it depends on
// (supertypes and by-value members).
//
// Sorting is a depth-first post-order walk over items visited in ascending
// index order, which makes the result deterministic for identical input.
// Dependency cycles inside one package cannot be ordered; the walk uses the
// usual white/gray/black colouring and drops back edges, recording them in
// [Order.BackEdges] so a generator can emit forward declarations for them.
package localsort

import (
	"slices"
)

// Item is one orderable type: its object index and the indices of the
// same-package items it depends on. Dependencies on indices that are not
// part of the sorted set are ignored.
type Item struct {
	Index int
	Deps  []int
}

// Edge is a dependency dropped to break a cycle: From depends on To, but To
// is emitted after From.
type Edge struct {
	From, To int
}

// Order is a total order over a package's items.
// The zero value is an empty order.
type Order struct {
	items     []int
	pos       map[int]int
	backEdges []Edge
}

// Items returns the ordered item indices.
func (o Order) Items() []int { return slices.Clone(o.items) }

// Len returns the number of ordered items.
func (o Order) Len() int { return len(o.items) }

// Position returns the emission position of idx, or -1 if it is not ordered.
func (o Order) Position(idx int) int {
	if p, ok := o.pos[idx]; ok {
		return p
	}
	return -1
}

// BackEdges returns the dependencies dropped to break intra-package cycles.
func (o Order) BackEdges() []Edge { return slices.Clone(o.backEdges) }

// Sort computes the emission order for items.
func Sort(items []Item) Order {
	const (
		white = iota
		gray
		black
	)

	deps := make(map[int][]int, len(items))
	for _, it := range items {
		deps[it.Index] = it.Deps
	}
	indices := make([]int, 0, len(items))
	for idx := range deps {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	order := Order{pos: make(map[int]int, len(indices))}
	color := make(map[int]int, len(indices))

	var dfs func(idx int)
	dfs = func(idx int) {
		color[idx] = gray
		for _, d := range deps[idx] {
			if _, ok := deps[d]; !ok || d == idx {
				continue
			}
			switch color[d] {
			case white:
				dfs(d)
			case gray:
				order.backEdges = append(order.backEdges, Edge{From: idx, To: d})
			}
		}
		color[idx] = black
		order.pos[idx] = len(order.items)
		order.items = append(order.items, idx)
	}

	for _, idx := range indices {
		if color[idx] == white {
			dfs(idx)
		}
	}
	return order
}
