// Package carpet enumerates the cube placements of a cube-carpet fractal.
//
// A region of the generation plane is split into a 3x3 grid. The center cell
// always holds one cube; the eight outer cells are subdivided again while depth
// remains. Traversal uses an explicit work stack so the depth limit is enforced
// in one place and stack usage does not grow with depth.
package carpet

import (
	"iter"
)

// DefaultMaxDepth bounds traversal when no Generator is configured.
// Depth 7 produces 299593 cubes.
const DefaultMaxDepth = 7

// Region is a square area of the generation plane with the recursion depth
// still available to it.
type Region struct {
	X, Y  float64
	Size  float64
	Depth int
}

// Placement is the center and edge length of one cube.
type Placement struct {
	X, Y, Z float64
	Size    float64

	// Level is the zero-based subdivision level the cube was emitted at.
	Level int
}

// Generator produces placements with a depth ceiling.
type Generator struct {
	MaxDepth int
}

// NewGenerator returns a Generator clamping depth to maxDepth.
// A non-positive maxDepth falls back to DefaultMaxDepth.
func NewGenerator(maxDepth int) *Generator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Generator{MaxDepth: maxDepth}
}

// Generate yields the placements for the square at (x, y) with edge size,
// subdivided depth times. Depth is clamped to the generator's MaxDepth; depth
// 0 or less yields nothing.
func (g *Generator) Generate(x, y, size float64, depth int) iter.Seq[Placement] {
	return walk(Region{X: x, Y: y, Size: size, Depth: g.clamp(depth)})
}

// Count returns how many placements Generate yields for depth after clamping.
func (g *Generator) Count(depth int) int {
	return Count(g.clamp(depth))
}

func (g *Generator) clamp(depth int) int {
	maxDepth := g.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if depth > maxDepth {
		return maxDepth
	}
	if depth < 0 {
		return 0
	}
	return depth
}

// Generate is Generator.Generate with DefaultMaxDepth.
func Generate(x, y, size float64, depth int) iter.Seq[Placement] {
	g := Generator{MaxDepth: DefaultMaxDepth}
	return g.Generate(x, y, size, depth)
}

// Count returns the number of placements for a root region at depth:
// 1 + 8 + ... + 8^(depth-1). Only the deepest level contributes 8^(depth-1).
func Count(depth int) int {
	total, level := 0, 1
	for i := 0; i < depth; i++ {
		total += level
		level *= 8
	}
	return total
}

// Collect drains a placement sequence into a slice.
func Collect(seq iter.Seq[Placement]) []Placement {
	var out []Placement
	for p := range seq {
		out = append(out, p)
	}
	return out
}

// item is one entry of the work stack: either a region to expand or a
// placement ready to be yielded.
type item struct {
	region    Region
	level     int
	emit      bool
	placement Placement
}

// walk visits regions depth-first in grid order (column i, then row j), which
// is the order the recursive formulation draws them in.
func walk(root Region) iter.Seq[Placement] {
	return func(yield func(Placement) bool) {
		if root.Depth <= 0 {
			return
		}

		stack := []item{{region: root}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if top.emit {
				if !yield(top.placement) {
					return
				}
				continue
			}

			stack = expand(stack, top.region, top.level)
		}
	}
}

// expand pushes the nine cells of r in reverse visiting order.
func expand(stack []item, r Region, level int) []item {
	cell := r.Size / 3

	for i := 2; i >= 0; i-- {
		for j := 2; j >= 0; j-- {
			cx := r.X + float64(i)*cell
			cy := r.Y + float64(j)*cell

			if i == 1 && j == 1 {
				stack = append(stack, item{
					emit: true,
					placement: Placement{
						X:     cx + cell/2,
						Y:     cy + cell/2,
						Z:     cell / 2,
						Size:  cell,
						Level: level,
					},
				})
				continue
			}

			if r.Depth > 1 {
				stack = append(stack, item{
					region: Region{X: cx, Y: cy, Size: cell, Depth: r.Depth - 1},
					level:  level + 1,
				})
			}
		}
	}
	return stack
}
