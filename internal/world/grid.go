package world

import (
	"math"

	"github.com/burrowstrike/core/internal/core/ecs"
	"github.com/burrowstrike/core/internal/geom"
)

// Grid is a uniform spatial hash over world positions. Queries return
// candidates from every cell the query circle touches; callers do the exact
// distance filtering.
// Accessed only from the game loop goroutine. No locks.
type Grid struct {
	cellSize float64
	cells    map[cellKey]map[ecs.EntityID]struct{}
}

type cellKey struct {
	cx int32
	cy int32
}

func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 4
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
	}
}

func (g *Grid) key(p geom.Vec) cellKey {
	return cellKey{
		cx: cellCoord(p.X / g.cellSize),
		cy: cellCoord(p.Y / g.cellSize),
	}
}

// cellCoord floors v and clamps it into the int32 range so far-off
// positions land in the edge cells instead of wrapping.
func cellCoord(v float64) int32 {
	f := math.Floor(v)
	switch {
	case math.IsNaN(f):
		return 0
	case f <= math.MinInt32:
		return math.MinInt32
	case f >= math.MaxInt32:
		return math.MaxInt32
	}
	return int32(f)
}

// Add places an entity into the grid.
func (g *Grid) Add(id ecs.EntityID, p geom.Vec) {
	k := g.key(p)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
}

// Remove takes an entity out of the grid.
func (g *Grid) Remove(id ecs.EntityID, p geom.Vec) {
	k := g.key(p)
	cell := g.cells[k]
	if cell == nil {
		return
	}
	delete(cell, id)
	if len(cell) == 0 {
		delete(g.cells, k)
	}
}

// Move updates an entity's cell when its position changes.
func (g *Grid) Move(id ecs.EntityID, from, to geom.Vec) {
	if g.key(from) == g.key(to) {
		return
	}
	g.Remove(id, from)
	g.Add(id, to)
}

// Candidates appends to buf every entity in a cell overlapping the square
// around p with half-size radius. When the square covers more cells than are
// occupied, the occupied cells are scanned instead.
func (g *Grid) Candidates(p geom.Vec, radius float64, buf []ecs.EntityID) []ecs.EntityID {
	buf = buf[:0]
	if radius < 0 || math.IsNaN(radius) {
		return buf
	}
	lo := g.key(geom.V(p.X-radius, p.Y-radius))
	hi := g.key(geom.V(p.X+radius, p.Y+radius))
	w := int64(hi.cx) - int64(lo.cx) + 1
	h := int64(hi.cy) - int64(lo.cy) + 1
	if w > int64(len(g.cells)) || h > int64(len(g.cells)) || w*h > int64(len(g.cells)) {
		for k, cell := range g.cells {
			if k.cx < lo.cx || k.cx > hi.cx || k.cy < lo.cy || k.cy > hi.cy {
				continue
			}
			for id := range cell {
				buf = append(buf, id)
			}
		}
		return buf
	}
	for cx := int64(lo.cx); cx <= int64(hi.cx); cx++ {
		for cy := int64(lo.cy); cy <= int64(hi.cy); cy++ {
			for id := range g.cells[cellKey{cx: int32(cx), cy: int32(cy)}] {
				buf = append(buf, id)
			}
		}
	}
	return buf
}
