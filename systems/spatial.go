// Package systems provides the spatial index, food field, energy
// ledger, and terrain generation used by the world tick scheduler.
package systems

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/petri/components"
)

// ErrStacked is reported when an insert or move would exceed the
// stacking limit or land on a wall.
var ErrStacked = errors.New("position at stacking limit")

// ErrOutOfBounds is reported for positions outside the world.
var ErrOutOfBounds = errors.New("position out of bounds")

// Kind identifies what a spatial occupant is.
type Kind uint8

const (
	KindOrganism Kind = iota
	KindFood
	KindWall
)

// Occupant is one indexed entity at a grid position. Organisms and food
// carry their store ids; walls are anonymous.
type Occupant struct {
	Kind Kind
	ID   uint32
	Pos  components.Position
}

// Index is a uniform bucket grid over the world. Bucket membership is
// updated synchronously with every position change so that an
// occupant's bucket always matches its true position.
//
// Walls and organisms block; food does not. A cell is full when its
// blocking occupants reach the stacking limit, and permanently blocked
// once it holds a wall.
type Index struct {
	bucketSize    int
	cols, rows    int
	width, height int
	stackLimit    int
	buckets       [][]Occupant
}

// NewIndex creates an index covering a width x height world with the
// given bucket edge size and per-cell stacking limit.
func NewIndex(width, height, bucketSize, stackLimit int) *Index {
	cols := (width + bucketSize - 1) / bucketSize
	rows := (height + bucketSize - 1) / bucketSize

	return &Index{
		bucketSize: bucketSize,
		cols:       cols,
		rows:       rows,
		width:      width,
		height:     height,
		stackLimit: stackLimit,
		buckets:    make([][]Occupant, cols*rows),
	}
}

// InBounds reports whether p lies inside the world.
func (ix *Index) InBounds(p components.Position) bool {
	return p.X >= 0 && p.X < ix.width && p.Y >= 0 && p.Y < ix.height
}

func (ix *Index) bucketIndex(p components.Position) int {
	return (p.Y/ix.bucketSize)*ix.cols + p.X/ix.bucketSize
}

// Insert adds an occupant at p. Blocking occupants (organisms, walls)
// are rejected with ErrStacked when the cell is already full or walled;
// food is rejected only by walls. Out-of-bounds positions always fail.
func (ix *Index) Insert(o Occupant, p components.Position) error {
	if !ix.InBounds(p) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, p.X, p.Y)
	}
	if o.Kind == KindWall || o.Kind == KindOrganism {
		if ix.Blocked(p) {
			return fmt.Errorf("%w: (%d,%d)", ErrStacked, p.X, p.Y)
		}
	} else if ix.HasWall(p) {
		return fmt.Errorf("%w: wall at (%d,%d)", ErrStacked, p.X, p.Y)
	}

	o.Pos = p
	b := ix.bucketIndex(p)
	ix.buckets[b] = append(ix.buckets[b], o)
	return nil
}

// Remove deletes the occupant matching kind and id at p. Removing an
// absent occupant is an invariant violation and panics; the store and
// index are mutated as one logical operation and must never disagree.
func (ix *Index) Remove(o Occupant, p components.Position) {
	b := ix.bucketIndex(p)
	bucket := ix.buckets[b]
	for i, occ := range bucket {
		if occ.Kind == o.Kind && occ.ID == o.ID && occ.Pos == p {
			bucket[i] = bucket[len(bucket)-1]
			ix.buckets[b] = bucket[:len(bucket)-1]
			return
		}
	}
	panic(fmt.Sprintf("spatial: remove of absent occupant kind=%d id=%d at (%d,%d)", o.Kind, o.ID, p.X, p.Y))
}

// Move relocates an occupant from one cell to another, enforcing the
// stacking limit at the destination. On failure the occupant stays put.
func (ix *Index) Move(o Occupant, from, to components.Position) error {
	if !ix.InBounds(to) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, to.X, to.Y)
	}
	if ix.Blocked(to) {
		return fmt.Errorf("%w: (%d,%d)", ErrStacked, to.X, to.Y)
	}
	ix.Remove(o, from)
	o.Pos = to
	b := ix.bucketIndex(to)
	ix.buckets[b] = append(ix.buckets[b], o)
	return nil
}

// At returns the occupants of a single cell.
func (ix *Index) At(p components.Position) []Occupant {
	if !ix.InBounds(p) {
		return nil
	}
	var out []Occupant
	for _, occ := range ix.buckets[ix.bucketIndex(p)] {
		if occ.Pos == p {
			out = append(out, occ)
		}
	}
	return out
}

// Blocked reports whether a cell rejects further blocking occupants:
// it holds a wall, or organisms up to the stacking limit.
func (ix *Index) Blocked(p components.Position) bool {
	if !ix.InBounds(p) {
		return true
	}
	blocking := 0
	for _, occ := range ix.buckets[ix.bucketIndex(p)] {
		if occ.Pos != p {
			continue
		}
		switch occ.Kind {
		case KindWall:
			return true
		case KindOrganism:
			blocking++
		}
	}
	return blocking >= ix.stackLimit
}

// HasWall reports whether a cell holds a wall.
func (ix *Index) HasWall(p components.Position) bool {
	if !ix.InBounds(p) {
		return false
	}
	for _, occ := range ix.buckets[ix.bucketIndex(p)] {
		if occ.Pos == p && occ.Kind == KindWall {
			return true
		}
	}
	return false
}

// Neighbors appends all occupants within Chebyshev distance radius of
// p (excluding p itself) to dst and returns the updated slice. Only
// buckets overlapping the query square are scanned. Reuse dst across
// calls to avoid allocations.
func (ix *Index) Neighbors(dst []Occupant, p components.Position, radius int) []Occupant {
	minCol := clamp((p.X-radius)/ix.bucketSize, 0, ix.cols-1)
	maxCol := clamp((p.X+radius)/ix.bucketSize, 0, ix.cols-1)
	minRow := clamp((p.Y-radius)/ix.bucketSize, 0, ix.rows-1)
	maxRow := clamp((p.Y+radius)/ix.bucketSize, 0, ix.rows-1)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, occ := range ix.buckets[row*ix.cols+col] {
				if occ.Pos == p {
					continue
				}
				dx := occ.Pos.X - p.X
				dy := occ.Pos.Y - p.Y
				if dx >= -radius && dx <= radius && dy >= -radius && dy <= radius {
					dst = append(dst, occ)
				}
			}
		}
	}
	return dst
}

// Count returns the total number of indexed occupants. Used by
// invariant checks.
func (ix *Index) Count() int {
	n := 0
	for _, b := range ix.buckets {
		n += len(b)
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
