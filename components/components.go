// Package components defines ECS components for simulation entities.
package components

import "github.com/pthm-cable/petri/genome"

// Position is a grid coordinate within world bounds.
type Position struct {
	X, Y int
}

// Adjacent4 lists the cardinal neighbor offsets in fixed order.
// Movement and reproduction scan these; the fixed order keeps contested
// cells deterministic for a given RNG sequence.
var Adjacent4 = [4]Position{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Adjacent8 lists the eight surrounding offsets in fixed scan order.
// Feeding adjacency uses the full neighborhood.
var Adjacent8 = [8]Position{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Add returns the position offset by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Organism holds identity, lineage, and the energy ledger balance.
// ParentID is a non-owning back-reference; the parent may be long dead.
type Organism struct {
	ID       uint32
	ParentID uint32 // 0 = founder
	Energy   int
	Age      int // ticks since spawn
}

// Genotype caches the parsed genome alongside its source text so ticks
// never re-parse strings. Replaced wholesale at reproduction time;
// never mutated in place.
type Genotype struct {
	Text   string
	Traits genome.Genome
}
