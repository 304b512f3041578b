package world

import (
	"sort"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/systems"
)

// OrganismView is a read-only copy of one organism's state.
type OrganismView struct {
	ID       uint32
	ParentID uint32
	X, Y     int
	Genome   string
	Energy   int
	Age      int
	CanMove  bool
	CanEat   bool
	Color    string // empty when the genome carries no color tag
}

// FoodView is a read-only copy of one food item.
type FoodView struct {
	X, Y   int
	Energy int
}

// Snapshot is a full copy of world state for renderer and stats
// collaborators, valid until the next tick begins. Organisms are
// ordered by id, food and walls by position.
type Snapshot struct {
	Tick      int
	Width     int
	Height    int
	Organisms []OrganismView
	Food      []FoodView
	Walls     []components.Position
}

// Snapshot copies the current world state. Call only between ticks.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Tick:   w.tick,
		Width:  w.cfg.World.Width,
		Height: w.cfg.World.Height,
	}

	for _, id := range w.aliveIDs() {
		entity := w.byID[id]
		pos := w.posMap.Get(entity)
		org := w.orgMap.Get(entity)
		gen := w.genMap.Get(entity)
		color, _ := gen.Traits.Color()
		s.Organisms = append(s.Organisms, OrganismView{
			ID:       org.ID,
			ParentID: org.ParentID,
			X:        pos.X,
			Y:        pos.Y,
			Genome:   gen.Text,
			Energy:   org.Energy,
			Age:      org.Age,
			CanMove:  gen.Traits.CanMove(),
			CanEat:   gen.Traits.CanEat(),
			Color:    color,
		})
	}

	w.food.ForEach(func(p components.Position, item systems.FoodItem) {
		s.Food = append(s.Food, FoodView{X: p.X, Y: p.Y, Energy: item.Energy})
	})

	s.Walls = make([]components.Position, 0, len(w.walls))
	for p := range w.walls {
		s.Walls = append(s.Walls, p)
	}
	sortPositions(s.Walls)

	return s
}

// Energies extracts every organism's balance, for stats aggregation.
func (s Snapshot) Energies() []float64 {
	out := make([]float64, len(s.Organisms))
	for i, o := range s.Organisms {
		out[i] = float64(o.Energy)
	}
	return out
}

func sortPositions(ps []components.Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}
