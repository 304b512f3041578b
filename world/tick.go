package world

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/genome"
	"github.com/pthm-cable/petri/systems"
)

// Tick advances the simulation by exactly one step. Phases run in
// fixed order over the set of organisms alive at tick start, in id
// order; offspring created mid-tick first act on the next tick.
//
// Per-entity soft failures are logged and never abort the tick. A
// panic inside a phase indicates a core bug; it is recovered into an
// error so the run loop can stop cleanly, and tests assert it never
// happens.
func (w *World) Tick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invariant violation in tick %d: %v", w.tick, r)
		}
	}()

	w.tick++
	ids := w.aliveIDs()

	for _, id := range ids {
		if entity, ok := w.byID[id]; ok {
			w.orgMap.Get(entity).Age++
		}
	}

	w.movementPhase(ids)
	w.feedingPhase(ids)
	w.drainPhase(ids)
	w.reproductionPhase(ids)
	w.deathSweep(ids)

	if w.tick%w.cfg.Food.RegenInterval == 0 {
		spawned := w.food.Regenerate(w.ledger.FoodValue(), w.rng)
		w.rec.RecordFoodSpawned(spawned)
	}
	return nil
}

// movementPhase steps each mobile organism once. The attempt is
// charged whenever at least one legal adjacent cell exists; with no
// legal move it is skipped for free.
func (w *World) movementPhase(ids []uint32) {
	for _, id := range ids {
		entity, ok := w.byID[id]
		if !ok {
			continue
		}
		gen := w.genMap.Get(entity)
		if !gen.Traits.CanMove() {
			continue
		}

		pos := *w.posMap.Get(entity)
		dirs := w.moveCandidates(id, pos, gen.Traits.CanEat())

		var legal []components.Position
		for _, d := range dirs {
			to := pos.Add(d)
			if w.index.InBounds(to) && !w.index.Blocked(to) {
				legal = append(legal, to)
			}
		}
		if len(legal) == 0 {
			continue
		}

		org := w.orgMap.Get(entity)
		org.Energy -= w.ledger.MoveCost()
		if err := w.moveOrganism(id, entity, legal[0]); err != nil {
			// Legality was just checked; a failure here is a bug.
			panic(fmt.Sprintf("move rejected after legality check: %v", err))
		}
		w.rec.RecordMove()
	}
}

// moveCandidates orders the cardinal steps for one organism. Hunters
// with a visible target prefer steps that close the distance; everyone
// else wanders in shuffled order.
func (w *World) moveCandidates(id uint32, pos components.Position, hunting bool) []components.Position {
	if hunting {
		if target, ok := w.nearestTarget(id, pos); ok {
			return stepsToward(pos, target)
		}
	}

	dirs := make([]components.Position, 0, 4)
	for _, i := range w.rng.Perm(4) {
		dirs = append(dirs, components.Adjacent4[i])
	}
	return dirs
}

// nearestTarget finds the closest food item or other organism within
// the vision radius. Ties break toward food, then the lower id, so
// contested targets resolve identically for a given seed.
func (w *World) nearestTarget(selfID uint32, pos components.Position) (components.Position, bool) {
	w.neighborBuf = w.index.Neighbors(w.neighborBuf[:0], pos, w.cfg.Behavior.VisionRadius)

	best := systems.Occupant{}
	bestDist := -1
	for _, occ := range w.neighborBuf {
		if occ.Kind == systems.KindWall {
			continue
		}
		if occ.Kind == systems.KindOrganism && occ.ID == selfID {
			continue
		}
		dx := occ.Pos.X - pos.X
		dy := occ.Pos.Y - pos.Y
		dist := dx*dx + dy*dy
		if bestDist < 0 || dist < bestDist || (dist == bestDist && better(occ, best)) {
			best = occ
			bestDist = dist
		}
	}
	if bestDist < 0 {
		return components.Position{}, false
	}
	return best.Pos, true
}

func better(a, b systems.Occupant) bool {
	if a.Kind != b.Kind {
		return a.Kind == systems.KindFood
	}
	return a.ID < b.ID
}

// stepsToward orders the cardinal directions by how much they close
// the distance to target, ties broken by fixed direction order.
func stepsToward(from, target components.Position) []components.Position {
	dirs := make([]components.Position, 4)
	copy(dirs, components.Adjacent4[:])

	distAfter := func(d components.Position) int {
		p := from.Add(d)
		dx := target.X - p.X
		dy := target.Y - p.Y
		return dx*dx + dy*dy
	}
	// Stable selection sort over 4 elements.
	for i := 0; i < 3; i++ {
		min := i
		for j := i + 1; j < 4; j++ {
			if distAfter(dirs[j]) < distAfter(dirs[min]) {
				min = j
			}
		}
		if min != i {
			d := dirs[min]
			copy(dirs[i+1:min+1], dirs[i:min])
			dirs[i] = d
		}
	}
	return dirs
}

// feedingPhase lets each eater consume at most one target: food on its
// own cell first, then adjacent food, then adjacent prey.
func (w *World) feedingPhase(ids []uint32) {
	for _, id := range ids {
		entity, ok := w.byID[id]
		if !ok {
			// Eaten earlier in this phase.
			continue
		}
		gen := w.genMap.Get(entity)
		if !gen.Traits.CanEat() {
			continue
		}

		org := w.orgMap.Get(entity)
		pos := *w.posMap.Get(entity)

		if value, ok := w.food.Consume(pos); ok {
			org.Energy += value
			w.rec.RecordFoodConsumed(value)
			continue
		}

		if w.eatAdjacentFood(org, pos) {
			continue
		}
		w.eatAdjacentPrey(org, pos)
	}
}

func (w *World) eatAdjacentFood(org *components.Organism, pos components.Position) bool {
	for _, d := range components.Adjacent8 {
		if value, ok := w.food.Consume(pos.Add(d)); ok {
			org.Energy += value
			w.rec.RecordFoodConsumed(value)
			return true
		}
	}
	return false
}

// eatAdjacentPrey consumes the first adjacent organism in scan order.
// The prey is removed outright; consumption leaves no death food.
func (w *World) eatAdjacentPrey(org *components.Organism, pos components.Position) {
	for _, d := range components.Adjacent8 {
		for _, occ := range w.index.At(pos.Add(d)) {
			if occ.Kind != systems.KindOrganism || occ.ID == org.ID {
				continue
			}
			org.Energy += w.ledger.PreyGain()
			w.removeOrganism(occ.ID)
			w.rec.RecordOrganismEaten()
			return
		}
	}
}

// drainPhase deducts upkeep from every survivor on the drain interval.
func (w *World) drainPhase(ids []uint32) {
	if !w.ledger.UpkeepDue(w.tick) {
		return
	}
	for _, id := range ids {
		entity, ok := w.byID[id]
		if !ok {
			continue
		}
		gen := w.genMap.Get(entity)
		w.orgMap.Get(entity).Energy -= w.ledger.Upkeep(gen.Traits.Len())
	}
}

// reproductionPhase spawns offspring into free adjacent cells. The
// offspring genome is a possibly-mutated copy of the parent's; the
// child is enqueued for the next tick by construction, since the phase
// set was fixed at tick start.
func (w *World) reproductionPhase(ids []uint32) {
	for _, id := range ids {
		entity, ok := w.byID[id]
		if !ok {
			continue
		}
		org := w.orgMap.Get(entity)
		if !w.ledger.CanReproduce(org.Energy) {
			continue
		}

		pos := *w.posMap.Get(entity)
		childPos, ok := w.freeAdjacent(pos)
		if !ok {
			w.rec.RecordReproductionFailed()
			continue
		}

		childText := w.genMap.Get(entity).Text
		mutated := false
		if w.rng.Float64() < w.cfg.Mutation.Rate {
			next, err := genome.Mutate(childText, w.rng)
			if err != nil {
				// The parent genome was validated at its own spawn;
				// reaching here means corruption.
				panic(fmt.Sprintf("parent genome invalid at reproduction: %v", err))
			}
			mutated = next != childText
			childText = next
		}

		if _, err := w.spawnAt(childPos, childText, id); err != nil {
			slog.Warn("reproduction failed", "parent", id, "genome", childText, "error", err)
			w.rec.RecordReproductionFailed()
			continue
		}

		org.Energy -= w.ledger.ReproductionCost()
		w.rec.RecordBirth()
		if mutated {
			w.rec.RecordMutation()
		}
	}
}

// freeAdjacent returns the first unblocked cardinal neighbor.
func (w *World) freeAdjacent(pos components.Position) (components.Position, bool) {
	for _, d := range components.Adjacent4 {
		p := pos.Add(d)
		if w.index.InBounds(p) && !w.index.Blocked(p) {
			return p, true
		}
	}
	return components.Position{}, false
}

// deathSweep removes organisms whose balance dropped to zero or below,
// converting each into a food item worth the death value. When the
// cell already holds food the deposit is rejected and logged; the
// energy leaves the system.
func (w *World) deathSweep(ids []uint32) {
	for _, id := range ids {
		entity, ok := w.byID[id]
		if !ok {
			continue
		}
		if w.orgMap.Get(entity).Energy > 0 {
			continue
		}

		pos := w.removeOrganism(id)
		w.rec.RecordDeath()
		if err := w.food.Spawn(pos, w.ledger.DeathDeposit()); err != nil {
			slog.Warn("death food rejected", "organism", id, "x", pos.X, "y", pos.Y, "error", err)
		}
	}
}
