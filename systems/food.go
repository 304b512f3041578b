package systems

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
)

// FoodItem is one food grid entry.
type FoodItem struct {
	ID     uint32
	Energy int
}

// FoodField is a grid of food items, at most one per cell. Every
// mutation updates the shared spatial index in the same operation so
// food stays queryable by Neighbors.
type FoodField struct {
	cfg    config.FoodConfig
	width  int
	height int
	index  *Index
	items  map[components.Position]FoodItem
	nextID uint32
}

// NewFoodField creates an empty food field backed by the given index.
func NewFoodField(cfg config.FoodConfig, width, height int, index *Index) *FoodField {
	return &FoodField{
		cfg:    cfg,
		width:  width,
		height: height,
		index:  index,
		items:  make(map[components.Position]FoodItem),
		nextID: 1,
	}
}

// Spawn places one food item at p. Fails on out-of-bounds cells, walls,
// cells already holding food, and cells occupied by an organism.
func (f *FoodField) Spawn(p components.Position, energy int) error {
	if _, ok := f.items[p]; ok {
		return fmt.Errorf("%w: food at (%d,%d)", ErrStacked, p.X, p.Y)
	}
	for _, occ := range f.index.At(p) {
		if occ.Kind == KindOrganism || occ.Kind == KindWall {
			return fmt.Errorf("%w: (%d,%d) occupied", ErrStacked, p.X, p.Y)
		}
	}

	item := FoodItem{ID: f.nextID, Energy: energy}
	if err := f.index.Insert(Occupant{Kind: KindFood, ID: item.ID}, p); err != nil {
		return err
	}
	f.nextID++
	f.items[p] = item
	return nil
}

// SpawnCluster places up to count food items with Gaussian offsets
// around center. Each item gets a bounded number of placement attempts;
// positions outside bounds or already occupied are re-sampled, and the
// item is dropped when the budget runs out. Returns the placed count.
func (f *FoodField) SpawnCluster(center components.Position, spread float64, count, energy int, rng *rand.Rand) int {
	placed := 0
	for i := 0; i < count; i++ {
		for attempt := 0; attempt < f.cfg.ClusterRetries; attempt++ {
			p := components.Position{
				X: center.X + int(math.Round(rng.NormFloat64()*spread)),
				Y: center.Y + int(math.Round(rng.NormFloat64()*spread)),
			}
			if !f.index.InBounds(p) {
				continue
			}
			if err := f.Spawn(p, energy); err == nil {
				placed++
				break
			}
		}
	}
	return placed
}

// Regenerate runs one Conway-style regeneration pass and returns the
// number of items spawned. Candidate cells are the empty neighbors of
// existing food; each spawns with probability base chance x food
// neighbor count, capped at the configured maximum. An empty field has
// no candidates and never regenerates.
func (f *FoodField) Regenerate(energy int, rng *rand.Rand) int {
	// Map iteration order is not stable; walk food positions sorted so
	// the same seed always yields the same field. The whole pass is
	// evaluated against the pre-pass state: food spawned this pass does
	// not raise its neighbors' counts.
	positions := f.sortedPositions()
	existing := make(map[components.Position]bool, len(positions))
	for _, p := range positions {
		existing[p] = true
	}

	seen := make(map[components.Position]bool)
	var toSpawn []components.Position
	for _, p := range positions {
		for _, d := range components.Adjacent8 {
			c := p.Add(d)
			if seen[c] || existing[c] || !f.index.InBounds(c) {
				continue
			}
			seen[c] = true

			neighbors := 0
			for _, dd := range components.Adjacent8 {
				if existing[c.Add(dd)] {
					neighbors++
				}
			}
			chance := f.cfg.RegenBaseChance * float64(neighbors)
			if chance > f.cfg.RegenMaxChance {
				chance = f.cfg.RegenMaxChance
			}
			if rng.Float64() < chance {
				toSpawn = append(toSpawn, c)
			}
		}
	}

	spawned := 0
	for _, c := range toSpawn {
		// Spawn still rejects walls and organism-occupied cells.
		if err := f.Spawn(c, energy); err == nil {
			spawned++
		}
	}
	return spawned
}

// Consume atomically removes the food item at p and returns its energy
// value. The second return is false when no food is present.
func (f *FoodField) Consume(p components.Position) (int, bool) {
	item, ok := f.items[p]
	if !ok {
		return 0, false
	}
	delete(f.items, p)
	f.index.Remove(Occupant{Kind: KindFood, ID: item.ID}, p)
	return item.Energy, true
}

// At returns the food item at p, if any.
func (f *FoodField) At(p components.Position) (FoodItem, bool) {
	item, ok := f.items[p]
	return item, ok
}

// Count returns the number of food items on the field.
func (f *FoodField) Count() int {
	return len(f.items)
}

// ForEach visits every food item in position order.
func (f *FoodField) ForEach(fn func(p components.Position, item FoodItem)) {
	for _, p := range f.sortedPositions() {
		fn(p, f.items[p])
	}
}

func (f *FoodField) sortedPositions() []components.Position {
	positions := make([]components.Position, 0, len(f.items))
	for p := range f.items {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})
	return positions
}
