// Package world owns the simulation state and the tick scheduler.
//
// The World is the only writer of the entity store, spatial index, and
// food field. All mutation funnels through its methods so the three
// stay mutually consistent; external readers observe state only through
// Snapshot, taken between ticks.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/genome"
	"github.com/pthm-cable/petri/systems"
)

// ErrSpawnRejected is reported when no legal position exists for a
// spawn, wall placement, or reproduction attempt. Soft failure: the
// attempt is skipped for that tick.
var ErrSpawnRejected = errors.New("spawn rejected")

// Recorder receives per-event notifications from the tick scheduler.
// The telemetry collector implements it; the zero recorder drops
// everything.
type Recorder interface {
	RecordBirth()
	RecordDeath()
	RecordMutation()
	RecordMove()
	RecordFoodConsumed(value int)
	RecordOrganismEaten()
	RecordReproductionFailed()
	RecordFoodSpawned(count int)
}

type nopRecorder struct{}

func (nopRecorder) RecordBirth()              {}
func (nopRecorder) RecordDeath()              {}
func (nopRecorder) RecordMutation()           {}
func (nopRecorder) RecordMove()               {}
func (nopRecorder) RecordFoodConsumed(int)    {}
func (nopRecorder) RecordOrganismEaten()      {}
func (nopRecorder) RecordReproductionFailed() {}
func (nopRecorder) RecordFoodSpawned(int)     {}

// World holds the complete simulation state.
type World struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	ecs    *ecs.World
	mapper *ecs.Map3[components.Position, components.Organism, components.Genotype]
	posMap *ecs.Map1[components.Position]
	orgMap *ecs.Map1[components.Organism]
	genMap *ecs.Map1[components.Genotype]

	index  *systems.Index
	food   *systems.FoodField
	ledger systems.Ledger
	walls  map[components.Position]struct{}

	// byID maps organism ids to live entities. Ids are monotonic, so
	// ascending id order is insertion order.
	byID   map[uint32]ecs.Entity
	nextID uint32
	tick   int

	rec Recorder

	// statsSnapshot is opaque collaborator state carried through
	// save/load; the core never interprets it.
	statsSnapshot []byte

	// scratch buffer for neighbor queries
	neighborBuf []systems.Occupant
}

// New creates an empty world with no walls, food, or organisms.
func New(cfg *config.Config, seed int64) *World {
	ew := ecs.NewWorld()
	index := systems.NewIndex(cfg.World.Width, cfg.World.Height, cfg.Spatial.BucketSize, cfg.Spatial.StackingLimit)

	return &World{
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,

		ecs: ew,
		mapper: ecs.NewMap3[
			components.Position,
			components.Organism,
			components.Genotype,
		](ew),
		posMap: ecs.NewMap1[components.Position](ew),
		orgMap: ecs.NewMap1[components.Organism](ew),
		genMap: ecs.NewMap1[components.Genotype](ew),

		index:  index,
		food:   systems.NewFoodField(cfg.Food, cfg.World.Width, cfg.World.Height, index),
		ledger: systems.NewLedger(cfg.Energy),
		walls:  make(map[components.Position]struct{}),

		byID:   make(map[uint32]ecs.Entity),
		nextID: 1,
		rec:    nopRecorder{},
	}
}

// Generate creates a world with the default environment: wall segments
// and noise ridges, three Gaussian food clusters, and the initial
// founder populations.
func Generate(cfg *config.Config, seed int64) *World {
	w := New(cfg, seed)
	width, height := cfg.World.Width, cfg.World.Height

	for _, p := range systems.GenerateWalls(cfg.Terrain, width, height, seed) {
		// Noise ridges may double segment cells; placement rejects those.
		_ = w.PlaceWall(p)
	}

	foodValue := w.ledger.FoodValue()
	w.food.SpawnCluster(components.Position{X: width / 5, Y: height / 5}, 50, 150, foodValue, w.rng)
	w.food.SpawnCluster(components.Position{X: width * 4 / 5, Y: height * 4 / 5}, 50, 150, foodValue, w.rng)
	w.food.SpawnCluster(components.Position{X: width / 2, Y: height / 2}, 100, 120, foodValue, w.rng)

	spread := cfg.Population.SpawnSpread
	spawnGroup := func(count int, center components.Position, genomeText string) {
		for i := 0; i < count; i++ {
			if _, err := w.SpawnNear(center, spread, genomeText); err != nil {
				slog.Warn("initial spawn failed", "genome", genomeText, "error", err)
			}
		}
	}
	spawnGroup(cfg.Population.Movers, components.Position{X: width / 10, Y: height / 10}, "[Cell][CanMove]")
	spawnGroup(cfg.Population.Sessiles, components.Position{X: width * 9 / 10, Y: height * 9 / 10}, "[Cell][Color:Blue]")
	spawnGroup(cfg.Population.Predators, components.Position{X: width / 2, Y: height / 2}, "[Cell][CanMove][CanEat]")

	return w
}

// SetRecorder attaches an event recorder. Pass nil to detach.
func (w *World) SetRecorder(r Recorder) {
	if r == nil {
		w.rec = nopRecorder{}
		return
	}
	w.rec = r
}

// TickCount returns the number of completed ticks.
func (w *World) TickCount() int {
	return w.tick
}

// Seed returns the RNG seed the world was created with.
func (w *World) Seed() int64 {
	return w.seed
}

// Config returns the configuration the world runs under.
func (w *World) Config() *config.Config {
	return w.cfg
}

// OrganismCount returns the number of live organisms.
func (w *World) OrganismCount() int {
	return len(w.byID)
}

// FoodCount returns the number of food items on the field.
func (w *World) FoodCount() int {
	return w.food.Count()
}

// SpawnOrganism creates an organism with the given genome at an exact
// position, bypassing tick-phase energy costs. World-setup primitive.
// Fails with a wrapped genome.ErrInvalidGenome for bad genome text and
// ErrSpawnRejected for illegal or stillborn placements.
func (w *World) SpawnOrganism(pos components.Position, genomeText string) (uint32, error) {
	return w.spawnAt(pos, genomeText, 0)
}

// SpawnNear places an organism at a random free cell within spread of
// center, retrying up to a fixed budget before giving up.
func (w *World) SpawnNear(center components.Position, spread int, genomeText string) (uint32, error) {
	// Validate once up front so a bad genome is not masked by
	// placement retries.
	if _, err := genome.Parse(genomeText); err != nil {
		return 0, err
	}

	const attempts = 100
	for i := 0; i < attempts; i++ {
		p := components.Position{
			X: clampInt(center.X+w.rng.Intn(2*spread+1)-spread, 0, w.cfg.World.Width-1),
			Y: clampInt(center.Y+w.rng.Intn(2*spread+1)-spread, 0, w.cfg.World.Height-1),
		}
		if w.index.Blocked(p) {
			continue
		}
		return w.spawnAt(p, genomeText, 0)
	}
	return 0, fmt.Errorf("%w: no free cell within %d of (%d,%d)", ErrSpawnRejected, spread, center.X, center.Y)
}

// spawnAt creates an organism, keeping the entity store and spatial
// index consistent as one logical operation.
func (w *World) spawnAt(pos components.Position, genomeText string, parentID uint32) (uint32, error) {
	g, err := genome.Parse(genomeText)
	if err != nil {
		return 0, err
	}

	energy := w.ledger.NewbornEnergy(g.Len())
	if energy <= 0 {
		return 0, fmt.Errorf("%w: stillborn, genome length %d exceeds starting energy", ErrSpawnRejected, g.Len())
	}

	id := w.nextID
	if err := w.index.Insert(systems.Occupant{Kind: systems.KindOrganism, ID: id}, pos); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSpawnRejected, err)
	}
	w.nextID++

	p := pos
	org := components.Organism{ID: id, ParentID: parentID, Energy: energy}
	gen := components.Genotype{Text: g.String(), Traits: g}
	entity := w.mapper.NewEntity(&p, &org, &gen)
	w.byID[id] = entity
	return id, nil
}

// PlaceWall marks a cell as permanently impassable. Fails if the cell
// is out of bounds or holds anything.
func (w *World) PlaceWall(pos components.Position) error {
	if _, ok := w.walls[pos]; ok {
		return fmt.Errorf("%w: wall already at (%d,%d)", ErrSpawnRejected, pos.X, pos.Y)
	}
	if len(w.index.At(pos)) > 0 {
		return fmt.Errorf("%w: (%d,%d) occupied", ErrSpawnRejected, pos.X, pos.Y)
	}
	if err := w.index.Insert(systems.Occupant{Kind: systems.KindWall}, pos); err != nil {
		return fmt.Errorf("%w: %v", ErrSpawnRejected, err)
	}
	w.walls[pos] = struct{}{}
	return nil
}

// removeOrganism deletes an organism from the store and index together.
func (w *World) removeOrganism(id uint32) components.Position {
	entity, ok := w.byID[id]
	if !ok {
		panic(fmt.Sprintf("world: remove of unknown organism %d", id))
	}
	pos := *w.posMap.Get(entity)
	w.index.Remove(systems.Occupant{Kind: systems.KindOrganism, ID: id}, pos)
	w.mapper.Remove(entity)
	delete(w.byID, id)
	return pos
}

// moveOrganism relocates an organism, index first so a stacking
// conflict leaves everything untouched.
func (w *World) moveOrganism(id uint32, entity ecs.Entity, to components.Position) error {
	pos := w.posMap.Get(entity)
	if err := w.index.Move(systems.Occupant{Kind: systems.KindOrganism, ID: id}, *pos, to); err != nil {
		return err
	}
	*pos = to
	return nil
}

// aliveIDs returns the ids of organisms alive right now, ascending.
func (w *World) aliveIDs() []uint32 {
	ids := make([]uint32, 0, len(w.byID))
	for id := range w.byID {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Validate cross-checks the entity store against the spatial index.
// Any mismatch is a core bug; tests assert this after every scenario.
func (w *World) Validate() error {
	for id, entity := range w.byID {
		pos := w.posMap.Get(entity)
		if pos == nil {
			return fmt.Errorf("organism %d has no position component", id)
		}
		found := false
		for _, occ := range w.index.At(*pos) {
			if occ.Kind == systems.KindOrganism && occ.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("organism %d at (%d,%d) missing from spatial index", id, pos.X, pos.Y)
		}
	}

	expected := len(w.byID) + w.food.Count() + len(w.walls)
	if got := w.index.Count(); got != expected {
		return fmt.Errorf("spatial index holds %d occupants, store holds %d", got, expected)
	}

	limit := w.cfg.Spatial.StackingLimit
	perCell := make(map[components.Position]int)
	for id, entity := range w.byID {
		p := *w.posMap.Get(entity)
		perCell[p]++
		if perCell[p] > limit {
			return fmt.Errorf("stacking limit exceeded at (%d,%d) by organism %d", p.X, p.Y, id)
		}
		if _, wall := w.walls[p]; wall {
			return fmt.Errorf("organism %d shares (%d,%d) with a wall", id, p.X, p.Y)
		}
	}
	return nil
}

func sortIDs(ids []uint32) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
