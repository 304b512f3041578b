package world

import (
	"reflect"
	"testing"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Width = 32
	cfg.World.Height = 32
	cfg.Terrain = config.TerrainConfig{}
	cfg.Mutation.Rate = 0
	return cfg
}

func organismByID(t *testing.T, w *World, id uint32) OrganismView {
	t.Helper()
	for _, o := range w.Snapshot().Organisms {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("organism %d not found", id)
	return OrganismView{}
}

func mustTick(t *testing.T, w *World) {
	t.Helper()
	if err := w.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("state invalid after tick %d: %v", w.TickCount(), err)
	}
}

func TestNewbornStartingEnergy(t *testing.T) {
	w := New(testConfig(), 1)
	id, err := w.SpawnOrganism(components.Position{X: 10, Y: 10}, "[Cell][CanMove][CanEat]")
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	o := organismByID(t, w, id)
	if o.Energy != 197 {
		t.Errorf("newborn energy = %d, want 197 (200 - genome length 3)", o.Energy)
	}
	if !o.CanMove || !o.CanEat {
		t.Errorf("traits lost: CanMove=%v CanEat=%v", o.CanMove, o.CanEat)
	}
}

func TestStillbornSpawnRejected(t *testing.T) {
	cfg := testConfig()
	cfg.Energy.Starting = 3
	w := New(cfg, 1)

	if _, err := w.SpawnOrganism(components.Position{X: 5, Y: 5}, "[Cell][CanMove][CanEat]"); err == nil {
		t.Fatal("stillborn spawn succeeded")
	}
	if w.OrganismCount() != 0 {
		t.Errorf("OrganismCount = %d after rejected spawn", w.OrganismCount())
	}
	if err := w.Validate(); err != nil {
		t.Errorf("state invalid after rejected spawn: %v", err)
	}
}

func TestHunterMovesOntoFoodAndEats(t *testing.T) {
	w := New(testConfig(), 1)
	id, err := w.SpawnOrganism(components.Position{X: 10, Y: 10}, "[Cell][CanMove][CanEat]")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.food.Spawn(components.Position{X: 11, Y: 10}, 25); err != nil {
		t.Fatal(err)
	}

	mustTick(t, w)

	o := organismByID(t, w, id)
	if o.X != 11 || o.Y != 10 {
		t.Errorf("hunter at (%d,%d), want (11,10)", o.X, o.Y)
	}
	// 197 starting, -1 move, +25 food.
	if o.Energy != 221 {
		t.Errorf("energy = %d, want 221", o.Energy)
	}
	if w.FoodCount() != 0 {
		t.Errorf("FoodCount = %d, want 0", w.FoodCount())
	}
}

func TestMoveCostOnlyWhenLegalMoveExists(t *testing.T) {
	cfg := testConfig()
	w := New(cfg, 1)

	center := components.Position{X: 10, Y: 10}
	for _, d := range components.Adjacent4 {
		if err := w.PlaceWall(center.Add(d)); err != nil {
			t.Fatal(err)
		}
	}
	id, err := w.SpawnOrganism(center, "[Cell][CanMove]")
	if err != nil {
		t.Fatal(err)
	}

	mustTick(t, w)

	o := organismByID(t, w, id)
	if o.X != center.X || o.Y != center.Y {
		t.Errorf("boxed-in organism moved to (%d,%d)", o.X, o.Y)
	}
	if o.Energy != 198 {
		t.Errorf("energy = %d, want 198 (no move charge without a legal move)", o.Energy)
	}
}

func TestMoveCostChargedOnWander(t *testing.T) {
	w := New(testConfig(), 1)
	start := components.Position{X: 10, Y: 10}
	id, err := w.SpawnOrganism(start, "[Cell][CanMove]")
	if err != nil {
		t.Fatal(err)
	}

	mustTick(t, w)

	o := organismByID(t, w, id)
	if o.Energy != 197 {
		t.Errorf("energy = %d, want 197 after one move", o.Energy)
	}
	dx, dy := o.X-start.X, o.Y-start.Y
	if dx*dx+dy*dy != 1 {
		t.Errorf("wander step took organism from %v to (%d,%d)", start, o.X, o.Y)
	}
}

func TestDrainDeductsGenomeLengthOnInterval(t *testing.T) {
	cfg := testConfig()
	cfg.World.Width = 1
	cfg.World.Height = 1
	w := New(cfg, 1)

	id, err := w.SpawnOrganism(components.Position{X: 0, Y: 0}, "[Cell][CanMove][CanEat]")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 29; i++ {
		mustTick(t, w)
	}
	if o := organismByID(t, w, id); o.Energy != 197 {
		t.Fatalf("energy = %d before drain, want 197", o.Energy)
	}

	mustTick(t, w)
	o := organismByID(t, w, id)
	if o.Energy != 194 {
		t.Errorf("energy = %d after drain tick, want 194 (197 - genome length 3)", o.Energy)
	}
	if o.Age != 30 {
		t.Errorf("age = %d, want 30", o.Age)
	}
}

func TestReproduction(t *testing.T) {
	cfg := testConfig()
	cfg.Energy.Starting = 260
	w := New(cfg, 1)

	parent, err := w.SpawnOrganism(components.Position{X: 5, Y: 5}, "[Cell]")
	if err != nil {
		t.Fatal(err)
	}

	mustTick(t, w)

	if w.OrganismCount() != 2 {
		t.Fatalf("OrganismCount = %d, want 2", w.OrganismCount())
	}
	p := organismByID(t, w, parent)
	// 259 newborn, -80 reproduction cost.
	if p.Energy != 179 {
		t.Errorf("parent energy = %d, want 179", p.Energy)
	}

	child := organismByID(t, w, parent+1)
	if child.ParentID != parent {
		t.Errorf("child ParentID = %d, want %d", child.ParentID, parent)
	}
	if child.Energy != 259 {
		t.Errorf("child energy = %d, want newborn 259", child.Energy)
	}
	if child.Genome != "[Cell]" {
		t.Errorf("child genome = %q, want parent copy with mutation disabled", child.Genome)
	}
	dx, dy := child.X-p.X, child.Y-p.Y
	if dx*dx+dy*dy != 1 {
		t.Errorf("child at (%d,%d) not adjacent to parent (%d,%d)", child.X, child.Y, p.X, p.Y)
	}
}

func TestReproductionFailsWithoutFreeCell(t *testing.T) {
	cfg := testConfig()
	cfg.Energy.Starting = 260
	w := New(cfg, 1)

	center := components.Position{X: 10, Y: 10}
	for _, d := range components.Adjacent4 {
		if err := w.PlaceWall(center.Add(d)); err != nil {
			t.Fatal(err)
		}
	}
	parent, err := w.SpawnOrganism(center, "[Cell]")
	if err != nil {
		t.Fatal(err)
	}

	mustTick(t, w)

	if w.OrganismCount() != 1 {
		t.Fatalf("OrganismCount = %d, want 1", w.OrganismCount())
	}
	if o := organismByID(t, w, parent); o.Energy != 259 {
		t.Errorf("parent energy = %d, want 259 (no cost on failed reproduction)", o.Energy)
	}
}

// Offspring spawned during a tick must not move, feed, or drain until
// the following tick.
func TestOffspringActsNextTick(t *testing.T) {
	cfg := testConfig()
	cfg.Energy.Starting = 260
	w := New(cfg, 1)

	parent, err := w.SpawnOrganism(components.Position{X: 16, Y: 16}, "[Cell][CanMove]")
	if err != nil {
		t.Fatal(err)
	}

	mustTick(t, w)

	if w.OrganismCount() != 2 {
		t.Fatalf("OrganismCount = %d, want 2", w.OrganismCount())
	}
	child := organismByID(t, w, parent+1)
	if child.Energy != 258 {
		t.Errorf("child energy = %d, want untouched newborn 258", child.Energy)
	}
	if child.Age != 0 {
		t.Errorf("child age = %d, want 0", child.Age)
	}
}

func TestDeathConvertsToFood(t *testing.T) {
	cfg := testConfig()
	cfg.Energy.Starting = 2
	cfg.Energy.DrainInterval = 1
	w := New(cfg, 1)

	p := components.Position{X: 7, Y: 7}
	if _, err := w.SpawnOrganism(p, "[Cell]"); err != nil {
		t.Fatal(err)
	}

	mustTick(t, w)

	if w.OrganismCount() != 0 {
		t.Fatalf("OrganismCount = %d, want 0", w.OrganismCount())
	}
	item, ok := w.food.At(p)
	if !ok {
		t.Fatal("no food at death position")
	}
	if item.Energy != cfg.Energy.DeathValue {
		t.Errorf("death food energy = %d, want %d", item.Energy, cfg.Energy.DeathValue)
	}
}

func TestDeathDepositRejectedOnExistingFood(t *testing.T) {
	cfg := testConfig()
	cfg.Energy.Starting = 2
	cfg.Energy.DrainInterval = 1
	w := New(cfg, 1)

	p := components.Position{X: 7, Y: 7}
	if err := w.food.Spawn(p, 7); err != nil {
		t.Fatal(err)
	}
	// No CanEat trait, so the food underneath survives until death.
	if _, err := w.SpawnOrganism(p, "[Cell]"); err != nil {
		t.Fatal(err)
	}

	mustTick(t, w)

	if w.OrganismCount() != 0 {
		t.Fatalf("OrganismCount = %d, want 0", w.OrganismCount())
	}
	if w.FoodCount() != 1 {
		t.Fatalf("FoodCount = %d, want the pre-existing item only", w.FoodCount())
	}
	if item, _ := w.food.At(p); item.Energy != 7 {
		t.Errorf("existing food energy = %d, want untouched 7", item.Energy)
	}
}

func TestPredatorEatsAdjacentPrey(t *testing.T) {
	w := New(testConfig(), 1)
	hunter, err := w.SpawnOrganism(components.Position{X: 10, Y: 10}, "[Cell][CanMove][CanEat]")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.SpawnOrganism(components.Position{X: 11, Y: 10}, "[Cell]"); err != nil {
		t.Fatal(err)
	}

	mustTick(t, w)

	if w.OrganismCount() != 1 {
		t.Fatalf("OrganismCount = %d, want 1 after predation", w.OrganismCount())
	}
	o := organismByID(t, w, hunter)
	// 197 starting, -1 move, +50 prey.
	if o.Energy != 246 {
		t.Errorf("hunter energy = %d, want 246", o.Energy)
	}
	if w.FoodCount() != 0 {
		t.Errorf("FoodCount = %d, eaten prey must leave no food", w.FoodCount())
	}
}

func TestFoodRegeneratesOnInterval(t *testing.T) {
	cfg := testConfig()
	cfg.Food.RegenInterval = 5
	cfg.Food.RegenBaseChance = 1.0
	cfg.Food.RegenMaxChance = 1.0
	w := New(cfg, 1)

	if err := w.food.Spawn(components.Position{X: 16, Y: 16}, 25); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		mustTick(t, w)
	}
	if w.FoodCount() != 1 {
		t.Fatalf("FoodCount = %d before regen tick, want 1", w.FoodCount())
	}

	mustTick(t, w)
	if w.FoodCount() != 9 {
		t.Errorf("FoodCount = %d after regen tick, want 9", w.FoodCount())
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width = 128
	cfg.World.Height = 128
	cfg.Terrain.NoiseWalls = false
	cfg.Terrain.Segments = []config.WallSegment{{X: 20, Y: 30, Length: 30}}

	a := Generate(cfg, 42)
	b := Generate(cfg, 42)
	for i := 0; i < 60; i++ {
		mustTick(t, a)
		mustTick(t, b)
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	if !reflect.DeepEqual(sa, sb) {
		t.Error("same seed diverged after 60 ticks")
	}
	if len(sa.Organisms) == 0 {
		t.Error("population died out in 60 ticks")
	}
}

func TestGeneratePlacesEnvironment(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width = 256
	cfg.World.Height = 256
	cfg.Terrain.NoiseWalls = false
	cfg.Terrain.Segments = []config.WallSegment{{X: 40, Y: 60, Length: 50}}

	w := Generate(cfg, 7)
	if err := w.Validate(); err != nil {
		t.Fatalf("generated world invalid: %v", err)
	}

	s := w.Snapshot()
	if len(s.Walls) != 50 {
		t.Errorf("wall count = %d, want 50", len(s.Walls))
	}
	want := cfg.Population.Movers + cfg.Population.Sessiles + cfg.Population.Predators
	if len(s.Organisms) != want {
		t.Errorf("organism count = %d, want %d", len(s.Organisms), want)
	}
	if w.FoodCount() == 0 {
		t.Error("generated world has no food")
	}
}
