package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/genome"
	"github.com/pthm-cable/petri/systems"
)

// ErrCorruptWorldFile is reported when a world file fails to parse or
// violates a placement invariant. The caller decides whether to abort
// or fall back to a freshly generated world.
var ErrCorruptWorldFile = errors.New("corrupt world file")

// worldFile is the persisted JSON schema. Food is keyed "x,y". The
// stats_snapshot block belongs to the stats collaborator and is
// carried through save/load opaquely.
type worldFile struct {
	Width     int                   `json:"width"`
	Height    int                   `json:"height"`
	Organisms []organismRecord      `json:"organisms"`
	Food      map[string]foodRecord `json:"food"`
	Walls     []wallRecord          `json:"walls"`
	Stats     json.RawMessage       `json:"stats_snapshot,omitempty"`
}

type organismRecord struct {
	ID     uint32 `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Genome string `json:"genome"`
	Energy int    `json:"energy"`
	Age    int    `json:"age"`
}

type foodRecord struct {
	Energy int `json:"energy"`
}

type wallRecord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SetStatsSnapshot stores the stats collaborator's serialized state so
// Save can embed it. The core never reads it.
func (w *World) SetStatsSnapshot(raw []byte) {
	w.statsSnapshot = raw
}

// StatsSnapshot returns the stats block carried by the loaded world
// file, or nil.
func (w *World) StatsSnapshot() []byte {
	return w.statsSnapshot
}

// Save writes the world as JSON. State written is exactly the state a
// later Load reconstructs: organism ids, positions, genomes, energies,
// ages, food, and walls round-trip bit-identically.
func (w *World) Save(out io.Writer) error {
	s := w.Snapshot()

	file := worldFile{
		Width:  s.Width,
		Height: s.Height,
		Food:   make(map[string]foodRecord, len(s.Food)),
		Stats:  w.statsSnapshot,
	}
	for _, o := range s.Organisms {
		file.Organisms = append(file.Organisms, organismRecord{
			ID: o.ID, X: o.X, Y: o.Y, Genome: o.Genome, Energy: o.Energy, Age: o.Age,
		})
	}
	for _, f := range s.Food {
		file.Food[posKey(f.X, f.Y)] = foodRecord{Energy: f.Energy}
	}
	for _, p := range s.Walls {
		file.Walls = append(file.Walls, wallRecord{X: p.X, Y: p.Y})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("saving world: %w", err)
	}
	return nil
}

// Load reconstructs a world from a saved file. World dimensions come
// from the file; all other parameters come from cfg. Every placement
// is re-validated against the same invariants live spawning enforces,
// so a loaded world's spatial index matches its save-time state.
func Load(in io.Reader, cfg *config.Config, seed int64) (*World, error) {
	var file worldFile
	dec := json.NewDecoder(in)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptWorldFile, err)
	}
	if file.Width <= 0 || file.Height <= 0 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrCorruptWorldFile, file.Width, file.Height)
	}

	// Run the loaded world under the file's dimensions.
	worldCfg := *cfg
	worldCfg.World.Width = file.Width
	worldCfg.World.Height = file.Height

	w := New(&worldCfg, seed)
	w.statsSnapshot = file.Stats

	for _, rec := range file.Walls {
		if err := w.PlaceWall(components.Position{X: rec.X, Y: rec.Y}); err != nil {
			return nil, fmt.Errorf("%w: wall at (%d,%d): %v", ErrCorruptWorldFile, rec.X, rec.Y, err)
		}
	}

	for key, rec := range file.Food {
		p, err := parsePosKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptWorldFile, err)
		}
		if err := w.foodSpawnLoaded(p, rec.Energy); err != nil {
			return nil, fmt.Errorf("%w: food at %s: %v", ErrCorruptWorldFile, key, err)
		}
	}

	for _, rec := range file.Organisms {
		if err := w.restoreOrganism(rec); err != nil {
			return nil, fmt.Errorf("%w: organism %d: %v", ErrCorruptWorldFile, rec.ID, err)
		}
	}
	return w, nil
}

func (w *World) foodSpawnLoaded(p components.Position, energy int) error {
	if energy <= 0 {
		return fmt.Errorf("non-positive food energy %d", energy)
	}
	return w.food.Spawn(p, energy)
}

// restoreOrganism recreates a saved organism exactly: its id, energy,
// and age are taken from the record rather than recomputed. Lineage is
// runtime tracking only and is not persisted; restored organisms are
// founders.
func (w *World) restoreOrganism(rec organismRecord) error {
	if rec.ID == 0 {
		return fmt.Errorf("organism id must be positive")
	}
	if _, ok := w.byID[rec.ID]; ok {
		return fmt.Errorf("duplicate organism id")
	}
	g, err := genome.Parse(rec.Genome)
	if err != nil {
		return err
	}

	pos := components.Position{X: rec.X, Y: rec.Y}
	if err := w.index.Insert(systems.Occupant{Kind: systems.KindOrganism, ID: rec.ID}, pos); err != nil {
		return err
	}

	org := components.Organism{ID: rec.ID, Energy: rec.Energy, Age: rec.Age}
	gen := components.Genotype{Text: g.String(), Traits: g}
	entity := w.mapper.NewEntity(&pos, &org, &gen)
	w.byID[rec.ID] = entity
	if rec.ID >= w.nextID {
		w.nextID = rec.ID + 1
	}
	return nil
}

func posKey(x, y int) string {
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}

func parsePosKey(key string) (components.Position, error) {
	xs, ys, ok := strings.Cut(key, ",")
	if !ok {
		return components.Position{}, fmt.Errorf("bad food key %q", key)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return components.Position{}, fmt.Errorf("bad food key %q", key)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return components.Position{}, fmt.Errorf("bad food key %q", key)
	}
	return components.Position{X: x, Y: y}, nil
}
