// Package telemetry collects simulation statistics and writes them as
// CSV experiment output.
package telemetry

import "encoding/json"

// Totals are lifetime event counts, persisted in the world file's
// stats_snapshot block so long runs survive save/load.
type Totals struct {
	Ticks           int `json:"ticks"`
	Births          int `json:"births"`
	Deaths          int `json:"deaths"`
	Mutations       int `json:"mutations"`
	Moves           int `json:"moves"`
	FoodConsumed    int `json:"food_consumed"`
	EnergyConsumed  int `json:"energy_consumed"`
	OrganismsEaten  int `json:"organisms_eaten"`
	FailedBirths    int `json:"failed_births"`
	FoodRegenerated int `json:"food_regenerated"`
}

// Collector accumulates event counts from the tick scheduler. It
// implements the world package's Recorder interface. Counters split
// into a rolling window (reset by Flush) and lifetime totals.
type Collector struct {
	window Totals
	totals Totals
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) RecordBirth() {
	c.window.Births++
	c.totals.Births++
}

func (c *Collector) RecordDeath() {
	c.window.Deaths++
	c.totals.Deaths++
}

func (c *Collector) RecordMutation() {
	c.window.Mutations++
	c.totals.Mutations++
}

func (c *Collector) RecordMove() {
	c.window.Moves++
	c.totals.Moves++
}

func (c *Collector) RecordFoodConsumed(value int) {
	c.window.FoodConsumed++
	c.totals.FoodConsumed++
	c.window.EnergyConsumed += value
	c.totals.EnergyConsumed += value
}

func (c *Collector) RecordOrganismEaten() {
	c.window.OrganismsEaten++
	c.totals.OrganismsEaten++
}

func (c *Collector) RecordReproductionFailed() {
	c.window.FailedBirths++
	c.totals.FailedBirths++
}

func (c *Collector) RecordFoodSpawned(count int) {
	c.window.FoodRegenerated += count
	c.totals.FoodRegenerated += count
}

// Totals returns lifetime counts.
func (c *Collector) Totals() Totals {
	return c.totals
}

// MarshalTotals serializes lifetime counts for the world file's
// stats_snapshot block.
func (c *Collector) MarshalTotals() ([]byte, error) {
	return json.Marshal(c.totals)
}

// RestoreTotals resumes lifetime counts from a loaded stats_snapshot
// block. Unknown or empty input leaves the collector fresh.
func (c *Collector) RestoreTotals(raw []byte) {
	if len(raw) == 0 {
		return
	}
	var t Totals
	if err := json.Unmarshal(raw, &t); err != nil {
		return
	}
	c.totals = t
}

// Flush aggregates the current window into a WindowStats record and
// resets the window counters. Population state (counts, energies,
// genome texts) is sampled from the caller's between-tick snapshot.
func (c *Collector) Flush(tick, organisms, food int, energies []float64) WindowStats {
	ws := WindowStats{
		Tick:            tick,
		Organisms:       organisms,
		Food:            food,
		Births:          c.window.Births,
		Deaths:          c.window.Deaths,
		Mutations:       c.window.Mutations,
		Moves:           c.window.Moves,
		FoodConsumed:    c.window.FoodConsumed,
		EnergyConsumed:  c.window.EnergyConsumed,
		OrganismsEaten:  c.window.OrganismsEaten,
		FailedBirths:    c.window.FailedBirths,
		FoodRegenerated: c.window.FoodRegenerated,
	}
	ws.EnergyMean, ws.EnergyStd, ws.EnergyP10, ws.EnergyP50, ws.EnergyP90 = ComputeEnergyStats(energies)

	c.window = Totals{}
	c.totals.Ticks = tick
	return ws
}
