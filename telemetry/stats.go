package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one tick window.
type WindowStats struct {
	Tick      int `csv:"tick"`
	Organisms int `csv:"organisms"`
	Food      int `csv:"food"`

	// Events during window
	Births          int `csv:"births"`
	Deaths          int `csv:"deaths"`
	Mutations       int `csv:"mutations"`
	Moves           int `csv:"moves"`
	FoodConsumed    int `csv:"food_consumed"`
	EnergyConsumed  int `csv:"energy_consumed"`
	OrganismsEaten  int `csv:"organisms_eaten"`
	FailedBirths    int `csv:"failed_births"`
	FoodRegenerated int `csv:"food_regenerated"`

	// Energy distribution sampled at window end
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
}

// ComputeEnergyStats calculates mean, standard deviation, and
// percentiles of organism energy balances. Empty input yields zeros.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// CensusEntry counts live carriers of one genome.
type CensusEntry struct {
	Genome string
	Count  int
}

// Census tallies genome texts, most common first; ties break
// alphabetically so output is stable.
func Census(genomes []string) []CensusEntry {
	counts := make(map[string]int, len(genomes))
	for _, g := range genomes {
		counts[g]++
	}

	out := make([]CensusEntry, 0, len(counts))
	for g, n := range counts {
		out = append(out, CensusEntry{Genome: g, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genome < out[j].Genome
	})
	return out
}
