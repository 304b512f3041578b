package systems

import "github.com/pthm-cable/petri/config"

// Ledger holds the pure energy bookkeeping rules. It never mutates
// organisms itself; the tick scheduler applies what it reports.
type Ledger struct {
	cfg config.EnergyConfig
}

// NewLedger creates a ledger from configured energy economics.
func NewLedger(cfg config.EnergyConfig) Ledger {
	return Ledger{cfg: cfg}
}

// NewbornEnergy is the starting balance for a fresh organism. A long
// genome can push this to zero or below; spawn must treat that as a
// stillbirth and skip the organism.
func (l Ledger) NewbornEnergy(genomeLen int) int {
	return l.cfg.Starting - genomeLen
}

// UpkeepDue reports whether the drain phase applies this tick.
func (l Ledger) UpkeepDue(tick int) bool {
	return tick%l.cfg.DrainInterval == 0
}

// Upkeep is the per-drain deduction: one unit per genome token.
func (l Ledger) Upkeep(genomeLen int) int {
	return genomeLen
}

// MoveCost is charged whenever a legal adjacent cell exists, whether or
// not the preferred destination is taken.
func (l Ledger) MoveCost() int {
	return l.cfg.MoveCost
}

// FoodValue is the energy assigned to newly spawned field food.
func (l Ledger) FoodValue() int {
	return l.cfg.FoodValue
}

// PreyGain is the fixed gain for consuming another organism.
func (l Ledger) PreyGain() int {
	return l.cfg.PreyValue
}

// CanReproduce reports whether the balance meets the threshold.
func (l Ledger) CanReproduce(energy int) bool {
	return energy >= l.cfg.ReproductionThreshold
}

// ReproductionCost is deducted from the parent on successful
// reproduction. The child's ledger is independent: it starts at
// NewbornEnergy of its own genome, not a split of the parent's.
func (l Ledger) ReproductionCost() int {
	return l.cfg.ReproductionCost
}

// DeathDeposit is the energy of the food item left where an organism
// starved.
func (l Ledger) DeathDeposit() int {
	return l.cfg.DeathValue
}
