package systems

import (
	"testing"

	"github.com/pthm-cable/petri/config"
)

func testEnergyConfig() config.EnergyConfig {
	return config.EnergyConfig{
		Starting:              200,
		MoveCost:              1,
		DrainInterval:         30,
		ReproductionThreshold: 250,
		ReproductionCost:      80,
		FoodValue:             25,
		DeathValue:            15,
		PreyValue:             50,
	}
}

func TestNewbornEnergy(t *testing.T) {
	l := NewLedger(testEnergyConfig())
	tests := []struct {
		genomeLen int
		want      int
	}{
		{1, 199},
		{3, 197},
		{200, 0},
		{250, -50},
	}
	for _, tt := range tests {
		if got := l.NewbornEnergy(tt.genomeLen); got != tt.want {
			t.Errorf("NewbornEnergy(%d) = %d, want %d", tt.genomeLen, got, tt.want)
		}
	}
}

func TestUpkeepDue(t *testing.T) {
	l := NewLedger(testEnergyConfig())
	due := []int{30, 60, 90}
	notDue := []int{1, 29, 31, 59}

	for _, tick := range due {
		if !l.UpkeepDue(tick) {
			t.Errorf("UpkeepDue(%d) = false, want true", tick)
		}
	}
	for _, tick := range notDue {
		if l.UpkeepDue(tick) {
			t.Errorf("UpkeepDue(%d) = true, want false", tick)
		}
	}
}

func TestUpkeepScalesWithGenomeLength(t *testing.T) {
	l := NewLedger(testEnergyConfig())
	for _, n := range []int{1, 3, 7} {
		if got := l.Upkeep(n); got != n {
			t.Errorf("Upkeep(%d) = %d, want %d", n, got, n)
		}
	}
}

func TestCanReproduce(t *testing.T) {
	l := NewLedger(testEnergyConfig())
	tests := []struct {
		energy int
		want   bool
	}{
		{249, false},
		{250, true},
		{251, true},
		{0, false},
	}
	for _, tt := range tests {
		if got := l.CanReproduce(tt.energy); got != tt.want {
			t.Errorf("CanReproduce(%d) = %v, want %v", tt.energy, got, tt.want)
		}
	}
}

func TestLedgerFixedValues(t *testing.T) {
	l := NewLedger(testEnergyConfig())
	if l.MoveCost() != 1 {
		t.Errorf("MoveCost = %d", l.MoveCost())
	}
	if l.FoodValue() != 25 {
		t.Errorf("FoodValue = %d", l.FoodValue())
	}
	if l.PreyGain() != 50 {
		t.Errorf("PreyGain = %d", l.PreyGain())
	}
	if l.ReproductionCost() != 80 {
		t.Errorf("ReproductionCost = %d", l.ReproductionCost())
	}
	if l.DeathDeposit() != 15 {
		t.Errorf("DeathDeposit = %d", l.DeathDeposit())
	}
}
