package components

import "testing"

func TestPositionAdd(t *testing.T) {
	p := Position{X: 3, Y: -2}
	got := p.Add(Position{X: -1, Y: 5})
	if got != (Position{X: 2, Y: 3}) {
		t.Errorf("Add = %v", got)
	}
}

func TestAdjacencySets(t *testing.T) {
	seen := map[Position]bool{}
	for _, d := range Adjacent8 {
		if d == (Position{}) {
			t.Error("Adjacent8 contains the zero offset")
		}
		if d.X < -1 || d.X > 1 || d.Y < -1 || d.Y > 1 {
			t.Errorf("Adjacent8 offset out of range: %v", d)
		}
		if seen[d] {
			t.Errorf("duplicate offset %v", d)
		}
		seen[d] = true
	}
	if len(seen) != 8 {
		t.Errorf("Adjacent8 covers %d offsets", len(seen))
	}

	for _, d := range Adjacent4 {
		if !seen[d] {
			t.Errorf("cardinal offset %v missing from Adjacent8", d)
		}
		if d.X*d.X+d.Y*d.Y != 1 {
			t.Errorf("Adjacent4 offset %v is not cardinal", d)
		}
	}
}
