package genome

import "math/rand"

// Mutation operator weights. Selection is cumulative over a single
// rng.Float64 draw so one reproduction consumes a fixed number of
// random values.
const (
	pointWeight  = 0.70
	insertWeight = 0.20
)

// Mutate applies exactly one mutation operator to valid genome text and
// returns the resulting text. The result is always a valid genome: the
// operator re-parses its output before returning, and an attempt that
// would violate a genome invariant (no parameterized token to alter, no
// trait left to insert, only the base trait remaining) falls back to
// returning the input unchanged.
//
// The overall per-reproduction mutation probability is gated by the
// caller; Mutate itself always attempts an operator.
func Mutate(text string, rng *rand.Rand) (string, error) {
	g, err := Parse(text)
	if err != nil {
		return "", err
	}

	var mutated Genome
	roll := rng.Float64()
	switch {
	case roll < pointWeight:
		mutated = pointMutation(g, rng)
	case roll < pointWeight+insertWeight:
		mutated = insertMutation(g, rng)
	default:
		mutated = deleteMutation(g, rng)
	}

	out := mutated.String()
	if _, err := Parse(out); err != nil {
		// A mutation operator produced invalid output; treat the
		// attempt as a no-op rather than corrupting the lineage.
		return text, nil
	}
	return out, nil
}

// pointMutation alters one token's parameter. Only Color carries a
// parameter, so genomes without a color tag are unchanged.
func pointMutation(g Genome, rng *rand.Rand) Genome {
	tokens := g.Tokens()
	for i, tok := range tokens {
		if tok.Name != TraitColor {
			continue
		}
		tokens[i].Arg = pickColorOther(tok.Arg, rng)
		return rebuild(tokens)
	}
	return g
}

// insertMutation appends one new, non-duplicate trait token.
func insertMutation(g Genome, rng *rand.Rand) Genome {
	present := make(map[string]bool, g.Len())
	for _, tok := range g.tokens {
		present[tok.Name] = true
	}

	var candidates []Token
	if !present[TraitCanMove] {
		candidates = append(candidates, Token{Name: TraitCanMove})
	}
	if !present[TraitCanEat] {
		candidates = append(candidates, Token{Name: TraitCanEat})
	}
	if !present[TraitColor] {
		candidates = append(candidates, Token{Name: TraitColor, Arg: Colors[rng.Intn(len(Colors))]})
	}
	if len(candidates) == 0 {
		return g
	}

	tokens := append(g.Tokens(), candidates[rng.Intn(len(candidates))])
	return rebuild(tokens)
}

// deleteMutation removes one non-base trait token, keeping at least the
// base trait.
func deleteMutation(g Genome, rng *rand.Rand) Genome {
	var removable []int
	for i, tok := range g.tokens {
		if tok.Name != TraitCell {
			removable = append(removable, i)
		}
	}
	if len(removable) == 0 {
		return g
	}

	drop := removable[rng.Intn(len(removable))]
	tokens := g.Tokens()
	tokens = append(tokens[:drop], tokens[drop+1:]...)
	return rebuild(tokens)
}

// pickColorOther picks a palette color different from current when one
// exists.
func pickColorOther(current string, rng *rand.Rand) string {
	if len(Colors) < 2 {
		return current
	}
	for {
		c := Colors[rng.Intn(len(Colors))]
		if c != current {
			return c
		}
	}
}

// rebuild reconstructs a Genome from tokens known to come from a valid
// genome plus at most one validated edit.
func rebuild(tokens []Token) Genome {
	g := Genome{tokens: tokens}
	for _, tok := range tokens {
		switch tok.Name {
		case TraitCanMove:
			g.caps |= CanMove
		case TraitCanEat:
			g.caps |= CanEat
		case TraitColor:
			g.color = tok.Arg
		}
	}
	return g
}
