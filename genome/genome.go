// Package genome parses, validates, and mutates bracketed trait genomes.
package genome

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGenome is reported for malformed or unrecognized genome text.
var ErrInvalidGenome = errors.New("invalid genome")

// Trait names recognized by the parser.
const (
	TraitCell    = "Cell"
	TraitCanMove = "CanMove"
	TraitCanEat  = "CanEat"
	TraitColor   = "Color"
)

// Colors is the palette accepted by the Color trait.
var Colors = []string{"Green", "Red", "Blue", "Yellow", "Cyan", "Magenta"}

// Capability is a bit set of behaviors granted by traits.
type Capability uint8

const (
	CanMove Capability = 1 << iota
	CanEat
)

// Has checks if a capability set contains a capability.
func (c Capability) Has(other Capability) bool {
	return c&other != 0
}

// Token is a single parsed trait token.
type Token struct {
	Name string
	Arg  string // color name for Color tokens, empty otherwise
}

// String renders the token in genome syntax.
func (t Token) String() string {
	if t.Arg != "" {
		return "[" + t.Name + ":" + t.Arg + "]"
	}
	return "[" + t.Name + "]"
}

// Genome is a validated, immutable trait set parsed from genome text.
// Parse once at spawn time and cache on the organism; ticks must never
// re-parse text.
type Genome struct {
	tokens []Token
	caps   Capability
	color  string
}

// Parse tokenizes and validates genome text.
// Validation is strict: a missing Cell base, malformed brackets, an
// unrecognized trait name, an unknown color, or a duplicate token all
// reject the whole genome.
func Parse(text string) (Genome, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return Genome{}, err
	}

	g := Genome{tokens: tokens}
	seen := make(map[string]bool, len(tokens))
	baseCount := 0

	for _, tok := range tokens {
		if seen[tok.Name] {
			return Genome{}, fmt.Errorf("%w: duplicate trait %q", ErrInvalidGenome, tok.Name)
		}
		seen[tok.Name] = true

		switch tok.Name {
		case TraitCell:
			baseCount++
		case TraitCanMove:
			g.caps |= CanMove
		case TraitCanEat:
			g.caps |= CanEat
		case TraitColor:
			if !validColor(tok.Arg) {
				return Genome{}, fmt.Errorf("%w: unknown color %q", ErrInvalidGenome, tok.Arg)
			}
			g.color = tok.Arg
		default:
			return Genome{}, fmt.Errorf("%w: unknown trait %q", ErrInvalidGenome, tok.Name)
		}
	}

	if baseCount != 1 {
		return Genome{}, fmt.Errorf("%w: genome must contain exactly one [Cell] base trait", ErrInvalidGenome)
	}
	return g, nil
}

// tokenize splits text into bracketed tokens. The whole string must be
// consumed by well-formed [Name] or [Name:Arg] tokens.
func tokenize(text string) ([]Token, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty genome", ErrInvalidGenome)
	}

	var tokens []Token
	rest := text
	for len(rest) > 0 {
		if rest[0] != '[' {
			return nil, fmt.Errorf("%w: expected '[' at %q", ErrInvalidGenome, rest)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated token %q", ErrInvalidGenome, rest)
		}
		body := rest[1:end]
		if body == "" {
			return nil, fmt.Errorf("%w: empty token", ErrInvalidGenome)
		}

		name, arg := body, ""
		if i := strings.IndexByte(body, ':'); i >= 0 {
			name, arg = body[:i], body[i+1:]
			if name == "" || arg == "" {
				return nil, fmt.Errorf("%w: malformed token %q", ErrInvalidGenome, body)
			}
		}
		tokens = append(tokens, Token{Name: name, Arg: arg})
		rest = rest[end+1:]
	}
	return tokens, nil
}

func validColor(name string) bool {
	for _, c := range Colors {
		if c == name {
			return true
		}
	}
	return false
}

// Len reports the token count. Per-tick upkeep costs one energy unit
// per token; the ledger consumes this, not the genome itself.
func (g Genome) Len() int {
	return len(g.tokens)
}

// CanMove reports whether the organism may attempt movement this tick.
func (g Genome) CanMove() bool {
	return g.caps.Has(CanMove)
}

// CanEat reports whether the organism may consume food or prey.
func (g Genome) CanEat() bool {
	return g.caps.Has(CanEat)
}

// Color returns the color tag value, if any.
func (g Genome) Color() (string, bool) {
	return g.color, g.color != ""
}

// Tokens returns a copy of the ordered token sequence.
func (g Genome) Tokens() []Token {
	out := make([]Token, len(g.tokens))
	copy(out, g.tokens)
	return out
}

// String renders the genome in canonical bracketed syntax.
func (g Genome) String() string {
	var b strings.Builder
	for _, tok := range g.tokens {
		b.WriteString(tok.String())
	}
	return b.String()
}
