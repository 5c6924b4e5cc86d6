package drillgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrUnknownTier is returned for tier ids outside the table.
var ErrUnknownTier = errors.New("unknown difficulty tier")

// maxResample bounds constraint resampling before falling back to the
// least-constrained valid sample. Generation never fails outright.
const maxResample = 8

// Question is one generated drill item. Items are sampled independently;
// duplicates within a batch are acceptable.
type Question struct {
	Text   string `json:"text"`
	Answer int    `json:"answer"`
}

// Generator produces parametric arithmetic questions for Basic-Facts
// levels. There is no persisted bank; every batch is generated fresh.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns count questions satisfying the tier's constraints.
func (g *Generator) Generate(tier Tier, count int) ([]Question, error) {
	if _, ok := tierTable[tier]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, tier)
	}

	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, g.generateOne(tier))
	}
	return questions, nil
}

func (g *Generator) generateOne(tier Tier) Question {
	switch tier {
	case TierAdditionSingleDigit:
		a, b := g.rng.IntN(6), g.rng.IntN(6)
		return Question{Text: fmt.Sprintf("%d + %d = ?", a, b), Answer: a + b}

	case TierAdditionWithCarry:
		return g.additionWithCarry()

	case TierSubtractionSingleDigit:
		a := 1 + g.rng.IntN(9)
		b := g.rng.IntN(a + 1)
		return Question{Text: fmt.Sprintf("%d - %d = ?", a, b), Answer: a - b}

	case TierSubtractionWithBorrow:
		return g.subtractionWithBorrow()

	case TierMultiplicationTables:
		a, b := 2+g.rng.IntN(11), 2+g.rng.IntN(11)
		return Question{Text: fmt.Sprintf("%d x %d = ?", a, b), Answer: a * b}

	case TierDivisionExact:
		// Build the dividend from divisor and quotient so the division is
		// exact by construction, never by rejection sampling.
		divisor := 2 + g.rng.IntN(11)
		quotient := 2 + g.rng.IntN(11)
		return Question{Text: fmt.Sprintf("%d / %d = ?", divisor*quotient, divisor), Answer: quotient}

	case TierSumsToTen:
		return g.complement(10)
	case TierSumsToHundred:
		return g.complement(100)
	case TierSumsToThousand:
		return g.complement(1000)
	}

	// Unreachable: Generate validates the tier first.
	return Question{}
}

func (g *Generator) additionWithCarry() Question {
	// A carry needs units(a) + units(b) >= 10, so units(a) must be at
	// least 1. Resample a, then build b constructively.
	a := 10 + g.rng.IntN(90)
	for i := 0; i < maxResample && a%10 == 0; i++ {
		a = 10 + g.rng.IntN(90)
	}
	if a%10 == 0 {
		a++
	}

	unitsB := (10 - a%10) + g.rng.IntN(a%10) // in [10-units(a), 9]
	b := (1+g.rng.IntN(9))*10 + unitsB
	return Question{Text: fmt.Sprintf("%d + %d = ?", a, b), Answer: a + b}
}

func (g *Generator) subtractionWithBorrow() Question {
	// A borrow needs units(b) > units(a), so units(a) == 9 leaves no
	// valid single-digit b; resample, then fall back to units 0 (the
	// least-constrained value) if the cap is exhausted.
	a := 10 + g.rng.IntN(90)
	for i := 0; i < maxResample && a%10 == 9; i++ {
		a = 10 + g.rng.IntN(90)
	}
	if a%10 == 9 {
		a -= 9
	}

	b := (a % 10) + 1 + g.rng.IntN(9-a%10) // in [units(a)+1, 9]
	return Question{Text: fmt.Sprintf("%d - %d = ?", a, b), Answer: a - b}
}

func (g *Generator) complement(target int) Question {
	// Sample one operand in range and derive the other, phrasing either
	// side as the blank.
	a := g.rng.IntN(target + 1)
	b := target - a
	if g.rng.IntN(2) == 0 {
		return Question{Text: fmt.Sprintf("%d + ? = %d", a, target), Answer: b}
	}
	return Question{Text: fmt.Sprintf("? + %d = %d", b, target), Answer: a}
}
