package drillgen

// Tier is the enumerated difficulty-tier id for Basic-Facts levels.
// Each tier binds an arithmetic operation to a numeric-constraint rule.
type Tier int

const (
	// TierAdditionSingleDigit adds two single digits below 6.
	TierAdditionSingleDigit Tier = iota + 1
	// TierAdditionWithCarry adds two two-digit operands with a forced
	// carry in the units column.
	TierAdditionWithCarry
	// TierSubtractionSingleDigit subtracts within single digits, never
	// below zero.
	TierSubtractionSingleDigit
	// TierSubtractionWithBorrow subtracts a single digit from a two-digit
	// operand with a forced borrow: units(b) > units(a).
	TierSubtractionWithBorrow
	// TierMultiplicationTables multiplies within the 2..12 tables.
	TierMultiplicationTables
	// TierDivisionExact divides with the dividend built from divisor and
	// quotient, so the result is exact by construction.
	TierDivisionExact
	// TierSumsToTen asks for complements of 10.
	TierSumsToTen
	// TierSumsToHundred asks for complements of 100.
	TierSumsToHundred
	// TierSumsToThousand asks for complements of 1000.
	TierSumsToThousand
)

type Operation string

const (
	OpAdd      Operation = "addition"
	OpSubtract Operation = "subtraction"
	OpMultiply Operation = "multiplication"
	OpDivide   Operation = "division"
)

type TierInfo struct {
	ID          Tier      `json:"id"`
	Name        string    `json:"name"`
	Operation   Operation `json:"operation"`
	Description string    `json:"description"`
}

var tierTable = map[Tier]TierInfo{
	TierAdditionSingleDigit: {
		ID:          TierAdditionSingleDigit,
		Name:        "single-digit addition",
		Operation:   OpAdd,
		Description: "two single digits below 6",
	},
	TierAdditionWithCarry: {
		ID:          TierAdditionWithCarry,
		Name:        "addition with carrying",
		Operation:   OpAdd,
		Description: "two-digit operands, forced carry in the units column",
	},
	TierSubtractionSingleDigit: {
		ID:          TierSubtractionSingleDigit,
		Name:        "single-digit subtraction",
		Operation:   OpSubtract,
		Description: "single digits, result never negative",
	},
	TierSubtractionWithBorrow: {
		ID:          TierSubtractionWithBorrow,
		Name:        "subtraction with borrowing",
		Operation:   OpSubtract,
		Description: "two-digit minus single digit, forced borrow",
	},
	TierMultiplicationTables: {
		ID:          TierMultiplicationTables,
		Name:        "times tables",
		Operation:   OpMultiply,
		Description: "products within the 2-12 tables",
	},
	TierDivisionExact: {
		ID:          TierDivisionExact,
		Name:        "exact division",
		Operation:   OpDivide,
		Description: "dividend constructed as divisor times quotient",
	},
	TierSumsToTen: {
		ID:          TierSumsToTen,
		Name:        "make ten",
		Operation:   OpAdd,
		Description: "addend pairs summing to 10",
	},
	TierSumsToHundred: {
		ID:          TierSumsToHundred,
		Name:        "make one hundred",
		Operation:   OpAdd,
		Description: "addend pairs summing to 100",
	},
	TierSumsToThousand: {
		ID:          TierSumsToThousand,
		Name:        "make one thousand",
		Operation:   OpAdd,
		Description: "addend pairs summing to 1000",
	},
}

// Tiers returns every known tier in id order.
func Tiers() []TierInfo {
	infos := make([]TierInfo, 0, len(tierTable))
	for t := TierAdditionSingleDigit; t <= TierSumsToThousand; t++ {
		infos = append(infos, tierTable[t])
	}
	return infos
}

// Info returns metadata for a tier; ok is false for unknown ids.
func Info(t Tier) (TierInfo, bool) {
	info, ok := tierTable[t]
	return info, ok
}
