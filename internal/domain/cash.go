package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Denominations is the closed set of bill and coin face values accepted in a drawer count.
var Denominations = []int{1000, 500, 100, 50, 20, 10, 5, 2, 1}

// DenominationCount maps a face value to how many of it were counted.
type DenominationCount map[int]int

// Validate rejects unknown face values and negative quantities.
func (c DenominationCount) Validate() error {
	known := make(map[int]bool, len(Denominations))
	for _, d := range Denominations {
		known[d] = true
	}

	faces := make([]int, 0, len(c))
	for face := range c {
		faces = append(faces, face)
	}
	sort.Ints(faces)

	for _, face := range faces {
		if !known[face] {
			return fmt.Errorf("%w: unknown denomination %d", ErrInvalidInput, face)
		}
		if c[face] < 0 {
			return fmt.Errorf("%w: negative count %d for denomination %d", ErrInvalidInput, c[face], face)
		}
	}
	return nil
}

// Total is Σ face × quantity over the recognized denominations.
func (c DenominationCount) Total() decimal.Decimal {
	total := decimal.Zero
	for _, face := range Denominations {
		if qty := c[face]; qty > 0 {
			total = total.Add(decimal.NewFromInt(int64(face) * int64(qty)))
		}
	}
	return total
}
