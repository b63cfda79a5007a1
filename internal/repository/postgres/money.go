package postgres

import (
	"fmt"
	"strconv"
	"strings"
)

// Ledger amounts are NUMERIC(12,2) in the store and int64 cents in Go.
// pgx hands NUMERIC values over as strings; converting through integers
// rather than float64 keeps SUM results exact.

// numericStringToCents parses a NUMERIC string into cents. Fractions
// beyond two digits are rounded half-up, which only matters for
// inputs the schema's scale already forbids.
func numericStringToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	wholePart, fracPart, hasFrac := strings.Cut(s, ".")
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", s, err)
	}

	var frac int64
	if hasFrac && fracPart != "" {
		roundUp := false
		if len(fracPart) > 2 {
			rest := fracPart[2:]
			for i := 0; i < len(rest); i++ {
				if rest[i] < '0' || rest[i] > '9' {
					return 0, fmt.Errorf("malformed amount %q", s)
				}
			}
			roundUp = rest[0] >= '5'
			fracPart = fracPart[:2]
		}
		for len(fracPart) < 2 {
			fracPart += "0"
		}
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed amount %q: %w", s, err)
		}
		if roundUp {
			frac++
		}
	}

	cents := whole*100 + frac
	if negative {
		cents = -cents
	}
	return cents, nil
}

// centsToNumericString renders cents as the literal bound into NUMERIC
// parameters, always with two decimal places.
func centsToNumericString(cents int64) string {
	whole, frac := cents/100, cents%100
	if frac < 0 {
		frac = -frac
	}
	if cents < 0 && whole == 0 {
		return fmt.Sprintf("-0.%02d", frac)
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}
