package model

import (
	"fmt"
	"math"
	"strconv"
)

// Cents is an amount of money in the smallest currency unit. It is stored
// as an integer and rendered in JSON as a decimal with two fractional
// digits (5000 -> 50.00).
type Cents int64

// CentsFromFloat converts a decimal currency amount to cents, rounding half
// away from zero.
func CentsFromFloat(v float64) Cents {
	return Cents(math.Round(v * 100))
}

// Float returns the amount in currency units.
func (c Cents) Float() float64 { return float64(c) / 100 }

// Percent returns pct percent of c rounded to the nearest cent.
func (c Cents) Percent(pct int) Cents {
	return Cents(math.Round(float64(c) * float64(pct) / 100))
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cents) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*c = CentsFromFloat(f)
	return nil
}
