// Package money represents baht amounts with satang precision.
//
// The backend sheet stores prices and rule bounds as plain baht numbers
// (possibly fractional), so Amount converts to and from JSON numbers at the
// wire boundary and does integer arithmetic everywhere else.
package money

import (
	"fmt"
	"math"
	"strconv"
)

// Amount is a money value in satang (1/100 baht).
type Amount int64

// FromBaht converts a baht number to an Amount, rounding to the nearest
// satang.
func FromBaht(b float64) Amount {
	return Amount(math.Round(b * 100))
}

// Baht returns the amount as a baht number.
func (a Amount) Baht() float64 {
	return float64(a) / 100
}

// Mul multiplies the amount by a quantity.
func (a Amount) Mul(qty int) Amount {
	return a * Amount(qty)
}

// Sum adds amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}

// String renders the amount with a baht sign, dropping the satang part when
// it is zero: "฿120" or "฿120.50".
func (a Amount) String() string {
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	if a%100 == 0 {
		return fmt.Sprintf("%s฿%d", sign, int64(a)/100)
	}
	return fmt.Sprintf("%s฿%d.%02d", sign, int64(a)/100, int64(a)%100)
}

// MarshalJSON emits the amount as a plain baht number, matching the sheet
// representation.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a%100 == 0 {
		return []byte(strconv.FormatInt(int64(a)/100, 10)), nil
	}
	return []byte(strconv.FormatFloat(a.Baht(), 'f', 2, 64)), nil
}

// UnmarshalJSON parses a JSON baht number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	b, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q", data)
	}
	*a = FromBaht(b)
	return nil
}
