// Package price implements the engine's fixed-point price scalar.
//
// A Price is either a finite decimal value or one of two sentinels,
// +inf and -inf, used to represent a market order's price without
// requiring an actual unbounded decimal. Finite values compare and
// add exactly, via shopspring/decimal, never through float tolerance.
package price

import "github.com/shopspring/decimal"

type kind int

const (
	finite kind = iota
	plusInf
	minusInf
)

// Price is a value type: total order, exact equality, additive,
// scalar-multiplicative, with a market sentinel on either end.
type Price struct {
	k   kind
	val decimal.Decimal
}

// New wraps a finite decimal value as a Price.
func New(val decimal.Decimal) Price {
	return Price{k: finite, val: val}
}

// NewFromInt builds a finite Price from an integer.
func NewFromInt(v int64) Price {
	return Price{k: finite, val: decimal.NewFromInt(v)}
}

// NewFromFloat builds a finite Price from a float64, for convenience
// at call sites that don't already hold a decimal.Decimal.
func NewFromFloat(v float64) Price {
	return Price{k: finite, val: decimal.NewFromFloat(v)}
}

// MarketBuyPrice returns the +inf sentinel a market buy order uses so
// it compares favourably against every resting ask.
func MarketBuyPrice() Price {
	return Price{k: plusInf}
}

// MarketSellPrice returns the -inf sentinel a market sell order uses
// so it compares favourably against every resting bid.
func MarketSellPrice() Price {
	return Price{k: minusInf}
}

// Zero is the additive identity, used as the initial avgPrice of an
// order that has not yet received a fill.
var Zero = New(decimal.Zero)

// IsMarket reports whether this Price is a sentinel rather than a
// real resting price.
func (p Price) IsMarket() bool {
	return p.k != finite
}

func weight(k kind) int {
	switch k {
	case minusInf:
		return -1
	case plusInf:
		return 1
	default:
		return 0
	}
}

// Compare returns -1, 0, or 1 as p is less than, equal to, or greater
// than o. Sentinel comparisons never touch the underlying decimal.
func (p Price) Compare(o Price) int {
	wp, wo := weight(p.k), weight(o.k)
	if wp != wo {
		if wp < wo {
			return -1
		}
		return 1
	}
	if wp != 0 {
		// both the same sentinel: equal by convention.
		return 0
	}
	return p.val.Cmp(o.val)
}

// Equal is exact — no floating-point tolerance, ever.
func (p Price) Equal(o Price) bool {
	if p.k != o.k {
		return false
	}
	if p.k != finite {
		return true
	}
	return p.val.Equal(o.val)
}

func (p Price) LessThan(o Price) bool    { return p.Compare(o) < 0 }
func (p Price) GreaterThan(o Price) bool { return p.Compare(o) > 0 }

// Add sums two finite prices. Callers must not call Add on a
// sentinel value; VWAP accounting only ever adds finite trade prices.
func (p Price) Add(o Price) Price {
	return Price{k: finite, val: p.val.Add(o.val)}
}

// Mul scales a finite price by a decimal factor (used for VWAP's
// avg*cum term).
func (p Price) Mul(factor decimal.Decimal) Price {
	return Price{k: finite, val: p.val.Mul(factor)}
}

// Div scales a finite price by a decimal divisor (used for VWAP's
// /(cum+q) term). Div by zero is a programmer error — callers only
// divide by cumulative quantity after a fill has occurred.
func (p Price) Div(divisor decimal.Decimal) Price {
	return Price{k: finite, val: p.val.Div(divisor)}
}

// Decimal exposes the underlying finite value. Calling it on a
// sentinel Price is a programmer error.
func (p Price) Decimal() decimal.Decimal {
	if p.k != finite {
		panic("price: Decimal() called on a market sentinel")
	}
	return p.val
}

func (p Price) String() string {
	switch p.k {
	case plusInf:
		return "+inf"
	case minusInf:
		return "-inf"
	default:
		return p.val.String()
	}
}
