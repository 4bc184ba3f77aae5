package metrics

import "github.com/shopspring/decimal"

// round1 rounds to one decimal place, half to even.
func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(1).Float64()
	return f
}

func ptr(v float64) *float64 {
	return &v
}
