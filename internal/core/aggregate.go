package core

import "math/big"

// Category labels used in exports.
const (
	CategoryLow  = "low"
	CategoryHigh = "high"
)

// Category returns "low" when n <= threshold, otherwise "high".
func Category(n, threshold int64) string {
	if n <= threshold {
		return CategoryLow
	}
	return CategoryHigh
}

// Categorize splits numbers around threshold in a single pass.
// Order is preserved within each side; both slices are non-nil.
func Categorize(numbers []int64, threshold int64) Partition {
	p := Partition{
		Low:  make([]int64, 0, len(numbers)),
		High: make([]int64, 0, len(numbers)),
	}
	for _, n := range numbers {
		if n <= threshold {
			p.Low = append(p.Low, n)
		} else {
			p.High = append(p.High, n)
		}
	}
	return p
}

// Summarize computes count, sum, mean, minimum and maximum.
// The sum is accumulated without overflow for any int64 input.
// An empty input yields zero values with HasValues false.
func Summarize(numbers []int64) Statistics {
	st := Statistics{Sum: new(big.Int)}
	if len(numbers) == 0 {
		st.Mean = new(big.Rat)
		return st
	}

	st.Count = len(numbers)
	st.Min, st.Max = numbers[0], numbers[0]
	st.HasValues = true

	var x big.Int
	for _, n := range numbers {
		st.Sum.Add(st.Sum, x.SetInt64(n))
		if n < st.Min {
			st.Min = n
		}
		if n > st.Max {
			st.Max = n
		}
	}
	st.Mean = roundedMean(st.Sum, int64(st.Count))
	return st
}

var hundred = big.NewInt(100)

// roundedMean returns sum/count rounded to 2 decimals, half to even.
// Rounding happens on the exact quotient of sum*100 by count.
func roundedMean(sum *big.Int, count int64) *big.Rat {
	if count == 0 {
		return new(big.Rat)
	}

	d := big.NewInt(count)
	scaled := new(big.Int).Abs(sum)
	scaled.Mul(scaled, hundred)
	q, r := new(big.Int).QuoRem(scaled, d, new(big.Int))

	r.Lsh(r, 1)
	if c := r.Cmp(d); c > 0 || (c == 0 && q.Bit(0) == 1) {
		q.Add(q, big.NewInt(1))
	}
	if sum.Sign() < 0 {
		q.Neg(q)
	}
	return new(big.Rat).SetFrac(q, hundred)
}
