package gumbel

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// lmoments computes the first two sample L-moments from the unbiased
// probability-weighted-moment estimators (Hosking 1990). With x(1) <=
// ... <= x(n) the ascending order statistics,
//
//	b0 = mean(x)
//	b1 = (1/n) * sum_{i=2..n} ((i-1)/(n-1)) * x(i)
//	L1 = b0
//	L2 = 2*b1 - b0
//
// The rank-based weights are what make the estimator unbiased; central
// moments are not a substitute here. The input is not modified.
func lmoments(sample []float64) (l1, l2 float64) {
	x := append([]float64(nil), sample...)
	sort.Float64s(x)

	n := float64(len(x))
	b0 := floats.Sum(x) / n

	var b1 float64
	for i := 1; i < len(x); i++ {
		b1 += float64(i) / (n - 1) * x[i]
	}
	b1 /= n

	return b0, 2*b1 - b0
}
