package services

import (
	"errors"
	"fmt"
	"math"
)

// Allocate splits total across zones in proportion to weights, flooring each
// share and giving the remainder to the first zone. When every weight is zero
// the split is equal. The result always sums to total.
func Allocate(total int, weights []float64) ([]int, error) {
	if total < 0 {
		return nil, fmt.Errorf("allocate: total must be >= 0, got %d", total)
	}
	if len(weights) == 0 {
		return nil, errors.New("allocate: no zones")
	}

	sum := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("allocate: weight[%d]=%v is not a finite non-negative number", i, w)
		}
		sum += w
	}

	out := make([]int, len(weights))
	assigned := 0
	for i, w := range weights {
		if sum == 0 {
			out[i] = total / len(weights)
		} else {
			out[i] = int(math.Floor(float64(total) * w / sum))
		}
		assigned += out[i]
	}
	out[0] += total - assigned
	return out, nil
}
