package algo

import (
	"errors"
	"math"
)

// DefaultExactMatchLimit is the largest set size solved by exact DP.
const DefaultExactMatchLimit = 16

// DP memory grows as 2^k.
const maxExactMatchLimit = 22

var (
	ErrOddMatchSize      = errors.New("algo: perfect matching needs an even number of vertices")
	ErrNoPerfectMatching = errors.New("algo: no finite perfect matching exists")
)

// Pair is one matched pair of indices, I < J.
type Pair struct{ I, J int }

// MinWeightPerfectMatching pairs indices 0..k-1 minimizing the summed cost.
// Sets of up to exactLimit indices are solved exactly with bitmask DP;
// larger sets use greedy nearest pairing followed by pairwise swaps.
func MinWeightPerfectMatching(k int, cost func(i, j int) float64, exactLimit int) ([]Pair, float64, error) {
	if k%2 != 0 {
		return nil, 0, ErrOddMatchSize
	}
	if k == 0 {
		return nil, 0, nil
	}
	if exactLimit <= 0 {
		exactLimit = DefaultExactMatchLimit
	}
	if exactLimit > maxExactMatchLimit {
		exactLimit = maxExactMatchLimit
	}

	var pairs []Pair
	if k <= exactLimit {
		pairs = exactMatch(k, cost)
	} else {
		pairs = greedyMatch(k, cost)
		improveMatch(pairs, cost)
	}

	total := 0.0
	for _, p := range pairs {
		total += cost(p.I, p.J)
	}
	if pairs == nil || math.IsInf(total, 1) || math.IsNaN(total) {
		return nil, 0, ErrNoPerfectMatching
	}
	return pairs, total, nil
}

// exactMatch always pairs the lowest unmatched index, so each mask is reached
// through a single canonical order.
func exactMatch(k int, cost func(i, j int) float64) []Pair {
	full := 1<<k - 1
	dp := make([]float64, full+1)
	from := make([]int32, full+1)
	for i := range dp {
		dp[i] = math.Inf(1)
	}
	dp[0] = 0

	for mask := 0; mask < full; mask++ {
		if math.IsInf(dp[mask], 1) {
			continue
		}
		i := 0
		for mask&(1<<i) != 0 {
			i++
		}
		for j := i + 1; j < k; j++ {
			if mask&(1<<j) != 0 {
				continue
			}
			c := cost(i, j)
			if math.IsInf(c, 1) {
				continue
			}
			next := mask | 1<<i | 1<<j
			if d := dp[mask] + c; d < dp[next] {
				dp[next] = d
				from[next] = int32(i<<8 | j)
			}
		}
	}

	if math.IsInf(dp[full], 1) {
		return nil
	}

	pairs := make([]Pair, 0, k/2)
	for mask := full; mask != 0; {
		enc := int(from[mask])
		i, j := enc>>8, enc&0xff
		pairs = append(pairs, Pair{I: i, J: j})
		mask &^= 1<<i | 1<<j
	}
	reverse(pairs)
	return pairs
}

func greedyMatch(k int, cost func(i, j int) float64) []Pair {
	remaining := make([]int, k)
	for i := range remaining {
		remaining[i] = i
	}

	pairs := make([]Pair, 0, k/2)
	for len(remaining) > 1 {
		u := remaining[0]
		remaining = remaining[1:]
		bestIdx, bestD := 0, math.Inf(1)
		for i, v := range remaining {
			if d := cost(u, v); d < bestD {
				bestD, bestIdx = d, i
			}
		}
		v := remaining[bestIdx]
		pairs = append(pairs, Pair{I: u, J: v})
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return pairs
}

const maxSwapPasses = 20

// improveMatch re-pairs two matched pairs whenever a cheaper combination of
// the same four indices exists.
func improveMatch(pairs []Pair, cost func(i, j int) float64) {
	const eps = 1e-9
	for pass := 0; pass < maxSwapPasses; pass++ {
		improved := false
		for p := 0; p < len(pairs); p++ {
			for q := p + 1; q < len(pairs); q++ {
				a, b := pairs[p].I, pairs[p].J
				c, d := pairs[q].I, pairs[q].J
				cur := cost(a, b) + cost(c, d)
				alt1 := cost(a, c) + cost(b, d)
				alt2 := cost(a, d) + cost(b, c)
				switch {
				case alt1+eps < cur && alt1 <= alt2:
					pairs[p], pairs[q] = ordered(a, c), ordered(b, d)
					improved = true
				case alt2+eps < cur:
					pairs[p], pairs[q] = ordered(a, d), ordered(b, c)
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func ordered(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{I: i, J: j}
}
