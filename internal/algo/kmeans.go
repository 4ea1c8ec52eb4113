package algo

import (
	"math"
	"math/rand"
)

// WeightedPoint is a planar sample with a positive integer multiplicity.
// A point with Weight w clusters exactly like w coincident copies of itself.
type WeightedPoint struct {
	X, Y   float64
	Weight float64
}

type KMeansOptions struct {
	Seed     int64
	Restarts int
	MaxIter  int
}

type KMeansResult struct {
	Labels  []int
	Centers [][2]float64
	Inertia float64
}

const (
	defaultKMeansRestarts = 10
	defaultKMeansMaxIter  = 300
)

// WeightedKMeans clusters points into k groups with k-means++ seeding and
// Lloyd iterations, keeping the restart with the lowest weighted inertia.
// Restarts draw from independent streams derived from Seed, so equal inputs
// always produce equal labels. Distance ties go to the lower cluster index.
func WeightedKMeans(points []WeightedPoint, k int, opts KMeansOptions) KMeansResult {
	if k <= 0 || len(points) == 0 {
		return KMeansResult{}
	}
	if k > len(points) {
		k = len(points)
	}
	if opts.Restarts <= 0 {
		opts.Restarts = defaultKMeansRestarts
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = defaultKMeansMaxIter
	}

	var best KMeansResult
	for r := 0; r < opts.Restarts; r++ {
		rng := rand.New(rand.NewSource(deriveSeed(opts.Seed, uint64(r))))
		res := lloyd(points, seedCenters(points, k, rng), opts.MaxIter)
		if r == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best
}

// deriveSeed mixes a base seed with a stream id (SplitMix64 finalizer).
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

func seedCenters(points []WeightedPoint, k int, rng *rand.Rand) [][2]float64 {
	centers := make([][2]float64, 0, k)
	chosen := make([]bool, len(points))

	first := pickWeighted(rng, len(points), func(i int) float64 { return points[i].Weight })
	if first < 0 {
		first = 0
	}
	chosen[first] = true
	centers = append(centers, [2]float64{points[first].X, points[first].Y})

	minD := make([]float64, len(points))
	for i, p := range points {
		minD[i] = sqDist(p, centers[0])
	}

	for len(centers) < k {
		next := pickWeighted(rng, len(points), func(i int) float64 {
			if chosen[i] {
				return 0
			}
			return points[i].Weight * minD[i]
		})
		if next < 0 {
			// Every remaining point coincides with a center.
			for i := range points {
				if !chosen[i] {
					next = i
					break
				}
			}
		}
		chosen[next] = true
		c := [2]float64{points[next].X, points[next].Y}
		centers = append(centers, c)
		for i, p := range points {
			if d := sqDist(p, c); d < minD[i] {
				minD[i] = d
			}
		}
	}
	return centers
}

// pickWeighted samples an index with probability proportional to w(i).
// It returns -1 when all weights are zero.
func pickWeighted(rng *rand.Rand, n int, w func(int) float64) int {
	total := 0.0
	for i := 0; i < n; i++ {
		total += w(i)
	}
	if total <= 0 {
		return -1
	}
	target := rng.Float64() * total
	last := -1
	for i := 0; i < n; i++ {
		wi := w(i)
		if wi <= 0 {
			continue
		}
		last = i
		target -= wi
		if target < 0 {
			return i
		}
	}
	return last
}

func lloyd(points []WeightedPoint, centers [][2]float64, maxIter int) KMeansResult {
	k := len(centers)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := assign(points, centers, labels)
		if !changed && iter > 0 {
			break
		}

		sumX := make([]float64, k)
		sumY := make([]float64, k)
		sumW := make([]float64, k)
		for i, p := range points {
			c := labels[i]
			sumX[c] += p.X * p.Weight
			sumY[c] += p.Y * p.Weight
			sumW[c] += p.Weight
		}

		for c := 0; c < k; c++ {
			if sumW[c] > 0 {
				centers[c] = [2]float64{sumX[c] / sumW[c], sumY[c] / sumW[c]}
				continue
			}
			// Empty cluster: reseed at the point contributing most to inertia.
			far, farD := -1, -1.0
			for i, p := range points {
				if d := p.Weight * sqDist(p, centers[labels[i]]); d > farD {
					far, farD = i, d
				}
			}
			centers[c] = [2]float64{points[far].X, points[far].Y}
			labels[far] = c
		}
	}

	assign(points, centers, labels)
	inertia := 0.0
	for i, p := range points {
		inertia += p.Weight * sqDist(p, centers[labels[i]])
	}
	return KMeansResult{Labels: labels, Centers: centers, Inertia: inertia}
}

func assign(points []WeightedPoint, centers [][2]float64, labels []int) bool {
	changed := false
	for i, p := range points {
		best, bestD := 0, math.Inf(1)
		for c, ctr := range centers {
			if d := sqDist(p, ctr); d < bestD {
				best, bestD = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

func sqDist(p WeightedPoint, c [2]float64) float64 {
	dx, dy := p.X-c[0], p.Y-c[1]
	return dx*dx + dy*dy
}
