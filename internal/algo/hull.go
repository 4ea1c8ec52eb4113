package algo

import "sort"

// ConvexHull returns the hull of pts as a closed ring in counter-clockwise
// order (Andrew's monotone chain). Fewer than three distinct points are
// returned as-is, closed when non-empty.
func ConvexHull(pts [][2]float64) [][2]float64 {
	p := append([][2]float64(nil), pts...)
	sort.Slice(p, func(i, j int) bool {
		if p[i][0] != p[j][0] {
			return p[i][0] < p[j][0]
		}
		return p[i][1] < p[j][1]
	})

	uniq := make([][2]float64, 0, len(p))
	for _, q := range p {
		if len(uniq) == 0 || q != uniq[len(uniq)-1] {
			uniq = append(uniq, q)
		}
	}
	p = uniq

	if len(p) < 3 {
		if len(p) == 0 {
			return nil
		}
		return append(p, p[0])
	}

	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	hull := make([][2]float64, 0, 2*len(p))
	for _, q := range p {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], q) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, q)
	}
	lower := len(hull) + 1
	for i := len(p) - 2; i >= 0; i-- {
		q := p[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], q) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, q)
	}
	// The last point equals the first, closing the ring.
	return hull
}
