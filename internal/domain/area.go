package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	MinRadiusM = 100
	MaxRadiusM = 10000

	metersPerDegreeLat = 111320.0
	circleSegments     = 64
)

type AreaKind string

const (
	AreaCircle  AreaKind = "circle"
	AreaPolygon AreaKind = "polygon"
)

// Area is the user-selected region the road network is cut to.
type Area struct {
	Kind    AreaKind
	Center  Coordinates
	RadiusM float64
	Points  []Coordinates
}

func NewCircleArea(center Coordinates, radiusM float64) (Area, error) {
	if radiusM < MinRadiusM || radiusM > MaxRadiusM {
		return Area{}, fmt.Errorf("circle radius must be between %d and %d meters", MinRadiusM, MaxRadiusM)
	}
	return Area{Kind: AreaCircle, Center: center, RadiusM: radiusM}, nil
}

func NewPolygonArea(points []Coordinates) (Area, error) {
	if len(points) < 3 {
		return Area{}, errors.New("polygon must have at least 3 points")
	}
	return Area{Kind: AreaPolygon, Points: append([]Coordinates(nil), points...)}, nil
}

// Polygon returns the area outline. Circles are approximated with 64 vertices.
func (a Area) Polygon() []Coordinates {
	if a.Kind == AreaPolygon {
		return a.Points
	}

	latPerM := 1 / metersPerDegreeLat
	lonPerM := 1 / (metersPerDegreeLat * math.Cos(a.Center.Lat*math.Pi/180))

	out := make([]Coordinates, 0, circleSegments)
	for i := 0; i < circleSegments; i++ {
		angle := 2 * math.Pi * float64(i) / circleSegments
		out = append(out, Coordinates{
			Lat: a.Center.Lat + a.RadiusM*math.Sin(angle)*latPerM,
			Lon: a.Center.Lon + a.RadiusM*math.Cos(angle)*lonPerM,
		})
	}
	return out
}

// Contains reports whether c lies inside the area outline (ray casting).
func (a Area) Contains(c Coordinates) bool {
	return insidePolygon(a.Polygon(), c)
}

// Clipper returns a Contains func that computes the outline only once.
func (a Area) Clipper() func(Coordinates) bool {
	poly := a.Polygon()
	return func(c Coordinates) bool { return insidePolygon(poly, c) }
}

func insidePolygon(poly []Coordinates, c Coordinates) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Lat > c.Lat) != (pj.Lat > c.Lat) {
			lon := (pj.Lon-pi.Lon)*(c.Lat-pi.Lat)/(pj.Lat-pi.Lat) + pi.Lon
			if c.Lon < lon {
				inside = !inside
			}
		}
	}
	return inside
}

func (a Area) Bounds() Bounds { return BoundsOf(a.Polygon()) }

// Key is a stable textual identity used to deduplicate concurrent loads.
func (a Area) Key() string {
	if a.Kind == AreaCircle {
		return fmt.Sprintf("circle:%.6f,%.6f:%.1f", a.Center.Lat, a.Center.Lon, a.RadiusM)
	}
	var b strings.Builder
	b.WriteString("polygon:")
	for i, p := range a.Points {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%.6f,%.6f", p.Lat, p.Lon)
	}
	return b.String()
}
