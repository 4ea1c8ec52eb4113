package domain

import "math"

const earthRadiusMeters = 6371008.8

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for GeoJSON-style consumers.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Return coordinates as [lat, lon] for map widgets.
func (c Coordinates) LatLon() []float64 { return []float64{c.Lat, c.Lon} }

// SquaredDistance is the squared euclidean distance in raw degrees.
// Only meaningful for ranking candidates at local scale.
func (c Coordinates) SquaredDistance(o Coordinates) float64 {
	dLat := c.Lat - o.Lat
	dLon := c.Lon - o.Lon
	return dLat*dLat + dLon*dLon
}

// Midpoint returns the coordinate halfway between c and o.
func (c Coordinates) Midpoint(o Coordinates) Coordinates {
	return Coordinates{Lat: (c.Lat + o.Lat) / 2, Lon: (c.Lon + o.Lon) / 2}
}

// HaversineMeters returns the great-circle distance between two coordinates.
func HaversineMeters(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
