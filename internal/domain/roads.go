package domain

import "math"

var vehicleRoadClasses = map[string]struct{}{
	"residential":    {},
	"living_street":  {},
	"service":        {},
	"unclassified":   {},
	"tertiary":       {},
	"secondary":      {},
	"tertiary_link":  {},
	"secondary_link": {},
}

var pedestrianRoadClasses = map[string]struct{}{
	"footway":    {},
	"path":       {},
	"pedestrian": {},
}

// Estimated addresses per 100 m of road, by road class.
var addressDensityPer100m = map[string]float64{
	"residential":   20,
	"living_street": 30,
	"service":       5,
	"unclassified":  15,
	"tertiary":      10,
	"secondary":     5,
}

const defaultAddressDensityPer100m = 10

// KeepRoadClass reports whether a road class is routable for the mode.
// Pedestrian-only ways are kept for walking only.
func KeepRoadClass(class string, mode TravelMode) bool {
	if _, ok := vehicleRoadClasses[class]; ok {
		return true
	}
	if _, ok := pedestrianRoadClasses[class]; ok {
		return mode == TravelWalking
	}
	return false
}

// FilterForMode drops road classes that are not delivered along for the mode.
func FilterForMode(g *Graph, mode TravelMode) *Graph {
	return g.Filter(func(e Edge) bool { return KeepRoadClass(e.RoadClass, mode) })
}

// EstimateAddressesFromLength is the density fallback used when no
// building-derived weights are available.
func EstimateAddressesFromLength(e Edge) float64 {
	density, ok := addressDensityPer100m[e.RoadClass]
	if !ok {
		density = defaultAddressDensityPer100m
	}
	return math.Floor(e.LengthM / 100 * density)
}
