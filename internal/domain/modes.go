package domain

import (
	"fmt"
	"strings"
)

type TravelMode string

const (
	TravelWalking TravelMode = "walking"
	TravelDriving TravelMode = "driving"
)

// Average speeds used for duration estimates.
const (
	WalkingSpeedKmh = 4.0
	DrivingSpeedKmh = 30.0
)

func ParseTravelMode(s string) (TravelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "walking", "walk":
		return TravelWalking, nil
	case "driving", "drive":
		return TravelDriving, nil
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}

// SpeedKmh returns the mode's average speed.
func (m TravelMode) SpeedKmh() float64 {
	if m == TravelDriving {
		return DrivingSpeedKmh
	}
	return WalkingSpeedKmh
}

// DurationMinutes estimates travel time for a distance in meters.
func (m TravelMode) DurationMinutes(distanceM float64) float64 {
	return distanceM / 1000 / m.SpeedKmh() * 60
}

// BalanceBy selects the quantity zones are balanced on.
type BalanceBy string

const (
	BalanceByWeight BalanceBy = "weight"
	BalanceByLength BalanceBy = "length"
)

// ParseBalanceBy accepts both the metric names and the request-level
// priorities ("density" balances addresses, "area" balances road length).
func ParseBalanceBy(s string) (BalanceBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "density", "weight":
		return BalanceByWeight, nil
	case "area", "length":
		return BalanceByLength, nil
	}
	return "", fmt.Errorf("unknown balance priority %q", s)
}
