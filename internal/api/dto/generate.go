package dto

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type AreaRequest struct {
	Type    string   `json:"type"`
	Center  *LatLng  `json:"center"`
	RadiusM float64  `json:"radius_m"`
	Points  []LatLng `json:"points"`
}

// Absent numeric fields fall back to defaults; explicit zeros are validated.
type GenerateRequest struct {
	Area            AreaRequest `json:"area"`
	NumRoutes       *int        `json:"num_routes"`
	TotalFlyers     *int        `json:"total_flyers"`
	TravelMode      string      `json:"travel_mode"`
	StartPoint      *LatLng     `json:"start_point"`
	ReturnToStart   bool        `json:"return_to_start"`
	BalancePriority string      `json:"balance_priority"`
}
