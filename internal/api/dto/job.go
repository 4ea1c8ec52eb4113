package dto

import "time"

type DirectionResponse struct {
	Step        int     `json:"step"`
	Instruction string  `json:"instruction"`
	Street      string  `json:"street"`
	DistanceM   float64 `json:"distance_m"`
}

type RouteResponse struct {
	RouteID              int                 `json:"route_id"`
	ZoneID               int                 `json:"zone_id"`
	Color                string              `json:"color"`
	AssignedFlyers       int                 `json:"assigned_flyers"`
	EstimatedAddresses   float64             `json:"estimated_addresses"`
	TotalDistanceM       float64             `json:"total_distance_m"`
	DuplicateDistanceM   float64             `json:"duplicate_distance_m"`
	EstimatedDurationMin int                 `json:"estimated_duration_min"`
	Algorithm            string              `json:"algorithm"`
	TurnByTurn           []DirectionResponse `json:"turn_by_turn"`
	// Waypoints are [lat, lng] pairs in walking order.
	Waypoints        [][2]float64 `json:"waypoints"`
	UncoveredEdges   int          `json:"uncovered_edges"`
	ReturnLegMissing bool         `json:"return_leg_missing,omitempty"`
	Warning          string       `json:"warning,omitempty"`
	Error            string       `json:"error,omitempty"`
}

type BoundsResponse struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

type ZoneResponse struct {
	ZoneID             int            `json:"zone_id"`
	EstimatedAddresses float64        `json:"estimated_addresses"`
	TotalLengthM       float64        `json:"total_length_m"`
	NumEdges           int            `json:"num_edges"`
	NumNodes           int            `json:"num_nodes"`
	AssignedFlyers     int            `json:"assigned_flyers"`
	Boundary           [][2]float64   `json:"boundary"`
	Bounds             BoundsResponse `json:"bounds"`
	Deviation          float64        `json:"deviation"`
	Warning            string         `json:"warning,omitempty"`
}

type SummaryResponse struct {
	TotalAddressesEstimated   float64 `json:"total_addresses_estimated"`
	TotalDistanceM            float64 `json:"total_distance_m"`
	TotalEstimatedDurationMin int     `json:"total_estimated_duration_min"`
	RequestedZones            int     `json:"requested_zones"`
	AchievedZones             int     `json:"achieved_zones"`
	DroppedEdges              int     `json:"dropped_edges"`
	UncoveredEdges            int     `json:"uncovered_edges"`
}

type JobResponse struct {
	JobID      string          `json:"job_id"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	TravelMode string          `json:"travel_mode"`
	BalanceBy  string          `json:"balance_by"`
	Zones      []ZoneResponse  `json:"zones"`
	Routes     []RouteResponse `json:"routes"`
	Summary    SummaryResponse `json:"summary"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
