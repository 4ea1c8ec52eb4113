package domain

import "time"

// ZoneSummary is the externally visible description of a zone.
type ZoneSummary struct {
	ID             int
	Weight         float64
	LengthM        float64
	NumEdges       int
	NumNodes       int
	AssignedFlyers int
	// Boundary is a closed ring (first == last) around the zone's nodes.
	Boundary       []Coordinates
	Bounds         Bounds
	Deviation      float64
	BalanceWarning *BalanceToleranceMissed
}

// JobRoute decorates a Route with job-level presentation fields.
type JobRoute struct {
	Route
	Color                string
	AssignedFlyers       int
	EstimatedAddresses   float64
	EstimatedDurationMin int
}

type JobSummary struct {
	TotalEstimatedAddresses   float64
	TotalDistanceM            float64
	TotalEstimatedDurationMin int
	RequestedZones            int
	AchievedZones             int
	DroppedEdges              int
	UncoveredEdges            int
}

// Job is the immutable result of one route-generation request.
type Job struct {
	ID         string
	CreatedAt  time.Time
	TravelMode TravelMode
	BalanceBy  BalanceBy
	Zones      []ZoneSummary
	Routes     []JobRoute
	Summary    JobSummary
}

// FindRoute returns the route with the given id.
func (j *Job) FindRoute(id int) (*JobRoute, bool) {
	for i := range j.Routes {
		if j.Routes[i].ID == id {
			return &j.Routes[i], true
		}
	}
	return nil, false
}
