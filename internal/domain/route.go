package domain

// RouteAlgorithm records which strategy produced a route.
type RouteAlgorithm string

const (
	AlgorithmPostman RouteAlgorithm = "postman"
	AlgorithmGreedy  RouteAlgorithm = "greedy"
	AlgorithmNone    RouteAlgorithm = "none"
)

// A single traversal of an edge, in travel direction.
type RouteStep struct {
	Edge EdgeID
	From NodeID
	To   NodeID
}

// A merged, numbered turn-by-turn instruction.
type Direction struct {
	Step        int
	Instruction string
	Street      string
	DistanceM   float64
}

// Represents the walk generated for one zone.
// Nodes has len(Steps)+1 entries when the route is non-empty.
type Route struct {
	ID        int
	ZoneID    int
	StartNode NodeID
	EndNode   NodeID
	Nodes     []NodeID
	Steps     []RouteStep
	Waypoints []Coordinates
	// TotalDistanceM counts every traversal, repeated edges included.
	TotalDistanceM     float64
	DuplicateDistanceM float64
	Directions         []Direction
	UncoveredEdges     []EdgeID
	Coverage           *PartialCoverageWarning
	Algorithm          RouteAlgorithm
	FailureReason      string
	// ReturnLegMissing is set when the walk could not get back to its start.
	ReturnLegMissing bool
}

// Closed reports whether the walk ends where it started.
func (r *Route) Closed() bool {
	return len(r.Nodes) > 0 && r.Nodes[0] == r.Nodes[len(r.Nodes)-1]
}
