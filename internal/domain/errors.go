package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyArea is returned when the selected area holds no usable road edges.
// It is the only partitioning failure that aborts a job.
var ErrEmptyArea = errors.New("no usable road edges in area")

// InsufficientAreaError reports that fewer connected zones could be built
// than were requested. It is carried on the partition, not returned.
type InsufficientAreaError struct {
	Requested int
	Achieved  int
}

func (e *InsufficientAreaError) Error() string {
	return fmt.Sprintf("insufficient area: requested %d zones, achieved %d", e.Requested, e.Achieved)
}

func (e *InsufficientAreaError) Shortfall() int { return e.Requested - e.Achieved }

// BalanceToleranceMissed is attached to a zone whose metric ended outside
// the tolerance band around the per-zone target.
type BalanceToleranceMissed struct {
	ZoneID    int
	Target    float64
	Actual    float64
	Deviation float64
	Tolerance float64
}

func (w *BalanceToleranceMissed) Error() string {
	return fmt.Sprintf(
		"zone %d outside balance band: metric=%.1f target=%.1f deviation=%+.1f%% tolerance=%.0f%%",
		w.ZoneID, w.Actual, w.Target, w.Deviation*100, w.Tolerance*100,
	)
}

// PartialCoverageWarning is attached to a route that left edges of its zone untraversed.
type PartialCoverageWarning struct {
	ZoneID    int
	Uncovered int
	Total     int
}

func (w *PartialCoverageWarning) Error() string {
	return fmt.Sprintf("zone %d route left %d of %d edges uncovered", w.ZoneID, w.Uncovered, w.Total)
}
