package services

import (
	"reflect"
	"testing"

	"flyer-route-service/internal/domain"
)

func TestMergeDirections(t *testing.T) {
	in := []domain.Direction{
		{Street: "Main St", DistanceM: 100},
		{Street: "Main St", DistanceM: 50},
		{Street: "", DistanceM: 20},
		{Street: "Oak Ave", DistanceM: 80},
		{Street: "Main St", DistanceM: 10},
	}

	got := MergeDirections(in)
	want := []domain.Direction{
		{Step: 1, Instruction: "Start on Main St", Street: "Main St", DistanceM: 150},
		{Step: 2, Instruction: "Turn onto Unnamed Road", Street: domain.UnnamedStreet, DistanceM: 20},
		{Step: 3, Instruction: "Turn onto Oak Ave", Street: "Oak Ave", DistanceM: 80},
		{Step: 4, Instruction: "Turn onto Main St", Street: "Main St", DistanceM: 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merge = %+v\nwant   %+v", got, want)
	}

	again := MergeDirections(got)
	if !reflect.DeepEqual(again, got) {
		t.Fatalf("merging twice changed output: %+v", again)
	}
}

func TestMergeDirectionsEmpty(t *testing.T) {
	if got := MergeDirections(nil); len(got) != 0 {
		t.Fatalf("merge(nil) = %+v, want empty", got)
	}
}

func TestSummarizeDirectionsUsesEdgeNames(t *testing.T) {
	g := squareGraph(t)
	steps := []domain.RouteStep{
		{Edge: 0, From: 1, To: 2},
		{Edge: 1, From: 2, To: 3},
		{Edge: 2, From: 3, To: 4},
	}
	got := SummarizeDirections(g, steps)
	if len(got) != 2 {
		t.Fatalf("directions = %d, want 2", len(got))
	}
	if got[0].DistanceM != 200 || got[1].DistanceM != 100 {
		t.Fatalf("distances = %v, %v; want 200, 100", got[0].DistanceM, got[1].DistanceM)
	}
}
