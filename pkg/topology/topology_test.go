package topology

import (
	"errors"
	"reflect"
	"testing"

	"github.com/multimediallc/complot/pkg/schedule"
	"github.com/multimediallc/complot/pkg/selection"
)

func testSegments() []schedule.Segment {
	return []schedule.Segment{
		{ID: 2, Outlet: 1, Branch: 1, MD: 1000, TVD: 900, Diameter: 0.15},
		{ID: 3, Outlet: 2, Branch: 1, MD: 1100, TVD: 950, Diameter: 0.15},
		{ID: 4, Outlet: 3, Branch: 1, MD: 1200, TVD: 1000, Diameter: 0.15},
		{ID: 5, Outlet: 2, Branch: 2, MD: 1000, TVD: 900, Diameter: 0.1},
		{ID: 6, Outlet: 3, Branch: 3, MD: 1100, TVD: 950, Diameter: 0.1},
		{ID: 7, Outlet: 4, Branch: 4, MD: 1200, TVD: 1000, Diameter: 0.1},
		{ID: 8, Outlet: 5, Branch: 5, MD: 1000, TVD: 900, Diameter: 0.2},
		{ID: 9, Outlet: 8, Branch: 5, MD: 1100, TVD: 950, Diameter: 0.2},
		{ID: 10, Outlet: 6, Branch: 6, MD: 1200, TVD: 1000, Diameter: 0.2},
	}
}

func segmentIDs(nodes []Node) []int {
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.Segment
	}
	return ids
}

func TestResolve(t *testing.T) {
	tt := []struct {
		name        string
		sel         selection.WellSelection
		wantTubing  []int
		wantDevice  []int
		wantAnnulus []int
		wantErr     error
	}{
		{
			name:        "all layers",
			sel:         selection.WellSelection{Well: "A", Device: []int{5, 6, 7}, Annulus: []int{8, 9, 10}},
			wantTubing:  []int{2, 3, 4},
			wantDevice:  []int{5, 6, 7},
			wantAnnulus: []int{8, 9, 10},
		},
		{
			name:       "tubing only",
			sel:        selection.WellSelection{Well: "A", Tubing: []int{4, 3, 2}},
			wantTubing: []int{2, 3, 4},
		},
		{
			name:       "default tubing takes every segment",
			sel:        selection.WellSelection{Well: "A"},
			wantTubing: []int{2, 5, 8, 3, 6, 9, 4, 7, 10},
		},
		{
			name:       "single device segment is not modelled",
			sel:        selection.WellSelection{Well: "A", Tubing: []int{2}, Device: []int{5}},
			wantTubing: []int{2},
		},
		{
			name:    "unknown segment",
			sel:     selection.WellSelection{Well: "A", Tubing: []int{2, 3, 40}},
			wantErr: ErrSegmentNotFound,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			layers, err := Resolve(testSegments(), tc.sel, DefaultOffsets())
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := segmentIDs(layers.Tubing); !reflect.DeepEqual(got, tc.wantTubing) {
				t.Errorf("tubing: expected %v, got %v", tc.wantTubing, got)
			}
			if got := segmentIDs(layers.Device); len(got) != len(tc.wantDevice) || (len(got) > 0 && !reflect.DeepEqual(got, tc.wantDevice)) {
				t.Errorf("device: expected %v, got %v", tc.wantDevice, got)
			}
			if got := segmentIDs(layers.Annulus); len(got) != len(tc.wantAnnulus) || (len(got) > 0 && !reflect.DeepEqual(got, tc.wantAnnulus)) {
				t.Errorf("annulus: expected %v, got %v", tc.wantAnnulus, got)
			}
		})
	}
}

func TestResolveOffsets(t *testing.T) {
	sel := selection.WellSelection{Well: "A", Tubing: []int{2, 3, 4}, Device: []int{5, 6, 7}, Annulus: []int{8, 9, 10}}
	layers, err := Resolve(testSegments(), sel, Offsets{Device: 0.5, Annulus: 0.25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if layers.Tubing[0].MD != 1000 {
		t.Errorf("tubing MD should not be shifted, got %v", layers.Tubing[0].MD)
	}
	if layers.Device[0].MD != 999.5 {
		t.Errorf("expected device MD 999.5, got %v", layers.Device[0].MD)
	}
	if layers.Annulus[0].MD != 999.75 {
		t.Errorf("expected annulus MD 999.75, got %v", layers.Annulus[0].MD)
	}
	for _, nodes := range [][]Node{layers.Tubing, layers.Device, layers.Annulus} {
		for i := 1; i < len(nodes); i++ {
			if nodes[i].MD < nodes[i-1].MD {
				t.Errorf("nodes not sorted by MD: %v", nodes)
			}
		}
	}
}

func TestDetectZones(t *testing.T) {
	tt := []struct {
		name        string
		annulus     []schedule.Segment
		wantZones   []int
		wantPackers []float64
	}{
		{
			name: "single zone",
			annulus: []schedule.Segment{
				{ID: 8, Outlet: 5, MD: 1000, TVD: 900},
				{ID: 9, Outlet: 8, MD: 1100, TVD: 950},
				{ID: 10, Outlet: 9, MD: 1200, TVD: 1000},
			},
			wantZones:   []int{1, 1, 1},
			wantPackers: []float64{1000, 1200},
		},
		{
			name: "packer between zones",
			annulus: []schedule.Segment{
				{ID: 8, Outlet: 5, MD: 1000, TVD: 900},
				{ID: 9, Outlet: 8, MD: 1100, TVD: 950},
				{ID: 10, Outlet: 6, MD: 1200, TVD: 1000},
				{ID: 11, Outlet: 10, MD: 1300, TVD: 1050},
			},
			wantZones:   []int{1, 1, 2, 2},
			wantPackers: []float64{1000, 1100, 1200, 1300},
		},
		{
			name: "every segment isolated",
			annulus: []schedule.Segment{
				{ID: 8, Outlet: 5, MD: 1000},
				{ID: 9, Outlet: 6, MD: 1100},
				{ID: 10, Outlet: 7, MD: 1200},
			},
			wantZones:   []int{1, 2, 3},
			wantPackers: []float64{1000, 1000, 1100, 1100, 1200, 1200},
		},
		{
			name:    "single segment",
			annulus: []schedule.Segment{{ID: 8, Outlet: 5, MD: 1000}},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			zones, packers := DetectZones(tc.annulus)
			var gotZones []int
			for _, z := range zones {
				gotZones = append(gotZones, z.Zone)
			}
			var gotPackers []float64
			for _, p := range packers {
				gotPackers = append(gotPackers, p.MD)
			}
			if !reflect.DeepEqual(gotZones, tc.wantZones) {
				t.Errorf("zones: expected %v, got %v", tc.wantZones, gotZones)
			}
			if !reflect.DeepEqual(gotPackers, tc.wantPackers) {
				t.Errorf("packers: expected %v, got %v", tc.wantPackers, gotPackers)
			}
			if len(packers)%2 != 0 {
				t.Errorf("packer count should be even, got %d", len(packers))
			}
			for i := 1; i < len(zones); i++ {
				if zones[i].Zone < zones[i-1].Zone {
					t.Errorf("zone ids should not decrease: %v", gotZones)
				}
			}
			if got, want := ZoneCount(zones), len(uniqueInts(gotZones)); got != want {
				t.Errorf("expected zone count %d, got %d", want, got)
			}
		})
	}
}

func uniqueInts(values []int) map[int]bool {
	seen := make(map[int]bool)
	for _, v := range values {
		seen[v] = true
	}
	return seen
}

func TestTrajectory(t *testing.T) {
	points, err := Trajectory(testSegments(), []int{4, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Point{{MD: 1000, TVD: 900}, {MD: 1100, TVD: 950}, {MD: 1200, TVD: 1000}}
	if !reflect.DeepEqual(points, want) {
		t.Errorf("expected %v, got %v", want, points)
	}
	if _, err := Trajectory(testSegments(), []int{99}); !errors.Is(err, ErrSegmentNotFound) {
		t.Errorf("expected ErrSegmentNotFound, got %v", err)
	}
}
