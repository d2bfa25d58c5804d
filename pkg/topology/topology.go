package topology

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	f "github.com/multimediallc/complot/pkg/functional"
	"github.com/multimediallc/complot/pkg/schedule"
	"github.com/multimediallc/complot/pkg/selection"
)

var ErrSegmentNotFound = errors.New("segment is not defined in WELSEGS")

// Offsets are the distances device and annulus inflow points sit upstream of their segment node
type Offsets struct {
	Device  float64
	Annulus float64
}

func DefaultOffsets() Offsets {
	return Offsets{Device: 0.1, Annulus: 0.1}
}

// Node is a segment placed in a flow layer. MD includes the layer offset.
type Node struct {
	Segment  int
	Outlet   int
	MD       float64
	TVD      float64
	Diameter float64
}

// Layers holds the tubing, device and annulus nodes of a well branch, each sorted by MD
type Layers struct {
	Tubing  []Node
	Device  []Node
	Annulus []Node
}

// Point is a trajectory sample
type Point struct {
	MD  float64
	TVD float64
}

// Trajectory returns the tubing path of a well, MD ascending
func Trajectory(segments []schedule.Segment, tubingIDs []int) ([]Point, error) {
	tubing, err := Select(segments, tubingIDs)
	if err != nil {
		return nil, err
	}
	points := make([]Point, len(tubing))
	for i, seg := range tubing {
		points[i] = Point{MD: seg.MD, TVD: seg.TVD}
	}
	return points, nil
}

func byDepth(a, b schedule.Segment) int {
	if c := cmp.Compare(a.MD, b.MD); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Select returns the segments with the given ids sorted by MD, then id
func Select(segments []schedule.Segment, ids []int) ([]schedule.Segment, error) {
	index := make(map[int]schedule.Segment, len(segments))
	for _, seg := range segments {
		index[seg.ID] = seg
	}
	selected := make([]schedule.Segment, 0, len(ids))
	for _, id := range ids {
		seg, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrSegmentNotFound, id)
		}
		selected = append(selected, seg)
	}
	slices.SortStableFunc(selected, byDepth)
	return selected, nil
}

// TubingIDs returns the declared tubing segments, or every segment outside the device and annulus ranges
func TubingIDs(segments []schedule.Segment, sel selection.WellSelection) []int {
	if !sel.AllTubing() {
		return sel.Tubing
	}
	outer := f.NewSet(sel.Device...)
	for _, id := range sel.Annulus {
		outer.Add(id)
	}
	return f.Map(f.Filtered(segments, func(seg schedule.Segment) bool {
		return !outer.Contains(seg.ID)
	}), func(seg schedule.Segment) int { return seg.ID })
}

func toNodes(segments []schedule.Segment, offset float64) []Node {
	nodes := make([]Node, len(segments))
	for i, seg := range segments {
		nodes[i] = Node{
			Segment:  seg.ID,
			Outlet:   seg.Outlet,
			MD:       seg.MD - offset,
			TVD:      seg.TVD,
			Diameter: seg.Diameter,
		}
	}
	return nodes
}

// Resolve partitions the well's segments into flow layers. Device and annulus layers with fewer
// than two segments are not modelled and come back empty.
func Resolve(segments []schedule.Segment, sel selection.WellSelection, offsets Offsets) (Layers, error) {
	var layers Layers

	tubing, err := Select(segments, TubingIDs(segments, sel))
	if err != nil {
		return layers, fmt.Errorf("tubing layer of %s: %w", sel.Well, err)
	}
	layers.Tubing = toNodes(tubing, 0)

	if sel.HasDevice() {
		device, err := Select(segments, sel.Device)
		if err != nil {
			return layers, fmt.Errorf("device layer of %s: %w", sel.Well, err)
		}
		layers.Device = toNodes(device, offsets.Device)
	}

	if sel.HasAnnulus() {
		annulus, err := Select(segments, sel.Annulus)
		if err != nil {
			return layers, fmt.Errorf("annulus layer of %s: %w", sel.Well, err)
		}
		layers.Annulus = toNodes(annulus, offsets.Annulus)
	}
	return layers, nil
}
