package topology

import (
	"github.com/multimediallc/complot/pkg/schedule"
)

// Zone assigns an annulus segment to an isolated compartment
type Zone struct {
	Segment int
	MD      float64
	Zone    int
}

// Packer is a depth bracketing an annulus zone
type Packer struct {
	MD  float64
	TVD float64
}

// DetectZones walks annulus segments sorted by MD. A segment whose outlet is not the previous
// segment starts a new zone, and both depths around the break are recorded as packers.
// The packer list opens with the first segment and closes with the last, so it always has even length.
func DetectZones(annulus []schedule.Segment) ([]Zone, []Packer) {
	if len(annulus) < 2 {
		return nil, nil
	}
	zones := make([]Zone, len(annulus))
	packers := []Packer{{MD: annulus[0].MD, TVD: annulus[0].TVD}}
	zones[0] = Zone{Segment: annulus[0].ID, MD: annulus[0].MD, Zone: 1}
	for i := 1; i < len(annulus); i++ {
		prev, curr := annulus[i-1], annulus[i]
		zone := zones[i-1].Zone
		if curr.Outlet != prev.ID {
			packers = append(packers,
				Packer{MD: prev.MD, TVD: prev.TVD},
				Packer{MD: curr.MD, TVD: curr.TVD},
			)
			zone++
		}
		zones[i] = Zone{Segment: curr.ID, MD: curr.MD, Zone: zone}
	}
	last := annulus[len(annulus)-1]
	packers = append(packers, Packer{MD: last.MD, TVD: last.TVD})
	return zones, packers
}

// ZoneCount returns the number of annulus zones
func ZoneCount(zones []Zone) int {
	if len(zones) == 0 {
		return 0
	}
	return zones[len(zones)-1].Zone
}

// ZoneBySegment indexes zone ids by segment id
func ZoneBySegment(zones []Zone) map[int]int {
	index := make(map[int]int, len(zones))
	for _, z := range zones {
		index[z.Segment] = z.Zone
	}
	return index
}
