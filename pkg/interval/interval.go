package interval

import "errors"

// ErrSegmentNotInGrid is returned when a depth falls outside every interval
var ErrSegmentNotInGrid = errors.New("segment is not found inside grid cells")

// Interval is a closed measured-depth range
type Interval struct {
	Start float64
	End   float64
}

// Contains reports whether start <= point <= end
func (iv Interval) Contains(point float64) bool {
	return iv.Start <= point && point <= iv.End
}

// Length returns end - start
func (iv Interval) Length() float64 {
	return iv.End - iv.Start
}

// FindContaining returns the index of the first interval, in input order, that contains point.
// Intervals are expected to be sorted by start so that ties resolve deterministically.
func FindContaining(point float64, intervals []Interval) (int, error) {
	for i, iv := range intervals {
		if iv.Contains(point) {
			return i, nil
		}
	}
	return -1, ErrSegmentNotInGrid
}
