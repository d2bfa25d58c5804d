package selection

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Default marks a column that was not supplied
const Default = "1*"

var (
	ErrInvalidRange         = errors.New("segments must be defined by interval segment number e.g 1-200")
	ErrDeviceTubingMismatch = errors.New("the number of device segments is not the same as the number of tubing segments")
	ErrInvalidDays          = errors.New("days must be dash separated numbers e.g 0-365")
)

// WellSelection is the user declared layout of one well branch
type WellSelection struct {
	Well    string
	Branch  int
	Tubing  []int
	Device  []int
	Annulus []int
	Days    []float64
}

// AllTubing reports whether tubing segments were left to default to every segment of the well
func (ws WellSelection) AllTubing() bool {
	return len(ws.Tubing) == 0
}

// HasDevice reports whether a device layer is modelled
func (ws WellSelection) HasDevice() bool {
	return len(ws.Device) > 1
}

// HasAnnulus reports whether an annulus layer is modelled
func (ws WellSelection) HasAnnulus() bool {
	return len(ws.Annulus) > 1
}

// New validates a selection. Declared device segments must pair one-to-one with tubing segments.
func New(well string, branch int, tubing, device, annulus []int, days []float64) (WellSelection, error) {
	if len(device) > 0 && len(tubing) > 0 && len(device) != len(tubing) {
		return WellSelection{}, fmt.Errorf("%w: well %s branch %d has %d device and %d tubing segments",
			ErrDeviceTubingMismatch, well, branch, len(device), len(tubing))
	}
	if len(days) == 0 {
		days = []float64{0}
	}
	return WellSelection{
		Well:    well,
		Branch:  branch,
		Tubing:  tubing,
		Device:  device,
		Annulus: annulus,
		Days:    days,
	}, nil
}

// Parse builds a selection from the text columns of an INFORMATION row
func Parse(well string, branch int, tubing, device, annulus, days string, warn io.Writer) (WellSelection, error) {
	tubingSegments, err := ParseRange(tubing)
	if err != nil {
		return WellSelection{}, fmt.Errorf("tubing segment %q: %w", tubing, err)
	}
	deviceSegments, err := ParseRange(device)
	if err != nil {
		return WellSelection{}, fmt.Errorf("device segment %q: %w", device, err)
	}
	annulusSegments, err := ParseRange(annulus)
	if err != nil {
		return WellSelection{}, fmt.Errorf("annulus segment %q: %w", annulus, err)
	}
	requestedDays, err := ParseDays(days, warn)
	if err != nil {
		return WellSelection{}, fmt.Errorf("days %q: %w", days, err)
	}
	return New(well, branch, tubingSegments, deviceSegments, annulusSegments, requestedDays)
}

// ParseRange expands "a-b" into a..b. The default marker yields nil.
func ParseRange(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == Default || value == "" {
		return nil, nil
	}
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return nil, ErrInvalidRange
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, ErrInvalidRange
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, ErrInvalidRange
	}
	if end < start {
		return nil, fmt.Errorf("%w: end %d is before start %d", ErrInvalidRange, end, start)
	}
	segments := make([]int, 0, end-start+1)
	for s := start; s <= end; s++ {
		segments = append(segments, s)
	}
	return segments, nil
}

// ParseDays splits dash separated days. The default marker selects day 0 with a warning.
func ParseDays(value string, warn io.Writer) ([]float64, error) {
	value = strings.TrimSpace(value)
	if value == Default || value == "" {
		_, _ = fmt.Fprintln(warn, "Warning : Column DAYS is not supplied. Selects the first time step by default.")
		return []float64{0}, nil
	}
	parts := strings.Split(value, "-")
	days := make([]float64, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, ErrInvalidDays
		}
		days = append(days, day)
	}
	return days, nil
}
