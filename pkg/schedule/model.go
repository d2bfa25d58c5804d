package schedule

import (
	"errors"
	"fmt"

	"github.com/multimediallc/complot/pkg/interval"
)

// MissingValue is the connection factor and KH used when a deck leaves them defaulted
const MissingValue = 1.0e-10

var ErrWellNotFound = errors.New("well not found in schedule")

// Segment is one WELSEGS node
type Segment struct {
	ID       int
	Outlet   int
	Branch   int
	MD       float64
	TVD      float64
	Diameter float64
}

// SegmentHeader is the first WELSEGS record of a well
type SegmentHeader struct {
	Well     string
	TopTVD   float64
	TopMD    float64
	InfoType string
}

// Completion is one COMPSEGS record, the measured-depth interval of a grid cell along a branch
type Completion struct {
	I       int
	J       int
	K       int
	Branch  int
	StartMD float64
	EndMD   float64
}

func (c Completion) Cell() Cell {
	return Cell{I: c.I, J: c.J, K: c.K}
}

func (c Completion) Interval() interval.Interval {
	return interval.Interval{Start: c.StartMD, End: c.EndMD}
}

// Cell is a grid cell coordinate
type Cell struct {
	I int
	J int
	K int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.I, c.J, c.K)
}

// CellProps holds the static COMPDAT properties of a cell. Nil values were defaulted or non-numeric in the deck.
type CellProps struct {
	CF *float64
	KH *float64
}

// ResolvedCF returns the connection factor, or MissingValue when not given
func (p CellProps) ResolvedCF() float64 {
	if p.CF == nil {
		return MissingValue
	}
	return *p.CF
}

// ResolvedKH returns the KH, or MissingValue when not given
func (p CellProps) ResolvedKH() float64 {
	if p.KH == nil {
		return MissingValue
	}
	return *p.KH
}

// WellSchedule is the schedule data of a single well
type WellSchedule struct {
	Name        string
	Header      SegmentHeader
	Segments    []Segment
	Completions []Completion
	Cells       map[Cell]CellProps
}

// Segment returns the WELSEGS record with the given id
func (ws WellSchedule) Segment(id int) (Segment, bool) {
	for _, seg := range ws.Segments {
		if seg.ID == id {
			return seg, true
		}
	}
	return Segment{}, false
}

// Deck is a parsed schedule file
type Deck struct {
	headers     map[string]SegmentHeader
	segments    map[string][]Segment
	completions map[string][]Completion
	cells       map[string]map[Cell]CellProps
	wells       []string
}

func newDeck() *Deck {
	return &Deck{
		headers:     make(map[string]SegmentHeader),
		segments:    make(map[string][]Segment),
		completions: make(map[string][]Completion),
		cells:       make(map[string]map[Cell]CellProps),
		wells:       make([]string, 0),
	}
}

// Wells returns the wells with WELSEGS data, in deck order
func (d *Deck) Wells() []string {
	return d.wells
}

// Well returns the schedule data of the named well
func (d *Deck) Well(name string) (WellSchedule, error) {
	segments, ok := d.segments[name]
	if !ok {
		return WellSchedule{}, fmt.Errorf("%w: %s has no WELSEGS", ErrWellNotFound, name)
	}
	completions, ok := d.completions[name]
	if !ok {
		return WellSchedule{}, fmt.Errorf("%w: %s has no COMPSEGS", ErrWellNotFound, name)
	}
	cells := d.cells[name]
	if cells == nil {
		cells = make(map[Cell]CellProps)
	}
	return WellSchedule{
		Name:        name,
		Header:      d.headers[name],
		Segments:    segments,
		Completions: completions,
		Cells:       cells,
	}, nil
}
