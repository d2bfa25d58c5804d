package reconcile

import (
	"errors"
	"fmt"
	"io"
	"time"

	f "github.com/multimediallc/complot/pkg/functional"
	"github.com/multimediallc/complot/pkg/merger"
	"github.com/multimediallc/complot/pkg/summary"
	"github.com/multimediallc/complot/pkg/topology"
)

type Section string

const (
	SectionDevice    Section = "Device"
	SectionTubing    Section = "Tubing"
	SectionAnnulus   Section = "Annulus"
	SectionReservoir Section = "Reservoir"
)

const (
	Pressure     = "SPR"
	PressureDrop = "SPRD"
	OilRate      = "SOFR"
	WaterRate    = "SWFR"
	GasRate      = "SGFRF"
)

// SegmentKeywords are the segment vectors reconciled by default
var SegmentKeywords = []string{Pressure, PressureDrop, OilRate, WaterRate, GasRate}

var ErrLayerMismatch = errors.New("device and tubing layers differ in size")

func isRate(keyword string) bool {
	return keyword == OilRate || keyword == WaterRate || keyword == GasRate
}

type Options struct {
	// MinRate is the liquid rate below which water cut is reported as zero
	MinRate float64

	// ZoneTolerance is the distance a device may sit above an annulus segment and still drain into its zone
	ZoneTolerance float64

	Keywords []string
}

func DefaultOptions() Options {
	return Options{
		MinRate:       0.1,
		ZoneTolerance: 0.1,
		Keywords:      SegmentKeywords,
	}
}

// Pass is everything needed to reconcile one well branch of one case
type Pass struct {
	Well    string
	Case    string
	Branch  int
	Steps   []int
	Tubing  []merger.Row
	Device  []merger.Row
	Annulus []merger.Row
	Zones   []topology.Zone
}

type Engine struct {
	src  summary.Source
	opts Options
	warn io.Writer
}

func NewEngine(src summary.Source, opts Options, warn io.Writer) *Engine {
	if warn == nil {
		warn = io.Discard
	}
	return &Engine{src: src, opts: opts, warn: warn}
}

type layerValues map[string][]float64

type stepValues struct {
	device    layerValues
	tubing    layerValues
	annulus   layerValues
	reservoir layerValues
}

// Reconcile produces the Device, Tubing, Annulus and Reservoir sections of a pass, in that
// order, each covering every requested step
func (e *Engine) Reconcile(p Pass) ([]Row, error) {
	if len(p.Device) > 0 && len(p.Device) != len(p.Tubing) {
		return nil, fmt.Errorf("%w: %s has %d device and %d tubing segments", ErrLayerMismatch, p.Well, len(p.Device), len(p.Tubing))
	}
	days, dates := e.src.Days(), e.src.Dates()
	for _, step := range p.Steps {
		if step < 0 || step >= len(days) {
			return nil, fmt.Errorf("report step %d out of range for %s", step, p.Well)
		}
	}

	r := &reader{src: e.src, well: p.Well, cache: make(map[string][]float64)}
	keywords := e.validKeywords(r, p)

	values := make([]stepValues, len(p.Steps))
	for i, step := range p.Steps {
		v, err := e.cascade(r, p, keywords, step)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	var rows []Row
	emit := func(section Section, layer []merger.Row, pick func(stepValues) layerValues) {
		for i, step := range p.Steps {
			var date time.Time
			if step < len(dates) {
				date = dates[step]
			}
			for k, mr := range layer {
				row := newRow(p, section, days[step], date, mr)
				row.setQuantities(pick(values[i]), k)
				row.derive(e.opts.MinRate)
				rows = append(rows, row)
			}
		}
	}
	emit(SectionDevice, p.Device, func(v stepValues) layerValues { return v.device })
	emit(SectionTubing, p.Tubing, func(v stepValues) layerValues { return v.tubing })
	emit(SectionAnnulus, p.Annulus, func(v stepValues) layerValues { return v.annulus })
	emit(SectionReservoir, p.Tubing, func(v stepValues) layerValues { return v.reservoir })
	return rows, nil
}

// validKeywords probes every vector a pass reads. A keyword missing for any segment is dropped
// for the whole pass.
func (e *Engine) validKeywords(r *reader, p Pass) []string {
	return f.Filtered(e.opts.Keywords, func(kw string) bool {
		layers := [][]merger.Row{p.Device, p.Annulus}
		if kw != GasRate || len(p.Device) == 0 {
			layers = append(layers, p.Tubing)
		}
		for _, layer := range layers {
			for _, mr := range layer {
				if _, err := r.vector(kw, mr.Segment); err != nil {
					fmt.Fprintf(e.warn, "Warning : %s vector is not found in %s\n", kw, p.Well)
					return false
				}
			}
		}
		return true
	})
}

func (e *Engine) cascade(r *reader, p Pass, keywords []string, step int) (stepValues, error) {
	v := stepValues{
		device:    make(layerValues),
		tubing:    make(layerValues),
		annulus:   make(layerValues),
		reservoir: make(layerValues),
	}
	var err error
	for _, kw := range keywords {
		if v.device[kw], err = r.at(kw, p.Device, step); err != nil {
			return v, err
		}
		if v.annulus[kw], err = r.at(kw, p.Annulus, step); err != nil {
			return v, err
		}
		if kw == GasRate && len(p.Device) > 0 {
			v.tubing[kw] = reverseCumSum(v.device[kw])
		} else if v.tubing[kw], err = r.at(kw, p.Tubing, step); err != nil {
			return v, err
		}

		switch {
		case !isRate(kw):
			v.reservoir[kw] = make([]float64, len(p.Tubing))
		case len(p.Annulus) > 0 && len(p.Device) > 0:
			v.reservoir[kw] = e.annulusInflow(p, v.device[kw], v.annulus[kw])
		default:
			v.reservoir[kw] = firstDifference(v.tubing[kw])
		}
	}
	return v, nil
}

func (e *Engine) annulusInflow(p Pass, device, annulus []float64) []float64 {
	zones := topology.ZoneBySegment(p.Zones)
	deviceSamples := make([]sample, len(p.Device))
	for i, mr := range p.Device {
		deviceSamples[i] = sample{md: mr.MD, value: device[i]}
	}
	annulusSamples := make([]sample, len(p.Annulus))
	for i, mr := range p.Annulus {
		annulusSamples[i] = sample{md: mr.MD, value: annulus[i], zone: zones[mr.Segment]}
	}
	inflow := zoneBalance(deviceSamples, annulusSamples, e.opts.ZoneTolerance)
	return nearestOnto(inflow, f.Map(p.Tubing, func(mr merger.Row) float64 { return mr.MD }))
}

// reader caches the segment vectors of one well
type reader struct {
	src   summary.Source
	well  string
	cache map[string][]float64
}

func (r *reader) vector(kw string, segment int) ([]float64, error) {
	key := summary.Key(kw, r.well, segment)
	if v, ok := r.cache[key]; ok {
		return v, nil
	}
	v, err := r.src.Vector(key)
	if err != nil {
		return nil, err
	}
	r.cache[key] = v
	return v, nil
}

func (r *reader) at(kw string, layer []merger.Row, step int) ([]float64, error) {
	values := make([]float64, len(layer))
	for i, mr := range layer {
		v, err := r.vector(kw, mr.Segment)
		if err != nil {
			return nil, err
		}
		if step >= len(v) {
			return nil, fmt.Errorf("%s has %d report steps, step %d requested", summary.Key(kw, r.well, mr.Segment), len(v), step)
		}
		values[i] = v[step]
	}
	return values, nil
}

// Days returns the distinct days of rows in first appearance order
func Days(rows []Row) []float64 {
	return f.RemoveDuplicates(f.Map(rows, func(r Row) float64 { return r.Day }))
}
