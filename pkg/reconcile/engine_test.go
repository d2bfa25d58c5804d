package reconcile

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/multimediallc/complot/pkg/merger"
	"github.com/multimediallc/complot/pkg/summary"
	"github.com/multimediallc/complot/pkg/topology"
)

const tolerance = 1e-9

func layer(segments []int, mds []float64) []merger.Row {
	rows := make([]merger.Row, len(segments))
	for i, seg := range segments {
		rows[i] = merger.Row{Segment: seg, MD: mds[i], StartMD: mds[i] - 5, EndMD: mds[i] + 5, Thickness: 10, Diameter: 0.15, CF: 1, KH: 1}
	}
	return rows
}

func newSource(t *testing.T, steps int, vectors map[string][]float64) *summary.Table {
	t.Helper()
	days := make([]float64, steps)
	dates := make([]time.Time, steps)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range steps {
		days[i] = float64(i * 10)
		dates[i] = start.AddDate(0, 0, i*10)
	}
	table := summary.NewTable(days, dates)
	for key, values := range vectors {
		if err := table.Set(key, values); err != nil {
			t.Fatal(err)
		}
	}
	return table
}

func values(rows []Row, section Section, get func(Row) *float64) []float64 {
	var out []float64
	for _, r := range rows {
		if r.Section != section {
			continue
		}
		if v := get(r); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func approxEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

func oil(r Row) *float64 { return r.SOFR }
func gas(r Row) *float64 { return r.SGFRF }

func TestReconcileTubingOnly(t *testing.T) {
	src := newSource(t, 1, map[string][]float64{
		"SOFR:A:2": {10}, "SOFR:A:3": {7}, "SOFR:A:4": {7}, "SOFR:A:5": {0},
		"SWFR:A:2": {1}, "SWFR:A:3": {1}, "SWFR:A:4": {1}, "SWFR:A:5": {0},
	})
	warn := &bytes.Buffer{}
	engine := NewEngine(src, Options{MinRate: 0.1, ZoneTolerance: 0.1, Keywords: []string{Pressure, OilRate, WaterRate}}, warn)
	rows, err := engine.Reconcile(Pass{
		Well:   "A",
		Branch: 1,
		Steps:  []int{0},
		Tubing: layer([]int{2, 3, 4, 5}, []float64{1000, 1100, 1200, 1300}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(rows))
	}
	if got := values(rows, SectionReservoir, oil); !approxEqual(got, []float64{3, 0, 7, 0}) {
		t.Errorf("expected reservoir oil [3 0 7 0], got %v", got)
	}
	if !strings.Contains(warn.String(), "Warning : SPR vector is not found in A") {
		t.Errorf("expected SPR warning, got %q", warn.String())
	}
	for _, r := range rows {
		if r.SPR != nil {
			t.Fatalf("SPR should be excluded, got %v in %s", *r.SPR, r.Section)
		}
		if r.SGOR != nil {
			t.Fatalf("SGOR needs a gas rate")
		}
		if r.SWCT == nil {
			t.Fatalf("SWCT should be derived for %s", r.Section)
		}
	}
}

func TestReconcileDeviceGas(t *testing.T) {
	src := newSource(t, 2, map[string][]float64{
		"SGFRF:A:5": {1, 10}, "SGFRF:A:6": {2, 20}, "SGFRF:A:7": {3, 30},
		"SPR:A:2": {200, 190}, "SPR:A:3": {201, 191}, "SPR:A:4": {202, 192},
		"SPR:A:5": {203, 193}, "SPR:A:6": {204, 194}, "SPR:A:7": {205, 195},
	})
	engine := NewEngine(src, Options{MinRate: 0.1, ZoneTolerance: 0.1, Keywords: []string{Pressure, GasRate}}, nil)
	rows, err := engine.Reconcile(Pass{
		Well:   "A",
		Branch: 1,
		Steps:  []int{1},
		Tubing: layer([]int{2, 3, 4}, []float64{1000, 1100, 1200}),
		Device: layer([]int{5, 6, 7}, []float64{999.9, 1099.9, 1199.9}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := values(rows, SectionTubing, gas); !approxEqual(got, []float64{60, 50, 30}) {
		t.Errorf("expected tubing gas [60 50 30], got %v", got)
	}
	if got := values(rows, SectionReservoir, gas); !approxEqual(got, []float64{10, 20, 30}) {
		t.Errorf("expected reservoir gas [10 20 30], got %v", got)
	}
	if got := values(rows, SectionReservoir, func(r Row) *float64 { return r.SPR }); !approxEqual(got, []float64{0, 0, 0}) {
		t.Errorf("expected zero reservoir pressure, got %v", got)
	}
	if got := values(rows, SectionTubing, func(r Row) *float64 { return r.SPR }); !approxEqual(got, []float64{190, 191, 192}) {
		t.Errorf("expected raw tubing pressure, got %v", got)
	}
}

func TestReconcileSectionOrder(t *testing.T) {
	src := newSource(t, 2, map[string][]float64{
		"SOFR:A:2": {0, 0}, "SOFR:A:3": {0, 0},
		"SOFR:A:5": {0, 0}, "SOFR:A:6": {0, 0},
		"SOFR:A:8": {0, 0}, "SOFR:A:9": {0, 0},
	})
	engine := NewEngine(src, Options{MinRate: 0.1, ZoneTolerance: 0.1, Keywords: []string{OilRate}}, nil)
	rows, err := engine.Reconcile(Pass{
		Well:    "A",
		Case:    "BASE",
		Branch:  1,
		Steps:   []int{0, 1},
		Tubing:  layer([]int{2, 3}, []float64{1000, 1100}),
		Device:  layer([]int{5, 6}, []float64{999.9, 1099.9}),
		Annulus: layer([]int{8, 9}, []float64{999.9, 1099.9}),
		Zones:   []topology.Zone{{Segment: 8, Zone: 1}, {Segment: 9, Zone: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, r := range rows {
		got = append(got, string(r.Section)+"@"+r.Date.Format(time.DateOnly))
	}
	var expected []string
	for _, s := range []Section{SectionDevice, SectionTubing, SectionAnnulus, SectionReservoir} {
		for _, d := range []string{"2024-01-01", "2024-01-11"} {
			expected = append(expected, string(s)+"@"+d, string(s)+"@"+d)
		}
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
	if rows[0].Case != "BASE" || rows[0].Branch != 1 {
		t.Errorf("unexpected row identity %+v", rows[0])
	}
	if !reflect.DeepEqual(Days(rows), []float64{0, 10}) {
		t.Errorf("unexpected days %v", Days(rows))
	}
}

func TestReconcileErrors(t *testing.T) {
	src := newSource(t, 1, map[string][]float64{"SOFR:A:2": {1}})
	engine := NewEngine(src, DefaultOptions(), nil)

	_, err := engine.Reconcile(Pass{
		Well:   "A",
		Steps:  []int{0},
		Tubing: layer([]int{2, 3}, []float64{1000, 1100}),
		Device: layer([]int{5, 6, 7}, []float64{999.9, 1099.9, 1199.9}),
	})
	if !errors.Is(err, ErrLayerMismatch) {
		t.Errorf("expected ErrLayerMismatch, got %v", err)
	}

	if _, err := engine.Reconcile(Pass{Well: "A", Steps: []int{3}, Tubing: layer([]int{2}, []float64{1000})}); err == nil {
		t.Error("expected error for out of range step")
	}
}

func TestDerivedFields(t *testing.T) {
	tt := []struct {
		name    string
		oil     float64
		water   float64
		gas     float64
		wantWCT float64
		wantGOR float64
	}{
		{"below min rate", 0.05, 0.02, 0, 0, 0},
		{"normal", 90, 10, 9000, 10 / (100 + epsilon), 9000 / (90 + epsilon)},
		{"negative rates use magnitude", -90, -10, -900, 10 / (100 + epsilon), 900 / (90 + epsilon)},
		{"no oil", 0, 5, 100, 5 / (5 + epsilon), 100 / epsilon},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			r := Row{Diameter: 0.2, Thickness: 4, SOFR: ptr(tc.oil), SWFR: ptr(tc.water), SGFRF: ptr(tc.gas)}
			r.derive(0.1)
			if math.Abs(*r.SWCT-tc.wantWCT) > tolerance {
				t.Errorf("expected water cut %v, got %v", tc.wantWCT, *r.SWCT)
			}
			if math.Abs(*r.SGOR-tc.wantGOR) > tolerance*math.Max(1, tc.wantGOR) {
				t.Errorf("expected GOR %v, got %v", tc.wantGOR, *r.SGOR)
			}
			area := math.Pi * 0.2 * 0.1
			if math.Abs(r.Area-area) > tolerance {
				t.Errorf("expected area %v, got %v", area, r.Area)
			}
			if math.Abs(*r.OilVelocity-tc.oil/area) > tolerance*math.Max(1, math.Abs(tc.oil/area)) {
				t.Errorf("unexpected oil velocity %v", *r.OilVelocity)
			}
			if math.Abs(*r.OilVelocitySec-tc.oil/area/86400) > tolerance {
				t.Errorf("unexpected oil velocity per second %v", *r.OilVelocitySec)
			}
			if math.Abs(*r.WaterPerLength-tc.water/(4+1e-6)) > tolerance {
				t.Errorf("unexpected water per length %v", *r.WaterPerLength)
			}
		})
	}
}

func TestDerivedFieldsMissingRates(t *testing.T) {
	r := Row{Diameter: 0.2, SPR: ptr(100)}
	r.derive(0.1)
	if r.SWCT != nil || r.SGOR != nil || r.OilVelocity != nil || r.GasPerLength != nil {
		t.Errorf("derived fields should be nil without rates: %+v", r)
	}
}
