package reconcile

import (
	"math"
	"time"

	"github.com/multimediallc/complot/pkg/merger"
)

const (
	epsilon       = 1e-5
	lengthEpsilon = 1e-6
	sliceLength   = 0.1
	secondsPerDay = 24 * 60 * 60
)

// Row is one segment of one section at one report step. Quantities are nil when their
// keyword is not available for the pass.
type Row struct {
	Well      string
	Case      string
	Branch    int
	Section   Section
	Day       float64
	Date      time.Time
	Segment   int
	MD        float64
	StartMD   float64
	EndMD     float64
	CF        float64
	KH        float64
	Thickness float64
	Diameter  float64

	SPR   *float64
	SPRD  *float64
	SOFR  *float64
	SWFR  *float64
	SGFRF *float64
	SWCT  *float64
	SGOR  *float64

	// Area is the flow area of a 10 cm slice of the segment
	Area float64

	OilVelocity      *float64
	OilVelocitySec   *float64
	OilPerLength     *float64
	WaterVelocity    *float64
	WaterVelocitySec *float64
	WaterPerLength   *float64
	GasVelocity      *float64
	GasVelocitySec   *float64
	GasPerLength     *float64
}

func ptr(v float64) *float64 {
	return &v
}

func newRow(p Pass, section Section, day float64, date time.Time, mr merger.Row) Row {
	return Row{
		Well:      p.Well,
		Case:      p.Case,
		Branch:    p.Branch,
		Section:   section,
		Day:       day,
		Date:      date,
		Segment:   mr.Segment,
		MD:        mr.MD,
		StartMD:   mr.StartMD,
		EndMD:     mr.EndMD,
		CF:        mr.CF,
		KH:        mr.KH,
		Thickness: mr.Thickness,
		Diameter:  mr.Diameter,
	}
}

func (r *Row) setQuantities(values layerValues, k int) {
	targets := map[string]**float64{
		Pressure:     &r.SPR,
		PressureDrop: &r.SPRD,
		OilRate:      &r.SOFR,
		WaterRate:    &r.SWFR,
		GasRate:      &r.SGFRF,
	}
	for kw, v := range values {
		if target, ok := targets[kw]; ok && k < len(v) {
			*target = ptr(v[k])
		}
	}
}

// WaterCut is |w|/(|w|+|o|), zero when the liquid rate is below minRate
func WaterCut(oil, water, minRate float64) float64 {
	liquid := math.Abs(water) + math.Abs(oil)
	if liquid < minRate {
		return 0
	}
	return math.Abs(water) / (liquid + epsilon)
}

func GasOilRatio(oil, gas float64) float64 {
	return math.Abs(gas) / (math.Abs(oil) + epsilon)
}

func (r *Row) derive(minRate float64) {
	if r.SOFR != nil && r.SWFR != nil {
		r.SWCT = ptr(WaterCut(*r.SOFR, *r.SWFR, minRate))
	}
	if r.SOFR != nil && r.SGFRF != nil {
		r.SGOR = ptr(GasOilRatio(*r.SOFR, *r.SGFRF))
	}
	r.Area = math.Pi * r.Diameter * sliceLength
	r.OilVelocity, r.OilVelocitySec, r.OilPerLength = r.velocity(r.SOFR)
	r.WaterVelocity, r.WaterVelocitySec, r.WaterPerLength = r.velocity(r.SWFR)
	r.GasVelocity, r.GasVelocitySec, r.GasPerLength = r.velocity(r.SGFRF)
}

func (r *Row) velocity(rate *float64) (perDay, perSecond, perLength *float64) {
	if rate == nil {
		return nil, nil, nil
	}
	v := *rate / r.Area
	return ptr(v), ptr(v / secondsPerDay), ptr(*rate / (r.Thickness + lengthEpsilon))
}
