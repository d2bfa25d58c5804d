package reconcile

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"

	f "github.com/multimediallc/complot/pkg/functional"
)

// reverseCumSum returns out[k] = sum(values[k:])
func reverseCumSum(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Reverse(out)
	floats.CumSum(out, out)
	slices.Reverse(out)
	return out
}

// firstDifference returns out[k] = values[k] - values[k+1], the last value taken against zero
func firstDifference(values []float64) []float64 {
	out := make([]float64, len(values))
	for k, v := range values {
		next := 0.0
		if k+1 < len(values) {
			next = values[k+1]
		}
		out[k] = v - next
	}
	return out
}

type sample struct {
	md    float64
	value float64
	zone  int
}

// forwardMatch pairs every device sample with the first annulus sample at or below it. Device
// samples with no annulus sample within tolerance below them are left unassigned, zone 0.
func forwardMatch(device, annulus []sample, tolerance float64) []sample {
	matched := make([]sample, len(device))
	for i, d := range device {
		matched[i] = sample{md: d.md}
		j, _ := slices.BinarySearchFunc(annulus, d.md, func(a sample, md float64) int {
			return cmp.Compare(a.md, md)
		})
		if j == len(annulus) {
			continue
		}
		if d.md < annulus[j].md-tolerance {
			continue
		}
		matched[i].value = annulus[j].value
		matched[i].zone = annulus[j].zone
	}
	return matched
}

// zoneBalance computes reservoir inflow at device depths. Inside an annulus zone the inflow is the
// annulus rate minus the next deeper annulus rate plus the device rate; the shallowest position of a
// zone has no annulus rate of its own. Unassigned device samples flow straight from the reservoir.
// The result is sorted by MD.
func zoneBalance(device, annulus []sample, tolerance float64) []sample {
	matched := forwardMatch(device, annulus, tolerance)
	zones := f.RemoveDuplicates(f.Map(matched, func(s sample) int { return s.zone }))

	var inflow []sample
	for _, zone := range zones {
		var idx []int
		for i, m := range matched {
			if m.zone == zone {
				idx = append(idx, i)
			}
		}
		if zone == 0 {
			for _, i := range idx {
				inflow = append(inflow, sample{md: device[i].md, value: device[i].value})
			}
			continue
		}
		for n, i := range idx {
			out := matched[i].value
			in := 0.0
			if n+1 < len(idx) {
				in = matched[idx[n+1]].value
			}
			rate := out - in + device[i].value
			if n == 0 {
				rate = device[i].value - in
			}
			inflow = append(inflow, sample{md: device[i].md, value: rate, zone: zone})
		}
	}
	slices.SortStableFunc(inflow, func(a, b sample) int {
		return cmp.Compare(a.md, b.md)
	})
	return inflow
}

// nearestOnto resamples MD-sorted samples onto target depths, taking the closest sample and the
// shallower one on a tie. Targets get zero when there are no samples.
func nearestOnto(samples []sample, targets []float64) []float64 {
	out := make([]float64, len(targets))
	if len(samples) == 0 {
		return out
	}
	for i, md := range targets {
		// first sample at or below md
		fwd, _ := slices.BinarySearchFunc(samples, md, func(s sample, md float64) int {
			return cmp.Compare(s.md, md)
		})
		// last sample at or above md
		bwd := fwd - 1
		for k := fwd; k < len(samples) && samples[k].md == md; k++ {
			bwd = k
		}
		switch {
		case bwd < 0:
			out[i] = samples[fwd].value
		case fwd >= len(samples):
			out[i] = samples[bwd].value
		case samples[fwd].md-md < md-samples[bwd].md:
			out[i] = samples[fwd].value
		default:
			out[i] = samples[bwd].value
		}
	}
	return out
}
