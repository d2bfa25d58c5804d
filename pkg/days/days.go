package days

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

var ErrNoReportSteps = errors.New("results have no report steps")

// Resolve maps requested simulation days onto report step indices. An exact match takes the
// first step with that day. Otherwise a warning is written and the closest step is used, the
// earliest one on a tie.
func Resolve(requested, available []float64, warn io.Writer) ([]int, error) {
	if len(available) == 0 {
		return nil, ErrNoReportSteps
	}
	indices := make([]int, len(requested))
	distance := make([]float64, len(available))
	for i, day := range requested {
		if idx := slices.Index(available, day); idx >= 0 {
			indices[i] = idx
			continue
		}
		fmt.Fprintf(warn, "Warning : No exact day is found for %g. The program uses the closest day.\n", day)
		for k, a := range available {
			distance[k] = math.Abs(a - day)
		}
		indices[i] = floats.MinIdx(distance)
	}
	return indices, nil
}
