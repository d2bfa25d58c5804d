package summary

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// WellKeywords are the well vectors read into a WellRow
var WellKeywords = []string{"WBHP", "WOPR", "WWPR", "WGPR", "WWCT", "WGOR"}

// WellRow is the well level summary at one report step
type WellRow struct {
	Well string
	Case string
	Day  float64
	Date time.Time
	WBHP float64
	WOPR float64
	WWPR float64
	WGPR float64
	WLPR float64
	WWCT float64
	WGOR float64
}

// WellProfile reads the well vectors of a well at every report step, all of WellKeywords unless
// keywords are given. Missing and unread vectors are zero; missing ones are reported to warn.
func WellProfile(src Source, well string, warn io.Writer, keywords ...string) ([]WellRow, error) {
	if len(keywords) == 0 {
		keywords = WellKeywords
	}
	days := src.Days()
	dates := src.Dates()
	vectors := make(map[string][]float64, len(WellKeywords))
	for _, kw := range WellKeywords {
		vectors[kw] = make([]float64, len(days))
	}
	for _, kw := range keywords {
		kw = strings.ToUpper(kw)
		if _, known := vectors[kw]; !known {
			return nil, fmt.Errorf("unsupported well keyword %s", kw)
		}
		v, err := src.Vector(Key(kw, well))
		if errors.Is(err, ErrVectorNotFound) {
			fmt.Fprintf(warn, "Warning : %s vector is not found in %s\n", kw, well)
			v = make([]float64, len(days))
		} else if err != nil {
			return nil, fmt.Errorf("failed to read %s of %s: %w", kw, well, err)
		}
		if len(v) != len(days) {
			return nil, fmt.Errorf("%s of %s has %d values for %d report steps", kw, well, len(v), len(days))
		}
		vectors[kw] = v
	}

	rows := make([]WellRow, len(days))
	for i := range days {
		row := WellRow{
			Well: well,
			Day:  days[i],
			WBHP: vectors["WBHP"][i],
			WOPR: vectors["WOPR"][i],
			WWPR: vectors["WWPR"][i],
			WGPR: vectors["WGPR"][i],
			WWCT: vectors["WWCT"][i],
			WGOR: vectors["WGOR"][i],
		}
		if i < len(dates) {
			row.Date = dates[i]
		}
		row.WLPR = row.WOPR + row.WWPR
		rows[i] = row
	}
	return rows, nil
}
