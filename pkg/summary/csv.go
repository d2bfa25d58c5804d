package summary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	dateColumn = "DATE"
	dayColumn  = "DAYS"
)

var dateLayouts = []string{time.DateOnly, time.DateTime, "2006-01-02T15:04:05", "02.01.2006"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// OpenCSV loads a summary export for a case. When path does not exist, path.csv is tried.
func OpenCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !strings.HasSuffix(strings.ToLower(path), ".csv") {
		file, err = os.Open(path + ".csv")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open summary %s: %w", path, err)
	}
	defer file.Close()

	table, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary %s: %w", path, err)
	}
	return table, nil
}

// ReadCSV reads a comma separated summary with a DATE column, an optional DAYS column and one
// column per summary key. Without DAYS, days are counted from the first date.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	dateIdx, dayIdx := -1, -1
	for i, name := range header {
		name = strings.ToUpper(strings.TrimSpace(name))
		header[i] = name
		switch name {
		case dateColumn:
			dateIdx = i
		case dayColumn:
			dayIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("missing %s column", dateColumn)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	days := make([]float64, len(records))
	dates := make([]time.Time, len(records))
	columns := make(map[int][]float64)
	for i := range header {
		if i != dateIdx && i != dayIdx {
			columns[i] = make([]float64, len(records))
		}
	}

	for row, record := range records {
		date, err := parseDate(strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+2, err)
		}
		dates[row] = date
		if dayIdx >= 0 {
			days[row], err = strconv.ParseFloat(strings.TrimSpace(record[dayIdx]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid day: %w", row+2, err)
			}
		} else {
			days[row] = date.Sub(dates[0]).Hours() / 24
		}
		for i, values := range columns {
			field := strings.TrimSpace(record[i])
			if field == "" {
				continue
			}
			values[row], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", row+2, header[i], err)
			}
		}
	}

	table := NewTable(days, dates)
	for i, values := range columns {
		if err := table.Set(header[i], values); err != nil {
			return nil, err
		}
	}
	return table, nil
}
