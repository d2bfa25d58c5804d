package summary

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const testCSV = `DATE,FOPT,WOPR:A-1,WWPR:A-1,SOFR:A-1:2
2024-01-01,0,100,10,50
2024-01-11,10,90,20,45
2024-02-01, 25 ,80,30,
`

func TestKey(t *testing.T) {
	tt := []struct {
		keyword  string
		well     string
		segment  []int
		expected string
	}{
		{"WOPR", "A-1", nil, "WOPR:A-1"},
		{"SOFR", "A-1", []int{12}, "SOFR:A-1:12"},
	}
	for _, tc := range tt {
		if got := Key(tc.keyword, tc.well, tc.segment...); got != tc.expected {
			t.Errorf("expected %s, got %s", tc.expected, got)
		}
	}
}

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(table.Days(), []float64{0, 10, 31}) {
		t.Errorf("unexpected days %v", table.Days())
	}
	if !table.Dates()[1].Equal(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", table.Dates()[1])
	}
	sofr, err := table.Vector("sofr:a-1:2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(sofr, []float64{50, 45, 0}) {
		t.Errorf("unexpected SOFR %v", sofr)
	}
	fopt, _ := table.Vector("FOPT")
	if fopt[2] != 25 {
		t.Errorf("expected trimmed value 25, got %v", fopt[2])
	}
	if table.Len() != 4 {
		t.Errorf("expected 4 vectors, got %d", table.Len())
	}
	if _, err := table.Vector("SPR:A-1:2"); !errors.Is(err, ErrVectorNotFound) {
		t.Errorf("expected ErrVectorNotFound, got %v", err)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tt := []struct {
		name  string
		input string
	}{
		{"no date column", "DAYS,WOPR:A\n0,1\n"},
		{"bad date", "DATE,WOPR:A\nyesterday,1\n"},
		{"bad value", "DATE,WOPR:A\n2024-01-01,abc\n"},
		{"empty", ""},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tc.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadCSVDaysColumn(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("DATE,DAYS,WBHP:B\n2024-01-01,5,200\n2024-01-02,6.5,210\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(table.Days(), []float64{5, 6.5}) {
		t.Errorf("unexpected days %v", table.Days())
	}
}

func TestOpenCSV(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "CASE.csv"), []byte(testCSV), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenCSV(filepath.Join(dir, "CASE")); err != nil {
		t.Errorf("expected CASE to resolve to CASE.csv: %v", err)
	}
	if _, err := OpenCSV(filepath.Join(dir, "OTHER")); err == nil {
		t.Error("expected error for missing summary")
	}
}

func TestWellProfile(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	warn := &bytes.Buffer{}
	rows, err := WellProfile(table, "A-1", warn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1].WLPR != 110 || rows[1].WOPR != 90 || rows[1].WBHP != 0 {
		t.Errorf("unexpected row %+v", rows[1])
	}
	for _, kw := range []string{"WBHP", "WGPR", "WWCT", "WGOR"} {
		if !strings.Contains(warn.String(), "Warning : "+kw+" vector is not found in A-1") {
			t.Errorf("expected warning for %s, got %q", kw, warn.String())
		}
	}
	if strings.Contains(warn.String(), "WOPR") {
		t.Errorf("unexpected warning for WOPR: %q", warn.String())
	}
}

func TestWellProfileKeywords(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	warn := &bytes.Buffer{}
	rows, err := WellProfile(table, "A-1", warn, "wopr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].WOPR != 100 || rows[0].WWPR != 0 || rows[0].WLPR != 100 {
		t.Errorf("expected only WOPR to be read, got %+v", rows[0])
	}
	if warn.Len() != 0 {
		t.Errorf("unexpected warnings %q", warn.String())
	}
	if _, err := WellProfile(table, "A-1", warn, "FOPT"); err == nil {
		t.Error("expected error for unsupported keyword")
	}
}
