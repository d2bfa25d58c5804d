package summary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrVectorNotFound = errors.New("summary vector not found")

// Source gives access to simulation summary results
type Source interface {
	// Days returns the simulation day of every report step
	Days() []float64
	// Dates returns the calendar date of every report step
	Dates() []time.Time
	// Vector returns the values of a summary key at every report step
	Vector(key string) ([]float64, error)
}

// Key builds a summary key, KW:WELL for well vectors and KW:WELL:SEG for segment vectors
func Key(keyword, well string, segment ...int) string {
	parts := []string{keyword, well}
	for _, s := range segment {
		parts = append(parts, strconv.Itoa(s))
	}
	return strings.Join(parts, ":")
}

// Table is an in-memory Source
type Table struct {
	days    []float64
	dates   []time.Time
	vectors map[string][]float64
}

func NewTable(days []float64, dates []time.Time) *Table {
	return &Table{days: days, dates: dates, vectors: make(map[string][]float64)}
}

// Set stores a vector. Its length must match the number of report steps.
func (t *Table) Set(key string, values []float64) error {
	if len(values) != len(t.days) {
		return fmt.Errorf("vector %s has %d values, expected %d", key, len(values), len(t.days))
	}
	t.vectors[strings.ToUpper(key)] = values
	return nil
}

func (t *Table) Days() []float64 {
	return t.days
}

func (t *Table) Dates() []time.Time {
	return t.dates
}

func (t *Table) Vector(key string) ([]float64, error) {
	v, ok := t.vectors[strings.ToUpper(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVectorNotFound, key)
	}
	return v, nil
}

// Len returns the number of stored vectors
func (t *Table) Len() int {
	return len(t.vectors)
}
