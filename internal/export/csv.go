package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/multimediallc/complot/pkg/reconcile"
	"github.com/multimediallc/complot/pkg/summary"
)

// WellsPath is the file a csv export writes well profiles to, next to the segment file
func WellsPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_wells" + ext
}

func writeCSV(path string, rows []reconcile.Row, wells []summary.WellRow, opts Options) error {
	if err := writeCSVFile(path, opts.Separator, Header(), len(rows), func(i int) []any { return segmentValues(rows[i]) }); err != nil {
		return err
	}
	if len(wells) == 0 {
		return nil
	}
	header := make([]string, len(wellColumns))
	for i, c := range wellColumns {
		header[i] = c.name
	}
	return writeCSVFile(WellsPath(path), opts.Separator, header, len(wells), func(i int) []any { return wellValues(wells[i]) })
}

func writeCSVFile(path string, separator rune, header []string, n int, record func(int) []any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if separator != 0 {
		writer.Comma = separator
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	fields := make([]string, len(header))
	for i := range n {
		for k, v := range record(i) {
			fields[k] = formatValue(v)
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
