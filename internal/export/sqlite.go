package export

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/multimediallc/complot/pkg/reconcile"
	"github.com/multimediallc/complot/pkg/summary"
)

const (
	TableSegments = "segments"
	TableWells    = "well_summary"
)

// ColumnName maps an export header to an SQL identifier
func ColumnName(header string) string {
	return strings.ToLower(strings.ReplaceAll(header, "/", ""))
}

func sqlType(k kind) string {
	switch k {
	case kindInt:
		return "INTEGER"
	case kindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

type tableSpec struct {
	name    string
	columns []string
	types   []string
	n       int
	record  func(int) []any
}

func (t tableSpec) create() string {
	defs := make([]string, len(t.columns))
	for i, c := range t.columns {
		defs[i] = fmt.Sprintf("%q %s", c, t.types[i])
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", t.name, strings.Join(defs, ", "))
}

func (t tableSpec) insert() string {
	quoted := make([]string, len(t.columns))
	for i, c := range t.columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(quoted, ", "), placeholders)
}

func writeSQLite(path string, rows []reconcile.Row, wells []summary.WellRow) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", path))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	segments := tableSpec{name: TableSegments, n: len(rows), record: func(i int) []any { return segmentValues(rows[i]) }}
	for _, c := range segmentColumns {
		segments.columns = append(segments.columns, ColumnName(c.name))
		segments.types = append(segments.types, sqlType(c.kind))
	}
	wellTable := tableSpec{name: TableWells, n: len(wells), record: func(i int) []any { return wellValues(wells[i]) }}
	for _, c := range wellColumns {
		wellTable.columns = append(wellTable.columns, ColumnName(c.name))
		wellTable.types = append(wellTable.types, sqlType(c.kind))
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []tableSpec{segments, wellTable} {
		if err := writeTable(tx, table); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func writeTable(tx *sql.Tx, table tableSpec) error {
	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table.name)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table.name, err)
	}
	if _, err := tx.Exec(table.create()); err != nil {
		return fmt.Errorf("failed to create %s: %w", table.name, err)
	}
	stmt, err := tx.Prepare(table.insert())
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", table.name, err)
	}
	defer stmt.Close()
	for i := range table.n {
		if _, err := stmt.Exec(table.record(i)...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table.name, err)
		}
	}
	return nil
}
