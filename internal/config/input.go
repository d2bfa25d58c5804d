package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/multimediallc/complot/pkg/schedule"
	"github.com/multimediallc/complot/pkg/selection"
)

const (
	keywordDataFile    = "DATAFILE"
	keywordCaseName    = "CASENAME"
	keywordWellFile    = "WELLFILE"
	keywordOutputFile  = "OUTPUTFILE"
	keywordInformation = "INFORMATION"
	terminator         = "/"
)

var (
	ErrNoDataFile       = errors.New("data file is not specified")
	ErrNoWellFile       = errors.New("well file is not specified")
	ErrWellFileMismatch = errors.New("a well file must be given for each data file")
	ErrNoInformation    = errors.New("INFORMATION keyword is not specified")
)

// Information is one row of the INFORMATION keyword
type Information struct {
	Well    string
	Lateral int
	Tubing  string
	Device  string
	Annulus string
	Days    string
}

// Input is the parsed input deck
type Input struct {
	Dir         string
	DataFiles   []string
	CaseNames   []string
	WellFiles   []string
	OutputFile  string
	Information []Information
}

// ReadInput reads an input deck. Relative paths inside it are resolved against its directory.
func ReadInput(path string, warn io.Writer) (*Input, error) {
	lines, err := schedule.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return ParseInput(lines, filepath.Dir(path), warn)
}

// ParseInput parses comment-free input deck lines
func ParseInput(lines []string, dir string, warn io.Writer) (*Input, error) {
	if warn == nil {
		warn = io.Discard
	}
	in := &Input{Dir: dir}

	dataFiles, _, err := block(lines, keywordDataFile)
	if err != nil {
		return nil, err
	}
	for _, entry := range dataFiles {
		expanded, err := expandDataFile(in.resolve(entry))
		if err != nil {
			return nil, err
		}
		in.DataFiles = append(in.DataFiles, expanded...)
	}
	if len(in.DataFiles) == 0 {
		return nil, ErrNoDataFile
	}

	if in.CaseNames, _, err = block(lines, keywordCaseName); err != nil {
		return nil, err
	}
	if len(in.CaseNames) == 0 {
		in.CaseNames = caseNames(in.DataFiles)
	}

	wellFiles, _, err := block(lines, keywordWellFile)
	if err != nil {
		return nil, err
	}
	for _, entry := range wellFiles {
		matches, err := expandPattern(in.resolve(entry))
		if err != nil {
			return nil, err
		}
		in.WellFiles = append(in.WellFiles, matches...)
	}
	if len(in.WellFiles) == 0 {
		for _, dataFile := range in.DataFiles {
			wellFile, err := FindWellFile(dataFile)
			if err != nil {
				return nil, err
			}
			if wellFile != "" {
				in.WellFiles = append(in.WellFiles, wellFile)
			}
		}
	}
	if len(in.WellFiles) == 0 {
		return nil, ErrNoWellFile
	}
	if len(in.WellFiles) != len(in.DataFiles) {
		return nil, fmt.Errorf("%w: %d data files, %d well files", ErrWellFileMismatch, len(in.DataFiles), len(in.WellFiles))
	}

	output, found, err := block(lines, keywordOutputFile)
	if err != nil {
		return nil, err
	}
	if found && len(output) == 0 {
		fmt.Fprintln(warn, "Warning : Output file is not specified. complot will not export the results.")
	}
	if len(output) > 0 {
		in.OutputFile = in.resolve(output[0])
	}

	information, found, err := block(lines, keywordInformation)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoInformation
	}
	for _, line := range information {
		row, err := parseInformation(line)
		if err != nil {
			return nil, err
		}
		in.Information = append(in.Information, row)
	}
	return in, nil
}

// Case returns the case label of the i-th data file, empty when there is only one case
func (in *Input) Case(i int) string {
	if len(in.DataFiles) <= 1 {
		return ""
	}
	if i < len(in.CaseNames) {
		return in.CaseNames[i]
	}
	return caseNames(in.DataFiles[i : i+1])[0]
}

// Selections builds the well selection of every INFORMATION row. A non-empty days value
// replaces the DAYS column of every row.
func (in *Input) Selections(days string, warn io.Writer) ([]selection.WellSelection, error) {
	if warn == nil {
		warn = io.Discard
	}
	selections := make([]selection.WellSelection, 0, len(in.Information))
	for _, row := range in.Information {
		rowDays := row.Days
		if days != "" {
			rowDays = days
		}
		sel, err := selection.Parse(row.Well, row.Lateral, row.Tubing, row.Device, row.Annulus, rowDays, warn)
		if err != nil {
			return nil, fmt.Errorf("INFORMATION row for %s lateral %d: %w", row.Well, row.Lateral, err)
		}
		selections = append(selections, sel)
	}
	return selections, nil
}

func (in *Input) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || in.Dir == "" {
		return path
	}
	return filepath.Join(in.Dir, path)
}

// block returns the unquoted lines between a keyword line and its terminator
func block(lines []string, keyword string) ([]string, bool, error) {
	for i, line := range lines {
		if line != keyword {
			continue
		}
		var entries []string
		for _, entry := range lines[i+1:] {
			if entry == terminator {
				return entries, true, nil
			}
			entries = append(entries, unquote(entry))
		}
		return nil, true, fmt.Errorf("keyword %s is not terminated by %s", keyword, terminator)
	}
	return nil, false, nil
}

func unquote(s string) string {
	return strings.TrimSpace(strings.NewReplacer("'", "", `"`, "").Replace(s))
}

func parseInformation(line string) (Information, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Information{}, fmt.Errorf("INFORMATION row %q needs at least WELL and LATERAL", line)
	}
	lateral, err := strconv.Atoi(fields[1])
	if err != nil {
		return Information{}, fmt.Errorf("INFORMATION row %q: invalid lateral: %w", line, err)
	}
	for len(fields) < 6 {
		fields = append(fields, selection.Default)
	}
	return Information{
		Well:    fields[0],
		Lateral: lateral,
		Tubing:  fields[2],
		Device:  fields[3],
		Annulus: fields[4],
		Days:    fields[5],
	}, nil
}

// expandPattern globs entries containing pattern characters. Plain paths are kept as given.
func expandPattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}
	return matches, nil
}

// expandDataFile expands a DATAFILE entry into case roots, the data file paths without .DATA
func expandDataFile(entry string) ([]string, error) {
	matches, err := expandPattern(entry)
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = caseRoot(m)
	}
	return matches, nil
}

func caseRoot(path string) string {
	if ext := filepath.Ext(path); strings.EqualFold(ext, ".DATA") {
		return strings.TrimSuffix(path, ext)
	}
	return path
}

func caseNames(dataFiles []string) []string {
	names := make([]string, len(dataFiles))
	for i, f := range dataFiles {
		names[i] = filepath.Base(f)
	}
	return names
}
