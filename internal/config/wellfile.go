package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/multimediallc/complot/pkg/schedule"
)

const (
	wellFileMarker = "_advanced.wells"
	keywordPaths   = "PATHS"
)

// FindWellFile looks for the advanced wells include of a case in its .DATA file. An include
// starting with $ALIAS is resolved through the PATHS keyword. Relative includes are resolved
// against the data file directory. An empty path means the data file has no such include.
func FindWellFile(dataFile string) (string, error) {
	lines, err := schedule.ReadLines(dataFile + ".DATA")
	if err != nil {
		return "", fmt.Errorf("failed to scan data file for %s: %w", wellFileMarker, err)
	}
	for _, line := range lines {
		if !strings.Contains(line, wellFileMarker) {
			continue
		}
		cleaned := strings.ReplaceAll(unquote(line), " ", "")
		parts := strings.FieldsFunc(cleaned, func(r rune) bool { return r == '/' })
		if len(parts) == 0 {
			continue
		}
		if alias, ok := strings.CutPrefix(parts[0], "$"); ok {
			paths := Paths(lines)
			resolved, found := paths[alias]
			if !found {
				return "", fmt.Errorf("path alias $%s is not defined in PATHS of %s.DATA", alias, dataFile)
			}
			parts[0] = resolved
		}
		wellFile := filepath.Join(parts...)
		if strings.HasPrefix(cleaned, "/") {
			wellFile = "/" + wellFile
		}
		if !filepath.IsAbs(wellFile) {
			wellFile = filepath.Join(filepath.Dir(dataFile), wellFile)
		}
		return wellFile, nil
	}
	return "", nil
}

// Paths reads the PATHS aliases of a data file
func Paths(lines []string) map[string]string {
	paths := make(map[string]string)
	for i, line := range lines {
		if strings.Join(strings.Fields(line), "") != keywordPaths {
			continue
		}
		for _, entry := range lines[i+1:] {
			if strings.Join(strings.Fields(entry), "") == terminator {
				break
			}
			fields := strings.Fields(strings.ReplaceAll(unquote(entry), "\t", " "))
			if len(fields) >= 2 {
				paths[fields[0]] = strings.TrimSuffix(fields[1], terminator)
			}
		}
	}
	return paths
}
