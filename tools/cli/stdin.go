package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// isStdinPiped checks if stdin is being piped to the program
func isStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func splitDays(r rune) bool {
	return r == ',' || r == '-' || r == ' ' || r == '\t'
}

// parseDays reads days separated by whitespace, commas or dashes, as written in the DAYS column
func parseDays(args []string) ([]float64, error) {
	result := make([]float64, 0)
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, splitDays) {
			day, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid day %q", field)
			}
			result = append(result, day)
		}
	}
	return result, nil
}

// scanStdinDays reads days from every non-empty line of r
func scanStdinDays(r io.Reader) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from stdin: %w", err)
	}
	return parseDays(lines)
}
