package main

import (
	"fmt"
	"strings"
)

// OutputFormat selects how the inspection commands print their results
type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatOneLine OutputFormat = "one-line"
	FormatJSON    OutputFormat = "json"
)

var formatAliases = map[string]OutputFormat{
	"default":  FormatDefault,
	"one-line": FormatOneLine,
	"oneline":  FormatOneLine,
	"json":     FormatJSON,
}

func validateFormat(format string) (OutputFormat, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(format))]; ok {
		return f, nil
	}
	allowed := []string{string(FormatDefault), string(FormatOneLine), string(FormatJSON)}
	return "", fmt.Errorf("invalid format %s. Must be one of %s", format, strings.Join(allowed, ", "))
}
