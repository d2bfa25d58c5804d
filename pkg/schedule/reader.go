package schedule

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Block is a keyword and its records. Defaulted fields are empty strings.
type Block struct {
	Name    string
	Records [][]string
}

// ClearComments returns the non-empty lines of r with `--` comments and surrounding whitespace removed
func ClearComments(r io.Reader) ([]string, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading schedule: %w", err)
	}
	return lines, nil
}

// Decode returns data as UTF-8, treating input that is not valid UTF-8 as ISO-8859-1
func Decode(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ISO-8859-1 input: %w", err)
	}
	return decoded, nil
}

// ReadLines reads a deck file and returns its comment-free lines
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err = Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ClearComments(bytes.NewReader(data))
}

func isKeyword(line string) bool {
	if line == "" || len(line) > 8 || !unicode.IsUpper(rune(line[0])) {
		return false
	}
	for _, r := range line {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// Keywords splits lines into blocks for the wanted keywords. A block ends at an empty record.
func Keywords(lines []string, wanted ...string) []Block {
	blocks := make([]Block, 0)
	for i := 0; i < len(lines); i++ {
		name := lines[i]
		if !isKeyword(name) || !containsString(wanted, name) {
			continue
		}
		block := Block{Name: name, Records: make([][]string, 0)}
		pending := make([]string, 0)
		for i+1 < len(lines) {
			i++
			if isKeyword(lines[i]) && len(pending) == 0 {
				// unterminated block
				i--
				break
			}
			fields, terminated := tokenize(lines[i])
			pending = append(pending, fields...)
			if !terminated {
				continue
			}
			if len(pending) == 0 {
				break
			}
			block.Records = append(block.Records, pending)
			pending = make([]string, 0)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// tokenize splits a record line into fields, expanding N* defaults. The bool is true when the line holds a `/` terminator.
func tokenize(line string) ([]string, bool) {
	fields := make([]string, 0)
	var current strings.Builder
	inQuote := false
	quoted := false
	flush := func() {
		if current.Len() == 0 && !quoted {
			return
		}
		token := current.String()
		if !quoted {
			fields = append(fields, expandDefault(token)...)
		} else {
			fields = append(fields, token)
		}
		current.Reset()
		quoted = false
	}
	for _, r := range line {
		switch {
		case inQuote:
			if r == '\'' {
				inQuote = false
				continue
			}
			current.WriteRune(r)
		case r == '\'':
			inQuote = true
			quoted = true
		case r == '/':
			flush()
			return fields, true
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return fields, false
}

func expandDefault(token string) []string {
	if !strings.HasSuffix(token, "*") {
		return []string{token}
	}
	count := strings.TrimSuffix(token, "*")
	if count == "" {
		return []string{""}
	}
	n, err := strconv.Atoi(count)
	if err != nil || n <= 0 {
		return []string{token}
	}
	return make([]string, n)
}
