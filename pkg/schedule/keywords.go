package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	KeywordWelsegs  = "WELSEGS"
	KeywordCompsegs = "COMPSEGS"
	KeywordCompdat  = "COMPDAT"
)

// Read parses the WELSEGS, COMPSEGS and COMPDAT keywords of a schedule file
func Read(path string) (*Deck, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file %s: %w", path, err)
	}
	deck, err := Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule file %s: %w", path, err)
	}
	return deck, nil
}

// Parse builds a Deck from comment-free schedule lines.
// The first WELSEGS and COMPSEGS block of a well is kept; COMPDAT records accumulate.
func Parse(lines []string) (*Deck, error) {
	deck := newDeck()
	for _, block := range Keywords(lines, KeywordWelsegs, KeywordCompsegs, KeywordCompdat) {
		var err error
		switch block.Name {
		case KeywordWelsegs:
			err = deck.addWelsegs(block)
		case KeywordCompsegs:
			err = deck.addCompsegs(block)
		case KeywordCompdat:
			err = deck.addCompdat(block)
		}
		if err != nil {
			return nil, err
		}
	}
	return deck, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseInt(record []string, idx int, fallback int) (int, error) {
	s := field(record, idx)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("field %d: %q is not an integer", idx+1, s)
	}
	return v, nil
}

func parseFloat(record []string, idx int) (float64, error) {
	s := field(record, idx)
	if s == "" {
		return 0, fmt.Errorf("field %d is required", idx+1)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, "D", "E"), 64)
	if err != nil {
		return 0, fmt.Errorf("field %d: %q is not a number", idx+1, s)
	}
	return v, nil
}

// optionalFloat returns nil for defaulted or non-numeric fields
func optionalFloat(record []string, idx int) *float64 {
	v, err := parseFloat(record, idx)
	if err != nil {
		return nil
	}
	return &v
}

func (d *Deck) addWelsegs(block Block) error {
	if len(block.Records) == 0 {
		return fmt.Errorf("%s: missing header record", block.Name)
	}
	head := block.Records[0]
	well := field(head, 0)
	if well == "" {
		return fmt.Errorf("%s: header record has no well name", block.Name)
	}
	if _, found := d.segments[well]; found {
		return nil
	}
	topTVD, err := parseFloat(head, 1)
	if err != nil {
		return fmt.Errorf("%s %s header: %w", block.Name, well, err)
	}
	topMD, err := parseFloat(head, 2)
	if err != nil {
		return fmt.Errorf("%s %s header: %w", block.Name, well, err)
	}
	infoType := strings.ToUpper(field(head, 4))
	if infoType == "" {
		infoType = "INC"
	}
	header := SegmentHeader{Well: well, TopTVD: topTVD, TopMD: topMD, InfoType: infoType}

	// segment 1 is the top node described by the header
	md := map[int]float64{1: topMD}
	tvd := map[int]float64{1: topTVD}

	segments := make([]Segment, 0, len(block.Records)-1)
	for n, record := range block.Records[1:] {
		parsed, err := welsegsRecord(record, header, md, tvd)
		if err != nil {
			return fmt.Errorf("%s %s record %d: %w", block.Name, well, n+1, err)
		}
		for _, seg := range parsed {
			md[seg.ID] = seg.MD
			tvd[seg.ID] = seg.TVD
		}
		segments = append(segments, parsed...)
	}
	d.headers[well] = header
	d.segments[well] = segments
	d.wells = append(d.wells, well)
	return nil
}

// welsegsRecord expands a seg1..seg2 range with chained outlets. With ABS depths the range is
// interpolated from the outlet depth; with INC every segment adds the given increments.
func welsegsRecord(record []string, header SegmentHeader, md, tvd map[int]float64) ([]Segment, error) {
	first, err := parseInt(record, 0, 0)
	if err != nil {
		return nil, err
	}
	last, err := parseInt(record, 1, first)
	if err != nil {
		return nil, err
	}
	if first <= 0 || last < first {
		return nil, fmt.Errorf("invalid segment range %d-%d", first, last)
	}
	branch, err := parseInt(record, 2, 1)
	if err != nil {
		return nil, err
	}
	outlet, err := parseInt(record, 3, 0)
	if err != nil {
		return nil, err
	}
	length, err := parseFloat(record, 4)
	if err != nil {
		return nil, err
	}
	depth, err := parseFloat(record, 5)
	if err != nil {
		return nil, err
	}
	diameter, err := parseFloat(record, 6)
	if err != nil {
		return nil, err
	}
	outMD, outTVD := md[outlet], tvd[outlet]
	count := last - first + 1
	segments := make([]Segment, 0, count)
	for k := 1; k <= count; k++ {
		seg := Segment{
			ID:       first + k - 1,
			Outlet:   outlet,
			Branch:   branch,
			Diameter: diameter,
		}
		if k > 1 {
			seg.Outlet = seg.ID - 1
		}
		if header.InfoType == "ABS" {
			seg.MD = outMD + (length-outMD)*float64(k)/float64(count)
			seg.TVD = outTVD + (depth-outTVD)*float64(k)/float64(count)
		} else {
			seg.MD = outMD + length*float64(k)
			seg.TVD = outTVD + depth*float64(k)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func (d *Deck) addCompsegs(block Block) error {
	if len(block.Records) == 0 {
		return fmt.Errorf("%s: missing header record", block.Name)
	}
	well := field(block.Records[0], 0)
	if well == "" {
		return fmt.Errorf("%s: header record has no well name", block.Name)
	}
	if _, found := d.completions[well]; found {
		return nil
	}
	completions := make([]Completion, 0, len(block.Records)-1)
	for n, record := range block.Records[1:] {
		c, err := compsegsRecord(record)
		if err != nil {
			return fmt.Errorf("%s %s record %d: %w", block.Name, well, n+1, err)
		}
		completions = append(completions, c)
	}
	d.completions[well] = completions
	return nil
}

func compsegsRecord(record []string) (Completion, error) {
	var c Completion
	var err error
	if c.I, err = parseInt(record, 0, 0); err != nil {
		return c, err
	}
	if c.J, err = parseInt(record, 1, 0); err != nil {
		return c, err
	}
	if c.K, err = parseInt(record, 2, 0); err != nil {
		return c, err
	}
	if c.Branch, err = parseInt(record, 3, 1); err != nil {
		return c, err
	}
	if c.StartMD, err = parseFloat(record, 4); err != nil {
		return c, err
	}
	if c.EndMD, err = parseFloat(record, 5); err != nil {
		return c, err
	}
	return c, nil
}

func (d *Deck) addCompdat(block Block) error {
	for n, record := range block.Records {
		well := field(record, 0)
		if well == "" {
			return fmt.Errorf("%s record %d: no well name", block.Name, n+1)
		}
		i, err := parseInt(record, 1, 0)
		if err != nil {
			return fmt.Errorf("%s %s record %d: %w", block.Name, well, n+1, err)
		}
		j, err := parseInt(record, 2, 0)
		if err != nil {
			return fmt.Errorf("%s %s record %d: %w", block.Name, well, n+1, err)
		}
		k1, err := parseInt(record, 3, 0)
		if err != nil {
			return fmt.Errorf("%s %s record %d: %w", block.Name, well, n+1, err)
		}
		k2, err := parseInt(record, 4, k1)
		if err != nil {
			return fmt.Errorf("%s %s record %d: %w", block.Name, well, n+1, err)
		}
		props := CellProps{CF: optionalFloat(record, 7), KH: optionalFloat(record, 9)}
		cells, ok := d.cells[well]
		if !ok {
			cells = make(map[Cell]CellProps)
			d.cells[well] = cells
		}
		for k := k1; k <= k2; k++ {
			cell := Cell{I: i, J: j, K: k}
			if _, found := cells[cell]; !found {
				cells[cell] = props
			}
		}
	}
	return nil
}
