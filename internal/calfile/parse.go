// Package calfile parses Argyll .cal calibration files into numeric tables.
package calfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// BlockPatterns maps the two logical blocks to the descriptor substrings
// that identify them. Matching is case-insensitive substring matching so
// the spelling variants produced by different Argyll releases all resolve
// to the same block.
type BlockPatterns struct {
	Curves     []string
	DEResponse []string
}

// DefaultBlockPatterns returns the descriptor substrings written by the
// Argyll tools we have seen in the wild.
func DefaultBlockPatterns() BlockPatterns {
	return BlockPatterns{
		Curves: []string{
			"device calibration curves",
			"device calibration state",
		},
		DEResponse: []string{
			"output calibration expected de response",
			"expected de response",
		},
	}
}

// Table is a dense numeric table: one row per sample, column 0 holding the
// nominal input level and columns 1..4 the CMYK channel values.
type Table [][]float64

// Empty reports whether the table holds no samples.
func (t Table) Empty() bool { return len(t) == 0 }

// Input returns the input-level column, or nil for an empty table.
func (t Table) Input() []float64 {
	return t.Column(0)
}

// Column returns one column of the table, or nil if the column does not exist.
func (t Table) Column(col int) []float64 {
	if len(t) == 0 || col >= len(t[0]) {
		return nil
	}
	out := make([]float64, len(t))
	for i, row := range t {
		out[i] = row[col]
	}
	return out
}

// Curve extracts the aligned (input, output) arrays for one channel.
// ok is false when the table is empty or too narrow for the channel.
func (t Table) Curve(ch Channel) (input, output []float64, ok bool) {
	input = t.Input()
	output = t.Column(ch.Column())
	if input == nil || output == nil {
		return nil, nil, false
	}
	return input, output, true
}

// File holds the parsed blocks of one .cal file.
type File struct {
	// Curves is the device calibration curve block.
	Curves Table
	// DEResponse is the expected delta-E response block. Often absent in
	// files written by older tools; callers must tolerate an empty table.
	DEResponse Table

	// SkippedRows counts non-numeric lines dropped inside data blocks.
	SkippedRows int
}

// ParseFile reads and parses a .cal file from disk.
func ParseFile(path string, pats BlockPatterns) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cal file: %w", err)
	}
	defer f.Close()

	parsed, err := Parse(f, pats)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return parsed, nil
}

// Parse reads a .cal file from r. Blocks are delimited by a DESCRIPTOR line
// naming the block, BEGIN_DATA, the sample rows, and END_DATA. Lines inside
// a block that do not tokenize to numeric fields are skipped; lines outside
// any recognized block are ignored.
func Parse(r io.Reader, pats BlockPatterns) (*File, error) {
	out := &File{}

	// target selects which table rows are appended to; inData is true only
	// between the BEGIN_DATA and END_DATA markers of a recognized block.
	var target *Table
	inData := false
	width := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "DESCRIPTOR"):
			target, inData, width = matchDescriptor(line, pats, out), false, 0
			continue
		case strings.HasPrefix(line, "BEGIN_DATA_FORMAT"),
			strings.HasPrefix(line, "END_DATA_FORMAT"):
			continue
		case strings.HasPrefix(line, "BEGIN_DATA"):
			inData = true
			continue
		case strings.HasPrefix(line, "END_DATA"):
			target, inData = nil, false
			continue
		}

		if target == nil || !inData {
			continue
		}

		row, ok := parseRow(line)
		if !ok {
			out.SkippedRows++
			continue
		}
		// Keep the table rectangular: a truncated row is as useless as a
		// non-numeric one.
		if width == 0 {
			width = len(row)
		} else if len(row) != width {
			out.SkippedRows++
			continue
		}
		*target = append(*target, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cal file: %w", err)
	}

	return out, nil
}

// matchDescriptor resolves a DESCRIPTOR line to the table it introduces,
// or nil when the descriptor names a block we do not consume.
func matchDescriptor(line string, pats BlockPatterns, out *File) *Table {
	name := line
	if i := strings.IndexByte(line, '"'); i >= 0 {
		name = line[i+1:]
		if j := strings.IndexByte(name, '"'); j >= 0 {
			name = name[:j]
		}
	}
	name = strings.ToLower(name)

	for _, pat := range pats.Curves {
		if strings.Contains(name, strings.ToLower(pat)) {
			return &out.Curves
		}
	}
	for _, pat := range pats.DEResponse {
		if strings.Contains(name, strings.ToLower(pat)) {
			return &out.DEResponse
		}
	}
	return nil
}

// parseRow tokenizes a line into floats. ok is false if any field fails to
// parse, which marks the line as a non-data row.
func parseRow(line string) ([]float64, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		row[i] = v
	}
	return row, true
}
