package crystvox

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Fixed line layout of the .inp structure files (0-based line indices).
const (
	inpLengthsLine = 9  // "a b c"
	inpAnglesLine  = 11 // "alpha beta gamma", degrees
	inpAtomsLine   = 17 // first atom line
)

// ParseINP reads an .inp structure file. Each atom line ends with
// "fa fb fc species"; any leading fields are ignored. Blank atom lines are skipped.
func ParseINP(r io.Reader) (*Lattice, []Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(lines) <= inpAnglesLine {
		return nil, nil, fmt.Errorf("%w: file has %d lines, need at least %d for the cell", ErrParse, len(lines), inpAnglesLine+1)
	}

	abc, err := parseTriple(lines, inpLengthsLine)
	if err != nil {
		return nil, nil, err
	}
	ang, err := parseTriple(lines, inpAnglesLine)
	if err != nil {
		return nil, nil, err
	}
	lat, err := NewLatticeDegrees(abc[0], abc[1], abc[2], ang[0], ang[1], ang[2])
	if err != nil {
		return nil, nil, fmt.Errorf("line %d: %w", inpAnglesLine+1, err)
	}

	var records []Record
	for n := inpAtomsLine; n < len(lines); n++ {
		fields := strings.Fields(lines[n])
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, nil, fmt.Errorf("%w: line %d: want \"fa fb fc species\", got %q", ErrParse, n+1, lines[n])
		}
		f := fields[len(fields)-4:]
		var frac [3]Real
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(f[i], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrParse, n+1, err)
			}
			frac[i] = v
		}
		records = append(records, Record{Species: f[3], Fa: frac[0], Fb: frac[1], Fc: frac[2]})
	}
	DebugLog("Parsed INP: %d atoms", len(records))
	return lat, records, nil
}

func parseTriple(lines []string, n int) ([3]Real, error) {
	var out [3]Real
	fields := strings.Fields(lines[n])
	if len(fields) < 3 {
		return out, fmt.Errorf("%w: line %d: want 3 numbers, got %q", ErrParse, n+1, lines[n])
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return out, fmt.Errorf("%w: line %d: %v", ErrParse, n+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// LoadINP reads an .inp file and builds its structure.
func LoadINP(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lat, records, err := ParseINP(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return BuildStructure(lat, records)
}
