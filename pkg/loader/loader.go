// Package loader reads graph files into the CSR container. Files are
// memory-mapped and scanned in place, so large edge lists load without
// copying the whole file onto the heap.
//
// Two formats are supported:
//
//   - edge list: one "u v [w]" line per undirected edge, '#' comments,
//     0-based vertex ids, weight defaulting to 1;
//   - MatrixMarket (.mtx): '%' comments, a "rows cols entries" size line,
//     then "u v [w]" entries with 1-based ids.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// ErrBadFormat is returned when a graph file cannot be parsed.
var ErrBadFormat = errors.New("malformed graph file")

// LoadEdgeList reads an undirected edge list file into a CSR.
func LoadEdgeList(path string) (*graph.CSR, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer r.Close()
	return parseEdgeList(io.NewSectionReader(r, 0, int64(r.Len())))
}

// LoadMatrixMarket reads a MatrixMarket coordinate file into a CSR.
func LoadMatrixMarket(path string) (*graph.CSR, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer r.Close()
	return parseMatrixMarket(io.NewSectionReader(r, 0, int64(r.Len())))
}

// Load dispatches on the format name: "edgelist" or "mtx".
func Load(path, format string) (*graph.CSR, error) {
	switch format {
	case "edgelist":
		return LoadEdgeList(path)
	case "mtx":
		return LoadMatrixMarket(path)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrBadFormat, format)
	}
}

func parseEdgeList(r io.Reader) (*graph.CSR, error) {
	b := graph.NewBuilder()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, v, w, err := parseEdge(line, 0)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := b.AddUndirectedEdge(u, v, w); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan graph file: %w", err)
	}
	return b.Build(), nil
}

func parseMatrixMarket(r io.Reader) (*graph.CSR, error) {
	b := graph.NewBuilder()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNo := 0
	sawSize := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if !sawSize {
			// "rows cols entries": pre-declare the id space so trailing
			// isolated vertices survive the load.
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: %w: bad size line", lineNo, ErrBadFormat)
			}
			rows, err := strconv.ParseUint(fields[0], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrBadFormat, err)
			}
			for u := uint32(0); u < uint32(rows); u++ {
				b.AddVertex(u)
			}
			sawSize = true
			continue
		}
		u, v, w, err := parseEdge(line, 1)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := b.AddUndirectedEdge(u, v, w); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan graph file: %w", err)
	}
	if !sawSize {
		return nil, fmt.Errorf("%w: missing size line", ErrBadFormat)
	}
	return b.Build(), nil
}

// parseEdge parses "u v [w]", shifting ids down by base.
func parseEdge(line string, base uint64) (uint32, uint32, float64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return 0, 0, 0, fmt.Errorf("%w: expected 'u v [w]'", ErrBadFormat)
	}
	u, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	v, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if u < base || v < base {
		return 0, 0, 0, fmt.Errorf("%w: vertex id below %d", ErrBadFormat, base)
	}
	w := 1.0
	if len(fields) == 3 {
		w, err = strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
	}
	return uint32(u - base), uint32(v - base), w, nil
}
