// Package guide parses the per-net connectivity guide file named in spec
// §6: one net per block of lines, a line naming the net followed by lines
// of "xl yl xh yh layerName", terminated by a blank line. This is the one
// external-input format the core itself consumes (everything else in §6
// is ingested upstream into the design database before the core ever
// runs), so unlike LEF/DEF/ODB parsing it lives in this module.
//
// Grounded on TritonRoute's io::io::guide_in (original_source/src/TritonRoute/src/io/io.cpp):
// a net-name line, any number of rectangle lines, blank lines and "(" / ")"
// bracket lines ignored between blocks.
package guide

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/physdesign/drtcore/geom"
)

// Rect is one guide rectangle tagged by layer name (resolved against the
// technology by the caller; this package never touches tech.Technology so
// it can be tested and reused without a full layer stack).
type Rect struct {
	Box       geom.Box
	LayerName string
}

// NetGuide collects every guide rectangle belonging to one net.
type NetGuide struct {
	Net   string
	Rects []Rect
}

// ErrMalformedLine rejects a guide-file line that is neither a bare net
// name nor a five-field rectangle, mirroring the original parser's fatal
// "Error reading guide file!" on any other field count.
var ErrMalformedLine = errors.New("guide: malformed line")

// Parse reads every net block from r. A line of "(" or ")" is ignored (the
// original format wraps guide blocks in these bracket lines); a blank line
// closes the current net's block.
func Parse(r io.Reader) ([]NetGuide, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var out []NetGuide
	current := -1 // index into out, since out keeps reallocating as it grows.

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			current = -1
			continue
		}
		if line == "(" || line == ")" {
			continue
		}

		fields := strings.Fields(line)
		switch len(fields) {
		case 1:
			out = append(out, NetGuide{Net: fields[0]})
			current = len(out) - 1
		case 5:
			if current < 0 {
				return nil, fmt.Errorf("guide: rectangle line before any net name: %q", line)
			}
			box, err := parseBox(fields[:4])
			if err != nil {
				return nil, err
			}
			out[current].Rects = append(out[current].Rects, Rect{Box: box, LayerName: fields[4]})
		default:
			return nil, fmt.Errorf("%w: %q", ErrMalformedLine, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseBox(fields []string) (geom.Box, error) {
	vals := make([]int64, 4)
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return geom.Box{}, fmt.Errorf("guide: bad coordinate %q: %w", f, err)
		}
		vals[i] = v
	}
	return geom.Box{XL: vals[0], YL: vals[1], XH: vals[2], YH: vals[3]}, nil
}
