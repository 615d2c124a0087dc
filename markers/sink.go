// Package markers implements component C7: a deduplicated store of
// violations keyed by (layer, box, constraint, participants), per spec
// §4.4. Accepted markers are also inserted into the region index so later
// checks can ask "has something already been flagged here?".
package markers

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/regionindex"
)

// Sink is the dedup store. Writes are serialized by mu, matching the
// resource model of spec §5 ("Marker sink: writes are serialized.").
type Sink struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	index *regionindex.Index
	block *design.Block
}

func New(index *regionindex.Index, block *design.Block) *Sink {
	return &Sink{seen: make(map[string]struct{}), index: index, block: block}
}

// Add accepts m iff no prior marker with the same
// (constraint, layer, bbox, victim-set, aggressor-set) exists, per §4.4.
// It reports whether the marker was newly accepted.
func (s *Sink) Add(m design.Marker) bool {
	key := dedupKey(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.block.AddMarker(m)
	s.index.AddMarker(m.LayerNum, m)
	return true
}

func dedupKey(m design.Marker) string {
	var b strings.Builder
	b.WriteString(m.ConstraintRef)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(m.LayerNum))
	b.WriteByte('|')
	writeBox(&b, m.Box)
	b.WriteByte('|')
	writeRefs(&b, m.Victims)
	b.WriteByte('|')
	writeRefs(&b, m.Aggressors)
	return b.String()
}

func writeBox(b *strings.Builder, box geom.Box) {
	b.WriteString(strconv.FormatInt(box.XL, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(box.YL, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(box.XH, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(box.YH, 10))
}

func writeRefs(b *strings.Builder, refs []design.ShapeRef) {
	sorted := make([]design.ShapeRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Net != sorted[j].Net {
			return sorted[i].Net < sorted[j].Net
		}
		return sorted[i].Shape < sorted[j].Shape
	})
	for i, r := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(r.Net)))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(r.Shape)))
	}
}
