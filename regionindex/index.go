// Package regionindex implements component C4: a per-layer spatial
// container answering box/point queries over shapes, polygon edges and
// markers (spec §4.1). Concurrent reads are always safe; every mutation
// (Insert/Erase) takes the single per-layer write lock, matching the
// "concurrent reads allowed during parallel phases, all writes occur in
// serial phases" resource model of spec §5.
//
// No rtree-style balanced-tree library appears anywhere in the example
// corpus this module was built from, and the spec explicitly allows a
// simpler structure ("an implementation may also use interval trees per
// track"), so this is a bespoke, per-layer, per-track bucketed index: a
// flat arena of entries for whole-box scans, plus sorted per-track
// indices (keyed by the perpendicular coordinate, per the GLOSSARY's
// definition of Track) for the T-junction probes Step C of the repair
// engine performs.
package regionindex

import (
	"sort"
	"sync"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
)

// Entry is one indexed shape: its bounding box and owning handle.
type Entry struct {
	Box        geom.Box
	Handle     design.ShapeRef
	tombstoned bool
}

// EdgeEntry is one polygon edge returned by QueryPolygonEdge: the edge
// itself represented as a zero-width Box plus the outward direction.
type EdgeEntry struct {
	Seg    geom.Box
	Dir    geom.Dir
	Handle design.ShapeRef
}

type layerIndex struct {
	mu sync.RWMutex

	entries  []Entry
	byHandle map[design.ShapeRef]int // handle -> index into entries, InvalidID sentinel not used; absence means erased.

	// hTrack/vTrack map a track coordinate to entry indices, sorted by
	// XL (horizontal track) or YL (vertical track), for Step C's
	// T-junction probe: "a segment whose x-span strictly contains x".
	hTrack map[int64][]int
	vTrack map[int64][]int

	markers []design.Marker
}

func newLayerIndex() *layerIndex {
	return &layerIndex{
		byHandle: make(map[design.ShapeRef]int),
		hTrack:   make(map[int64][]int),
		vTrack:   make(map[int64][]int),
	}
}

// Index is the full per-layer collection of spatial containers.
type Index struct {
	mu     sync.RWMutex
	layers map[int]*layerIndex
}

func New() *Index {
	return &Index{layers: make(map[int]*layerIndex)}
}

func (ix *Index) layer(layerNum int) *layerIndex {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	l, ok := ix.layers[layerNum]
	if !ok {
		l = newLayerIndex()
		ix.layers[layerNum] = l
	}
	return l
}

func (ix *Index) layerReadOnly(layerNum int) (*layerIndex, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	l, ok := ix.layers[layerNum]
	return l, ok
}

// Insert adds box under handle on layerNum. Re-inserting an already
// present handle replaces its box (used by Step B's rewrite-and-reinsert
// of a merged segment).
func (ix *Index) Insert(layerNum int, box geom.Box, handle design.ShapeRef) {
	l := ix.layer(layerNum)
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx, ok := l.byHandle[handle]; ok {
		l.removeTrackRefsLocked(idx)
		l.entries[idx] = Entry{Box: box, Handle: handle}
		l.addTrackRefsLocked(idx)
		return
	}
	idx := len(l.entries)
	l.entries = append(l.entries, Entry{Box: box, Handle: handle})
	l.byHandle[handle] = idx
	l.addTrackRefsLocked(idx)
}

// Erase removes handle from layerNum's index, if present.
func (ix *Index) Erase(layerNum int, handle design.ShapeRef) {
	l, ok := ix.layerReadOnly(layerNum)
	if !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, ok := l.byHandle[handle]
	if !ok {
		return
	}
	l.removeTrackRefsLocked(idx)
	delete(l.byHandle, handle)
	// Tombstone in place; entries only grows and erased slots are never
	// reused (unlike design.Net, whose arena recycles freed slots), so
	// indices already cached by callers (e.g. track buckets) stay valid.
	l.entries[idx] = Entry{tombstoned: true}
}

func (l *layerIndex) addTrackRefsLocked(idx int) {
	e := l.entries[idx]
	if e.Box.YL == e.Box.YH {
		l.hTrack[e.Box.YL] = insertSorted(l.hTrack[e.Box.YL], idx, func(i int) int64 { return l.entries[i].Box.XL })
	}
	if e.Box.XL == e.Box.XH {
		l.vTrack[e.Box.XL] = insertSorted(l.vTrack[e.Box.XL], idx, func(i int) int64 { return l.entries[i].Box.YL })
	}
}

func (l *layerIndex) removeTrackRefsLocked(idx int) {
	e := l.entries[idx]
	if e.Box.YL == e.Box.YH {
		l.hTrack[e.Box.YL] = removeValue(l.hTrack[e.Box.YL], idx)
	}
	if e.Box.XL == e.Box.XH {
		l.vTrack[e.Box.XL] = removeValue(l.vTrack[e.Box.XL], idx)
	}
}

func insertSorted(s []int, v int, key func(int) int64) []int {
	i := sort.Search(len(s), func(i int) bool { return key(s[i]) >= key(v) })
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeValue(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// QueryBox returns every handle on layerNum whose box intersects box.
func (ix *Index) QueryBox(layerNum int, box geom.Box) []design.ShapeRef {
	l, ok := ix.layerReadOnly(layerNum)
	if !ok {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []design.ShapeRef
	for _, e := range l.entries {
		if e.tombstoned {
			continue
		}
		if e.Box.Intersects(box) {
			out = append(out, e.Handle)
		}
	}
	return out
}

// MaxRect pairs a maximal rectangle with the shape handle that contributed
// it. In this implementation every indexed shape's own box already is a
// maximal rectangle (the model never merges crossing shapes into an
// L-shaped polygon before indexing — see DESIGN.md), so QueryMaxRectangle
// and QueryBox share the same underlying scan.
type MaxRect struct {
	Rect   geom.Box
	Handle design.ShapeRef
}

func (ix *Index) QueryMaxRectangle(layerNum int, box geom.Box) []MaxRect {
	l, ok := ix.layerReadOnly(layerNum)
	if !ok {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []MaxRect
	for _, e := range l.entries {
		if e.tombstoned {
			continue
		}
		if e.Box.Intersects(box) {
			out = append(out, MaxRect{Rect: e.Box, Handle: e.Handle})
		}
	}
	return out
}

// QueryPolygonEdge returns the four boundary edges of every maximal
// rectangle intersecting box, used by the edge-oriented EOL and corner
// checks of §4.3.2/§4.3.3.
func (ix *Index) QueryPolygonEdge(layerNum int, box geom.Box) []EdgeEntry {
	rects := ix.QueryMaxRectangle(layerNum, box)
	out := make([]EdgeEntry, 0, len(rects)*4)
	for _, r := range rects {
		b := r.Rect
		out = append(out,
			EdgeEntry{Seg: geom.Box{XL: b.XL, YL: b.YL, XH: b.XH, YH: b.YL}, Dir: geom.DirS, Handle: r.Handle},
			EdgeEntry{Seg: geom.Box{XL: b.XL, YL: b.YH, XH: b.XH, YH: b.YH}, Dir: geom.DirN, Handle: r.Handle},
			EdgeEntry{Seg: geom.Box{XL: b.XL, YL: b.YL, XH: b.XL, YH: b.YH}, Dir: geom.DirW, Handle: r.Handle},
			EdgeEntry{Seg: geom.Box{XL: b.XH, YL: b.YL, XH: b.XH, YH: b.YH}, Dir: geom.DirE, Handle: r.Handle},
		)
	}
	return out
}

// AddMarker inserts m into layerNum's marker collection, indexed for
// QueryMarkers ("has something already been flagged here?" lookups).
// markers.Sink calls it for every accepted marker; its own duplicate check
// uses a separate key set, not QueryMarkers.
func (ix *Index) AddMarker(layerNum int, m design.Marker) {
	l := ix.layer(layerNum)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = append(l.markers, m)
}

func (ix *Index) QueryMarkers(layerNum int, box geom.Box) []design.Marker {
	l, ok := ix.layerReadOnly(layerNum)
	if !ok {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []design.Marker
	for _, m := range l.markers {
		if m.Box.Intersects(box) {
			out = append(out, m)
		}
	}
	return out
}

// HTrackSegmentContaining returns the entry, if any, on the horizontal
// track y whose X span strictly contains x — the exact probe Step C of
// the repair engine performs for T-junction detection (spec §4.2).
func (ix *Index) HTrackSegmentContaining(layerNum int, y, x int64) (design.ShapeRef, bool) {
	l, ok := ix.layerReadOnly(layerNum)
	if !ok {
		return design.ShapeRef{}, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, idx := range l.hTrack[y] {
		e := l.entries[idx]
		if e.Box.XL < x && x < e.Box.XH {
			return e.Handle, true
		}
	}
	return design.ShapeRef{}, false
}

// VTrackSegmentContaining is the vertical-track counterpart of
// HTrackSegmentContaining.
func (ix *Index) VTrackSegmentContaining(layerNum int, x, y int64) (design.ShapeRef, bool) {
	l, ok := ix.layerReadOnly(layerNum)
	if !ok {
		return design.ShapeRef{}, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, idx := range l.vTrack[x] {
		e := l.entries[idx]
		if e.Box.YL < y && y < e.Box.YH {
			return e.Handle, true
		}
	}
	return design.ShapeRef{}, false
}
