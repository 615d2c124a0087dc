package repair

import (
	"sort"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/regionindex"
)

// mergeGroup collects the live path-segments sharing one (layer, orient,
// track), the unit Step A merges within.
type mergeGroup struct {
	layer  int
	orient geom.Orient
	track  int64
	ids    []design.ShapeID
}

// MergeRun executes spec §4.2 Steps A-B for one net: identify runs of
// overlapping or abutting colinear segments on the same track (Step A,
// read-only) and commit each run into a single replacement segment (Step
// B, the only part of this function that mutates net or index). It
// reports whether any merge happened.
func MergeRun(net *design.Net, netID design.NetID, index *regionindex.Index) bool {
	groups := make(map[mergeGroupKey]*mergeGroup)
	for _, e := range net.Shapes() {
		if e.S.Kind != design.KindPathSegment {
			continue
		}
		key := mergeGroupKey{layer: e.S.LayerNum, orient: e.S.Seg.Orient(), track: e.S.Seg.Track()}
		g, ok := groups[key]
		if !ok {
			g = &mergeGroup{layer: key.layer, orient: key.orient, track: key.track}
			groups[key] = g
		}
		g.ids = append(g.ids, e.ID)
	}

	// Deterministic iteration: sort group keys before processing, since
	// Go map iteration order is not stable and marker/merge output must
	// be reproducible across runs (spec §5).
	keys := make([]mergeGroupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].layer != keys[j].layer {
			return keys[i].layer < keys[j].layer
		}
		if keys[i].orient != keys[j].orient {
			return keys[i].orient < keys[j].orient
		}
		return keys[i].track < keys[j].track
	})

	merged := false
	for _, k := range keys {
		g := groups[k]
		if len(g.ids) < 2 {
			continue
		}
		if mergeGroupRun(net, netID, index, g) {
			merged = true
		}
	}
	return merged
}

type mergeGroupKey struct {
	layer  int
	orient geom.Orient
	track  int64
}

// mergeGroupRun sorts g's segments along the track axis and fuses every
// maximal run of overlapping/abutting segments into one, returning whether
// any fusion occurred.
func mergeGroupRun(net *design.Net, netID design.NetID, index *regionindex.Index, g *mergeGroup) bool {
	type seg struct {
		id    design.ShapeID
		lo,hi int64
		s     design.Shape
	}
	segs := make([]seg, 0, len(g.ids))
	for _, id := range g.ids {
		s, live := net.Shape(id)
		if !live {
			continue
		}
		lo, hi := axisSpan(s.Seg, g.orient)
		segs = append(segs, seg{id: id, lo: lo, hi: hi, s: s})
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].lo < segs[j].lo })

	merged := false
	i := 0
	for i < len(segs) {
		j := i + 1
		runLo, runHi := segs[i].lo, segs[i].hi
		runIDs := []design.ShapeID{segs[i].id}
		first, last := segs[i].s, segs[i].s
		for j < len(segs) && segs[j].lo <= runHi {
			if segs[j].hi > runHi {
				runHi = segs[j].hi
				last = segs[j].s
			}
			runIDs = append(runIDs, segs[j].id)
			j++
		}
		if len(runIDs) > 1 {
			commitMerge(net, netID, index, g, runLo, runHi, first, last, runIDs)
			merged = true
		}
		i = j
	}
	return merged
}

func axisSpan(s design.PathSegment, orient geom.Orient) (int64, int64) {
	if orient == geom.Horizontal {
		return s.BP.X, s.EP.X
	}
	return s.BP.Y, s.EP.Y
}

// commitMerge is Step B: replace runIDs with one segment spanning
// [runLo,runHi] on g's track, keeping the outermost endpoint styles/
// extensions from first/last, then erase the old shapes and index the
// replacement.
func commitMerge(net *design.Net, netID design.NetID, index *regionindex.Index, g *mergeGroup, runLo, runHi int64, first, last design.Shape, runIDs []design.ShapeID) {
	var bp, ep geom.Pt
	if g.orient == geom.Horizontal {
		bp = geom.Pt{X: runLo, Y: g.track}
		ep = geom.Pt{X: runHi, Y: g.track}
	} else {
		bp = geom.Pt{X: g.track, Y: runLo}
		ep = geom.Pt{X: g.track, Y: runHi}
	}
	merged, err := design.NewPathSegmentShape(g.layer, netID, bp, ep, first.Seg.StyleBegin, first.Seg.ExtBegin, last.Seg.StyleEnd, last.Seg.ExtEnd)
	if err != nil {
		// Degenerate merge window (zero span) cannot happen here since
		// every contributing segment already had positive span and the
		// run's lo < hi by construction; nothing to commit if it did.
		return
	}

	keep := runIDs[0]
	for _, id := range runIDs {
		index.Erase(g.layer, design.ShapeRef{Net: netID, Shape: id})
		if id != keep {
			net.RemoveShape(id)
		}
	}
	net.SetShape(keep, merged)
	index.Insert(g.layer, merged.Box(), design.ShapeRef{Net: netID, Shape: keep})
	net.SetModified(true)
}
