package repair

import (
	"sort"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/regionindex"
)

// SplitAtTJunctions is Step G: for every detected T-junction, cut the
// touched segment into two at the landing point so the graph rebuilt
// afterward carries a real node (and edge) at that point instead of
// treating the endpoint as merely touching the middle of another shape.
func SplitAtTJunctions(net *design.Net, netID design.NetID, index *regionindex.Index, tjs []TJunction) {
	// Dedup by (touched shape, point): two endpoints landing on the same
	// spot of the same segment must only split it once.
	type key struct {
		shape design.ShapeID
		x, y  int64
	}
	seen := make(map[key]bool)
	// Sort for determinism, and visit the split points of one touched
	// shape in descending (x,y) order: each split keeps the lower half
	// under the original id, so every later (smaller) point still lies
	// inside the span that id covers.
	sorted := make([]TJunction, len(tjs))
	copy(sorted, tjs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Touched.Shape != sorted[j].Touched.Shape {
			return sorted[i].Touched.Shape < sorted[j].Touched.Shape
		}
		if sorted[i].X != sorted[j].X {
			return sorted[i].X > sorted[j].X
		}
		return sorted[i].Y > sorted[j].Y
	})

	for _, tj := range sorted {
		if tj.Touched.Net != netID {
			continue // cross-net T-junctions are the other net's concern.
		}
		k := key{shape: tj.Touched.Shape, x: tj.X, y: tj.Y}
		if seen[k] {
			continue
		}
		seen[k] = true
		splitSegmentAt(net, netID, index, tj.Touched.Shape, tj.Layer, tj.X, tj.Y)
	}
}

func splitSegmentAt(net *design.Net, netID design.NetID, index *regionindex.Index, id design.ShapeID, layer int, x, y int64) {
	s, live := net.Shape(id)
	if !live || s.Kind != design.KindPathSegment {
		return
	}
	seg := s.Seg
	split := geom.Pt{X: x, Y: y}
	if split.Eq(seg.BP) || split.Eq(seg.EP) {
		return // landing exactly on an existing endpoint is not a T-junction.
	}

	left, err1 := design.NewPathSegmentShape(layer, netID, seg.BP, split, seg.StyleBegin, seg.ExtBegin, design.EndTruncate, 0)
	right, err2 := design.NewPathSegmentShape(layer, netID, split, seg.EP, design.EndTruncate, 0, seg.StyleEnd, seg.ExtEnd)
	if err1 != nil || err2 != nil {
		return
	}

	index.Erase(layer, design.ShapeRef{Net: netID, Shape: id})
	net.SetShape(id, left)
	index.Insert(layer, left.Box(), design.ShapeRef{Net: netID, Shape: id})

	newID := net.AddShape(right)
	index.Insert(layer, right.Box(), design.ShapeRef{Net: netID, Shape: newID})

	net.SetModified(true)
}

// PruneOrphans is Step F: delete every wire/via shape whose graph edge
// never lands on span.OnPathEdges — the back-traced root-to-pin tree Step E
// built — and returns how many shapes it removed (RepairNet adds the
// recheck marker when that count is non-zero). A shape is judged by whether ANY of its edges (a wire
// has one; a wire also touched by a crossing neighbor's joinWireCrossings
// hop has more) is on that path, never by mere reachability: a stub wired
// to a live junction but serving no pin is reachable yet never walked by
// any back-trace, so spec §4.2 Step F's "not on the final path is an
// orphan" still removes it. PatchWire shapes are never pruned here; they
// carry no connectivity edge and are this engine's own fill, not routing
// debris.
func PruneOrphans(net *design.Net, netID design.NetID, index *regionindex.Index, g *Graph, span SpanResult) int {
	keep := make(map[int]bool)
	for eid := 0; eid < g.EdgeCount(); eid++ {
		e := g.Edge(eid)
		if span.OnPathEdges[e.ID] {
			keep[e.ShapeIdx] = true
		}
	}

	pruned := 0
	handled := make(map[int]bool)
	for eid := 0; eid < g.EdgeCount(); eid++ {
		e := g.Edge(eid)
		if keep[e.ShapeIdx] || handled[e.ShapeIdx] {
			continue
		}
		handled[e.ShapeIdx] = true
		s, live := net.Shape(design.ShapeID(e.ShapeIdx))
		if !live {
			continue
		}
		net.RemoveShape(design.ShapeID(e.ShapeIdx))
		index.Erase(s.LayerNum, design.ShapeRef{Net: netID, Shape: design.ShapeID(e.ShapeIdx)})
		pruned++
	}
	if pruned > 0 {
		net.SetModified(true)
	}
	return pruned
}

// ShrinkDangling is Step H: a path-segment endpoint styled EndVariable
// that, after pruning, ends in a degree-1 node which is neither a pin nor
// a via, is an overshoot left over from a now-removed branch; its
// extension is trimmed to zero instead of deleting the whole segment.
func ShrinkDangling(net *design.Net, netID design.NetID, index *regionindex.Index, g *Graph) int {
	degree := make(map[int]int)
	for eid := 0; eid < g.EdgeCount(); eid++ {
		e := g.Edge(eid)
		if _, live := net.Shape(design.ShapeID(e.ShapeIdx)); !live {
			continue // edge of a shape pruned since g was built.
		}
		degree[e.U]++
		degree[e.V]++
	}

	shrunk := 0
	for _, entry := range net.Shapes() {
		if entry.S.Kind != design.KindPathSegment {
			continue
		}
		seg := entry.S.Seg
		bpNode := g.NodeAt(seg.BP.X, seg.BP.Y, entry.S.LayerNum, NodeWireEnd)
		epNode := g.NodeAt(seg.EP.X, seg.EP.Y, entry.S.LayerNum, NodeWireEnd)

		changed := false
		if seg.StyleBegin == design.EndVariable && seg.ExtBegin > 0 && degree[bpNode] <= 1 && g.Node(bpNode).Kind != NodePin {
			seg.ExtBegin = 0
			changed = true
		}
		if seg.StyleEnd == design.EndVariable && seg.ExtEnd > 0 && degree[epNode] <= 1 && g.Node(epNode).Kind != NodePin {
			seg.ExtEnd = 0
			changed = true
		}
		if !changed {
			continue
		}
		rebuilt, err := design.NewPathSegmentShape(entry.S.LayerNum, netID, seg.BP, seg.EP, seg.StyleBegin, seg.ExtBegin, seg.StyleEnd, seg.ExtEnd)
		if err != nil {
			continue
		}
		index.Erase(entry.S.LayerNum, design.ShapeRef{Net: netID, Shape: entry.ID})
		net.SetShape(entry.ID, rebuilt)
		index.Insert(entry.S.LayerNum, rebuilt.Box(), design.ShapeRef{Net: netID, Shape: entry.ID})
		shrunk++
	}
	if shrunk > 0 {
		net.SetModified(true)
	}
	return shrunk
}

// PatchSweep is Step I: close any residual sub-minimum gap left between
// colinear segments on the same track after merging (e.g. a via landing
// pad rounded to grid just short of a wire) by dropping a small PatchWire
// across the gap, rather than leaving a connectivity break too small for
// Step A's overlap test but still physically disjoint.
func PatchSweep(net *design.Net, netID design.NetID, index *regionindex.Index, maxGap int64) int {
	type seg struct {
		id     design.ShapeID
		layer  int
		orient geom.Orient
		track  int64
		lo, hi int64
	}
	byTrack := make(map[mergeGroupKey][]seg)
	for _, e := range net.Shapes() {
		if e.S.Kind != design.KindPathSegment {
			continue
		}
		lo, hi := axisSpan(e.S.Seg, e.S.Seg.Orient())
		k := mergeGroupKey{layer: e.S.LayerNum, orient: e.S.Seg.Orient(), track: e.S.Seg.Track()}
		byTrack[k] = append(byTrack[k], seg{id: e.ID, layer: e.S.LayerNum, orient: k.orient, track: k.track, lo: lo, hi: hi})
	}

	keys := make([]mergeGroupKey, 0, len(byTrack))
	for k := range byTrack {
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

	patched := 0
	for _, k := range keys {
		segs := byTrack[k]
		sort.Slice(segs, func(i, j int) bool { return segs[i].lo < segs[j].lo })
		for i := 0; i+1 < len(segs); i++ {
			gap := segs[i+1].lo - segs[i].hi
			if gap <= 0 || gap > maxGap {
				continue
			}
			var origin geom.Pt
			var box geom.Box
			if k.orient == geom.Horizontal {
				origin = geom.Pt{X: segs[i].hi, Y: k.track}
				box = geom.Box{XL: 0, YL: 0, XH: gap, YH: 0}
			} else {
				origin = geom.Pt{X: k.track, Y: segs[i].hi}
				box = geom.Box{XL: 0, YL: 0, XH: 0, YH: gap}
			}
			patch := design.NewPatchWireShape(netID, k.layer, origin, box)
			id := net.AddShape(patch)
			index.Insert(k.layer, patch.Box(), design.ShapeRef{Net: netID, Shape: id})
			patched++
		}
	}
	if patched > 0 {
		net.SetModified(true)
	}
	return patched
}
