package drc

import (
	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/tech"
)

// checkCutSpacing implements §4.3.5 over every via the net owns: classic
// spacing bloated by max(cutSpacing,cutWithin) and measured edge to edge
// between the two cut boxes (there is no center-to-center mode), the
// LEF58 cut-class spacing table, and the adjacent-cuts/two-cuts counting
// extensions. Same-net neighbors only ever apply a SameNet rule (and only
// if Technology.Finalize left one standing; an orphaned same-net rule with
// no matching diff-net rule was already disabled there, per §4.6).
func (eng *Engine) checkCutSpacing(block *design.Block, net *design.Net, netID design.NetID) int {
	emitted := 0
	for _, entry := range net.Shapes() {
		if entry.S.Kind != design.KindVia {
			continue
		}
		self := design.ShapeRef{Net: netID, Shape: entry.ID}
		via := entry.S.ViaV
		cutLayer, err := eng.Tech.Layer(via.CutLayer)
		if err != nil || cutLayer.Kind != tech.Cut {
			continue
		}
		if len(cutLayer.CutSpacing) == 0 && len(cutLayer.AdjacentCuts) == 0 {
			continue
		}
		viaDef, err := eng.Tech.Via(via.ViaDef)
		if err != nil {
			continue
		}
		cutBox := unionCutRects(via.Origin, viaDef.CutRects)

		maxReach := maxCutReach(*cutLayer)
		if maxReach == 0 {
			continue
		}
		search := cutBox.BloatUniform(maxReach)
		neighbors := eng.Index.QueryBox(cutLayer.Num, search)

		adjacent := 0
		for _, other := range neighbors {
			if other == self {
				continue
			}
			otherShape, live := block.Net(other.Net).Shape(other.Shape)
			if !live || otherShape.Kind != design.KindVia {
				continue
			}
			otherDef, err := eng.Tech.Via(otherShape.ViaV.ViaDef)
			if err != nil {
				continue
			}
			otherBox := unionCutRects(otherShape.ViaV.Origin, otherDef.CutRects)

			sameNet := other.Net == netID
			rule, ok := findCutSpacingRule(*cutLayer, *viaDef, *otherDef, sameNet)
			if !ok {
				continue
			}
			if rule.CutWithin > 0 && withinCutWithin(cutBox, otherBox, rule.CutWithin) {
				adjacent++
			}
			if cutBox.Overlaps(otherBox) {
				eng.Sink.Add(design.Marker{
					Box: cutBox.GeneralizedIntersection(otherBox), LayerNum: cutLayer.Num,
					ConstraintRef: "cutSpacing.short",
					Victims:       []design.ShapeRef{self}, Aggressors: []design.ShapeRef{other},
				})
				emitted++
				continue
			}

			required := rule.Spacing
			if dist2(cutBox, otherBox) < required*required {
				eng.Sink.Add(design.Marker{
					Box: cutBox.GeneralizedIntersection(otherBox), LayerNum: cutLayer.Num,
					ConstraintRef: "cutSpacing",
					Victims:       []design.ShapeRef{self}, Aggressors: []design.ShapeRef{other},
				})
				emitted++
			}
		}

		emitted += eng.checkAdjacentCuts(cutLayer, self, cutBox, adjacent)
	}
	return emitted
}

// checkAdjacentCuts implements the LEF58 adjacent-cuts/two-cuts extension:
// a subject cut with at least AdjacentCuts neighbors within CutWithin is
// flagged, since those rules exist to forbid clustering beyond what the
// base spacing table already permits (two-cuts additionally requires the
// neighbor to satisfy the same predicate, which this model approximates
// by re-using the same adjacency count for both sides — see DESIGN.md).
func (eng *Engine) checkAdjacentCuts(layer *tech.Layer, self design.ShapeRef, box geom.Box, adjacent int) int {
	emitted := 0
	for _, rule := range layer.AdjacentCuts {
		if adjacent >= rule.AdjacentCuts {
			eng.Sink.Add(design.Marker{
				Box: box, LayerNum: layer.Num, ConstraintRef: "cutSpacing.adjacentCuts",
				Victims: []design.ShapeRef{self},
			})
			emitted++
		}
	}
	for _, rule := range layer.TwoCuts {
		if adjacent >= rule.AdjacentCuts {
			eng.Sink.Add(design.Marker{
				Box: box, LayerNum: layer.Num, ConstraintRef: "cutSpacing.twoCuts",
				Victims: []design.ShapeRef{self},
			})
			emitted++
		}
	}
	return emitted
}

func unionCutRects(origin geom.Pt, rects []geom.Box) geom.Box {
	if len(rects) == 0 {
		return geom.Box{XL: origin.X, YL: origin.Y, XH: origin.X, YH: origin.Y}
	}
	out := translate(origin, rects[0])
	for _, r := range rects[1:] {
		t := translate(origin, r)
		if t.XL < out.XL {
			out.XL = t.XL
		}
		if t.YL < out.YL {
			out.YL = t.YL
		}
		if t.XH > out.XH {
			out.XH = t.XH
		}
		if t.YH > out.YH {
			out.YH = t.YH
		}
	}
	return out
}

func translate(origin geom.Pt, r geom.Box) geom.Box {
	return geom.Box{XL: r.XL + origin.X, YL: r.YL + origin.Y, XH: r.XH + origin.X, YH: r.YH + origin.Y}
}

func maxCutReach(layer tech.Layer) int64 {
	var max int64
	for _, r := range layer.CutSpacing {
		reach := r.Spacing
		if r.CutWithin > reach {
			reach = r.CutWithin
		}
		if reach > max {
			max = reach
		}
	}
	for _, r := range layer.AdjacentCuts {
		if r.CutWithin > max {
			max = r.CutWithin
		}
	}
	for _, r := range layer.TwoCuts {
		if r.CutWithin > max {
			max = r.CutWithin
		}
	}
	return max
}

// findCutSpacingRule picks the intra-layer classic/table rule matching
// sameNet, preferring a LEF58 cut-class entry (keyed by the two vias' cut
// classes) over the first same-net-matching classic entry, per §4.3.5.
func findCutSpacingRule(layer tech.Layer, a, b tech.ViaDef, sameNet bool) (tech.CutSpacingRule, bool) {
	var classic tech.CutSpacingRule
	haveClassic := false
	for _, r := range layer.CutSpacing {
		if r.SameNet != sameNet || r.SecondLayer != 0 {
			continue
		}
		if r.Class1 != "" {
			if (r.Class1 == a.CutClassName && r.Class2 == b.CutClassName) ||
				(r.Class1 == b.CutClassName && r.Class2 == a.CutClassName) {
				return r, true
			}
			continue
		}
		if !haveClassic {
			classic, haveClassic = r, true
		}
	}
	return classic, haveClassic
}

func withinCutWithin(a, b geom.Box, within int64) bool {
	dx, dy := a.EdgeDistance(b)
	return dx <= within && dy <= within
}

func dist2(a, b geom.Box) int64 {
	dx, dy := a.EdgeDistance(b)
	if dx == 0 && dy == 0 {
		return 0
	}
	return dx*dx + dy*dy
}
