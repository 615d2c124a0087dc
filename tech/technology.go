package tech

import (
	"sort"

	"github.com/physdesign/drtcore/geom"
)

// Technology owns the layer stack and via definitions, and performs the
// initialization-time post-processing of spec §4.6 that this model covers:
// default-via selection, rotated variant synthesis, and same-net/diff-net
// cut-spacing consistency. It is built once, finalized once, and
// treated as read-only by the repair and DRC engines afterward.
type Technology struct {
	Layers  []Layer
	Vias    []ViaDef
	byNum   map[int]*Layer
	byName  map[string]*ViaDef
	topRoutingLayer int
}

// NewTechnology indexes layers and vias and records the top routing layer
// number, used by the single-cut-via precedence rule in §4.6.
func NewTechnology(layers []Layer, vias []ViaDef) *Technology {
	t := &Technology{Layers: layers, Vias: vias}
	t.byNum = make(map[int]*Layer, len(layers))
	top := 0
	for i := range t.Layers {
		l := &t.Layers[i]
		t.byNum[l.Num] = l
		if l.Kind == Routing && l.Num > top {
			top = l.Num
		}
	}
	t.topRoutingLayer = top
	t.byName = make(map[string]*ViaDef, len(vias))
	for i := range t.Vias {
		t.byName[t.Vias[i].Name] = &t.Vias[i]
	}
	return t
}

func (t *Technology) Layer(num int) (*Layer, error) {
	l, ok := t.byNum[num]
	if !ok {
		return nil, ErrUnknownLayer
	}
	return l, nil
}

func (t *Technology) Via(name string) (*ViaDef, error) {
	v, ok := t.byName[name]
	if !ok {
		return nil, ErrUnknownVia
	}
	return v, nil
}

// DefaultViaFor selects the default via definition for a cut layer,
// ordering candidates as §4.6 specifies:
//
//	(isDefault desc, metal1Width asc, metal2Width asc, alignWithPrefDir desc,
//	 cutArea asc, metal2Area asc, metal1Area asc, lowerAlign desc, name asc)
//
// with single-cut vias stably partitioned ahead of multi-cut vias whenever
// the cut layer sits below the top routing layer.
func (t *Technology) DefaultViaFor(cutLayer int) (ViaDef, bool) {
	var cands []ViaDef
	for _, v := range t.Vias {
		if v.CutLayer == cutLayer {
			cands = append(cands, v)
		}
	}
	if len(cands) == 0 {
		return ViaDef{}, false
	}

	belowTop := cutLayer < t.topRoutingLayer
	belowPref, abovePref := t.prefDirOf(cutLayer-1), t.prefDirOf(cutLayer+1)

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if belowTop {
			ac, bc := len(a.CutRects) == 1, len(b.CutRects) == 1
			if ac != bc {
				return ac // single-cut vias precede multi-cut vias.
			}
		}
		if a.IsDefault != b.IsDefault {
			return a.IsDefault
		}
		if a.EncBelow.Width() != b.EncBelow.Width() {
			return a.EncBelow.Width() < b.EncBelow.Width()
		}
		if a.EncAbove.Width() != b.EncAbove.Width() {
			return a.EncAbove.Width() < b.EncAbove.Width()
		}
		aAlign := a.AlignWithPrefDir(a.EncAbove, abovePref)
		bAlign := b.AlignWithPrefDir(b.EncAbove, abovePref)
		if aAlign != bAlign {
			return aAlign
		}
		if a.CutArea() != b.CutArea() {
			return a.CutArea() < b.CutArea()
		}
		if a.EncAbove.Area() != b.EncAbove.Area() {
			return a.EncAbove.Area() < b.EncAbove.Area()
		}
		if a.EncBelow.Area() != b.EncBelow.Area() {
			return a.EncBelow.Area() < b.EncBelow.Area()
		}
		aLower := a.AlignWithPrefDir(a.EncBelow, belowPref)
		bLower := b.AlignWithPrefDir(b.EncBelow, belowPref)
		if aLower != bLower {
			return aLower
		}
		return a.Name < b.Name
	})

	return cands[0], true
}

func (t *Technology) prefDirOf(layerNum int) geom.Orient {
	if l, ok := t.byNum[layerNum]; ok {
		return l.PrefDir
	}
	return geom.Horizontal
}

// Finalize runs the remaining §4.6 post-processing steps: it fills
// DefaultViaName on every routing layer that is missing one, synthesizes a
// rotated variant when the chosen default's enclosure does not align with
// the layer's preferred direction, and disables any same-net cut-spacing
// rule whose matching diff-net rule is absent (the consistency property
// tested in spec §8), returning one warning string per disabled rule. It
// does not synthesize bloated via variants (ViaDef.Bloated is never called
// here) and does not fill in SecondLayer on cut-spacing rules.
func (t *Technology) Finalize() []string {
	var warnings []string
	for i := range t.Layers {
		l := &t.Layers[i]
		if l.Kind != Routing || l.DefaultViaName != "" {
			continue
		}
		cutLayer := l.Num + 1
		def, ok := t.DefaultViaFor(cutLayer)
		if !ok {
			continue
		}
		if !def.AlignWithPrefDir(def.EncAbove, l.PrefDir) {
			rotated := def.Rotated(def.Name + "_R90")
			t.Vias = append(t.Vias, rotated)
			t.byName[rotated.Name] = &t.Vias[len(t.Vias)-1]
			l.DefaultViaName = rotated.Name
		} else {
			l.DefaultViaName = def.Name
		}
	}

	for i := range t.Layers {
		l := &t.Layers[i]
		if l.Kind != Cut {
			continue
		}
		bySameNetKey := make(map[string]int)
		byDiffNetKey := make(map[string]bool)
		for _, r := range l.CutSpacing {
			key := cutRuleKey(r)
			if r.SameNet {
				bySameNetKey[key] = 0
			} else {
				byDiffNetKey[key] = true
			}
		}
		kept := l.CutSpacing[:0]
		for _, r := range l.CutSpacing {
			if r.SameNet && !byDiffNetKey[cutRuleKey(r)] {
				warnings = append(warnings, "cut-spacing: disabling same-net rule with no matching diff-net rule on layer "+l.Name)
				continue
			}
			kept = append(kept, r)
		}
		l.CutSpacing = kept
	}

	return warnings
}

func cutRuleKey(r CutSpacingRule) string {
	return r.Class1 + "|" + r.Class2 + "|" + r.Side
}
