package drc_test

import (
	"testing"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/drc"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/markers"
	"github.com/physdesign/drtcore/regionindex"
	"github.com/physdesign/drtcore/tech"
	"github.com/stretchr/testify/require"
)

// setup wires a Block/Index/Sink/Engine over the given layers/vias and
// returns everything addSeg/addVia need to populate it, the way the
// driver wires them before running a DRC pass.
func setup(t *testing.T, layers []tech.Layer, vias []tech.ViaDef) (*design.Block, *regionindex.Index, *drc.Engine) {
	t.Helper()
	technology := tech.NewTechnology(layers, vias)
	block := design.NewBlock()
	index := regionindex.New()
	sink := markers.New(index, block)
	return block, index, drc.New(technology, index, sink)
}

func addSeg(t *testing.T, block *design.Block, index *regionindex.Index, net design.NetID, layer int, bp, ep geom.Pt) design.ShapeID {
	t.Helper()
	n := block.Net(net)
	s, err := design.NewPathSegmentShape(layer, net, bp, ep, design.EndExtend, 0, design.EndExtend, 0)
	require.NoError(t, err)
	id := n.AddShape(s)
	index.Insert(layer, s.Box(), design.ShapeRef{Net: net, Shape: id})
	return id
}

func addVia(t *testing.T, block *design.Block, index *regionindex.Index, net design.NetID, viaDef tech.ViaDef, origin geom.Pt) design.ShapeID {
	t.Helper()
	n := block.Net(net)
	s := design.NewViaShape(net, origin, viaDef.Name, viaDef.LayerBelow, viaDef.CutLayer, viaDef.LayerAbove)
	id := n.AddShape(s)
	index.Insert(viaDef.CutLayer, geom.Box{XL: origin.X, YL: origin.Y, XH: origin.X, YH: origin.Y}, design.ShapeRef{Net: net, Shape: id})
	return id
}

// Scenario 5 (spec §8): two vias of the same cut class, centers 40 apart
// (cut edges 30 apart), against a diff-net rule of 50 measured edge to edge,
// must violate.
// Each of the two nets' own checkCutSpacing pass discovers the other via as
// its neighbor, so the pair produces two markers (one per victim/aggressor
// orientation) sharing the same bbox and constraint.
func TestCutSpacingScenario5(t *testing.T) {
	layers := []tech.Layer{
		{Num: 3, Name: "V1", Kind: tech.Cut, CutSpacing: []tech.CutSpacingRule{
			{SameNet: false, Spacing: 50},
		}},
	}
	via := tech.ViaDef{Name: "Vx", CutLayer: 3, CutRects: []geom.Box{{XL: -5, YL: -5, XH: 5, YH: 5}}, CutClassName: "Vx"}
	block, index, eng := setup(t, layers, []tech.ViaDef{via})

	n1 := block.AddNet(design.NewNet("N1", design.Signal))
	n2 := block.AddNet(design.NewNet("N2", design.Signal))
	addVia(t, block, index, n1, via, geom.Pt{X: 0, Y: 0})
	addVia(t, block, index, n2, via, geom.Pt{X: 40, Y: 0})

	emitted := eng.Check(block, drc.Scope{})
	require.Equal(t, 2, emitted)
	for _, m := range block.Markers() {
		require.Equal(t, "cutSpacing", m.ConstraintRef)
		require.Equal(t, geom.Box{XL: 35, YL: -5, XH: 5, YH: 5}, m.Box)
	}

	// DRC idempotence (spec §8): re-running over an unchanged design must
	// not grow the marker set.
	again := eng.Check(block, drc.Scope{})
	require.Equal(t, 0, again)
	require.Len(t, block.Markers(), 2)
}

// A same-net pair at the same separation is never checked against a
// diff-net-only rule.
func TestCutSpacingSameNetUnaffectedWithoutRule(t *testing.T) {
	layers := []tech.Layer{
		{Num: 3, Name: "V1", Kind: tech.Cut, CutSpacing: []tech.CutSpacingRule{
			{SameNet: false, Spacing: 50},
		}},
	}
	via := tech.ViaDef{Name: "Vx", CutLayer: 3, CutRects: []geom.Box{{XL: -5, YL: -5, XH: 5, YH: 5}}, CutClassName: "Vx"}
	block, index, eng := setup(t, layers, []tech.ViaDef{via})

	n1 := block.AddNet(design.NewNet("N1", design.Signal))
	addVia(t, block, index, n1, via, geom.Pt{X: 0, Y: 0})
	addVia(t, block, index, n1, via, geom.Pt{X: 40, Y: 0})

	require.Equal(t, 0, eng.Check(block, drc.Scope{}))
}

// Overlapping cuts on different nets are a short, not a spacing violation.
func TestCutSpacingShort(t *testing.T) {
	layers := []tech.Layer{
		{Num: 3, Name: "V1", Kind: tech.Cut, CutSpacing: []tech.CutSpacingRule{
			{SameNet: false, Spacing: 50},
		}},
	}
	via := tech.ViaDef{Name: "Vx", CutLayer: 3, CutRects: []geom.Box{{XL: -5, YL: -5, XH: 5, YH: 5}}, CutClassName: "Vx"}
	block, index, eng := setup(t, layers, []tech.ViaDef{via})
	n1 := block.AddNet(design.NewNet("N1", design.Signal))
	n2 := block.AddNet(design.NewNet("N2", design.Signal))
	addVia(t, block, index, n1, via, geom.Pt{X: 0, Y: 0})
	addVia(t, block, index, n2, via, geom.Pt{X: 2, Y: 0})

	eng.Check(block, drc.Scope{})
	for _, m := range block.Markers() {
		require.Equal(t, "cutSpacing.short", m.ConstraintRef)
	}
}

// A forward obstruction within a segment's EOL search box (its own width
// qualifying it as narrow, per checkEOL's width gate) trips the end-of-line
// spacing predicate of §4.3.2.
func TestEOLSpacingFlagsForwardObstruction(t *testing.T) {
	layers := []tech.Layer{
		{Num: 2, Name: "M1", Kind: tech.Routing, PrefDir: geom.Horizontal, MinWidth: 30,
			EOL: []tech.EOLRule{{EOLWidth: 50, EOLSpace: 30, EOLWithin: 20}},
		},
	}
	block, index, eng := setup(t, layers, nil)
	n1 := block.AddNet(design.NewNet("N1", design.Signal))
	n2 := block.AddNet(design.NewNet("N2", design.Signal))
	addSeg(t, block, index, n1, 2, geom.Pt{X: 0, Y: 0}, geom.Pt{X: 40, Y: 0})
	addSeg(t, block, index, n2, 2, geom.Pt{X: 50, Y: 0}, geom.Pt{X: 90, Y: 0})

	emitted := eng.Check(block, drc.Scope{})
	require.Equal(t, 2, emitted, "each segment's tip sees the other ahead of it")
	for _, m := range block.Markers() {
		require.Equal(t, "spacing.eol", m.ConstraintRef)
	}
}

// No marker fires when nothing sits ahead of either segment's tip.
func TestEOLSpacingClearWhenNothingAhead(t *testing.T) {
	layers := []tech.Layer{
		{Num: 2, Name: "M1", Kind: tech.Routing, PrefDir: geom.Horizontal, MinWidth: 30,
			EOL: []tech.EOLRule{{EOLWidth: 50, EOLSpace: 30, EOLWithin: 20}},
		},
	}
	block, index, eng := setup(t, layers, nil)
	n1 := block.AddNet(design.NewNet("N1", design.Signal))
	addSeg(t, block, index, n1, 2, geom.Pt{X: 0, Y: 0}, geom.Pt{X: 40, Y: 0})

	require.Equal(t, 0, eng.Check(block, drc.Scope{}))
}

// Metal-spacing symmetry (spec §8): two parallel same-layer segments closer
// than the two-width/PRL table's required spacing violate from both
// shapes' perspective, with equivalent (same bbox, same constraint)
// markers on each side.
func TestMetalSpacingSymmetry(t *testing.T) {
	layers := []tech.Layer{
		{Num: 2, Name: "M1", Kind: tech.Routing, PrefDir: geom.Horizontal, MinWidth: 100,
			TwoWidthPRL: tech.TwoWidthPRLTable{
				Widths: []int64{100}, PRLs: []int64{0}, Spacing: [][]int64{{150}},
			},
		},
	}
	block, index, eng := setup(t, layers, nil)
	n1 := block.AddNet(design.NewNet("N1", design.Signal))
	n2 := block.AddNet(design.NewNet("N2", design.Signal))
	addSeg(t, block, index, n1, 2, geom.Pt{X: 0, Y: 0}, geom.Pt{X: 1000, Y: 0})
	addSeg(t, block, index, n2, 2, geom.Pt{X: 0, Y: 50}, geom.Pt{X: 1000, Y: 50})

	emitted := eng.Check(block, drc.Scope{})
	require.Equal(t, 2, emitted)
	for _, m := range block.Markers() {
		require.Equal(t, "spacing.metal", m.ConstraintRef)
	}
}

// Widening the separation past the required spacing clears the violation.
func TestMetalSpacingClearWhenFarEnough(t *testing.T) {
	layers := []tech.Layer{
		{Num: 2, Name: "M1", Kind: tech.Routing, PrefDir: geom.Horizontal, MinWidth: 100,
			TwoWidthPRL: tech.TwoWidthPRLTable{
				Widths: []int64{100}, PRLs: []int64{0}, Spacing: [][]int64{{150}},
			},
		},
	}
	block, index, eng := setup(t, layers, nil)
	n1 := block.AddNet(design.NewNet("N1", design.Signal))
	n2 := block.AddNet(design.NewNet("N2", design.Signal))
	addSeg(t, block, index, n1, 2, geom.Pt{X: 0, Y: 0}, geom.Pt{X: 1000, Y: 0})
	addSeg(t, block, index, n2, 2, geom.Pt{X: 0, Y: 400}, geom.Pt{X: 1000, Y: 400})

	require.Equal(t, 0, eng.Check(block, drc.Scope{}))
}
