package repair_test

import (
	"testing"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/regionindex"
	"github.com/physdesign/drtcore/repair"
	"github.com/stretchr/testify/require"
)

func mustSeg(t *testing.T, layer int, net design.NetID, bp, ep geom.Pt) design.Shape {
	t.Helper()
	s, err := design.NewPathSegmentShape(layer, net, bp, ep, design.EndExtend, 0, design.EndExtend, 0)
	require.NoError(t, err)
	return s
}

func TestMergeOverlappingSegments(t *testing.T) {
	block := design.NewBlock()
	net := design.NewNet("n1", design.Signal)
	netID := block.AddNet(net)

	a := mustSeg(t, 3, netID, geom.Pt{X: 0, Y: 100}, geom.Pt{X: 50, Y: 100})
	b := mustSeg(t, 3, netID, geom.Pt{X: 40, Y: 100}, geom.Pt{X: 120, Y: 100})
	ix := regionindex.New()
	idA := net.AddShape(a)
	idB := net.AddShape(b)
	ix.Insert(3, a.Box(), design.ShapeRef{Net: netID, Shape: idA})
	ix.Insert(3, b.Box(), design.ShapeRef{Net: netID, Shape: idB})

	changed := repair.MergeRun(net, netID, ix)
	require.True(t, changed)

	live := net.Shapes()
	require.Len(t, live, 1, "two overlapping segments must fuse into one")
	require.Equal(t, int64(0), live[0].S.Seg.BP.X)
	require.Equal(t, int64(120), live[0].S.Seg.EP.X)
}

func TestMergeLeavesDisjointSegmentsAlone(t *testing.T) {
	block := design.NewBlock()
	net := design.NewNet("n1", design.Signal)
	netID := block.AddNet(net)

	a := mustSeg(t, 3, netID, geom.Pt{X: 0, Y: 100}, geom.Pt{X: 50, Y: 100})
	b := mustSeg(t, 3, netID, geom.Pt{X: 200, Y: 100}, geom.Pt{X: 250, Y: 100})
	ix := regionindex.New()
	net.AddShape(a)
	net.AddShape(b)

	changed := repair.MergeRun(net, netID, ix)
	require.False(t, changed)
	require.Len(t, net.Shapes(), 2)
}
