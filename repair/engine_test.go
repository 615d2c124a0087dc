package repair_test

import (
	"testing"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/markers"
	"github.com/physdesign/drtcore/rcfg"
	"github.com/physdesign/drtcore/regionindex"
	"github.com/physdesign/drtcore/repair"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Warnf(string, ...interface{}) {}
func (testLogger) Infof(string, ...interface{}) {}

func TestEngineRepairNetPrunesUnreachableStub(t *testing.T) {
	block := design.NewBlock()
	net := design.NewNet("n1", design.Signal)
	netID := block.AddNet(net)

	term := block.AddTerm(design.Term{
		Name: "p", Net: netID, Sig: design.Signal, IO: design.Output,
		Access: []design.AccessPoint{{P: geom.Pt{X: 0, Y: 100}, Layer: 3}},
	})
	net.AddTerm(term)

	connected := mustSeg(t, 3, netID, geom.Pt{X: 0, Y: 100}, geom.Pt{X: 200, Y: 100})
	idConn := net.AddShape(connected)
	orphan := mustSeg(t, 3, netID, geom.Pt{X: 1000, Y: 1000}, geom.Pt{X: 1100, Y: 1000})
	idOrphan := net.AddShape(orphan)

	ix := regionindex.New()
	ix.Insert(3, connected.Box(), design.ShapeRef{Net: netID, Shape: idConn})
	ix.Insert(3, orphan.Box(), design.ShapeRef{Net: netID, Shape: idOrphan})

	sink := markers.New(ix, block)
	eng := repair.New(ix, sink, rcfg.Default(), testLogger{})

	err := eng.RepairNet(block, netID, 0)
	require.NoError(t, err)

	live := net.Shapes()
	require.Len(t, live, 1, "the disconnected stub must be pruned, the pin-connected segment kept")
	require.Equal(t, idConn, live[0].ID)
	require.Len(t, block.Markers(), 1)
}

// TestEngineRepairNetPrunesConnectedButPinlessStub covers the case the
// disconnected-stub test above does not: a branch that is topologically
// wired to a live junction yet reaches no pin of its own. Merging the two
// colinear horizontal runs turns the vertical branch's landing point into a
// T-junction mid-span of the merged wire, which must join the node map
// without a physical split (spec §8 scenario 2) and then get pruned in
// Step F for leading nowhere a pin needs it (spec §4.2 Step F).
func TestEngineRepairNetPrunesConnectedButPinlessStub(t *testing.T) {
	block := design.NewBlock()
	net := design.NewNet("n1", design.Signal)
	netID := block.AddNet(net)

	term1 := block.AddTerm(design.Term{
		Name: "a", Net: netID, Sig: design.Signal, IO: design.Output,
		Access: []design.AccessPoint{{P: geom.Pt{X: 0, Y: 100}, Layer: 3}},
	})
	term2 := block.AddTerm(design.Term{
		Name: "b", Net: netID, Sig: design.Signal, IO: design.Input,
		Access: []design.AccessPoint{{P: geom.Pt{X: 400, Y: 100}, Layer: 3}},
	})
	net.AddTerm(term1)
	net.AddTerm(term2)

	h1 := mustSeg(t, 3, netID, geom.Pt{X: 0, Y: 100}, geom.Pt{X: 200, Y: 100})
	idH1 := net.AddShape(h1)
	h2 := mustSeg(t, 3, netID, geom.Pt{X: 200, Y: 100}, geom.Pt{X: 400, Y: 100})
	idH2 := net.AddShape(h2)
	stub := mustSeg(t, 3, netID, geom.Pt{X: 200, Y: 100}, geom.Pt{X: 200, Y: 300})
	idStub := net.AddShape(stub)

	ix := regionindex.New()
	ix.Insert(3, h1.Box(), design.ShapeRef{Net: netID, Shape: idH1})
	ix.Insert(3, h2.Box(), design.ShapeRef{Net: netID, Shape: idH2})
	ix.Insert(3, stub.Box(), design.ShapeRef{Net: netID, Shape: idStub})

	sink := markers.New(ix, block)
	eng := repair.New(ix, sink, rcfg.Default(), testLogger{})

	err := eng.RepairNet(block, netID, 0)
	require.NoError(t, err)

	live := net.Shapes()
	for _, e := range live {
		require.NotEqual(t, idStub, e.ID, "the pinless branch must be pruned even though it stays wired to the live junction")
	}
	require.NotEmpty(t, live, "the merged horizontal run connecting both pins must survive")
}

func TestEngineRepairNetFatalWhenPinUnreachable(t *testing.T) {
	block := design.NewBlock()
	net := design.NewNet("n1", design.Signal)
	netID := block.AddNet(net)

	term1 := block.AddTerm(design.Term{
		Name: "a", Net: netID, Sig: design.Signal, IO: design.Output,
		Access: []design.AccessPoint{{P: geom.Pt{X: 0, Y: 100}, Layer: 3}},
	})
	term2 := block.AddTerm(design.Term{
		Name: "b", Net: netID, Sig: design.Signal, IO: design.Input,
		Access: []design.AccessPoint{{P: geom.Pt{X: 9000, Y: 9000}, Layer: 3}},
	})
	net.AddTerm(term1)
	net.AddTerm(term2)

	seg := mustSeg(t, 3, netID, geom.Pt{X: 0, Y: 100}, geom.Pt{X: 200, Y: 100})
	id := net.AddShape(seg)
	ix := regionindex.New()
	ix.Insert(3, seg.Box(), design.ShapeRef{Net: netID, Shape: id})

	sink := markers.New(ix, block)
	eng := repair.New(ix, sink, rcfg.Default(), testLogger{})

	err := eng.RepairNet(block, netID, 0)
	require.Error(t, err)
	var fe *repair.FatalError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "no-steiner-path", fe.Kind)
}
