package repair_test

import (
	"testing"

	"github.com/physdesign/drtcore/repair"
	"github.com/stretchr/testify/require"
)

// TestSteinerDiscouragesRoutingThroughAForeignPin builds two otherwise
// symmetric two-hop routes from root to a shared target T: one through a
// plain wire node, one through a second pin node. Since continuing the
// search onward from a non-root pin costs 5 against a plain node's 1 (spec
// §5's "discourages routing through pins" rule), the plain-node route must
// win even though both are offered to the frontier at the same moment.
func TestSteinerDiscouragesRoutingThroughAForeignPin(t *testing.T) {
	g := repair.NewGraph()
	root := g.AttachPin(0, 0, 1, 0)
	plainY := g.NodeAt(10, 0, 1, repair.NodeWireEnd)
	pinX := g.AttachPin(20, 0, 1, 1)
	target := g.NodeAt(30, 0, 1, repair.NodeWireEnd)

	rootPlain := g.AddEdge(root, plainY, repair.EdgeWire, 0)
	g.AddEdge(root, pinX, repair.EdgeWire, 0)
	plainTarget := g.AddEdge(plainY, target, repair.EdgeWire, 0)
	pinTarget := g.AddEdge(pinX, target, repair.EdgeWire, 0)

	span := repair.Steiner(g, root, []int{target, pinX})
	require.Empty(t, span.Unreached)

	require.True(t, span.OnPathEdges[rootPlain])
	require.True(t, span.OnPathEdges[plainTarget], "the target must be admitted via the plain-node hop")
	require.False(t, span.OnPathEdges[pinTarget], "the costlier foreign-pin hop must lose to the cheaper plain one")
}

// TestSteinerPrunesAConnectedButPinlessStub builds a live junction with two
// branches: one reaches the target pin, the other dead-ends at a plain
// wire node no pin ever touches. Both branches are reachable from root, but
// only the pin-reaching one may survive Step F — the dead branch was never
// walked by any back-trace and so must be excluded from OnPathEdges even
// though Steiner's search did technically touch it.
func TestSteinerPrunesAConnectedButPinlessStub(t *testing.T) {
	g := repair.NewGraph()
	root := g.AttachPin(0, 0, 1, 0)
	junction := g.NodeAt(10, 0, 1, repair.NodeWireEnd)
	target := g.AttachPin(20, 0, 1, 1)
	deadEnd := g.NodeAt(10, 10, 1, repair.NodeWireEnd)

	rootToJunction := g.AddEdge(root, junction, repair.EdgeWire, 0)
	junctionToTarget := g.AddEdge(junction, target, repair.EdgeWire, 1)
	junctionToDeadEnd := g.AddEdge(junction, deadEnd, repair.EdgeWire, 2)

	span := repair.Steiner(g, root, []int{target})
	require.Empty(t, span.Unreached)
	require.True(t, span.ReachedNodes[deadEnd], "the dead branch is still topologically reachable")

	require.True(t, span.OnPathEdges[rootToJunction])
	require.True(t, span.OnPathEdges[junctionToTarget])
	require.False(t, span.OnPathEdges[junctionToDeadEnd], "a branch reaching no pin must not be kept")
}
