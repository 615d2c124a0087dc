// Package repair implements component C5: the post-routing connectivity
// repair engine of spec §4.2. For each net it merges overlapping wire
// runs, splits a segment wherever a pin lands mid-span (a plain wire-on-wire
// T-junction is joined in the graph without a split), reconnects any pin left dangling
// after those rewrites via a cost-weighted search over the net's own
// wiring, prunes whatever the search never reached, and closes any
// sub-minimum gaps the merge left behind.
package repair

import (
	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/markers"
	"github.com/physdesign/drtcore/rcfg"
	"github.com/physdesign/drtcore/regionindex"
)

// Engine holds the shared, already-synchronized collaborators every net's
// repair run touches: the spatial index and the marker sink. Both guard
// their own state internally, so a single Engine is safe to drive
// concurrently across distinct nets (spec §5's per-net mutation,
// cross-net-concurrent-read resource model).
type Engine struct {
	Index *regionindex.Index
	Sink  *markers.Sink
	Cfg   rcfg.RouterConfig
	Log   rcfg.Logger
}

func New(index *regionindex.Index, sink *markers.Sink, cfg rcfg.RouterConfig, log rcfg.Logger) *Engine {
	return &Engine{Index: index, Sink: sink, Cfg: cfg, Log: log}
}

// RepairNet runs the full Step A-I pipeline for one net. iter identifies
// the calling routing iteration; it is accepted to match the driver's
// RepairFunc signature and is not recorded in the markers RepairNet emits.
func (eng *Engine) RepairNet(block *design.Block, netID design.NetID, iter int) error {
	net := block.Net(netID)
	shapes := net.Shapes()
	if len(shapes) == 0 {
		return nil
	}

	// Steps A-B: merge colinear overlapping runs, then run a second pass
	// since the first can expose a new overlap at a junction two segments
	// both used to terminate short of (this mirrors the original fixed
	// point iteration noted in original_source for merge passes).
	MergeRun(net, netID, eng.Index)
	MergeRun(net, netID, eng.Index)

	// Step C: build the node map. Wire-on-wire crossings join directly in
	// the graph; only a pin landing mid-span of a segment is reported,
	// since that case alone demands Step G split the segment.
	_, tjs := BuildGraph(block, net, netID, eng.Index)

	// Step G: split at every pin feedthrough, then rebuild the graph so
	// Step E sees a real node at the split point.
	if len(tjs) > 0 {
		SplitAtTJunctions(net, netID, eng.Index, tjs)
	}
	g, _ := BuildGraph(block, net, netID, eng.Index)

	if g.NodeCount() == 0 {
		return nil
	}

	root, targets := choosePinTargets(g)
	if root == invalidEdge {
		// A net with shapes but no pin access points at all cannot be
		// validated for connectivity; leave its geometry untouched.
		return nil
	}

	span := Steiner(g, root, targets)
	if len(span.Unreached) > 0 {
		eng.Log.Warnf("net %s: %d pin(s) unreachable after repair search", net.Name, len(span.Unreached))
		eng.Sink.Add(design.Marker{
			Box:           net.BBox(),
			LayerNum:      g.Node(root).Layer,
			ConstraintRef: "connectivity.unreachablePin",
			IsRecheck:     true,
		})
		return &FatalError{Kind: "no-steiner-path", Net: net.Name, What: "pin unreachable after repair search"}
	}

	// Step F: prune every shape with no edge on a back-traced root-to-pin
	// path, including branches the search reached but no pin needs.
	if pruned := PruneOrphans(net, netID, eng.Index, g, span); pruned > 0 {
		eng.Sink.Add(design.Marker{Box: net.BBox(), ConstraintRef: "connectivity.orphanPruned", IsRecheck: true})
	}

	// Step H: shrink now-dangling variable-extension stubs.
	ShrinkDangling(net, netID, eng.Index, g)

	// Step I: close any residual sub-minimum gap merging left behind.
	PatchSweep(net, netID, eng.Index, defaultMaxPatchGap)

	return nil
}

// defaultMaxPatchGap bounds Step I's gap-fill to a handful of DBU, wide
// enough to absorb grid-rounding slivers without silently bridging a real
// routing gap a DRC spacing check ought to catch instead.
const defaultMaxPatchGap int64 = 4

// choosePinTargets picks the lowest-indexed pin node as the search root
// and every other pin node as a target, in node-id order for determinism.
// Returns root == invalidEdge if the graph has no pin nodes.
func choosePinTargets(g *Graph) (int, []int) {
	root := invalidEdge
	var targets []int
	for id := 0; id < g.NodeCount(); id++ {
		if g.Node(id).Kind != NodePin {
			continue
		}
		if root == invalidEdge {
			root = id
			continue
		}
		targets = append(targets, id)
	}
	return root, targets
}
