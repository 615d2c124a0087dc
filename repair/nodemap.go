package repair

import (
	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/regionindex"
)

// TJunction records a pin access point that lands strictly inside a
// segment's span on the same track (spec §4.2 Step C), which Step G must
// split the touched segment on before the graph can treat the pin as
// landing on a real node. A plain wire-on-wire crossing is a different
// case — spec §8 scenario 2 calls for joining the two in the node map
// only, never a physical split — and is resolved directly inside
// BuildGraph by joinWireCrossings instead of being reported here.
type TJunction struct {
	Touched design.ShapeRef // the segment being landed on, mid-span.
	EndNode int             // the node id of the endpoint that touches it.
	Layer   int
	X, Y    int64
}

// BuildGraph executes spec §4.2 Step C-D: walk every live shape of net,
// create a node per distinct (x,y,layer) point, wire up edges for path
// segments and vias, and attach a pin node for every terminal access point
// the net owns. A wire endpoint landing mid-span of another segment joins
// the two directly in the graph (no shape mutation); a pin access point
// doing the same is instead reported as a TJunction for Step G to resolve,
// since only a pin's own feedthrough point forces a real split.
func BuildGraph(block *design.Block, net *design.Net, netID design.NetID, index *regionindex.Index) (*Graph, []TJunction) {
	g := NewGraph()

	for _, e := range net.Shapes() {
		switch e.S.Kind {
		case design.KindPathSegment:
			u := g.NodeAt(e.S.Seg.BP.X, e.S.Seg.BP.Y, e.S.LayerNum, NodeWireEnd)
			v := g.NodeAt(e.S.Seg.EP.X, e.S.Seg.EP.Y, e.S.LayerNum, NodeWireEnd)
			g.AddEdge(u, v, EdgeWire, int(e.ID))

			joinWireCrossings(net, netID, g, detectTJunction(index, e, e.S.Seg.BP.X, e.S.Seg.BP.Y, u))
			joinWireCrossings(net, netID, g, detectTJunction(index, e, e.S.Seg.EP.X, e.S.Seg.EP.Y, v))

		case design.KindVia:
			below := g.NodeAt(e.S.ViaV.Origin.X, e.S.ViaV.Origin.Y, e.S.ViaV.LayerBelow, NodeVia)
			above := g.NodeAt(e.S.ViaV.Origin.X, e.S.ViaV.Origin.Y, e.S.ViaV.LayerAbove, NodeVia)
			g.AddEdge(below, above, EdgeVia, int(e.ID))

		case design.KindPatchWire:
			g.NodeAt(e.S.Patch.Origin.X, e.S.Patch.Origin.Y, e.S.Patch.Layer, NodeWireEnd)
		}
	}

	tjs := seedPinNodes(block, net, g, index)

	return g, tjs
}

// detectTJunction probes the region index on layer for a same-layer
// segment (other than self) whose track strictly contains (x,y), per the
// HTrack/VTrack probes of regionindex.
func detectTJunction(index *regionindex.Index, self struct {
	ID design.ShapeID
	S  design.Shape
}, x, y int64, node int) []TJunction {
	var out []TJunction
	if h, ok := index.HTrackSegmentContaining(self.S.LayerNum, y, x); ok && h.Shape != self.ID {
		out = append(out, TJunction{Touched: h, EndNode: node, Layer: self.S.LayerNum, X: x, Y: y})
	}
	if v, ok := index.VTrackSegmentContaining(self.S.LayerNum, x, y); ok && v.Shape != self.ID {
		out = append(out, TJunction{Touched: v, EndNode: node, Layer: self.S.LayerNum, X: x, Y: y})
	}
	return out
}

// joinWireCrossings wires each candidate wire-on-wire crossing directly
// into the graph: the touched segment is solid copper end to end, so the
// crossing point is graph-reachable from both of the touched segment's own
// endpoints without ever cutting the segment itself. Cross-net candidates
// are skipped — a foreign net's wire occupying the same track is the other
// net's own connectivity, not this one's.
func joinWireCrossings(net *design.Net, netID design.NetID, g *Graph, tjs []TJunction) {
	for _, tj := range tjs {
		if tj.Touched.Net != netID {
			continue
		}
		s, live := net.Shape(tj.Touched.Shape)
		if !live || s.Kind != design.KindPathSegment {
			continue
		}
		tu := g.NodeAt(s.Seg.BP.X, s.Seg.BP.Y, tj.Layer, NodeWireEnd)
		tv := g.NodeAt(s.Seg.EP.X, s.Seg.EP.Y, tj.Layer, NodeWireEnd)
		g.AddEdge(tj.EndNode, tu, EdgeWire, int(tj.Touched.Shape))
		g.AddEdge(tj.EndNode, tv, EdgeWire, int(tj.Touched.Shape))
	}
}

// seedPinNodes attaches a pin node for every access point of every terminal
// the net connects, so Step E can treat "is this pin reachable" as a graph
// reachability question over real edges instead of a set of points no
// edge touches. A point that lands in the interior of a surviving segment
// rather than at a node already on the graph is reported as a TJunction so
// Step G can split that segment first (spec's feedthrough-pin rule); the
// next BuildGraph call then finds a real node there to attach to.
func seedPinNodes(block *design.Block, net *design.Net, g *Graph, index *regionindex.Index) []TJunction {
	var tjs []TJunction
	attach := func(ap design.AccessPoint, pinRef int) {
		node := g.AttachPin(ap.P.X, ap.P.Y, ap.Layer, pinRef)
		tjs = append(tjs, detectPinFeedthrough(index, ap.Layer, ap.P.X, ap.P.Y, node)...)
	}

	for i, tid := range net.Terms() {
		t := block.Term(tid)
		for _, ap := range t.Access {
			attach(ap, i)
		}
	}
	for i, iid := range net.InstTerms() {
		it := block.InstanceTerm(iid)
		for _, ap := range it.Access {
			attach(ap, i)
		}
	}
	return tjs
}

// detectPinFeedthrough probes for a segment whose track strictly contains
// a pin's access point, the same test detectTJunction runs for a wire
// endpoint landing mid-span of another wire.
func detectPinFeedthrough(index *regionindex.Index, layer int, x, y int64, node int) []TJunction {
	var out []TJunction
	if h, ok := index.HTrackSegmentContaining(layer, y, x); ok {
		out = append(out, TJunction{Touched: h, EndNode: node, Layer: layer, X: x, Y: y})
	}
	if v, ok := index.VTrackSegmentContaining(layer, x, y); ok {
		out = append(out, TJunction{Touched: v, EndNode: node, Layer: layer, X: x, Y: y})
	}
	return out
}
