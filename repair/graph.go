package repair

import "sync"

// NodeKind distinguishes what a netGraph vertex represents, per spec §4.2
// step C: an endpoint of a wire segment, a via, a pin access point, or a
// synthesized T-junction split point.
type NodeKind int

const (
	NodeWireEnd NodeKind = iota
	NodeVia
	NodePin
	NodeSplit
)

// Node is one vertex of the per-net connectivity graph built in Step C.
// X/Y/Layer identify it geometrically; a node at the same (x, y, layer) is
// always the same Node (nodemap.go enforces this via coordinate dedup).
type Node struct {
	ID     int
	X, Y   int64
	Layer  int
	Kind   NodeKind
	PinRef int // valid iff Kind == NodePin; index into the net's pin list.
}

// EdgeKind records what kind of shape produced an edge. steiner.go's cost
// function keys off the node kind at the traversal's "from" end instead of
// this (a foreign-pin hop costs extra regardless of whether the hop beyond
// it happens to be a wire or a via), so EdgeKind stays provenance-only:
// it records whether a wire or a via produced the edge, and no repair step
// branches on it.
type EdgeKind int

const (
	EdgeWire EdgeKind = iota
	EdgeVia
)

// Edge is one connection discovered while walking a net's shapes in Step D.
// ShapeIdx indexes back into the originating net's shape arena so the
// repair steps can reissue or shrink the underlying geometry.
type Edge struct {
	ID       int
	U, V     int
	Kind     EdgeKind
	ShapeIdx int
}

// Graph is the undirected multigraph of spec §4.2 Step D: one instance per
// net, rebuilt fresh for every repair iteration. It follows core.Graph's
// split-lock discipline (separate locks for the node set and the edge/
// adjacency set) since nodemap construction (concurrent per net, spec §5)
// and edge insertion can proceed without contending on the same lock.
type Graph struct {
	muNode sync.RWMutex
	muEdge sync.RWMutex

	nodes []Node
	edges []Edge

	// adjacency[u] lists indices into edges incident to node u.
	adjacency map[int][]int

	// coordIndex maps (x, y, layer) to a node ID, so repeated probes of
	// the same point during graph construction return the same Node
	// instead of creating duplicates.
	coordIndex map[coordKey]int
}

type coordKey struct {
	X, Y  int64
	Layer int
}

func NewGraph() *Graph {
	return &Graph{
		adjacency:  make(map[int][]int),
		coordIndex: make(map[coordKey]int),
	}
}

// NodeAt returns the existing node at (x, y, layer), creating one of kind
// k if none exists yet.
func (g *Graph) NodeAt(x, y int64, layer int, k NodeKind) int {
	key := coordKey{X: x, Y: y, Layer: layer}

	g.muNode.Lock()
	defer g.muNode.Unlock()
	if id, ok := g.coordIndex[key]; ok {
		return id
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, X: x, Y: y, Layer: layer, Kind: k})
	g.coordIndex[key] = id
	return id
}

// AttachPin binds a pin access point to the node at (x, y, layer), reusing
// whatever wire-end or via node construction already planted there so the
// pin joins the same connected component as its own geometry instead of
// floating off the graph; it falls back to a fresh node only when nothing
// else has ever touched that exact point (nodemap.go's feedthrough-pin
// probe is what keeps this case rare, by splitting a wire first whenever a
// pin lands in its interior). Two distinct pins landing on the same point
// collapse onto one node, which is correct for reachability: whichever one
// claims PinRef first, reaching that node already satisfies both.
func (g *Graph) AttachPin(x, y int64, layer, pinRef int) int {
	key := coordKey{X: x, Y: y, Layer: layer}

	g.muNode.Lock()
	defer g.muNode.Unlock()
	if id, ok := g.coordIndex[key]; ok {
		if g.nodes[id].Kind != NodePin {
			g.nodes[id].Kind = NodePin
			g.nodes[id].PinRef = pinRef
		}
		return id
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, X: x, Y: y, Layer: layer, Kind: NodePin, PinRef: pinRef})
	g.coordIndex[key] = id
	return id
}

func (g *Graph) Node(id int) Node {
	g.muNode.RLock()
	defer g.muNode.RUnlock()
	return g.nodes[id]
}

func (g *Graph) NodeCount() int {
	g.muNode.RLock()
	defer g.muNode.RUnlock()
	return len(g.nodes)
}

// AddEdge inserts an undirected edge u-v of kind k, sourced from shapeIdx.
func (g *Graph) AddEdge(u, v int, k EdgeKind, shapeIdx int) int {
	g.muEdge.Lock()
	defer g.muEdge.Unlock()
	id := len(g.edges)
	g.edges = append(g.edges, Edge{ID: id, U: u, V: v, Kind: k, ShapeIdx: shapeIdx})
	g.adjacency[u] = append(g.adjacency[u], id)
	g.adjacency[v] = append(g.adjacency[v], id)
	return id
}

// Neighbors returns the edges incident to node u, in insertion order (so
// callers that need determinism never need to sort by map iteration).
func (g *Graph) Neighbors(u int) []Edge {
	g.muEdge.RLock()
	defer g.muEdge.RUnlock()
	ids := g.adjacency[u]
	out := make([]Edge, len(ids))
	for i, id := range ids {
		out[i] = g.edges[id]
	}
	return out
}

func (g *Graph) Edge(id int) Edge {
	g.muEdge.RLock()
	defer g.muEdge.RUnlock()
	return g.edges[id]
}

func (g *Graph) EdgeCount() int {
	g.muEdge.RLock()
	defer g.muEdge.RUnlock()
	return len(g.edges)
}

// Other returns the endpoint of e that is not u.
func (e Edge) Other(u int) int {
	if e.U == u {
		return e.V
	}
	return e.U
}
