package repair

import "container/heap"

// edgeCost assigns the weight spec §5 specifies for the modified
// Prim/Steiner search: 0 for revisiting an edge already pulled into the
// growing tree (a shared feedthrough stem costs nothing the second time a
// branch needs it), 5 for continuing the search onward from a pin node
// that isn't root (an already-reached pin used merely as a waypoint toward
// some other pin, rather than as the outer loop's own target, discourages
// routing through pins), 1 otherwise.
func edgeCost(fromKind NodeKind, fromIsRoot, alreadyOnPath bool) int {
	if alreadyOnPath {
		return 0
	}
	if fromKind == NodePin && !fromIsRoot {
		return 5
	}
	return 1
}

// searchItem is one candidate frontier edge in the Prim-style search,
// mirroring prim_kruskal's edgePQ but over repair.Edge with an explicit
// cost instead of core.Edge.Weight, and carrying the endpoint it would
// newly admit.
type searchItem struct {
	cost    int
	via     int // id of the edge joining from and to.
	from    int
	to      int
}

type searchPQ []searchItem

func (pq searchPQ) Len() int { return len(pq) }

// Less orders by ascending cost, then — the tie-break spec §5 requires
// for determinism — by descending node index of the candidate endpoint.
func (pq searchPQ) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].to > pq[j].to
}

func (pq searchPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *searchPQ) Push(x interface{}) { *pq = append(*pq, x.(searchItem)) }

func (pq *searchPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// SpanResult is the outcome of Steiner: every node the search reached from
// root, the edges that actually lie on a path from root to some reached
// pin target (what Step F keeps), and which target pin nodes were never
// reached.
type SpanResult struct {
	ReachedNodes map[int]bool
	OnPathEdges  map[int]bool // edge ids on a back-traced root-to-pin path; everything else is an orphan.
	Unreached    []int        // pin node ids never connected to root.
}

// Steiner grows a minimum-cost tree spanning every node reachable from
// root across g's real edges using a modified Prim search (spec §4.2 Step
// E), recording each admitted node's parent edge so every reached pin can
// be back-traced to root afterward. Edges already admitted to the tree
// cost 0 to reuse, so a later branch sharing a stem with an earlier one is
// free, matching the "feedthrough" rule of spec §5.
//
// The search still expands the whole reachable component rather than
// restarting per target, but onPath status is then derived the way the
// literal per-target-restart algorithm would: back-tracing parent pointers
// from every reached pin up to root. A branch that connects to root but
// leads to no pin is reachable yet never gets walked by any back-trace, so
// it stays off onPath — Step F's "any index not on the final path is an
// orphan" rule prunes it even though the search technically touched it.
func Steiner(g *Graph, root int, targets []int) SpanResult {
	reached := map[int]bool{root: true}
	onPathEdge := map[int]bool{} // reuse-cost bookkeeping only; not the final onPath set.
	parent := map[int]int{}
	parentEdge := map[int]int{}

	pq := &searchPQ{}
	heap.Init(pq)
	pushFrontier(g, pq, root, root, onPathEdge)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(searchItem)
		if reached[item.to] {
			continue
		}
		reached[item.to] = true
		if item.via != invalidEdge {
			onPathEdge[item.via] = true
			parent[item.to] = item.from
			parentEdge[item.to] = item.via
		}
		pushFrontier(g, pq, item.to, root, onPathEdge)
	}

	var unreached []int
	onPath := map[int]bool{root: true}
	onPathEdges := map[int]bool{}
	if len(targets) == 0 {
		// A single-pin net has nothing to back-trace against; its own
		// wiring is still the net's legitimate geometry, not debris, so
		// keep everything the search actually reached instead of pruning
		// a root with no other pin down to nothing.
		for n := range reached {
			onPath[n] = true
		}
		for _, e := range parentEdge {
			onPathEdges[e] = true
		}
	} else {
		for _, t := range targets {
			if !reached[t] {
				unreached = append(unreached, t)
				continue
			}
			backtrace(t, onPath, onPathEdges, parent, parentEdge)
		}
	}
	return SpanResult{ReachedNodes: reached, OnPathEdges: onPathEdges, Unreached: unreached}
}

// backtrace walks parent pointers from node up to root (or to the first
// already-onPath ancestor, which makes a shared stem free to mark twice),
// flipping every node and parent edge it crosses into the onPath set.
func backtrace(node int, onPath, onPathEdges map[int]bool, parent, parentEdge map[int]int) {
	for !onPath[node] {
		onPath[node] = true
		edge, ok := parentEdge[node]
		if !ok {
			return // node is root: no parent edge to climb further.
		}
		onPathEdges[edge] = true
		node = parent[node]
	}
}

const invalidEdge = -1

func pushFrontier(g *Graph, pq *searchPQ, from, root int, onPathEdge map[int]bool) {
	fromKind := g.Node(from).Kind
	for _, e := range g.Neighbors(from) {
		to := e.Other(from)
		cost := edgeCost(fromKind, from == root, onPathEdge[e.ID])
		heap.Push(pq, searchItem{cost: cost, via: e.ID, from: from, to: to})
	}
}
