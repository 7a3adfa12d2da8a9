package graph

import "container/heap"

// Weighted is a small graph over integer node ids with non-negative edge
// weights. Parallel edges are kept as separate entries. It is not safe for
// concurrent mutation; build one per query.
type Weighted struct {
	undirected bool
	adj        map[int][]weightedEdge
}

type weightedEdge struct {
	to     int
	weight uint
}

// NewDirected returns an empty graph whose edges are followed from u to v only.
func NewDirected() *Weighted {
	return &Weighted{adj: make(map[int][]weightedEdge)}
}

// NewUndirected returns an empty graph whose edges can be followed both ways.
func NewUndirected() *Weighted {
	return &Weighted{undirected: true, adj: make(map[int][]weightedEdge)}
}

// AddEdge adds an edge from u to v. Both nodes are created if missing.
func (g *Weighted) AddEdge(u, v int, weight uint) {
	g.adj[u] = append(g.adj[u], weightedEdge{to: v, weight: weight})
	if _, ok := g.adj[v]; !ok {
		g.adj[v] = nil
	}
	if g.undirected && u != v {
		g.adj[v] = append(g.adj[v], weightedEdge{to: u, weight: weight})
	}
}

// HasNode reports whether id has been added through an edge.
func (g *Weighted) HasNode(id int) bool {
	_, ok := g.adj[id]
	return ok
}

// NumNodes returns the number of distinct nodes.
func (g *Weighted) NumNodes() int {
	return len(g.adj)
}

// ShortestPath returns the node ids from u to v inclusive along the path of
// least total weight. Among equally short paths the one discovered first, in
// edge insertion order, wins. It returns an empty slice when either node is
// missing or v cannot be reached.
func (g *Weighted) ShortestPath(u, v int) []int {
	if !g.HasNode(u) || !g.HasNode(v) {
		return []int{}
	}

	dist := map[int]uint64{u: 0}
	prev := make(map[int]int)
	done := make(map[int]bool)

	pq := &pathQueue{}
	heap.Push(pq, pathItem{node: u})
	seq := 1

	for pq.Len() > 0 {
		it := heap.Pop(pq).(pathItem)
		if done[it.node] {
			continue
		}
		done[it.node] = true
		if it.node == v {
			break
		}
		for _, e := range g.adj[it.node] {
			if done[e.to] {
				continue
			}
			nd := it.dist + uint64(e.weight)
			if d, ok := dist[e.to]; ok && nd >= d {
				continue
			}
			dist[e.to] = nd
			prev[e.to] = it.node
			heap.Push(pq, pathItem{node: e.to, dist: nd, seq: seq})
			seq++
		}
	}

	if !done[v] {
		return []int{}
	}

	path := []int{v}
	for n := v; n != u; {
		n = prev[n]
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pathItem struct {
	node int
	dist uint64
	seq  int
}

// pathQueue orders by distance, then by push order.
type pathQueue []pathItem

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}

func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x any) { *q = append(*q, x.(pathItem)) }

func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
