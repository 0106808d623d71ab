// Package reactive implements a small push-based dependency graph of typed
// values.
//
// A Graph owns two kinds of nodes. Writables hold primitive state and are
// changed with Set or Update. Deriveds hold a value computed from other nodes
// and are recomputed whenever one of their inputs changes. Every change is
// propagated synchronously: by the time Set (or the outermost Batch) returns,
// every affected derived value has been recomputed exactly once per pass, in
// dependency order, and subscribers have been told about the final values.
//
// A derived compute function may itself write to writables, for example to
// reset a page number when the row set changes. Those writes join the pass
// that is already running instead of starting a nested one, so readers never
// observe a half-updated graph.
//
// A Graph is not safe for concurrent use.
package reactive

import (
	"container/heap"
	"sort"

	"go.uber.org/zap"
)

// Graph schedules recomputation for the nodes created on it.
type Graph struct {
	logger   *zap.Logger
	nextID   int
	depth    int
	flushing bool
	queue    nodeQueue
	changed  []*node
}

// NewGraph creates an empty graph.
func NewGraph(logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{logger: logger}
}

// Node is a value that can be used as an input of a Derived.
type Node interface {
	base() *node
}

type subscriber struct {
	id int
	fn func()
}

type node struct {
	graph      *Graph
	id         int
	rank       int
	dependents []*node
	queued     bool
	changed    bool
	index      int
	recompute  func()
	subs       []subscriber
	nextSub    int
}

func (g *Graph) newNode(rank int) *node {
	g.nextID++
	return &node{graph: g, id: g.nextID, rank: rank, index: -1}
}

// Batch runs fn and defers propagation until it returns. Batches nest; only
// the outermost one flushes.
func (g *Graph) Batch(fn func()) {
	g.depth++
	func() {
		defer func() { g.depth-- }()
		fn()
	}()
	if g.depth == 0 && !g.flushing {
		g.flush()
	}
}

// InBatch reports whether a batch or a propagation pass is in progress.
func (g *Graph) InBatch() bool {
	return g.depth > 0 || g.flushing
}

// touch records that n changed and schedules its dependents.
func (g *Graph) touch(n *node) {
	if !n.changed {
		n.changed = true
		g.changed = append(g.changed, n)
	}
	for _, d := range n.dependents {
		if !d.queued {
			d.queued = true
			heap.Push(&g.queue, d)
		}
	}
	if g.depth == 0 && !g.flushing {
		g.flush()
	}
}

func (g *Graph) flush() {
	g.flushing = true
	defer func() { g.flushing = false }()

	recomputed, notified := 0, 0
	for {
		for g.queue.Len() > 0 {
			n := heap.Pop(&g.queue).(*node)
			n.queued = false
			n.recompute()
			recomputed++
			g.touch(n)
		}
		if len(g.changed) == 0 {
			break
		}

		changed := g.changed
		g.changed = nil
		sort.Slice(changed, func(i, j int) bool {
			if changed[i].rank != changed[j].rank {
				return changed[i].rank < changed[j].rank
			}
			return changed[i].id < changed[j].id
		})
		for _, n := range changed {
			n.changed = false
		}
		for _, n := range changed {
			notified += n.notify()
		}
	}

	g.logger.Debug("Reactive graph settled",
		zap.Int("recomputed", recomputed),
		zap.Int("notified", notified),
	)
}

func (n *node) subscribe(fn func()) func() {
	n.nextSub++
	id := n.nextSub
	n.subs = append(n.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range n.subs {
			if s.id == id {
				n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
				return
			}
		}
	}
}

func (n *node) notify() int {
	subs := append([]subscriber(nil), n.subs...)
	for _, s := range subs {
		s.fn()
	}
	return len(subs)
}

// nodeQueue orders dirty nodes by rank, then by creation order.
type nodeQueue []*node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].rank != q[j].rank {
		return q[i].rank < q[j].rank
	}
	return q[i].id < q[j].id
}

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *nodeQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *nodeQueue) Pop() any {
	old := *q
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*q = old[:last]
	return n
}
