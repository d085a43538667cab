package path

import "sync"

// Pool owns PN storage: it issues clones and recycles refuted nodes so a
// long document does not pressure the allocator with every dead-end branch
// explored by search.Find. One Pool belongs to exactly one Matcher, and a
// matcher is single-threaded, so the mutex below exists only to make that
// single-ownership invariant checkable by the race detector in tests, not
// because two goroutines are ever expected to touch it.
type Pool struct {
	mu   sync.Mutex
	free []*Node

	live int // nodes currently issued and not yet recycled, for metrics
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Alloc returns a zeroed PN, reusing one from the free list when available.
func (p *Pool) Alloc() *Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live++
	n := len(p.free)
	if n == 0 {
		return &Node{}
	}
	pn := p.free[n-1]
	p.free[n-1] = nil
	p.free = p.free[:n-1]
	*pn = Node{}
	return pn
}

// Recycle returns an unlinked PN to the free list. Callers must unlink
// Prev/Next before recycling; Recycle clears them anyway.
func (p *Pool) Recycle(pn *Node) {
	if pn == nil {
		return
	}
	pn.Prev, pn.Next, pn.Doc = nil, nil, nil
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live--
	p.free = append(p.free, pn)
}

// Live reports how many PNs are currently issued and not recycled, fed to
// metrics.Collector as a gauge.
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Clone deep-copies pn's scalar fields into a fresh PN with Prev/Next/Doc
// cleared. Used when prepending to a segment: the previous start is cloned
// to become the new after-start because sibling candidate chains may share
// it, leaving the original free for other branches.
func (p *Pool) Clone(pn *Node) *Node {
	c := p.Alloc()
	c.Schema = pn.Schema
	c.Direction = pn.Direction
	c.Iteration = pn.Iteration
	c.DocSequencePosition = pn.DocSequencePosition
	c.IndexOfNextState = pn.IndexOfNextState
	c.MaxOccurs = pn.MaxOccurs
	return c
}
