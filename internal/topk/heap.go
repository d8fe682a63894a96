// Package topk keeps the k nearest candidates of a scan.
package topk

import "slices"

// heapArity is the branching factor of the heap.
const heapArity = 4

// Candidate is a scored code location.
type Candidate struct {
	Distance  float32
	ClusterID uint32
	Ordinal   uint32
}

// Better reports whether a ranks before b: smaller distance first, then
// (ClusterID, Ordinal) ascending for determinism.
func Better(a, b Candidate) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	if a.ClusterID != b.ClusterID {
		return a.ClusterID < b.ClusterID
	}
	return a.Ordinal < b.Ordinal
}

// worse is the strict inverse of Better for distinct candidates.
func worse(a, b Candidate) bool {
	return Better(b, a)
}

// Heap is a bounded worst-first heap: the top is the eviction candidate.
type Heap struct {
	items []Candidate
	k     int
}

// New creates a heap that retains at most k candidates.
func New(k int) *Heap {
	return &Heap{
		items: make([]Candidate, 0, k),
		k:     k,
	}
}

// Reset clears the heap for reuse with a new bound.
func (h *Heap) Reset(k int) {
	h.items = h.items[:0]
	h.k = k
}

// Len returns the number of retained candidates.
func (h *Heap) Len() int { return len(h.items) }

// Full reports whether the heap holds k candidates.
func (h *Heap) Full() bool { return len(h.items) >= h.k }

// Peek returns the worst retained candidate.
// Panics if the heap is empty - caller should check Len() > 0.
func (h *Heap) Peek() Candidate {
	return h.items[0]
}

// Threshold returns the distance a new candidate must beat once the heap is full.
func (h *Heap) Threshold() (float32, bool) {
	if !h.Full() || len(h.items) == 0 {
		return 0, false
	}
	return h.Peek().Distance, true
}

// Offer adds c if the heap is not full or c is better than the current worst.
// It reports whether c was retained.
func (h *Heap) Offer(c Candidate) bool {
	if h.k <= 0 {
		return false
	}
	if len(h.items) < h.k {
		h.items = append(h.items, c)
		h.up(len(h.items) - 1)
		return true
	}
	if !Better(c, h.items[0]) {
		return false
	}
	h.items[0] = c
	h.down(0, len(h.items))
	return true
}

// Pop removes and returns the worst candidate.
// Panics if the heap is empty.
func (h *Heap) Pop() Candidate {
	n := len(h.items) - 1
	h.items[0], h.items[n] = h.items[n], h.items[0]
	h.down(0, n)
	x := h.items[n]
	h.items = h.items[:n]
	return x
}

// Sorted returns the retained candidates best first. The heap is left intact.
func (h *Heap) Sorted() []Candidate {
	work := Heap{items: slices.Clone(h.items), k: h.k}
	out := make([]Candidate, len(work.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = work.Pop()
	}
	return out
}

// Merge offers every candidate of other to h.
func (h *Heap) Merge(other *Heap) {
	for _, c := range other.items {
		h.Offer(c)
	}
}

// up moves element at j up the heap with a single final write.
func (h *Heap) up(j int) {
	item := h.items[j]
	for j > 0 {
		i := (j - 1) / heapArity
		if !worse(item, h.items[i]) {
			break
		}
		h.items[j] = h.items[i]
		j = i
	}
	h.items[j] = item
}

// down moves element at i0 down the heap, comparing up to 4 children.
func (h *Heap) down(i0, n int) {
	i := i0
	item := h.items[i]
	for {
		firstChild := heapArity*i + 1
		if firstChild >= n {
			break
		}

		worst := firstChild
		lastChild := min(firstChild+heapArity, n)
		for c := firstChild + 1; c < lastChild; c++ {
			if worse(h.items[c], h.items[worst]) {
				worst = c
			}
		}

		if !worse(h.items[worst], item) {
			break
		}
		h.items[i] = h.items[worst]
		i = worst
	}
	h.items[i] = item
}
