package quantization

import "sync"

// crossing is a ray-walk event: at scale t, coordinate i moves up one level.
type crossing struct {
	t float64
	i int32
}

// scratch holds reusable buffers for encoding and float estimation.
type scratch struct {
	residual []float32
	gridA    []float32
	gridB    []float32
	levels   []uint8
	codes    []uint8
	events   []crossing
}

var scratchPool = sync.Pool{
	New: func() any {
		return &scratch{}
	},
}

// acquireScratch retrieves a scratch from the pool.
func acquireScratch() *scratch {
	return scratchPool.Get().(*scratch)
}

// releaseScratch returns s to the pool. Buffers are kept, not cleared.
func releaseScratch(s *scratch) {
	s.events = s.events[:0]
	scratchPool.Put(s)
}

// grow returns buf resized to n, reallocating only when capacity is short.
func grow[T any](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}
