package rabitq

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rabitq/internal/topk"
	"github.com/hupe1980/rabitq/quantization"
)

// Cluster is one inverted list as persisted by the index: a centroid and the
// codes of the vectors assigned to it. Codes are borrowed, never modified.
type Cluster struct {
	ID       uint32
	Centroid []float32
	Codes    [][]byte
}

// Candidate is a scan result: the code at position Ordinal of cluster
// ClusterID with its estimated distance.
type Candidate struct {
	ClusterID uint32
	Ordinal   uint32
	Distance  float32
}

type scanOptions struct {
	concurrency int
	filters     map[uint32]*roaring.Bitmap
	seed        uint64
}

// ScanOption configures a single Scan call.
type ScanOption func(*scanOptions)

// WithConcurrency bounds the number of clusters scanned in parallel
// (default GOMAXPROCS).
func WithConcurrency(n int) ScanOption {
	return func(o *scanOptions) {
		o.concurrency = n
	}
}

// WithFilter restricts cluster clusterID to the code ordinals in allowed.
// Clusters without a filter are scanned fully.
func WithFilter(clusterID uint32, allowed *roaring.Bitmap) ScanOption {
	return func(o *scanOptions) {
		if o.filters == nil {
			o.filters = make(map[uint32]*roaring.Bitmap)
		}
		o.filters[clusterID] = allowed
	}
}

// WithSeed seeds the per-cluster generators used for randomized query
// rounding, making bitwise and LUT scans reproducible.
func WithSeed(seed uint64) ScanOption {
	return func(o *scanOptions) {
		o.seed = seed
	}
}

// Scanner ranks the codes of a set of clusters against a query.
type Scanner struct {
	q *Quantizer
}

// NewScanner creates a Scanner that decodes and scores with q.
func NewScanner(q *Quantizer) *Scanner {
	return &Scanner{q: q}
}

// Scan returns the k codes nearest to query across clusters, best first.
//
// Each cluster prepares the query once and scores all of its (allowed) codes;
// clusters are scanned in parallel and their top-k lists merged. Cancelling
// ctx stops the scan between clusters.
func (s *Scanner) Scan(ctx context.Context, clusters []Cluster, query []float32, k int, opts ...ScanOption) (res []Candidate, err error) {
	start := time.Now()
	var scanned atomic.Int64
	defer func() {
		elapsed := time.Since(start)
		s.q.metrics.RecordScan(len(clusters), int(scanned.Load()), elapsed, err)
		s.q.logger.WithK(k).LogScan(ctx, len(clusters), int(scanned.Load()), len(res), elapsed, err)
	}()

	if k <= 0 {
		return nil, ErrInvalidK
	}
	if err := s.q.checkDim(query); err != nil {
		return nil, err
	}

	o := scanOptions{concurrency: runtime.GOMAXPROCS(0)}
	for _, fn := range opts {
		fn(&o)
	}

	heaps := make([]*topk.Heap, len(clusters))
	defer func() {
		for _, h := range heaps {
			if h != nil {
				heapPool.Put(h)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, o.concurrency))
	for i := range clusters {
		cl := &clusters[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, n, err := s.scanCluster(cl, query, k, o.filters[cl.ID], o.seed)
			scanned.Add(int64(n))
			s.q.logger.WithClusterID(cl.ID).LogClusterScan(gctx, n, err)
			if err != nil {
				return clusterError(cl.ID, err)
			}
			heaps[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := topk.New(k)
	for _, h := range heaps {
		merged.Merge(h)
	}

	sorted := merged.Sorted()
	res = make([]Candidate, len(sorted))
	for i, c := range sorted {
		res[i] = Candidate{ClusterID: c.ClusterID, Ordinal: c.Ordinal, Distance: c.Distance}
	}
	return res, nil
}

var heapPool = sync.Pool{
	New: func() any {
		return topk.New(0)
	},
}

func acquireHeap(k int) *topk.Heap {
	h := heapPool.Get().(*topk.Heap)
	h.Reset(k)
	return h
}

// scanCluster scores the codes of one cluster and returns its k nearest and
// the number of codes scored. The heap comes from heapPool.
func (s *Scanner) scanCluster(cl *Cluster, query []float32, k int, filter *roaring.Bitmap, seed uint64) (*topk.Heap, int, error) {
	rng := rand.New(rand.NewPCG(seed, uint64(cl.ID)))
	pq, err := s.q.PrepareQuery(query, cl.Centroid, rng)
	if err != nil {
		return nil, 0, err
	}

	h := acquireHeap(k)
	size := s.q.CodeSize()
	bits := s.q.bits
	scanned := 0

	score := func(ord uint32) error {
		buf := cl.Codes[ord]
		if len(buf) != size {
			return &ErrInvalidCodeSize{Expected: size, Actual: len(buf)}
		}
		d := pq.Distance(quantization.NewCode(bits, buf))
		scanned++
		// Ordinals ascend, so a tie with the worst retained candidate loses.
		if thr, full := h.Threshold(); full && d >= thr {
			return nil
		}
		h.Offer(topk.Candidate{Distance: d, ClusterID: cl.ID, Ordinal: ord})
		return nil
	}

	if filter == nil {
		for ord := range cl.Codes {
			if err := score(uint32(ord)); err != nil {
				heapPool.Put(h)
				return nil, scanned, err
			}
		}
		return h, scanned, nil
	}

	it := filter.Iterator()
	for it.HasNext() {
		ord := it.Next()
		if int(ord) >= len(cl.Codes) {
			break
		}
		if err := score(ord); err != nil {
			heapPool.Put(h)
			return nil, scanned, err
		}
	}
	return h, scanned, nil
}
