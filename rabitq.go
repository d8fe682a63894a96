package rabitq

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hupe1980/rabitq/distance"
	"github.com/hupe1980/rabitq/quantization"
)

// Quantizer encodes vectors of a fixed dimension and bit width and prepares
// queries against them.
//
// Configuration is validated once by New; the methods only check the lengths
// of their arguments. A Quantizer is safe for concurrent use.
type Quantizer struct {
	dim       int
	bits      int
	queryBits int
	metric    distance.Metric
	strategy  Strategy

	logger  *Logger
	metrics MetricsCollector
}

// New creates a Quantizer for vectors of dimension dim.
func New(dim int, opts ...Option) (*Quantizer, error) {
	if dim <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}

	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	if o.bits < 1 || o.bits > 8 {
		return nil, &ErrInvalidBits{Field: "bits", Bits: o.bits}
	}
	if o.queryBits < 1 || o.queryBits > 8 {
		return nil, &ErrInvalidBits{Field: "query bits", Bits: o.queryBits}
	}
	if !o.metric.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMetric, o.metric)
	}
	if o.strategy < StrategyFloat || o.strategy > StrategyLUT {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedStrategy, o.strategy)
	}

	return &Quantizer{
		dim:       dim,
		bits:      o.bits,
		queryBits: o.queryBits,
		metric:    o.metric,
		strategy:  o.strategy,
		logger:    o.logger.WithDimension(dim),
		metrics:   o.metricsCollector,
	}, nil
}

// Dimension returns the vector dimension.
func (q *Quantizer) Dimension() int { return q.dim }

// Bits returns the code bit width per dimension.
func (q *Quantizer) Bits() int { return q.bits }

// QueryBits returns the number of query bit-planes used by StrategyBitwise.
func (q *Quantizer) QueryBits() int { return q.queryBits }

// Metric returns the configured distance function.
func (q *Quantizer) Metric() distance.Metric { return q.metric }

// Strategy returns the strategy queries use. Strategies that need 1-bit
// codes report StrategyFloat when the bit width is larger.
func (q *Quantizer) Strategy() Strategy {
	if q.bits != 1 {
		return StrategyFloat
	}
	return q.strategy
}

// CodeSize returns the size in bytes of one code, header included.
func (q *Quantizer) CodeSize() int { return quantization.CodeSize(q.bits, q.dim) }

// PackedLen returns the size in bytes of the packed payload of one code.
func (q *Quantizer) PackedLen() int { return quantization.PackedLen(q.bits, q.dim) }

// Quantize encodes vector relative to centroid into a new code.
func (q *Quantizer) Quantize(vector, centroid []float32) (quantization.Code, error) {
	buf := make([]byte, q.CodeSize())
	if err := q.QuantizeInto(buf, vector, centroid); err != nil {
		return quantization.Code{}, err
	}
	return quantization.NewCode(q.bits, buf), nil
}

// QuantizeInto encodes vector relative to centroid into dst, which must be
// exactly CodeSize bytes.
func (q *Quantizer) QuantizeInto(dst []byte, vector, centroid []float32) (err error) {
	start := time.Now()
	defer func() {
		q.metrics.RecordQuantize(time.Since(start), err)
		q.logger.LogQuantize(context.Background(), q.dim, q.bits, err)
	}()

	if err := q.checkDim(vector); err != nil {
		return err
	}
	if err := q.checkDim(centroid); err != nil {
		return err
	}
	if len(dst) != q.CodeSize() {
		return &ErrInvalidCodeSize{Expected: q.CodeSize(), Actual: len(dst)}
	}

	quantization.QuantizeInto(q.bits, dst, vector, centroid)
	return nil
}

// Code wraps a stored buffer as a code after checking its size. The buffer
// is borrowed, not copied.
func (q *Quantizer) Code(buf []byte) (quantization.Code, error) {
	if len(buf) != q.CodeSize() {
		return quantization.Code{}, &ErrInvalidCodeSize{Expected: q.CodeSize(), Actual: len(buf)}
	}
	return quantization.NewCode(q.bits, buf), nil
}

// DistanceCode estimates the distance between two codes of the same cluster.
func (q *Quantizer) DistanceCode(a, b quantization.Code, centroidNorm float32) float32 {
	return a.DistanceCode(q.metric, b, centroidNorm, q.dim)
}

// PrepareQuery computes the per-(query, cluster) state used to score every
// code of the cluster. rng drives the randomized rounding of the bitwise and
// LUT strategies; if nil, the math/rand/v2 global source is used. rng is not
// retained.
func (q *Quantizer) PrepareQuery(query, centroid []float32, rng quantization.Rand) (*Query, error) {
	if err := q.checkDim(query); err != nil {
		return nil, err
	}
	if err := q.checkDim(centroid); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = globalRand{}
	}

	residual := make([]float32, q.dim)
	for i := range residual {
		residual[i] = query[i] - centroid[i]
	}

	pq := &Query{
		metric:           q.metric,
		strategy:         q.Strategy(),
		dim:              q.dim,
		residual:         residual,
		centroidNorm:     distance.Norm(centroid),
		centroidDotQuery: distance.Dot(centroid, query),
		queryNorm:        distance.Norm(query),
	}

	switch pq.strategy {
	case StrategyBitwise:
		pq.planes = quantization.NewQuantizedQuery(residual, q.queryBits, q.PackedLen(),
			pq.centroidNorm, pq.centroidDotQuery, pq.queryNorm, rng)
	case StrategyLUT:
		pq.luts = quantization.NewBatchQueryLuts(residual,
			pq.centroidNorm, pq.centroidDotQuery, pq.queryNorm, rng)
	}

	return pq, nil
}

func (q *Quantizer) checkDim(v []float32) error {
	if len(v) != q.dim {
		return &ErrDimensionMismatch{Expected: q.dim, Actual: len(v)}
	}
	return nil
}

// Query is a query prepared against one cluster centroid. It is read-only
// and may score codes from multiple goroutines.
type Query struct {
	metric   distance.Metric
	strategy Strategy
	dim      int

	residual         []float32
	centroidNorm     float32
	centroidDotQuery float32
	queryNorm        float32

	planes *quantization.QuantizedQuery
	luts   *quantization.BatchQueryLuts
}

// Strategy returns the strategy this query scores with.
func (pq *Query) Strategy() Strategy { return pq.strategy }

// Residual returns query − centroid.
func (pq *Query) Residual() []float32 { return pq.residual }

// Distance estimates the distance from the query to the vector encoded by code.
// code must come from the same Quantizer configuration and cluster.
func (pq *Query) Distance(code quantization.Code) float32 {
	switch pq.strategy {
	case StrategyBitwise:
		return code.DistanceQueryBitwise(pq.metric, pq.planes, pq.dim)
	case StrategyLUT:
		return pq.luts.DistanceQuery(code, pq.metric)
	default:
		return code.DistanceQuery(pq.metric, pq.residual, pq.centroidNorm, pq.centroidDotQuery, pq.queryNorm)
	}
}

// globalRand adapts the math/rand/v2 global source.
type globalRand struct{}

func (globalRand) Float32() float32 { return rand.Float32() }
