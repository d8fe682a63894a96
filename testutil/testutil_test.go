package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rabitq/distance"
)

func TestFillUniform(t *testing.T) {
	rng := NewRNG(4711)

	v := make([]float32, 64)
	rng.FillUniform(v, -1, 1)

	for _, x := range v {
		assert.GreaterOrEqual(t, x, float32(-1.0))
		assert.Less(t, x, float32(1.0))
	}
}

func TestUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UnitVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))

	for _, vec := range v {
		var sum float32
		for _, val := range vec {
			sum += val * val
		}
		assert.InDelta(t, float32(1.0), sum, 1e-5)
	}
}

func TestGaussianCluster(t *testing.T) {
	rng := NewRNG(4711)

	c := rng.GaussianCluster(16, 32, 2, 0.5)

	require.Len(t, c.Centroid, 32)
	require.Len(t, c.Vectors, 16)
	for _, v := range c.Vectors {
		assert.Len(t, v, 32)
	}
	assert.NotEqual(t, c.Vectors[0], c.Vectors[1])
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.GaussianVectors(1, 10)

	rng.Reset()
	v2 := rng.GaussianVectors(1, 10)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestExactTopK(t *testing.T) {
	vectors := [][]float32{{0, 0}, {5, 5}, {1, 1}, {2, 2}}

	res := ExactTopK([]float32{0, 0}, vectors, 2, distance.Euclidean)

	require.Len(t, res, 2)
	assert.Equal(t, uint64(0), res[0].ID)
	assert.Equal(t, uint64(2), res[1].ID)
	assert.Equal(t, 1.0, ComputeRecall(res, res))
}

func TestComputeRecall(t *testing.T) {
	truth := []SearchResult{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	approx := []SearchResult{{ID: 1}, {ID: 3}, {ID: 9}, {ID: 8}}

	assert.InDelta(t, 0.5, ComputeRecall(truth, approx), 1e-9)
	assert.Equal(t, 1.0, ComputeRecall(nil, nil))
	assert.Equal(t, 0.0, ComputeRecall(truth, nil))
}

func TestPercentile(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[99-i] = float64(i + 1)
	}

	assert.Equal(t, 50.0, Percentile(values, 0.5))
	assert.Equal(t, 100.0, Percentile(values, 1))
	assert.Equal(t, 0.0, Percentile(nil, 0.5))
	assert.Equal(t, 1.0, values[99], "input must not be reordered")
}

func TestSub(t *testing.T) {
	assert.Equal(t, []float32{1, -1}, Sub([]float32{2, 0}, []float32{1, 1}))
}
