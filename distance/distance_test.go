package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
		// Large vector to exercise the accelerated kernel
		{"Large", make([]float32, 1024), make([]float32, 1024), 1024},
	}

	for i := range tests[5].a {
		tests[5].a[i] = 1
		tests[5].b[i] = 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8},
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredL2(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, float64(Norm([]float32{3, 4})), 1e-6)
	assert.Equal(t, float32(0), Norm(nil))
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "Cosine", Cosine.String())
		assert.Equal(t, "Euclidean", Euclidean.String())
		assert.Equal(t, "InnerProduct", InnerProduct.String())
		assert.Equal(t, "Unknown(99)", Metric(99).String())
	})

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, Cosine.Valid())
		assert.True(t, InnerProduct.Valid())
		assert.False(t, Metric(-1).Valid())
		assert.False(t, Metric(3).Valid())
	})

	t.Run("Parse", func(t *testing.T) {
		m, err := ParseMetric(" L2 ")
		require.NoError(t, err)
		assert.Equal(t, Euclidean, m)

		m, err = ParseMetric("dot")
		require.NoError(t, err)
		assert.Equal(t, InnerProduct, m)

		_, err = ParseMetric("hamming")
		assert.Error(t, err)
	})
}

func TestExact(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 2}

	assert.InDelta(t, 1.0, float64(Exact(Cosine, a, b)), 1e-6)
	assert.InDelta(t, 5.0, float64(Exact(Euclidean, a, b)), 1e-6)
	assert.InDelta(t, 1.0, float64(Exact(InnerProduct, a, b)), 1e-6)

	assert.InDelta(t, 0.0, float64(Exact(Cosine, a, a)), 1e-6)
	assert.InDelta(t, -3.0, float64(Exact(InnerProduct, []float32{2, 0}, []float32{2, 0})), 1e-6)
}

func TestFromInnerProduct(t *testing.T) {
	// Zero vectors hit the epsilon floor instead of dividing by zero.
	d := FromInnerProduct(Cosine, 0, 0, 0)
	assert.False(t, math.IsNaN(float64(d)))
	assert.Equal(t, float32(1), d)

	assert.Panics(t, func() { FromInnerProduct(Metric(42), 0, 1, 1) })
}
