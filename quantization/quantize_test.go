package quantization

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rabitq/distance"
)

func gaussian(rng *rand.Rand, dim int, stddev float64) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(rng.NormFloat64() * stddev)
	}
	return v
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / math.Sqrt(na*nb)
}

func TestQuantizeSignConsistency(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	for _, dim := range []int{1, 2, 7, 8, 63, 64, 65, 100, 255, 511, 1024} {
		v := gaussian(rng, dim, 1)
		c := gaussian(rng, dim, 1)
		// Exercise the r == 0 boundary.
		c[0] = v[0]

		code := Quantize(1, v, c)
		packed := code.Packed()

		for i := range PaddedDim(1, dim) {
			bit := packed[i/8]>>(i%8)&1 == 1
			if i >= dim {
				require.False(t, bit, "padding bit %d must be zero (dim=%d)", i, dim)
				continue
			}
			require.Equal(t, v[i]-c[i] >= 0, bit, "dim=%d i=%d", dim, i)
		}
	}
}

func TestQuantizeNearZeroResidual(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	for _, bits := range []int{1, 2, 4, 8} {
		v := gaussian(rng, 300, 10)

		code := Quantize(bits, v, v)

		assert.Equal(t, float32(1), code.Correction(), "bits=%d", bits)
		assert.Less(t, code.Norm(), float32(distance.Epsilon))
		for _, b := range code.Packed() {
			require.Zero(t, b)
		}
	}
}

func TestQuantizeZeroDimension(t *testing.T) {
	code := Quantize(4, nil, nil)

	assert.Len(t, code.Bytes(), HeaderSize)
	assert.Equal(t, CodeHeader{Correction: 1}, code.Header())

	d := code.DistanceQuery(distance.Cosine, nil, 0, 0, 0)
	assert.False(t, math.IsNaN(float64(d)))
}

func TestQuantizeHeader(t *testing.T) {
	v := []float32{3, 1, 2}
	c := []float32{1, 1, -2}

	code := Quantize(1, v, c)

	// r = (2, 0, 4)
	assert.InDelta(t, math.Sqrt(20), float64(code.Norm()), 1e-6)
	assert.InDelta(t, 2.0-8.0, float64(code.Radial()), 1e-6)
	assert.InDelta(t, 0.5*6/math.Sqrt(20), float64(code.Correction()), 1e-6)
}

func TestQuantizeInvalidBits(t *testing.T) {
	assert.Panics(t, func() { Quantize(0, []float32{1}, []float32{0}) })
	assert.Panics(t, func() { Quantize(9, []float32{1}, []float32{0}) })
}

func TestQuantizeIntoReusesBuffer(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	a := gaussian(rng, 300, 1)
	b := gaussian(rng, 300, 1)
	c := make([]float32, 300)

	buf := make([]byte, CodeSize(3, 300))
	QuantizeInto(3, buf, a, c)
	QuantizeInto(3, buf, b, c)

	assert.Equal(t, Quantize(3, b, c).Bytes(), buf)
}

func TestQuantizeCorrectionIsGridCosine(t *testing.T) {
	rng := rand.New(rand.NewPCG(6, 6))
	v := gaussian(rng, 1024, 1)
	c := make([]float32, 1024)

	// Lower bounds on the grid cosine for Gaussian residuals at D=1024.
	minCos := map[int]float64{2: 0.925, 3: 0.975, 4: 0.992, 5: 0.997, 6: 0.999, 7: 0.9997, 8: 0.9999}

	prev := 0.0
	for bits := 1; bits <= 8; bits++ {
		code := Quantize(bits, v, c)
		g := code.Grid(1024)

		cos := cosine(g, v)
		var gn float64
		for _, x := range g {
			gn += float64(x) * float64(x)
		}

		// correction = ⟨g, r⟩/‖r‖ = ‖g‖·cos(g, r)
		assert.InDelta(t, math.Sqrt(gn)*cos, float64(code.Correction()), 1e-3*math.Sqrt(gn), "bits=%d", bits)
		assert.Greater(t, cos, prev, "bits=%d must fit better than bits=%d", bits, bits-1)
		prev = cos

		if bits == 1 {
			// E|x|/sqrt(E x²) = sqrt(2/π) for Gaussian coordinates.
			assert.InDelta(t, math.Sqrt(2/math.Pi), cos, 0.03)
		} else {
			assert.Greater(t, cos, minCos[bits], "bits=%d", bits)
		}
	}
}

// bestGridCosine enumerates every grid point whose signs match r and returns
// the highest cosine with r.
func bestGridCosine(bits int, r []float32) float64 {
	steps := 1 << (bits - 1)
	g := make([]float32, len(r))
	lv := make([]int, len(r))

	best := -1.0
	for {
		for i, l := range lv {
			mag := float32(l) + 0.5
			if r[i] < 0 {
				mag = -mag
			}
			g[i] = mag
		}
		best = max(best, cosine(g, r))

		i := 0
		for ; i < len(lv); i++ {
			lv[i]++
			if lv[i] < steps {
				break
			}
			lv[i] = 0
		}
		if i == len(lv) {
			return best
		}
	}
}

func TestQuantizeFindsOptimalGridPoint(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11))

	residuals := [][]float32{
		{-1.50, 0.60, 1.56, -0.38, -0.30},
		{1, 1, 1, 1, 1},
		{3, 0, -0.1, 0.2, 0},
		{0.01, 10, 0.5, -9.9, 4},
	}
	for range 30 {
		residuals = append(residuals, gaussian(rng, 5, 1))
	}

	zero := make([]float32, 5)
	for bits := 2; bits <= 4; bits++ {
		for _, r := range residuals {
			code := Quantize(bits, r, zero)
			got := cosine(code.Grid(5), r)

			assert.InDelta(t, bestGridCosine(bits, r), got, 1e-6, "bits=%d r=%v", bits, r)
		}
	}
}

func TestQuantizeCodesStayInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for bits := 2; bits <= 8; bits++ {
		v := gaussian(rng, 257, 1)
		code := Quantize(bits, v, make([]float32, 257))

		codes := make([]uint8, 257)
		Unpack(bits, code.Packed(), codes)

		half := uint8(1 << (bits - 1))
		for i, q := range codes {
			require.Less(t, int(q), 1<<bits)
			if v[i] >= 0 {
				require.GreaterOrEqual(t, q, half, "bits=%d i=%d", bits, i)
			} else {
				require.Less(t, q, half, "bits=%d i=%d", bits, i)
			}
		}
	}
}

func TestSelfDistanceOnGridPoints(t *testing.T) {
	const (
		bits = 4
		dim  = 4
	)
	centroid := make([]float32, dim)
	offset := float32(int(1)<<bits-1) / 2

	v := make([]float32, dim)
	for combo := range 1 << (bits * dim) {
		for i := range dim {
			v[i] = float32(combo>>(bits*i)&0xF) - offset
		}

		code := Quantize(bits, v, centroid)
		d := code.DistanceQuery(distance.Cosine, v, 0, 0, distance.Norm(v))

		if math.Abs(float64(d)) > 4*distance.Epsilon {
			t.Fatalf("self-distance of %v = %g, want ~0", v, d)
		}
	}
}

func TestCodeAccessors(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 8))
	v := gaussian(rng, 100, 1)
	c := gaussian(rng, 100, 1)

	owned := Quantize(2, v, c)
	borrowed := NewCode(2, owned.Bytes())
	clone := borrowed.Clone()

	assert.Equal(t, 2, borrowed.Bits())
	assert.Equal(t, owned.Header(), borrowed.Header())
	assert.Equal(t, owned.Bytes(), clone.Bytes())
	assert.NotSame(t, &owned.Bytes()[0], &clone.Bytes()[0])
	assert.Same(t, &owned.Bytes()[0], &borrowed.Bytes()[0])
	assert.Len(t, borrowed.Grid(100), 100)
}

func BenchmarkQuantize(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	v := gaussian(rng, 1024, 1)
	c := gaussian(rng, 1024, 1)

	for _, bits := range []int{1, 4, 8} {
		buf := make([]byte, CodeSize(bits, 1024))
		b.Run(fmt.Sprintf("bits=%d", bits), func(b *testing.B) {
			for b.Loop() {
				QuantizeInto(bits, buf, v, c)
			}
		})
	}
}
