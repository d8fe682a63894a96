package quantization

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/rabitq/distance"
)

// Quantize encodes embedding relative to centroid into a new owned Code.
//
// Both vectors must have the same dimension. Panics if bits is outside 1..8.
func Quantize(bits int, embedding, centroid []float32) Code {
	buf := make([]byte, CodeSize(bits, len(embedding)))
	QuantizeInto(bits, buf, embedding, centroid)
	return Code{bits: bits, buf: buf}
}

// QuantizeInto encodes embedding relative to centroid into dst, which must
// be exactly CodeSize(bits, len(embedding)) bytes. dst may be reused.
func QuantizeInto(bits int, dst []byte, embedding, centroid []float32) {
	if bits < 1 || bits > 8 {
		panic(fmt.Sprintf("quantization: invalid bit width %d", bits))
	}

	payload := dst[HeaderSize:]
	clear(payload)

	s := acquireScratch()
	defer releaseScratch(s)

	dim := len(embedding)
	r := grow(s.residual, dim)
	s.residual = r

	var normSq, radial float64
	for i := range r {
		r[i] = embedding[i] - centroid[i]
		normSq += float64(r[i]) * float64(r[i])
		radial += float64(r[i]) * float64(centroid[i])
	}
	norm := math.Sqrt(normSq)

	h := CodeHeader{Correction: 1, Norm: float32(norm), Radial: float32(radial)}
	if dim == 0 || norm < distance.Epsilon {
		PutHeader(dst, h)
		return
	}

	if bits == 1 {
		packSigns(payload, r)
		var l1 float64
		for _, v := range r {
			l1 += math.Abs(float64(v))
		}
		h.Correction = float32(0.5 * l1 / norm)
	} else {
		codes := rayWalk(s, bits, r, norm)
		Pack(bits, codes, payload)

		offset := float64(gridOffset(bits))
		var dot float64
		for i, c := range codes {
			dot += (float64(c) - offset) * float64(r[i])
		}
		h.Correction = float32(dot / norm)
	}

	PutHeader(dst, h)
}

// rayWalk finds the integer grid point whose direction best matches r.
//
// Along the ray t·|r|, coordinate i reaches level k at t = k/|r_i| and stays
// clamped at the top level once there. Every crossing is swept in ascending t
// while ‖g‖² and ⟨g,|r|⟩ are updated incrementally; the state with the
// highest cosine wins. Returned codes live in s.codes.
func rayWalk(s *scratch, bits int, r []float32, norm float64) []uint8 {
	dim := len(r)
	levels := 1<<(bits-1) - 1
	half := 1 << (bits - 1)

	events := s.events[:0]
	var dot float64
	for i, v := range r {
		a := math.Abs(float64(v))
		dot += 0.5 * a
		if a == 0 {
			continue
		}
		for k := 1; k <= levels; k++ {
			events = append(events, crossing{t: float64(k) / a, i: int32(i)})
		}
	}
	slices.SortFunc(events, func(x, y crossing) int {
		if c := cmp.Compare(x.t, y.t); c != 0 {
			return c
		}
		return cmp.Compare(x.i, y.i)
	})
	s.events = events

	lv := grow(s.levels, dim)
	s.levels = lv
	clear(lv)

	normSq := 0.25 * float64(dim)
	best := -1
	bestCos := dot / math.Sqrt(normSq) / norm
	for e, ev := range events {
		k := float64(lv[ev.i])
		normSq += 2*k + 2
		dot += math.Abs(float64(r[ev.i]))
		lv[ev.i]++

		if cos := dot / math.Sqrt(normSq) / norm; cos > bestCos {
			bestCos = cos
			best = e
		}
	}

	// Replay the sweep up to the winning event.
	clear(lv)
	for _, ev := range events[:best+1] {
		lv[ev.i]++
	}

	codes := grow(s.codes, dim)
	s.codes = codes
	for i, v := range r {
		if v >= 0 {
			codes[i] = uint8(half + int(lv[i]))
		} else {
			codes[i] = uint8(half - 1 - int(lv[i]))
		}
	}
	return codes
}
