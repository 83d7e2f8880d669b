package stat

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistogramQuantileProperty(t *testing.T) {
	const winLen = 100
	h := NewHistogram(0, 1, 2000, winLen)
	rng := rand.New(rand.NewSource(3))

	var window []float64
	for i := 0; i < 1000; i++ {
		v := rng.Float64()
		h.Add(v)
		window = append(window, v)
		if len(window) > winLen {
			window = window[1:]
		}

		for _, q := range []float64{0.1, 0.5, 0.9} {
			got := h.Quantile(q)

			sorted := append([]float64(nil), window...)
			sort.Float64s(sorted)

			wantLE := int(float64(len(sorted)))
			_ = wantLE
			leCount := 0
			geCount := 0
			for _, v := range sorted {
				if v <= got {
					leCount++
				}
				if v >= got {
					geCount++
				}
			}
			minLE := ceilInt(float64(len(sorted)) * q)
			minGE := ceilInt(float64(len(sorted)) * (1 - q))
			require.GreaterOrEqualf(t, leCount, minLE, "q=%v at step %d", q, i)
			require.GreaterOrEqualf(t, geCount, minGE, "q=%v at step %d", q, i)
		}
	}
}

func ceilInt(f float64) int {
	i := int(f)
	if float64(i) < f {
		i++
	}
	return i
}

func TestHistogramClampsOutOfRange(t *testing.T) {
	h := NewHistogram(0, 10, 10, 5)
	h.Add(-5)
	h.Add(50)
	require.Equal(t, 2, h.Len())
	// both clamp into the histogram's extreme bins
	require.InDelta(t, 1, h.Quantile(0.5), 1e-9)
}

func TestHistogramEvictsOldestOnOverflow(t *testing.T) {
	h := NewHistogram(0, 10, 10, 3)
	h.Add(1)
	h.Add(1)
	h.Add(1)
	h.Add(9) // evicts the first 1
	require.Equal(t, 3, h.Len())
}
