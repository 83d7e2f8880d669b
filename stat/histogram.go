package stat

import "math"

// Histogram buckets the last W raw values into N equal-width bins over
// [lo, hi], supporting O(1) amortized add and O(N) quantile queries
// (§4.6). Nothing else in this module uses it; it is a quantile-based
// alternative to MovingStats' running-sum average.
type Histogram struct {
	lo, hi float64
	nBins  int
	winLen int

	counts []int
	ring   *RingQueue[float64]
	filled int
}

// NewHistogram creates a histogram over [lo, hi] with nBins bins and a
// window of the last winLen values.
func NewHistogram(lo, hi float64, nBins, winLen int) *Histogram {
	if nBins <= 0 {
		panic("stat: histogram bin count must be positive")
	}
	if winLen <= 0 {
		panic("stat: histogram window must be positive")
	}
	if hi <= lo {
		panic("stat: histogram hi must be greater than lo")
	}
	return &Histogram{
		lo:     lo,
		hi:     hi,
		nBins:  nBins,
		winLen: winLen,
		counts: make([]int, nBins),
		ring:   NewRingQueue[float64](winLen),
	}
}

// binOf returns the bin index for v, clamping to [lo, hi] and mapping hi
// itself to the last bin (§4.6).
func (h *Histogram) binOf(v float64) int {
	if v < h.lo {
		v = h.lo
	}
	if v > h.hi {
		v = h.hi
	}
	if v == h.hi {
		return h.nBins - 1
	}
	bin := int(math.Floor((v - h.lo) * float64(h.nBins) / (h.hi - h.lo)))
	if bin < 0 {
		bin = 0
	}
	if bin >= h.nBins {
		bin = h.nBins - 1
	}
	return bin
}

// Add places v in its bin, evicting the oldest value once the window is
// full.
func (h *Histogram) Add(v float64) {
	if h.ring.Len() == h.winLen {
		old := h.ring.Front()
		h.ring.PopFront()
		h.counts[h.binOf(old)]--
	} else {
		h.filled++
	}
	h.ring.PushBack(v)
	h.counts[h.binOf(v)]++
}

// Len returns min(winLen, total adds so far).
func (h *Histogram) Len() int {
	return h.ring.Len()
}

// binUpperEdge returns the upper boundary value of bin i.
func (h *Histogram) binUpperEdge(i int) float64 {
	return h.lo + (h.hi-h.lo)*float64(i+1)/float64(h.nBins)
}

// Quantile returns v such that at least ceil(W*q) of the last W samples
// are <= v, scanning bins from 0 and summing counts (§4.6). q must be in
// [0, 1].
func (h *Histogram) Quantile(q float64) float64 {
	if q < 0 || q > 1 {
		panic("stat: quantile must be in [0, 1]")
	}
	target := int(math.Ceil(float64(h.Len()) * q))
	cum := 0
	for i := 0; i < h.nBins; i++ {
		cum += h.counts[i]
		if cum >= target {
			return h.binUpperEdge(i)
		}
	}
	return h.hi
}
