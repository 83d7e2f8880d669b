package stat

import "math"

// Number constrains the sample type MovingStats can track. T should be
// cheap to copy, matching mov_stats.h's "T should be trivially copyable"
// note.
type Number interface {
	~float64 | ~int64
}

// MovingStats maintains the rolling average, variance, min and max over
// the last W samples added, grounded on roc_core::MovStats. Average and
// variance are tracked via running sums (O(1) update); min/max via
// monotonic deques (§4.6).
type MovingStats[T Number] struct {
	buffer  []T
	buffer2 []T
	winLen  int
	bufIdx  int
	full    bool

	movSum  T
	movSum2 T

	queueMax *RingQueue[T]
	curMax   T
	queueMin *RingQueue[T]
	curMin   T
}

// NewMovingStats creates a MovingStats with the given window length.
// winLen must be greater than zero.
func NewMovingStats[T Number](winLen int) *MovingStats[T] {
	if winLen <= 0 {
		panic("stat: window length must be greater than 0")
	}
	return &MovingStats[T]{
		buffer:   make([]T, winLen),
		buffer2:  make([]T, winLen),
		winLen:   winLen,
		queueMax: NewRingQueue[T](winLen + 1),
		queueMin: NewRingQueue[T](winLen + 1),
	}
}

// Add shifts the rolling window by one sample.
func (m *MovingStats[T]) Add(x T) {
	x2 := x * x
	evicted := m.full
	xOld := m.buffer[m.bufIdx]
	m.buffer[m.bufIdx] = x
	x2Old := m.buffer2[m.bufIdx]
	m.buffer2[m.bufIdx] = x2

	m.movSum += x - xOld
	m.movSum2 += x2 - x2Old

	m.bufIdx++
	if m.bufIdx == m.winLen {
		m.bufIdx = 0
		m.full = true
	}

	m.slideMax(x, xOld, evicted)
	m.slideMin(x, xOld, evicted)
}

func (m *MovingStats[T]) n() T {
	if m.full {
		return T(m.winLen)
	}
	return T(m.bufIdx)
}

// Avg returns the moving average of the last min(W, samples added) values.
func (m *MovingStats[T]) Avg() T {
	n := m.n()
	if n == 0 {
		return 0
	}
	return m.movSum / n
}

// Var returns the moving (population) standard deviation, matching
// mov_stats.h's mov_var naming despite computing a standard deviation.
func (m *MovingStats[T]) Var() T {
	n := m.n()
	if n == 0 {
		return 0
	}
	v := (float64(n)*float64(m.movSum2) - float64(m.movSum)*float64(m.movSum)) / (float64(n) * float64(n))
	if v < 0 {
		// Guards against negative values from floating point cancellation.
		v = 0
	}
	return T(math.Sqrt(v))
}

// Max returns the maximum of the samples currently in the window.
func (m *MovingStats[T]) Max() T { return m.curMax }

// Min returns the minimum of the samples currently in the window.
func (m *MovingStats[T]) Min() T { return m.curMin }

// ExtendWindow grows the window to newWin (which must be larger than the
// current length), replaying buffered samples into the running sums.
// Per DESIGN NOTES / spec Open Question #2, this intentionally resets the
// "full" flag, producing a transient zero-bias region until the new
// window fills -- specified behavior, not a bug.
func (m *MovingStats[T]) ExtendWindow(newWin int) {
	if newWin <= m.winLen {
		panic("stat: the window length can only grow")
	}

	newBuf := make([]T, newWin)
	newBuf2 := make([]T, newWin)
	copy(newBuf, m.buffer)
	copy(newBuf2, m.buffer2)

	var sum, sum2 T
	for i := 0; i < m.bufIdx; i++ {
		sum += m.buffer[i]
		sum2 += m.buffer2[i]
	}

	m.buffer = newBuf
	m.buffer2 = newBuf2
	m.winLen = newWin
	m.movSum = sum
	m.movSum2 = sum2
	m.full = false

	// Sliding min/max deques are discarded and rebuilt from replayed
	// samples, per §4.6 "Window growth".
	m.queueMax = NewRingQueue[T](newWin + 1)
	m.queueMin = NewRingQueue[T](newWin + 1)
	m.curMax = 0
	m.curMin = 0
	for i := 0; i < m.bufIdx; i++ {
		m.slideMax(m.buffer[i], 0, false)
		m.slideMin(m.buffer[i], 0, false)
	}
}

// slideMax maintains a monotonically descending deque; the current max
// is always at the front. xOld is the sample leaving the window, and is
// only looked at when evicted is true.
func (m *MovingStats[T]) slideMax(x, xOld T, evicted bool) {
	if m.queueMax.IsEmpty() {
		m.queueMax.PushBack(x)
		m.curMax = x
		return
	}
	if evicted && m.queueMax.Front() == xOld {
		m.queueMax.PopFront()
		if m.queueMax.IsEmpty() {
			m.curMax = x
		} else {
			m.curMax = m.queueMax.Front()
		}
	}
	for !m.queueMax.IsEmpty() && m.queueMax.Back() < x {
		m.queueMax.PopBack()
	}
	if m.queueMax.IsEmpty() {
		m.curMax = x
	}
	m.queueMax.PushBack(x)
}

// slideMin maintains a monotonically ascending deque; the current min is
// always at the front. xOld and evicted are as for slideMax.
func (m *MovingStats[T]) slideMin(x, xOld T, evicted bool) {
	if m.queueMin.IsEmpty() {
		m.queueMin.PushBack(x)
		m.curMin = x
		return
	}
	if evicted && m.queueMin.Front() == xOld {
		m.queueMin.PopFront()
		if m.queueMin.IsEmpty() {
			m.curMin = x
		} else {
			m.curMin = m.queueMin.Front()
		}
	}
	for !m.queueMin.IsEmpty() && m.queueMin.Back() > x {
		m.queueMin.PopBack()
	}
	if m.queueMin.IsEmpty() {
		m.curMin = x
	}
	m.queueMin.PushBack(x)
}
