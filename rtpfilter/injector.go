package rtpfilter

import (
	"sync"

	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/ratelimit"
	"github.com/rocstream/roc-go/status"
	"github.com/rs/zerolog"
)

// mapping pairs an RTP timestamp with the wall-clock capture time it
// corresponds to, refreshed by RTCP sender reports (§4.5).
type mapping struct {
	rtpTSRef     uint32
	captureTSRef int64
}

// TimestampInjector maintains the rtp_ts -> capture_ts linear mapping and
// stamps each passing packet's CaptureTS accordingly, grounded on
// roc_rtp/timestamp_injector.cpp (via the spec) and on the teacher's
// zerolog-based rate-limited diagnostics (media/rtp_session.go's
// log.Warn/Debug call sites).
type TimestampInjector struct {
	Source     packet.Reader
	SampleRate uint32
	Log        zerolog.Logger

	mu      sync.Mutex
	have    bool
	m       mapping
	limiter *ratelimit.Limiter

	droppedNonPositive uint64
}

// NewTimestampInjector wraps source, logging at most once per 30 seconds
// per §4.5.
func NewTimestampInjector(source packet.Reader, sampleRate uint32, log zerolog.Logger) *TimestampInjector {
	return &TimestampInjector{
		Source:     source,
		SampleRate: sampleRate,
		Log:        log,
		limiter:    ratelimit.New(traceInterval),
	}
}

const traceInterval = 30_000_000_000 // 30s in nanoseconds, avoids importing time just for a constant

// UpdateMapping refreshes the rtp_ts/capture_ts reference pair. Called
// from the RTCP handling stage; the session pipeline serializes calls to
// this and Read onto a single goroutine, so the mutex here only guards
// against incidental cross-goroutine misuse rather than being load-bearing
// concurrency control.
//
// A non-positive captureTS is rejected outright, per
// roc_rtp/timestamp_injector.cpp's update_mapping: the last good mapping
// is kept, the drop is counted, and neither rtpTSRef nor captureTSRef is
// touched.
func (inj *TimestampInjector) UpdateMapping(captureTS int64, rtpTS uint32) {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	if captureTS <= 0 {
		inj.droppedNonPositive++
		if inj.limiter.Allow() {
			inj.Log.Trace().
				Int64("capture_ts", captureTS).
				Uint32("rtp_ts", rtpTS).
				Msg("timestamp injector: rejected non-positive capture timestamp mapping")
		}
		return
	}
	inj.have = true
	inj.m = mapping{rtpTSRef: rtpTS, captureTSRef: captureTS}
}

// DroppedNonPositive returns how many UpdateMapping calls were rejected
// for carrying a non-positive capture timestamp.
func (inj *TimestampInjector) DroppedNonPositive() uint64 { return inj.droppedNonPositive }

// Read implements packet.Reader, injecting CaptureTS into each packet
// that passes through.
func (inj *TimestampInjector) Read(mode packet.ReadMode) (*packet.Packet, status.Code) {
	p, code := inj.Source.Read(mode)
	if code != status.Ok {
		return nil, code
	}

	inj.mu.Lock()
	have := inj.have
	m := inj.m
	inj.mu.Unlock()

	if !have {
		p.RTP.CaptureTS = 0
		return p, status.Ok
	}

	dn := int32(p.RTP.StreamTS - m.rtpTSRef)
	var dnNs int64
	if inj.SampleRate > 0 {
		dnNs = int64(dn) * 1_000_000_000 / int64(inj.SampleRate)
	}
	p.RTP.CaptureTS = m.captureTSRef + dnNs

	return p, status.Ok
}

var _ packet.Reader = (*TimestampInjector)(nil)
