package session

import (
	"sync/atomic"
	"time"

	"github.com/rocstream/roc-go/packet"
	"github.com/rocstream/roc-go/status"
	"github.com/rs/zerolog"
)

// Decoder decodes one packet's payload into interleaved PCM samples. The
// concrete payload codecs (L16, G.711) live in package audio; Pipeline
// only needs this narrow seam.
type Decoder interface {
	Decode(payload []byte) []int16
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(payload []byte) []int16

func (f DecoderFunc) Decode(payload []byte) []int16 { return f(payload) }

// Pipeline is the receive-side per-session chain of §4.7: it pulls
// packets from an upstream chain (RTP filter -> timestamp injector -> FEC
// reader, composed by the caller as a single packet.Reader), decodes them,
// and serves fixed-size frames to the mixer, tracking latency and
// liveness and terminating the session on unrecoverable drift.
//
// Grounded on the teacher's single-goroutine-per-session model
// (media.RTPSession) and its atomic-bool terminal flag
// (media.RTPPacketWriter.closed).
type Pipeline struct {
	Source   packet.Reader
	Decode   Decoder
	Channels int
	Cfg      Config
	Log      zerolog.Logger

	tuner    *LatencyTuner
	watchdog *Watchdog
	plc      PLC

	buffered  []int16
	lastFrame []int16

	terminal        atomic.Bool
	terminateReason string
}

// NewPipeline constructs a Pipeline. startedAt seeds the watchdog's
// no-playback clock.
func NewPipeline(source packet.Reader, decode Decoder, channels int, cfg Config, startedAt time.Time, opts ...Option) *Pipeline {
	p := &Pipeline{
		Source:   source,
		Decode:   decode,
		Channels: channels,
		Cfg:      cfg,
		tuner:    NewLatencyTuner(cfg),
		watchdog: NewWatchdog(cfg, startedAt),
		plc:      LinearPLC{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Terminated reports whether the session has hit a termination condition.
func (p *Pipeline) Terminated() (bool, string) {
	return p.terminal.Load(), p.terminateReason
}

// Scale returns the latency tuner's current resampler scale, consumed by
// the resampler stage downstream of this pipeline.
func (p *Pipeline) Scale() float64 { return p.tuner.Scale() }

// PullFrame returns the next n interleaved samples, concealing gaps via
// PLC (or zero-fill if no PLC is installed) and updating the latency
// tuner and watchdog. Returns status.Abort once a termination condition
// has fired; the caller should stop pulling from this session and treat
// the returned frame (if any) as the final one.
func (p *Pipeline) PullFrame(n int, now time.Time) ([]int16, status.Code) {
	if p.terminal.Load() {
		return nil, status.Abort
	}

	for len(p.buffered) < n*p.Channels {
		pkt, code := p.Source.Read(packet.ModeFetch)
		switch code {
		case status.Ok:
			samples := p.Decode.Decode(pkt.RTP.Payload)
			p.buffered = append(p.buffered, samples...)
			p.watchdog.NotePacket(now)
		case status.Drain:
			gap := n*p.Channels - len(p.buffered)
			p.buffered = append(p.buffered, p.conceal(gap)...)
			p.watchdog.NoteGap(now)
		case status.Abort:
			p.terminate("fec_abort", now)
			return nil, status.Abort
		default:
			// NoData/BadConfig/etc from upstream: treat as a gap this
			// pull, let the watchdog decide whether it's terminal.
			gap := n*p.Channels - len(p.buffered)
			p.buffered = append(p.buffered, p.conceal(gap)...)
			p.watchdog.NoteGap(now)
		}

		if len(p.buffered) < n*p.Channels {
			// the gap-filling above always tops the buffer up to n, so
			// reaching here means something produced no samples at all
			// (a zero-length conceal); avoid spinning.
			break
		}
	}

	want := n * p.Channels
	if want > len(p.buffered) {
		want = len(p.buffered)
	}
	frame := p.buffered[:want]
	p.buffered = p.buffered[want:]
	if len(frame) > 0 {
		p.lastFrame = frame
	}

	estimate := p.niqEstimate()
	if p.tuner.Update(estimate, now) {
		p.terminate("latency_drift", now)
		return frame, status.Abort
	}
	if terminate, reason := p.watchdog.Check(now); terminate {
		p.terminate(reason, now)
		return frame, status.Abort
	}

	return frame, status.Ok
}

// niqEstimate approximates the NIQ backend's in-queue latency estimate
// (§4.7) as the duration implied by samples already decoded but not yet
// pulled by the mixer.
func (p *Pipeline) niqEstimate() time.Duration {
	if p.Cfg.SampleRate == 0 || p.Channels == 0 {
		return 0
	}
	frames := len(p.buffered) / p.Channels
	return time.Duration(frames) * time.Second / time.Duration(p.Cfg.SampleRate)
}

func (p *Pipeline) conceal(gapSamples int) []int16 {
	if gapSamples <= 0 {
		return nil
	}
	if p.plc != nil {
		return p.plc.Conceal(p.lastFrame, gapSamples)
	}
	return make([]int16, gapSamples)
}

func (p *Pipeline) terminate(reason string, now time.Time) {
	if p.terminal.CompareAndSwap(false, true) {
		p.terminateReason = reason
		p.Log.Warn().Str("reason", reason).Time("at", now).Msg("session pipeline terminated")
	}
}
