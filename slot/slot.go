package slot

import (
	"sync"

	"github.com/rocstream/roc-go/status"
)

// Interface identifies one of a slot's three bindable roles, per §4.8.
type Interface int

const (
	AudioSource Interface = iota
	AudioRepair
	AudioControl
)

func (i Interface) String() string {
	switch i {
	case AudioSource:
		return "audio_source"
	case AudioRepair:
		return "audio_repair"
	case AudioControl:
		return "audio_control"
	default:
		return "unknown"
	}
}

// InterfaceConfig holds the per-interface settings (§4.8) that must be
// applied before bind/connect.
type InterfaceConfig struct {
	OutgoingAddr string
	MulticastGroup string
	Reuse        bool
}

// binding is one bound interface: its endpoint, whatever config was
// applied to it, and whether it has been bound yet (config may be set
// before bind).
type binding struct {
	configured bool
	config     InterfaceConfig
	bound      bool
	endpoint   Endpoint
}

// Slot groups a peer's interfaces (AudioSource, AudioRepair,
// AudioControl) for one participant. A Slot is guarded by its own mutex
// so that slot-local operations (Configure, Bind) never need the
// Manager's table lock, per §5's "concurrent frame reads are not
// blocked by slot-management tasks".
type Slot struct {
	Key uint64

	// FECEnabled governs whether AudioSource+AudioRepair are both
	// required for the slot to be Complete.
	FECEnabled bool

	mu       sync.Mutex
	bindings map[Interface]*binding
	broken   bool
	brokenReason string
}

func newSlot(key uint64, fecEnabled bool) *Slot {
	return &Slot{
		Key:        key,
		FECEnabled: fecEnabled,
		bindings:   make(map[Interface]*binding),
	}
}

// Broken reports whether the slot has been marked broken, and why.
func (s *Slot) Broken() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.broken, s.brokenReason
}

func (s *Slot) markBroken(reason string) status.Code {
	s.broken = true
	s.brokenReason = reason
	return status.BadConfig
}

// Configure applies interface settings. Must be called before Bind for
// that interface; calling it after bind fails with BadConfig and marks
// the slot broken (§4.8).
func (s *Slot) Configure(iface Interface, cfg InterfaceConfig) status.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return status.BadConfig
	}
	b := s.bindings[iface]
	if b == nil {
		b = &binding{}
		s.bindings[iface] = b
	}
	if b.bound {
		return s.markBroken("configure after bind on " + iface.String())
	}
	b.config = cfg
	b.configured = true
	return status.Ok
}

// Bind attaches an endpoint to an interface. For AudioSource/AudioRepair
// under FEC, the endpoint's FECScheme must match the slot's configured
// scheme (enforced by the caller passing in a consistent Endpoint; Bind
// itself only checks the two endpoints it holds agree with each other
// once both are present).
func (s *Slot) Bind(iface Interface, ep Endpoint) status.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return status.BadInterface
	}
	if iface != AudioControl && ep.Proto != ProtoRTP {
		return s.markBroken("audio interface bound to non-rtp endpoint")
	}
	if iface == AudioControl && ep.Proto != ProtoRTCP {
		return s.markBroken("control interface bound to non-rtcp endpoint")
	}

	if other, ok := s.otherAudioEndpoint(iface); ok && other.FECScheme != ep.FECScheme {
		return s.markBroken("fec scheme mismatch between audio source and repair")
	}

	b := s.bindings[iface]
	if b == nil {
		b = &binding{}
		s.bindings[iface] = b
	}
	b.endpoint = ep
	b.bound = true
	return status.Ok
}

// otherAudioEndpoint returns the endpoint of the sibling audio interface
// (source<->repair), if bound.
func (s *Slot) otherAudioEndpoint(iface Interface) (Endpoint, bool) {
	var sibling Interface
	switch iface {
	case AudioSource:
		sibling = AudioRepair
	case AudioRepair:
		sibling = AudioSource
	default:
		return Endpoint{}, false
	}
	b, ok := s.bindings[sibling]
	if !ok || !b.bound {
		return Endpoint{}, false
	}
	return b.endpoint, true
}

// Complete reports whether the slot satisfies §4.8's binding rules: FEC
// enabled requires both AudioSource and AudioRepair bound with matching
// scheme; FEC disabled requires only AudioSource.
func (s *Slot) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return false
	}
	src, ok := s.bindings[AudioSource]
	if !ok || !src.bound {
		return false
	}
	if !s.FECEnabled {
		return true
	}
	rep, ok := s.bindings[AudioRepair]
	if !ok || !rep.bound {
		return false
	}
	return src.endpoint.FECScheme == rep.endpoint.FECScheme
}

// HasControl reports whether AudioControl is bound (required for
// latency metrics beyond NIQ, per §4.8).
func (s *Slot) HasControl() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[AudioControl]
	return ok && b.bound
}

// Endpoint returns the bound endpoint for iface, if any.
func (s *Slot) Endpoint(iface Interface) (Endpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[iface]
	if !ok || !b.bound {
		return Endpoint{}, false
	}
	return b.endpoint, true
}
