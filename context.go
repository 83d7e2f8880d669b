// Package rocgo is the top-level assembly point: Context owns the
// shared packet factory, ReceiverConfig/SenderConfig hold the §6
// configuration surface, and Receiver/SenderPeer wire the per-package
// pipelines (fec, rtpfilter, session, slot, sender, rtcpfeedback) into
// the two peer roles.
//
// Grounded on the teacher's Diago type (diago.go): a single
// long-lived object constructed once per process via functional
// options, owning the resources its sessions share. original_source/'s
// roc_context.h/roc_node describes the same role for the C API this
// spec was distilled from (§5 Supplemented Features, "Context/node
// lifecycle").
package rocgo

import (
	"github.com/rocstream/roc-go/packet"
	"github.com/rs/zerolog"
)

// Context owns the packet factory shared by every Sender/Receiver built
// from it, matching §5's "packet factories and arenas are shared across
// threads; allocation is internally serialized".
type Context struct {
	Factory *packet.Factory
	Log     zerolog.Logger
}

// ContextOption configures a Context at construction, matching the
// teacher's DiagoOption pattern.
type ContextOption func(*Context)

// WithPacketLimit bounds the number of packets the Context's factory may
// have outstanding at once; zero (the default) is unbounded.
func WithPacketLimit(limit int) ContextOption {
	return func(c *Context) { c.Factory = packet.NewFactory(limit) }
}

// WithLogger installs a logger used by every pipeline this Context
// constructs.
func WithLogger(log zerolog.Logger) ContextOption {
	return func(c *Context) { c.Log = log }
}

// NewContext constructs a Context. The default factory is unbounded;
// pass WithPacketLimit to cap it.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{Factory: packet.NewFactory(0), Log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the Context's packet factory, panicking if
// Factory.EnablePanicOnLeak was called and packets are still outstanding.
func (c *Context) Close() {
	c.Factory.Close()
}
