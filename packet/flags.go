package packet

// Flags is a bit-set describing which views of a Packet are populated and
// what provenance it has. Audio implies RTP (a media packet is always an
// RTP packet); Restored implies the packet has no FEC view, since it was
// reconstructed from the block rather than received with a footer.
type Flags uint32

const (
	// FlagRTP marks the packet as carrying a parsed RTP header.
	FlagRTP Flags = 1 << iota
	// FlagAudio marks the packet as carrying audio payload (as opposed
	// to e.g. a bare control packet).
	FlagAudio
	// FlagRepair marks the packet as an FEC repair packet.
	FlagRepair
	// FlagRestored marks the packet as reconstructed by FEC rather than
	// received over the wire.
	FlagRestored
	// FlagPrepared marks the packet as having its FEC header fields
	// filled in by the block writer.
	FlagPrepared
	// FlagComposed marks the packet as fully serialized to its byte
	// buffer.
	FlagComposed
	// FlagUDP marks the packet as carrying UDP source/destination
	// addresses.
	FlagUDP
)

// Has reports whether all bits in want are set.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// Any reports whether any bit in want is set.
func (f Flags) Any(want Flags) bool {
	return f&want != 0
}

// With returns f with the given bits set.
func (f Flags) With(add Flags) Flags {
	return f | add
}

// Without returns f with the given bits cleared.
func (f Flags) Without(remove Flags) Flags {
	return f &^ remove
}
