package fec

import (
	"errors"

	"github.com/rocstream/roc-go/packet"
)

// ErrCodecState reports a codec method called out of sequence (Encode
// before Begin, etc).
var ErrCodecState = errors.New("fec: codec used out of sequence")

// XORBlockCodec is a toy single-parity-check code: it produces exactly
// one repair symbol (the XOR of all source symbols) regardless of the
// configured M, and can recover at most one missing source symbol per
// block. It exists purely so this package's writer/reader orchestration
// can be exercised without an external Reed-Solomon/LDPC dependency,
// which the distilled specification treats as an out-of-scope black box.
type XORBlockCodec struct {
	scheme  packet.Scheme
	n       int
	size    int
	sources [][]byte
	repair  []byte
}

// NewXORBlockCodec returns a codec usable as both BlockEncoder and
// BlockDecoder, tagged with scheme for Scheme-interface validation.
func NewXORBlockCodec(scheme packet.Scheme) *XORBlockCodec {
	return &XORBlockCodec{scheme: scheme}
}

func (c *XORBlockCodec) Scheme() packet.Scheme { return c.scheme }

func (c *XORBlockCodec) Begin(n, m, payloadSize int) error {
	c.n = n
	c.size = payloadSize
	c.sources = make([][]byte, n)
	c.repair = nil
	return nil
}

func (c *XORBlockCodec) SetSource(i int, payload []byte) {
	c.sources[i] = payload
}

func (c *XORBlockCodec) SetRepair(i int, payload []byte) {
	// only one repair symbol is meaningful to this toy codec; later
	// repair slots are ignored
	if i == 0 {
		c.repair = payload
	}
}

func (c *XORBlockCodec) Encode() ([][]byte, error) {
	parity := make([]byte, c.size)
	for _, s := range c.sources {
		if s == nil {
			return nil, ErrCodecState
		}
		xorInto(parity, s)
	}
	return [][]byte{parity}, nil
}

func (c *XORBlockCodec) Decode() ([]RecoveredSymbol, bool, error) {
	missing := -1
	missingCount := 0
	for i, s := range c.sources {
		if s == nil {
			missing = i
			missingCount++
		}
	}
	if missingCount == 0 {
		return nil, true, nil
	}
	if missingCount > 1 || c.repair == nil {
		return nil, false, nil
	}

	recovered := make([]byte, c.size)
	xorInto(recovered, c.repair)
	for i, s := range c.sources {
		if i == missing {
			continue
		}
		xorInto(recovered, s)
	}
	c.sources[missing] = recovered
	return []RecoveredSymbol{{Index: missing, Payload: recovered}}, true, nil
}

func xorInto(dst, src []byte) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] ^= src[i]
	}
}
