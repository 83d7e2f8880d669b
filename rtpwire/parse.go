package rtpwire

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
)

var errRTCPFailedToUnmarshal = errors.New("rtpwire: rtcp failed to unmarshal")

// Unmarshal parses an RTP packet from buf into p, adapted from the
// teacher's RTPUnmarshal (media/rtp_parse.go). It drops header
// extensions (not needed by this pipeline) rather than holding a
// reference on buf, and reuses p.Payload's backing array when it is
// already large enough so repeated calls on a pooled packet avoid
// allocation.
func Unmarshal(buf []byte, p *rtp.Packet) error {
	n, err := p.Header.Unmarshal(buf)
	if err != nil {
		return err
	}
	if p.Header.Extension {
		p.Header.Extensions = nil
		p.Header.Extension = false
	}

	end := len(buf)
	if p.Header.Padding {
		if end == 0 {
			return io.ErrShortBuffer
		}
		p.PaddingSize = buf[end-1]
		end -= int(p.PaddingSize)
	}
	if end < n {
		return io.ErrShortBuffer
	}

	if p.Payload != nil && len(p.Payload) >= len(buf[n:end]) {
		copy(p.Payload, buf[n:end])
		p.Payload = p.Payload[:len(buf[n:end])]
		return nil
	}

	p.Payload = make([]byte, len(buf[n:end]))
	copy(p.Payload, buf[n:end])
	return nil
}

// UnmarshalRTCP parses as many RTCP packets from data into packets as
// fit, returning the count. Adapted from the teacher's RTCPUnmarshal; it
// avoids one allocation versus pion/rtcp.Unmarshal by letting the caller
// own the packets slice.
func UnmarshalRTCP(data []byte, packets []rtcp.Packet) (n int, err error) {
	for i := 0; i < len(packets) && len(data) != 0; i++ {
		var h rtcp.Header
		if err = h.Unmarshal(data); err != nil {
			return 0, errors.Join(err, errRTCPFailedToUnmarshal)
		}

		pktLen := int(h.Length+1) * 4
		if pktLen > len(data) {
			return 0, fmt.Errorf("packet too short: %w", errRTCPFailedToUnmarshal)
		}
		inPacket := data[:pktLen]

		packet := typedRTCPPacket(h.Type)
		if err = packet.Unmarshal(inPacket); err != nil {
			return 0, err
		}

		packets[i] = packet
		data = data[pktLen:]
		n++
	}
	return n, nil
}

// MarshalRTCP marshals a set of RTCP packets into a compound packet.
func MarshalRTCP(packets []rtcp.Packet) ([]byte, error) {
	return rtcp.Marshal(packets)
}

func typedRTCPPacket(htype rtcp.PacketType) rtcp.Packet {
	switch htype {
	case rtcp.TypeSenderReport:
		return new(rtcp.SenderReport)
	case rtcp.TypeReceiverReport:
		return new(rtcp.ReceiverReport)
	case rtcp.TypeSourceDescription:
		return new(rtcp.SourceDescription)
	case rtcp.TypeGoodbye:
		return new(rtcp.Goodbye)
	default:
		return new(rtcp.RawPacket)
	}
}

// ntpEpochOffset is the number of seconds between the NTP epoch
// (1900-01-01) and the Unix epoch.
const ntpEpochOffset int64 = 2208988800

// NTPTimestamp converts a time.Time to the 64-bit NTP timestamp format
// used in RTCP sender reports.
func NTPTimestamp(t time.Time) uint64 {
	seconds := t.Unix() + ntpEpochOffset
	frac := (float64(t.Nanosecond()) / 1e9) * (1 << 32)
	return (uint64(seconds) << 32) | uint64(frac)
}

// NTPToTime converts a 64-bit NTP timestamp back to a time.Time.
func NTPToTime(ntp uint64) time.Time {
	seconds := int64(ntp >> 32)
	frac := float64(ntp&0xFFFFFFFF) / (1 << 32)
	unixSeconds := seconds - ntpEpochOffset
	return time.Unix(unixSeconds, int64(frac*1e9))
}
