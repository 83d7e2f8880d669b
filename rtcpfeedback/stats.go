// Package rtcpfeedback tracks per-connection RTP read/write statistics and
// turns them into RTCP sender/receiver reports, adapted from the teacher's
// media.RTPSession (media/rtp_session.go). Unlike the teacher's session,
// which owns the socket and drives its own ticker goroutine, this package
// is pure bookkeeping: the caller feeds UpdateRead / UpdateWrite with every
// packet (sender.Pipeline calls UpdateWrite for each outgoing packet) and
// calls BuildSenderReport / BuildReceiverReport on its own schedule, keeping I/O out of this package per the spec's
// split between transport and feedback logic.
package rtcpfeedback

import (
	"time"

	"github.com/pion/rtcp"
	"github.com/rocstream/roc-go/rtpwire"
)

// ReadStats accumulates per-SSRC statistics observed on the receive path.
type ReadStats struct {
	SSRC                   uint32
	FirstPktSequenceNumber uint16
	LastSequenceNumber     uint16
	Seq                    rtpwire.SequenceTracker

	IntervalFirstPktSeqNum uint16
	IntervalTotalPackets   uint16
	TotalPackets           uint64

	SampleRate       uint32
	lastRTPTime      time.Time
	lastRTPTimestamp uint32
	Jitter           float64

	lastSenderReportNTP      uint64
	lastSenderReportRecvTime time.Time

	RTT time.Duration
}

// WriteStats accumulates per-SSRC statistics observed on the send path.
type WriteStats struct {
	SSRC uint32

	lastPacketTime      time.Time
	lastPacketTimestamp uint32
	SampleRate          uint32

	PacketsCount uint32
	OctetCount   uint32
}

// Tracker bundles one read and one write stream of statistics for a single
// connection, matching the teacher's one-SSRC-per-RTPSession assumption
// (multi-SSRC sessions are explicitly out of this pipeline's scope).
type Tracker struct {
	Read  ReadStats
	Write WriteStats
}

// UpdateRead folds a newly received RTP packet's header fields into Read,
// computing interarrival jitter per RFC 3550 section 6.4.1. now should be
// the local wall-clock arrival time, not the packet's own timestamp.
func (t *Tracker) UpdateRead(ssrc uint32, seq uint16, rtpTS uint32, sampleRate uint32, now time.Time) {
	r := &t.Read
	if r.SSRC != ssrc {
		*r = ReadStats{
			SSRC:                   ssrc,
			FirstPktSequenceNumber: seq,
			SampleRate:             sampleRate,
		}
		r.Seq.InitSeq(seq)
	} else {
		_ = r.Seq.UpdateSeq(seq)

		sij := rtpTS - r.lastRTPTimestamp
		rij := now.Sub(r.lastRTPTime)
		d := rij.Seconds()*float64(sampleRate) - float64(sij)
		if d < 0 {
			d = -d
		}
		r.Jitter += (d - r.Jitter) / 16
	}

	r.IntervalTotalPackets++
	r.TotalPackets++
	r.LastSequenceNumber = seq
	if r.IntervalFirstPktSeqNum == 0 {
		r.IntervalFirstPktSeqNum = seq
	}
	r.lastRTPTime = now
	r.lastRTPTimestamp = rtpTS
}

// UpdateWrite folds a newly transmitted RTP packet's header fields into
// Write.
func (t *Tracker) UpdateWrite(ssrc uint32, rtpTS uint32, payloadLen int, sampleRate uint32, now time.Time) {
	w := &t.Write
	if w.SSRC != ssrc {
		*w = WriteStats{SSRC: ssrc, SampleRate: sampleRate}
	}
	w.PacketsCount++
	w.OctetCount += uint32(payloadLen)
	w.lastPacketTime = now
	w.lastPacketTimestamp = rtpTS
}

// ApplyReceiverReport folds an incoming RTCP reception report (inside
// either a SenderReport or a ReceiverReport) into this tracker's read-side
// RTT estimate.
func (t *Tracker) ApplyReceiverReport(rr rtcp.ReceptionReport, now time.Time) {
	if rr.SSRC != t.Write.SSRC {
		return
	}
	if rr.LastSenderReport != 0 {
		t.Read.RTT, _ = calcRTT(now, rr.LastSenderReport, rr.Delay)
	}
}

// ApplySenderReportArrival records the wall-clock arrival time and NTP
// timestamp of a remote sender report, needed to compute DLSR on our own
// next reception report.
func (t *Tracker) ApplySenderReportArrival(ntpTime uint64, now time.Time) {
	if t.Read.SSRC == 0 {
		return
	}
	t.Read.lastSenderReportNTP = ntpTime
	t.Read.lastSenderReportRecvTime = now
}

// BuildReceiverReport produces an RTCP reception report block from the
// current read-side statistics and resets the interval counters.
func (t *Tracker) BuildReceiverReport(now time.Time) rtcp.ReceptionReport {
	r := &t.Read

	receivedLastSeq := int64(r.Seq.ExtendedSeq())
	expectedInInterval := receivedLastSeq - int64(r.IntervalFirstPktSeqNum) + 1
	lostInInterval := expectedInInterval - int64(r.IntervalTotalPackets)
	if lostInInterval < 0 {
		lostInInterval = 0
	}
	var fractionLost float64
	if expectedInInterval > 0 {
		fractionLost = float64(lostInInterval) / float64(expectedInInterval)
	}

	expectedPkts := uint64(receivedLastSeq) - uint64(r.FirstPktSequenceNumber) + 1
	totalLost := expectedPkts - r.TotalPackets

	var delay time.Duration
	if !r.lastSenderReportRecvTime.IsZero() {
		delay = now.Sub(r.lastSenderReportRecvTime)
	}

	fl := fractionLost * 256
	if fl < 0 {
		fl = 0
	}

	rep := rtcp.ReceptionReport{
		SSRC:               r.SSRC,
		FractionLost:       uint8(fl),
		TotalLost:          uint32(totalLost),
		LastSequenceNumber: uint32(r.Seq.ExtendedSeq() >> 16 << 16) + uint32(r.LastSequenceNumber),
		Jitter:             uint32(r.Jitter),
		LastSenderReport:   uint32(r.lastSenderReportNTP >> 16),
		Delay:              uint32(delay.Seconds() * 65536),
	}

	r.IntervalFirstPktSeqNum = 0
	r.IntervalTotalPackets = 0
	return rep
}

// BuildSenderReport produces an RTCP sender report from the current
// write-side statistics, including a reception report block when this end
// also has an active read stream.
func (t *Tracker) BuildSenderReport(now time.Time) rtcp.SenderReport {
	w := &t.Write
	var rtpOffset float64
	if !w.lastPacketTime.IsZero() {
		rtpOffset = now.Sub(w.lastPacketTime).Seconds() * float64(w.SampleRate)
	}

	sr := rtcp.SenderReport{
		SSRC:        w.SSRC,
		NTPTime:     rtpwire.NTPTimestamp(now),
		RTPTime:     w.lastPacketTimestamp + uint32(rtpOffset),
		PacketCount: w.PacketsCount,
		OctetCount:  w.OctetCount,
	}
	if t.Read.SSRC > 0 {
		sr.Reports = []rtcp.ReceptionReport{t.BuildReceiverReport(now)}
	}
	return sr
}

// FractionLostFloat converts an RTCP 8-bit fixed-point fraction-lost value
// back to a [0,1] float.
func FractionLostFloat(f uint8) float64 {
	return float64(f) / 256
}

// calcRTT derives a round-trip estimate from the NTP "middle 32 bits"
// arithmetic defined by RFC 3550 section 6.4.1, returning skewed=true when
// the arithmetic implies a negative transit time (clock skew between
// peers).
func calcRTT(now time.Time, lastSenderReport uint32, delaySenderReport uint32) (rtt time.Duration, skewed bool) {
	now32 := uint32(rtpwire.NTPTimestamp(now) >> 16)

	rtt32 := now32 - lastSenderReport - delaySenderReport
	skewed = now32-delaySenderReport < lastSenderReport

	secs := rtt32 & 0xFFFF0000 >> 16
	fracs := float64(rtt32&0x0000FFFF) / 65536
	rtt = time.Duration(secs)*time.Second + time.Duration(fracs*float64(time.Second))
	return rtt, skewed
}
