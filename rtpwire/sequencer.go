package rtpwire

import (
	"errors"
	"math/rand"
)

var (
	// maxMisorder and maxDropout follow the RTP spec's recommended
	// probation thresholds (RFC 1889 appendix A.2).
	maxMisorder uint16 = 100
	maxDropout  uint16 = 3000
	maxSeqNum   uint16 = 65535
)

var (
	ErrSequenceOutOfOrder = errors.New("rtpwire: sequence out of order")
	ErrSequenceBad        = errors.New("rtpwire: bad sequence jump")
	ErrSequenceDuplicate  = errors.New("rtpwire: duplicate sequence")
)

// SequenceTracker is an embeddable extended (unwrapped) sequence number
// tracker, adapted from the teacher's RTPExtendedSequenceNumber
// (media/rtp_sequencer.go) and grounded on RFC 1889 appendix A.2. It is
// used both by the sender's packetizer (to generate sequence numbers)
// and by the RTCP stats (to detect jumps and wraparound).
type SequenceTracker struct {
	seqNum    uint16
	wrapCount uint16
	badSeq    uint16
}

// NewSequenceTracker returns a tracker initialized with a random starting
// sequence number, as RFC 3550 recommends for security.
func NewSequenceTracker() SequenceTracker {
	var sn SequenceTracker
	sn.InitSeq(uint16(rand.Uint32()))
	return sn
}

// InitSeq resets the tracker to start counting from seq.
func (sn *SequenceTracker) InitSeq(seq uint16) {
	sn.seqNum = seq
	sn.badSeq = maxSeqNum
	sn.wrapCount = 0
}

// UpdateSeq folds a newly observed sequence number into the tracker,
// detecting wraparound and large jumps. A sequence number up to
// maxMisorder behind the highest one seen returns ErrSequenceDuplicate;
// a repeat of the highest one is accepted like an in-order packet.
func (sn *SequenceTracker) UpdateSeq(seq uint16) error {
	maxSeq := sn.seqNum

	udelta := seq - maxSeq
	if udelta < maxDropout {
		if seq < maxSeq {
			sn.wrapCount++
		}
		sn.seqNum = seq
		return nil
	}

	badSeq := sn.badSeq
	if udelta <= maxSeqNum-maxMisorder {
		if seq == badSeq {
			sn.InitSeq(seq)
			return nil
		}
		sn.badSeq = seq + 1
		return ErrSequenceBad
	}

	return ErrSequenceDuplicate
}

// ExtendedSeq returns the 64-bit unwrapped sequence number.
func (sn *SequenceTracker) ExtendedSeq() uint64 {
	return uint64(sn.seqNum) + (uint64(maxSeqNum)+1)*uint64(sn.wrapCount)
}

// NextSeqNumber advances and returns the next sequence number to emit,
// used by the sender's packetizer.
func (sn *SequenceTracker) NextSeqNumber() uint16 {
	sn.seqNum++
	if sn.seqNum == 0 {
		sn.wrapCount++
	}
	return sn.seqNum
}
