package cobs

import (
	"bytes"
	"errors"
)

// chunkLen is the maximum number of payload bytes between two consecutive
// distance markers.  A marker encodes a distance of 1-255, and 255 is
// reserved to mean "254 bytes follow with no delimiter among them".
const chunkLen = 254

// maxByteOverhead is the worst-case number of extra bytes a group adds
// versus the raw payload: one marker, plus the terminating delimiter.
const maxByteOverhead = 2

var (
	// MaxLengthExceeded is the error that is returned when a frame grows
	// past the codec's configured maximum length before its terminating
	// delimiter arrives.  It is reported once per offending frame; the
	// codec then silently discards bytes until the next delimiter.
	MaxLengthExceeded = errors.New("Maximum frame length exceeded")

	// MalformedFrame is the error that is returned when a complete frame
	// contains an invalid distance marker.  The frame's bytes have already
	// been consumed when this is returned, so the stream is resynchronized
	// and the codec remains usable.
	MalformedFrame = errors.New("Malformed frame")
)

// Codec encodes and decodes COBS frames.  The encode direction is stateless;
// the decode direction is a streaming state machine, so exactly one Codec
// must be used per logical byte stream.
type Codec struct {
	delimiter byte
	maxLength int
	state     decodeState
	scanned   int
}

// decodeState tracks whether the decoder is assembling a frame or skipping
// the remainder of one that exceeded the maximum length.
type decodeState int

const (
	stateNormal decodeState = iota
	stateDiscarding
)

// New returns a Codec that uses 0 as the delimiter and scans up to maxLength
// bytes per frame before discarding it.
func New(maxLength int) *Codec {
	return NewWithDelimiter(0, maxLength)
}

// NewWithDelimiter returns a Codec with a specific delimiter byte.  Both the
// delimiter and the length limit are fixed for the life of the Codec.
func NewWithDelimiter(delimiter byte, maxLength int) *Codec {
	return &Codec{delimiter: delimiter, maxLength: maxLength}
}

// Delimiter returns the delimiter byte this Codec frames with.
func (c *Codec) Delimiter() byte {
	return c.delimiter
}

// EncodedLen returns an upper bound on the number of bytes Encode emits for
// a payload of n bytes, including the terminating delimiter.  The bound is
// tight for delimiter-free payloads of up to one group; payloads containing
// the delimiter encode shorter, since each such byte becomes a marker in
// place.
func EncodedLen(n int) int {
	if n == 0 {
		return 1
	}
	encoded := (n / chunkLen) * (chunkLen + maxByteOverhead)
	if rem := n % chunkLen; rem > 0 {
		encoded += rem + maxByteOverhead
	}
	return encoded
}

// Encode writes the COBS encoding of payload into buf, terminated by the
// delimiter.  The encoded bytes contain no other occurrence of the delimiter.
// Encode never fails and keeps no state between calls.
func (c *Codec) Encode(payload []byte, buf *bytes.Buffer) {
	stuff(payload, c.delimiter, buf)
}

// stuff appends one encoded frame to buf.  It works in two passes over a
// single buffer: first it lays the payload down with a placeholder delimiter
// before the first byte and after every run of 254 consecutive non-delimiter
// bytes, plus a real delimiter at the end; then it walks the frame backward
// replacing every delimiter-valued byte except the terminator with the
// distance to the next delimiter-valued byte.  Runs are counted from the
// last delimiter-valued byte, not from the payload start, so that every
// distance below 255 marks a stuffed payload delimiter and nothing else.
func stuff(payload []byte, delimiter byte, buf *bytes.Buffer) {
	start := buf.Len()
	buf.Grow(EncodedLen(len(payload)))
	run := 0
	for i, b := range payload {
		if i == 0 || run == chunkLen {
			buf.WriteByte(delimiter)
			run = 0
		}
		if b == delimiter {
			run = 0
		} else {
			run++
		}
		buf.WriteByte(b)
	}
	buf.WriteByte(delimiter)

	frame := buf.Bytes()[start:]
	distance := 0
	for i := len(frame) - 1; i >= 0; i-- {
		if frame[i] == delimiter {
			if distance > 0 {
				frame[i] = byte(distance)
			}
			distance = 1
		} else {
			distance++
		}
	}
}

// unstuff reverses the stuffing transform over one complete frame (the bytes
// between delimiters, exclusive).  A distance of 255 introduces 254 literal
// bytes with no delimiter between this group and the next; any smaller
// distance followed by another marker stands for one payload delimiter byte.
func unstuff(frame []byte, delimiter byte) ([]byte, error) {
	payload := make([]byte, 0, len(frame))
	for off := 0; off < len(frame); {
		distance := int(frame[off])
		if distance == 0 || off+distance > len(frame) {
			return nil, MalformedFrame
		}
		payload = append(payload, frame[off+1:off+distance]...)
		off += distance
		if off < len(frame) && distance < 0xff {
			payload = append(payload, delimiter)
		}
	}
	return payload, nil
}
