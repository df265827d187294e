package cobs

import (
	"bytes"
)

// Scanner iterates over the frames of a fully-received encoded buffer.  It is
// the non-streaming counterpart of Codec.Decode: use it when all bytes are
// already in hand and you just want to walk the delimiter-separated frames.
// The zero value scans with delimiter 0; set Delimiter before Reset to use
// another byte.
type Scanner struct {
	// Delimiter is the byte that terminates each frame.
	Delimiter byte

	rest  []byte
	frame []byte
}

// Reset positions the Scanner at the start of encoded.  Any trailing bytes
// not followed by a delimiter belong to an incomplete frame and are ignored.
func (s *Scanner) Reset(encoded []byte) {
	s.rest = encoded
	s.frame = nil
}

// Next advances to the next frame, returning false when no complete frame
// remains.  Note that an empty frame (two adjacent delimiters, or a leading
// delimiter) is a valid frame: it decodes to an empty payload.
func (s *Scanner) Next() bool {
	i := bytes.IndexByte(s.rest, s.Delimiter)
	if i < 0 {
		s.frame = nil
		return false
	}
	s.frame = s.rest[:i]
	s.rest = s.rest[i+1:]
	return true
}

// Encoded returns the current frame's stuffed bytes, without the terminating
// delimiter.  The returned slice aliases the buffer passed to Reset.
func (s *Scanner) Encoded() []byte {
	return s.frame
}

// Decode reverses the stuffing transform over the current frame and writes
// the payload into decoded.  It returns MalformedFrame if the frame contains
// an invalid distance marker.
func (s *Scanner) Decode(decoded *bytes.Buffer) error {
	payload, err := unstuff(s.frame, s.Delimiter)
	if err != nil {
		return err
	}
	decoded.Write(payload)
	return nil
}
