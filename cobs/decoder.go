package cobs

import (
	"bytes"
)

// Decode extracts the next complete frame from src and returns its decoded
// payload.  The caller appends newly-arrived bytes to src between calls;
// Decode consumes exactly the bytes belonging to completed or discarded
// frames and leaves any partial frame in place.  It returns ok == false when
// more input is needed; calling it again without appending new bytes returns
// ok == false again without touching the retained bytes.
//
// When a frame exceeds the configured maximum length before its terminating
// delimiter arrives, Decode reports MaxLengthExceeded once for that frame,
// then drops bytes until the next delimiter resynchronizes the stream.  A
// structurally invalid frame is reported as MalformedFrame.  Neither error
// is fatal: the Codec keeps working on the frames that follow.
func (c *Codec) Decode(src *bytes.Buffer) (payload []byte, ok bool, err error) {
	for {
		data := src.Bytes()

		if c.state == stateDiscarding {
			i := bytes.IndexByte(data, c.delimiter)
			if i < 0 {
				// Still inside the oversized frame.  Everything
				// seen so far is droppable.
				src.Next(len(data))
				return nil, false, nil
			}
			src.Next(i + 1)
			c.state = stateNormal
			// Resynchronized; a valid frame may follow in the
			// bytes we already hold.
			continue
		}

		searchEnd := len(data)
		if searchEnd > c.maxLength {
			searchEnd = c.maxLength + 1
		}
		i := -1
		if c.scanned < searchEnd {
			i = bytes.IndexByte(data[c.scanned:searchEnd], c.delimiter)
		}
		if i < 0 {
			if len(data) > c.maxLength {
				// The bytes up to searchEnd are known to be
				// delimiter-free, so they cannot be part of a
				// recoverable frame.
				src.Next(searchEnd)
				c.scanned = 0
				c.state = stateDiscarding
				return nil, false, MaxLengthExceeded
			}
			c.scanned = len(data)
			return nil, false, nil
		}

		end := c.scanned + i
		payload, err := unstuff(data[:end], c.delimiter)
		src.Next(end + 1)
		c.scanned = 0
		if err != nil {
			return nil, false, err
		}
		return payload, true, nil
	}
}
