// Package cobs provides a Go implementation of Consistent Overhead Byte
// Stuffing (COBS).  COBS encodes a payload so that a chosen delimiter byte
// (usually 0x00) never appears in the encoded output, which makes the
// delimiter an unambiguous frame boundary on a continuous byte stream such
// as a serial link or a socket.  The worst-case overhead is bounded: one
// marker byte per 254 bytes of payload, plus the terminating delimiter.
package cobs
