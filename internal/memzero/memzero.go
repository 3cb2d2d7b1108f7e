// Package memzero overwrites sensitive buffers once they are no longer needed.
package memzero

import "runtime"

// Zero overwrites b with zeros. This is best-effort and aims to reduce the
// chance of the compiler eliding the write.
//
//go:noinline
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// Ensure b is considered live until after the loop.
	runtime.KeepAlive(&b)
}

// Scrubber collects buffers over the course of an operation and zeroes all of
// them in one call. Use it with defer so that error paths are covered too:
//
//	var scrub memzero.Scrubber
//	defer scrub.Wipe()
//	digest := scrub.Track(hash(msg))
//
// The zero value is ready to use. A Scrubber is not safe for concurrent use.
type Scrubber struct {
	bufs [][]byte
}

// Track registers buf for wiping and returns it unchanged. Nil and empty
// slices are ignored.
func (s *Scrubber) Track(buf []byte) []byte {
	if len(buf) > 0 {
		s.bufs = append(s.bufs, buf)
	}
	return buf
}

// TrackAll registers several buffers at once.
func (s *Scrubber) TrackAll(bufs ...[]byte) {
	for _, b := range bufs {
		s.Track(b)
	}
}

// Wipe zeroes every tracked buffer and forgets them.
func (s *Scrubber) Wipe() {
	for _, b := range s.bufs {
		Zero(b)
	}
	s.bufs = nil
}
