// Package producer implements the wire codec's encoding half: per-kind
// routines that emit a tag byte plus payload for every supported argument
// kind, driven through a caller-supplied Sink.
package producer

import "github.com/arfz/logwire/internal/pool"

// Sink is the transport collaborator treated as external to the codec:
// three hooks bracketing one frame's bytes. Begin/End let the caller batch
// multiple frames into one write, flush a ring buffer, or toggle a mutex;
// Write receives the frame's bytes, possibly in more than one call.
type Sink interface {
	Begin() error
	Write(b []byte) error
	End() error
}

// BufferSink is a Sink that accumulates bytes in memory, the simplest
// collaborator for tests and for callers who want one []byte per frame
// rather than a streaming transport.
type BufferSink struct {
	buf *pool.ByteBuffer
}

// NewBufferSink creates a BufferSink backed by a pooled scratch buffer.
func NewBufferSink() *BufferSink {
	return &BufferSink{buf: pool.GetFrameBuffer()}
}

// Begin resets the buffer, discarding any previously written frame.
func (s *BufferSink) Begin() error {
	s.buf.Reset()
	return nil
}

// Write appends b to the buffer.
func (s *BufferSink) Write(b []byte) error {
	s.buf.MustWrite(b)
	return nil
}

// End is a no-op; Bytes reads the accumulated frame.
func (s *BufferSink) End() error {
	return nil
}

// Bytes returns the frame written since the last Begin.
func (s *BufferSink) Bytes() []byte {
	return s.buf.Bytes()
}

// Release returns the sink's scratch buffer to the shared pool. Callers
// that construct many short-lived BufferSinks (the common case, one per
// log call) should call this once they've consumed Bytes.
func (s *BufferSink) Release() {
	pool.PutFrameBuffer(s.buf)
	s.buf = nil
}
