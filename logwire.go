// Package logwire provides a compact, typed, self-describing binary wire
// codec for remote formatted logging: a resource-constrained producer emits
// a format template and its arguments as a short byte frame, and a host
// consumer reconstructs a human-readable string from it, reading enough
// type information from the frame to drive a brace-style formatter without
// any out-of-band schema.
//
// # Core Features
//
//   - Compact tagged encoding: every value carries a one-byte tag picking
//     the smallest width that represents it losslessly.
//   - Optional template/string cataloging: a 16-bit id replaces inline
//     bytes for a format template or interned string constant, given a
//     catalog shared out of band between producer and consumer.
//   - Resynchronizing consumer framer: noise in the byte stream (partial
//     frames, stray bytes) is skipped and counted rather than fatal.
//   - Nested containers, optional values, and styled (ANSI) text wrappers.
//
// # Basic Usage
//
// Producing a frame:
//
//	frame, err := logwire.Print("{} requests in {}", producer.Uint(42), producer.Duration(1500*time.Millisecond))
//
// Consuming it back into text:
//
//	msg, ok, _, _ := logwire.Parse(frame)
//
// This package provides convenient top-level wrappers around the producer
// and consumer packages for the single-frame case. For cataloging, styled
// text, custom sinks, or streaming framing across many calls, use those
// packages directly.
package logwire

import (
	"github.com/arfz/logwire/consumer"
	"github.com/arfz/logwire/producer"
)

// Print encodes template and args into one frame using a fresh BufferSink
// and returns the frame's bytes. It is the simplest possible producer call:
// one allocation-light round trip with no cataloging and no custom sink.
func Print(template string, args ...producer.Arg) ([]byte, error) {
	enc, err := producer.NewEncoder()
	if err != nil {
		return nil, err
	}
	sink := producer.NewBufferSink()
	defer sink.Release()

	if err := enc.Print(sink, template, args...); err != nil {
		return nil, err
	}
	return append([]byte(nil), sink.Bytes()...), nil
}

// Parse locates and renders the first complete frame in data using a fresh
// Framer with no catalog configured — cataloged templates or strings in
// data fail to resolve. Use consumer.NewFramer directly to supply a
// catalog, an error sink, or a custom recursion-depth bound, or to keep
// framing state across many Parse-like calls on a streaming buffer.
func Parse(data []byte) (message string, ok bool, remaining []byte, discarded int) {
	f, _ := consumer.NewFramer()
	return f.Next(data)
}
