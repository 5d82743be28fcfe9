// Package consumer implements the wire codec's decoding half: a framer
// that locates frames in a byte stream using the start/end markers and
// tag-byte plausibility, and a recursive-descent parser that renders a
// frame's template and argument series into text.
package consumer

import (
	"bytes"

	"github.com/arfz/logwire/internal/options"
	"github.com/arfz/logwire/typeid"
)

// StartMarker and EndMarker mirror producer.StartMarker/EndMarker; the two
// packages never import each other; the wire format is the only contract.
const (
	StartMarker byte = 0x55
	EndMarker   byte = 0xAA
)

// Catalog resolves a 16-bit id back to the literal text it was assigned,
// the consumer-side counterpart of producer.CatalogIndex. catalog.Sidecar
// implements this.
type Catalog interface {
	Lookup(id uint16) (string, bool)
}

// ErrorSink receives a non-nil error every time the framer or parser gives
// up on a candidate frame — malformed tag, truncated buffer, catalog miss,
// formatter rejection. It is purely diagnostic: the framer always keeps
// scanning (or waiting for more bytes) regardless of what errSink does.
type ErrorSink func(error)

// defaultMaxDepth bounds the parser's recursion (nested sub-templates,
// containers, optionals, styled values) so a pathological frame can't blow
// the goroutine stack. It is the decoder's one explicit resource bound.
const defaultMaxDepth = 64

// Option configures a Framer.
type Option = options.Option[*Framer]

// WithCatalog supplies the catalog used to resolve cataloged templates and
// cataloged strings. Without one, a frame or string tagged "cataloged"
// fails to parse with errs.ErrCatalogMiss.
func WithCatalog(cat Catalog) Option {
	return options.NoError(func(f *Framer) { f.cat = cat })
}

// WithErrorSink supplies the diagnostic sink described on ErrorSink.
func WithErrorSink(sink ErrorSink) Option {
	return options.NoError(func(f *Framer) { f.errSink = sink })
}

// WithMaxDepth overrides the parser's recursion-depth guard.
func WithMaxDepth(n int) Option {
	return options.NoError(func(f *Framer) { f.maxDepth = n })
}

// Framer scans byte slices for frames. It holds no state across Next calls
// beyond its configuration — a caller streaming bytes in from a ring buffer
// or socket is expected to hold onto the "remaining" slice itself and call
// Next again once more bytes are appended.
type Framer struct {
	cat      Catalog
	errSink  ErrorSink
	maxDepth int
}

// NewFramer creates a Framer configured by opts.
func NewFramer(opts ...Option) (*Framer, error) {
	f := &Framer{maxDepth: defaultMaxDepth}
	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}
	return f, nil
}

// Next locates and renders the next complete frame in data.
//
// On success, ok is true, message is the rendered text, and remaining is
// the slice immediately after the frame's End_marker. On failure (no
// complete frame yet, or a malformed one), ok is false and remaining is
// data from the first unresolved candidate frame onward — unchanged noise
// aside — so the caller can retry once more bytes are appended. discarded
// counts bytes this call determined were noise and will never be
// retried: non-0x55 bytes skipped while scanning, and 0x55 bytes not
// followed by a plausible fmt_string tag.
func (f *Framer) Next(data []byte) (message string, ok bool, remaining []byte, discarded int) {
	i := 0
	for {
		if i >= len(data) {
			return "", false, nil, discarded
		}
		if data[i] != StartMarker {
			i++
			discarded++
			continue
		}
		if i+1 >= len(data) {
			// Not enough bytes yet to inspect the tag after Start; wait.
			return "", false, data[i:], discarded
		}
		if !typeid.IsNormalFmtStringTag(data[i+1]) {
			i++
			discarded++
			continue
		}
		break
	}

	region := data[i+1:]
	if bytes.IndexByte(region, EndMarker) < 0 {
		// No End_marker anywhere yet; the frame may still be arriving.
		return "", false, data[i:], discarded
	}

	p := newParser(region, f.cat, f.maxDepth)
	msg, err := p.parseTopLevel()
	if err != nil {
		f.reportError(err)
		return "", false, data[i:], discarded
	}

	if p.pos >= len(region) || region[p.pos] != EndMarker {
		f.reportError(errNoEndMarker)
		return "", false, data[i:], discarded
	}

	return msg, true, region[p.pos+1:], discarded
}

func (f *Framer) reportError(err error) {
	if f.errSink != nil {
		f.errSink(err)
	}
}
