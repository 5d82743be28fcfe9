package producer

import (
	"fmt"

	"github.com/arfz/logwire/errs"
	"github.com/arfz/logwire/internal/options"
	"github.com/arfz/logwire/tmpl"
	"github.com/arfz/logwire/typeid"
	"github.com/arfz/logwire/wireio"
)

// StartMarker and EndMarker bracket every frame on the wire.
const (
	StartMarker byte = 0x55
	EndMarker   byte = 0xAA
)

// CatalogIndex is the producer-side counterpart of the consumer's Catalog:
// given literal text (a template or an interned string constant), it
// returns the 16-bit id that text was assigned, if any. catalog.Builder
// and catalog.Sidecar implement this.
type CatalogIndex interface {
	ID(text string) (uint16, bool)
}

// Option configures an Encoder. Options compose with internal/options'
// generic Apply helper, the same functional-option shape used throughout
// this module.
type Option = options.Option[*Encoder]

// WithCatalog enables cataloged encoding: every template and every
// CatalogedString/Enum argument is looked up in idx and encoded as a
// 16-bit id instead of inline bytes.
func WithCatalog(idx CatalogIndex) Option {
	return options.NoError(func(e *Encoder) { e.catalog = idx })
}

// Encoder drives a Sink through one frame at a time. It holds no
// state across frames beyond its configuration; Print is safe to call
// repeatedly, but not concurrently from multiple goroutines.
type Encoder struct {
	catalog CatalogIndex
	buf     []byte
	err     error
}

// NewEncoder creates an Encoder configured by opts.
func NewEncoder(opts ...Option) (*Encoder, error) {
	e := &Encoder{}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// Print encodes template and args into one frame and writes it to sink.
// template is validated (balanced braces, field count == len(args), valid
// characters) before any byte is written.
func (e *Encoder) Print(sink Sink, template string, args ...Arg) error {
	if err := tmpl.ValidateTemplate(template, len(args)); err != nil {
		return err
	}

	if err := sink.Begin(); err != nil {
		return fmt.Errorf("sink begin: %w", errs.ErrSinkFailed)
	}

	e.buf = e.buf[:0]
	e.err = nil
	e.appendByte(StartMarker)

	if e.catalog != nil {
		if id, ok := e.catalog.ID(template); ok {
			e.writeFmtStringTag(typeid.RangeSize2, typeid.CatalogedNormal)
			e.appendUnsignedWidth(uint64(id), 2)
		} else {
			return fmt.Errorf("template %q: %w", template, errs.ErrCatalogMiss)
		}
	} else {
		e.writeFmtStringTag(typeid.SizeForLength(len(template)), typeid.Normal)
		e.writeLengthPrefixedBody([]byte(template))
	}

	for _, arg := range args {
		if e.err != nil {
			break
		}
		if err := arg.encode(e); err != nil {
			e.err = err
			break
		}
	}
	if e.err != nil {
		return e.err
	}

	e.appendByte(EndMarker)

	if err := sink.Write(e.buf); err != nil {
		return fmt.Errorf("sink write: %w", errs.ErrSinkFailed)
	}
	if err := sink.End(); err != nil {
		return fmt.Errorf("sink end: %w", errs.ErrSinkFailed)
	}

	return nil
}

// --- low-level append helpers ---

func (e *Encoder) appendByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *Encoder) appendUnsignedWidth(v uint64, width int) {
	e.buf = wireio.AppendUnsigned(e.buf, v, width)
}

func (e *Encoder) writeFmtStringTag(size typeid.RangeSize, t typeid.FmtStringType) {
	tag := typeid.FmtStringTag{Size: size, Type: t}
	e.appendByte(tag.Pack())
}

// writeLengthPrefixedBody appends a RangeSize-width length prefix (chosen
// by width minimality) followed by body.
func (e *Encoder) writeLengthPrefixedBody(body []byte) {
	size := typeid.SizeForLength(len(body))
	e.buf = wireio.AppendRangeSize(e.buf, uint64(len(body)), size)
	e.buf = append(e.buf, body...)
}

func (e *Encoder) writeStringBody(s string) error {
	tag := typeid.RangeTag{Size: typeid.SizeForLength(len(s)), Type: typeid.String, Layout: typeid.Compact}
	e.appendByte(tag.Pack())
	e.writeLengthPrefixedBody([]byte(s))
	return nil
}

func (e *Encoder) writeCatalogedStringBody(s string) error {
	if e.catalog == nil {
		return fmt.Errorf("cataloged string %q: %w", s, errs.ErrCatalogMiss)
	}
	id, ok := e.catalog.ID(s)
	if !ok {
		return fmt.Errorf("cataloged string %q: %w", s, errs.ErrCatalogMiss)
	}
	tag := typeid.RangeTag{Size: typeid.RangeSize2, Type: typeid.CatalogedString, Layout: typeid.Compact}
	e.appendByte(tag.Pack())
	e.appendUnsignedWidth(uint64(id), 2)
	return nil
}

// compactTrivial reports whether every element of elems is the same
// trivial scalar kind and can share one tag (the compact layout), and
// the shared (type, width) they'd use.
func compactTrivial(elems []Arg) (typeid.TrivialType, int, bool) {
	if len(elems) == 0 {
		return 0, 0, false
	}
	first, ok := elems[0].(trivialArg)
	if !ok {
		return 0, 0, false
	}
	typ := first.typ
	width := first.resolvedWidth()
	for _, el := range elems[1:] {
		t, ok := el.(trivialArg)
		if !ok || t.typ != typ {
			return 0, 0, false
		}
		if typ == typeid.FloatingPoint {
			if t.resolvedWidth() != width {
				return 0, 0, false
			}
			continue
		}
		if w := t.resolvedWidth(); w > width {
			width = w
		}
	}
	return typ, width, true
}

func (e *Encoder) writeRange(rt typeid.RangeType, elems []Arg) error {
	if typ, width, ok := compactTrivial(elems); ok {
		tag := typeid.RangeTag{Size: typeid.SizeForLength(len(elems)), Type: rt, Layout: typeid.Compact}
		e.appendByte(tag.Pack())
		e.buf = wireio.AppendRangeSize(e.buf, uint64(len(elems)), tag.Size)
		e.appendByte(typeid.TrivialTag{Size: widthToTypeSize(width), Type: typ}.Pack())
		for _, el := range elems {
			t := el.(trivialArg)
			e.appendUnsignedWidth(t.bits, width)
		}
		return nil
	}

	tag := typeid.RangeTag{Size: typeid.SizeForLength(len(elems)), Type: rt, Layout: typeid.OnTiEach}
	e.appendByte(tag.Pack())
	e.buf = wireio.AppendRangeSize(e.buf, uint64(len(elems)), tag.Size)
	for _, el := range elems {
		if err := el.encode(e); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeTuple(elems []Arg) error {
	tag := typeid.RangeTag{Size: typeid.SizeForLength(len(elems)), Type: typeid.Tuple, Layout: typeid.OnTiEach}
	e.appendByte(tag.Pack())
	e.buf = wireio.AppendRangeSize(e.buf, uint64(len(elems)), tag.Size)
	for _, el := range elems {
		if err := el.encode(e); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeOptional(present bool, value Arg) error {
	tag := typeid.RangeTag{Size: typeid.RangeSize1, Type: typeid.ExtendedTypeIdentifier, Layout: typeid.OnTiEach}
	e.appendByte(tag.Pack())
	e.appendByte(byte(typeid.Optional))
	if !present {
		e.appendByte(0)
		return nil
	}
	e.appendByte(1)
	return value.encode(e)
}

func (e *Encoder) writeTime(t typeid.TimeType, num, den uint64, count int64) error {
	if num == 0 || den == 0 {
		return errs.ErrTimeInvalid
	}
	numSize := typeid.SizeForUnsigned(num)
	denSize := typeid.SizeForUnsigned(den)
	countSize := typeid.SizeForCount(count)

	tag := typeid.TimeTag{NumSize: numSize, DenSize: denSize, CountSize: countSize, Type: t}
	e.appendByte(tag.Pack())
	e.appendUnsignedWidth(num, numSize.Bytes())
	e.appendUnsignedWidth(den, denSize.Bytes())
	e.appendUnsignedWidth(uint64(count), countSize.Bytes())
	return nil
}
