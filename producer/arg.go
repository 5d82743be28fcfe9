package producer

import (
	"math"
	"time"
	"unsafe"

	"github.com/arfz/logwire/bracefmt"
	"github.com/arfz/logwire/timeunit"
	"github.com/arfz/logwire/typeid"
)

// Arg is one value the producer can encode into a frame's argument series.
// The set of concrete kinds is closed: every exported constructor in this
// file returns an Arg, and encode dispatches on an unexported kind exactly
// the way the consumer dispatches on the tag byte it reads back.
type Arg interface {
	kind() argKind
	encode(e *Encoder) error
}

type argKind uint8

const (
	kindUnsigned argKind = iota
	kindSigned
	kindBool
	kindChar
	kindPointer
	kindFloat
	kindString
	kindCatalogedString
	kindList
	kindMap
	kindSet
	kindTuple
	kindOptional
	kindStyled
	kindTime
	kindSubTemplate
)

// --- trivial scalars ---

type trivialArg struct {
	typ   typeid.TrivialType
	bits  uint64 // raw value bit pattern; float32/float64 carry IEEE-754 bits
	width int    // 0 means "pick the minimal width", fixed otherwise
}

func (a trivialArg) kind() argKind {
	switch a.typ {
	case typeid.Unsigned:
		return kindUnsigned
	case typeid.Signed:
		return kindSigned
	case typeid.Boolean:
		return kindBool
	case typeid.Character:
		return kindChar
	case typeid.Pointer:
		return kindPointer
	default:
		return kindFloat
	}
}

func (a trivialArg) resolvedWidth() int {
	if a.width != 0 {
		return a.width
	}
	switch a.typ {
	case typeid.Signed:
		return typeid.SizeForUnsigned(zigzagWiden(int64(a.bits))).Bytes()
	default:
		return typeid.SizeForUnsigned(a.bits).Bytes()
	}
}

// zigzagWiden folds a signed value onto the unsigned line (0, -1, 1, -2, 2,
// ...) so SizeForUnsigned's width-minimality rule applies to negative
// numbers too. v=127 and v=-128 both map within 0..255 (fit int8); v=128 and
// v=-129 both map just past it (need int16), matching the signed range each
// TypeSize actually covers.
func zigzagWiden(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func (e *Encoder) writeTrivial(typ typeid.TrivialType, width int, bits uint64) error {
	tag := typeid.TrivialTag{Size: widthToTypeSize(width), Type: typ}
	e.appendByte(tag.Pack())
	e.appendUnsignedWidth(bits, width)
	return nil
}

func (a trivialArg) encode(e *Encoder) error {
	return e.writeTrivial(a.typ, a.resolvedWidth(), a.bits)
}

func widthToTypeSize(width int) typeid.TypeSize {
	switch width {
	case 1:
		return typeid.Size1
	case 2:
		return typeid.Size2
	case 4:
		return typeid.Size4
	default:
		return typeid.Size8
	}
}

// Int encodes a signed integer, choosing the smallest width that
// represents it losslessly.
func Int(v int64) Arg {
	return trivialArg{typ: typeid.Signed, bits: uint64(v)}
}

// Uint encodes an unsigned integer, choosing the smallest width that
// represents it losslessly.
func Uint(v uint64) Arg {
	return trivialArg{typ: typeid.Unsigned, bits: v}
}

// Byte encodes a single byte as an 8-bit unsigned value.
func Byte(v byte) Arg {
	return trivialArg{typ: typeid.Unsigned, bits: uint64(v), width: 1}
}

// Bool encodes a boolean as a 1-byte value.
func Bool(v bool) Arg {
	var b uint64
	if v {
		b = 1
	}
	return trivialArg{typ: typeid.Boolean, bits: b, width: 1}
}

// Char encodes a single printable-ASCII (or '\n') character. Values
// outside that range still encode, and the consumer renders them as-is:
// neither this constructor nor the consumer checks a Char argument
// against the template/string character set.
func Char(v byte) Arg {
	return trivialArg{typ: typeid.Character, bits: uint64(v), width: 1}
}

// Pointer encodes v as the platform's native pointer width.
func Pointer(v uintptr) Arg {
	return trivialArg{typ: typeid.Pointer, bits: uint64(v), width: int(unsafe.Sizeof(v))}
}

// Float32 encodes a 4-byte IEEE-754 float.
func Float32(v float32) Arg {
	return trivialArg{typ: typeid.FloatingPoint, bits: uint64(math.Float32bits(v)), width: 4}
}

// Float64 encodes an 8-byte IEEE-754 float.
func Float64(v float64) Arg {
	return trivialArg{typ: typeid.FloatingPoint, bits: math.Float64bits(v), width: 8}
}

// --- strings ---

type stringArg struct {
	s string
}

func (stringArg) kind() argKind { return kindString }

func (a stringArg) encode(e *Encoder) error {
	return e.writeStringBody(a.s)
}

// String encodes dynamic text as a length-prefixed string body.
func String(v string) Arg {
	return stringArg{s: v}
}

type catalogedStringArg struct {
	s string
}

func (catalogedStringArg) kind() argKind { return kindCatalogedString }

func (a catalogedStringArg) encode(e *Encoder) error {
	return e.writeCatalogedStringBody(a.s)
}

// CatalogedString encodes v as a reference into the encoder's catalog
// index rather than inline bytes. Encoding fails with errs.ErrCatalogMiss
// if the encoder has no catalog index configured or v is not registered
// in it.
func CatalogedString(v string) Arg {
	return catalogedStringArg{s: v}
}

// Enum encodes a named enum value as a cataloged string literal of its
// name. It does not fall back: encoding fails with errs.ErrCatalogMiss
// when the catalog has no entry for the name or no catalog index is
// configured. EnumFallback is the variant that falls back to an integer.
func Enum(name string) Arg {
	return catalogedStringArg{s: name}
}

// EnumFallback encodes a named enum value as a cataloged string literal,
// but falls back to encoding v as a signed integer instead of failing if
// name is not cataloged.
func EnumFallback(name string, v int64) Arg {
	return enumArg{name: name, fallback: v}
}

type enumArg struct {
	name     string
	fallback int64
}

func (enumArg) kind() argKind { return kindCatalogedString }

func (a enumArg) encode(e *Encoder) error {
	if e.catalog != nil {
		if _, ok := e.catalog.ID(a.name); ok {
			return e.writeCatalogedStringBody(a.name)
		}
	}
	fallback := trivialArg{typ: typeid.Signed, bits: uint64(a.fallback)}
	return e.writeTrivial(typeid.Signed, fallback.resolvedWidth(), fallback.bits)
}

// --- containers ---

type listArg struct {
	elems []Arg
}

func (listArg) kind() argKind { return kindList }
func (a listArg) encode(e *Encoder) error {
	return e.writeRange(typeid.List, a.elems)
}

// List encodes an ordered, homogeneous-or-not sequence. Elements that are
// all the same trivial scalar kind use the compact layout (one shared tag,
// N raw values); anything else uses one tag per element.
func List(elems ...Arg) Arg { return listArg{elems: elems} }

type setArg struct {
	elems []Arg
}

func (setArg) kind() argKind { return kindSet }
func (a setArg) encode(e *Encoder) error {
	return e.writeRange(typeid.Set, a.elems)
}

// Set encodes elems the same way List does, tagged as a set rather than a
// list for the consumer's brace rendering ("{...}" vs "[...]").
func Set(elems ...Arg) Arg { return setArg{elems: elems} }

// MapEntry is one key/value pair of a Map, encoded as a 2-tuple with
// layout on_ti_each (the consumer's 'm' flag only makes sense on an
// arity-2 tuple).
type MapEntry struct {
	Key   Arg
	Value Arg
}

type mapArg struct {
	entries []MapEntry
}

func (mapArg) kind() argKind { return kindMap }
func (a mapArg) encode(e *Encoder) error {
	elems := make([]Arg, len(a.entries))
	for i, ent := range a.entries {
		elems[i] = tupleArg{elems: []Arg{ent.Key, ent.Value}}
	}
	return e.writeRange(typeid.Map, elems)
}

// Map encodes key/value pairs in insertion order, one arity-2 tuple per
// entry, so a rendered map preserves the order entries were added in
// (e.g. {"a":1,"b":2} stays in that order).
func Map(entries ...MapEntry) Arg { return mapArg{entries: entries} }

type tupleArg struct {
	elems []Arg
}

func (tupleArg) kind() argKind { return kindTuple }
func (a tupleArg) encode(e *Encoder) error {
	return e.writeTuple(a.elems)
}

// Tuple encodes a fixed-arity, heterogeneous record; always on_ti_each.
func Tuple(elems ...Arg) Arg { return tupleArg{elems: elems} }

type optionalArg struct {
	present bool
	value   Arg
}

func (optionalArg) kind() argKind { return kindOptional }
func (a optionalArg) encode(e *Encoder) error {
	return e.writeOptional(a.present, a.value)
}

// OptionalSome encodes a present optional value.
func OptionalSome(v Arg) Arg { return optionalArg{present: true, value: v} }

// OptionalNone encodes an empty optional value, rendered "()" by the
// consumer.
func OptionalNone() Arg { return optionalArg{present: false} }

type styledArg struct {
	value Arg
	style bracefmt.Style
}

func (styledArg) kind() argKind { return kindStyled }
func (a styledArg) encode(e *Encoder) error {
	return e.writeStyled(a.value, a.style)
}

// Styled wraps v with a terminal style (colors/emphasis); the consumer
// renders v's text and wraps it in the corresponding ANSI escape codes.
func Styled(v Arg, style bracefmt.Style) Arg {
	return styledArg{value: v, style: style}
}

type timeArg struct {
	timeType typeid.TimeType
	nanos    int64
}

func (timeArg) kind() argKind { return kindTime }
func (a timeArg) encode(e *Encoder) error {
	ratio, count := timeunit.PickForNanos(a.nanos)
	return e.writeTime(a.timeType, ratio.Num, ratio.Den, count)
}

// Duration encodes d, picking the coarsest standard chrono ratio that
// represents it exactly so the wire count stays small and the consumer's
// duration formatter renders a clean unit suffix.
func Duration(d time.Duration) Arg {
	return timeArg{timeType: typeid.Duration, nanos: int64(d)}
}

// TimePoint encodes t as nanoseconds since the Unix epoch, tagged as a
// time_point rather than a duration.
func TimePoint(t time.Time) Arg {
	return timeArg{timeType: typeid.TimePoint, nanos: t.UnixNano()}
}
