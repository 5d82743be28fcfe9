// Package typeid implements the wire format's tag byte: the single byte that
// precedes every value on the wire and tells the consumer what follows.
//
// Every tag byte is built from the same two low bits, the Family, plus six
// kind-specific bits described in the tables below. Packing is total;
// parsing is fail-closed — a byte decodes only if re-packing the decoded
// fields reproduces the exact same byte, so any reserved bit left set, or
// any out-of-range sub-field, is rejected rather than silently accepted.
//
//	trivial:    b1 b0 = 00 | b3 b2 = TypeSize  | b6 b5 b4 = TrivialType | b7 = 0
//	range:      b1 b0 = 01 | b2    = RangeSize | b6 b5 b4 = RangeType   | b7 = RangeLayout
//	time:       b1 b0 = 10 | b3 b2 = num size  | b5 b4   = den size     | b6 = TimeSize | b7 = TimeType
//	fmt_string: b1 b0 = 11 | b2    = RangeSize | b5 b4   = FmtStringType| b7 = 0
package typeid

import (
	"fmt"

	"github.com/arfz/logwire/errs"
)

// Family is the two-bit type identifier carried in bits 0-1 of every tag
// byte.
type Family uint8

const (
	FamilyTrivial   Family = 0
	FamilyRange     Family = 1
	FamilyTime      Family = 2
	FamilyFmtString Family = 3
)

func (f Family) String() string {
	switch f {
	case FamilyTrivial:
		return "trivial"
	case FamilyRange:
		return "range"
	case FamilyTime:
		return "time"
	case FamilyFmtString:
		return "fmt_string"
	default:
		return "unknown"
	}
}

// PeekFamily extracts the family from a tag byte without validating the
// remaining bits. Bits 0-1 always decode to one of the four Family values,
// so this call never fails; it exists so the framer and parser can dispatch
// before running the family-specific fail-closed parse.
func PeekFamily(b byte) Family {
	return Family(b & 0x03)
}

// TrivialType enumerates the scalar kinds a trivial tag can carry.
type TrivialType uint8

const (
	Unsigned      TrivialType = 0
	Signed        TrivialType = 1
	Boolean       TrivialType = 2
	Character     TrivialType = 3
	Pointer       TrivialType = 4
	FloatingPoint TrivialType = 5
)

func (t TrivialType) String() string {
	switch t {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case Boolean:
		return "boolean"
	case Character:
		return "character"
	case Pointer:
		return "pointer"
	case FloatingPoint:
		return "floatingpoint"
	default:
		return "unknown"
	}
}

func (t TrivialType) valid() bool { return t <= FloatingPoint }

// TypeSize is the width code for a trivial scalar or a time component;
// width in bytes is 2^code.
type TypeSize uint8

const (
	Size1 TypeSize = 0
	Size2 TypeSize = 1
	Size4 TypeSize = 2
	Size8 TypeSize = 3
)

// Bytes returns the width this size code represents.
func (s TypeSize) Bytes() int { return 1 << uint(s) }

func (s TypeSize) String() string {
	switch s {
	case Size1:
		return "1"
	case Size2:
		return "2"
	case Size4:
		return "4"
	case Size8:
		return "8"
	default:
		return "?"
	}
}

// SizeForUnsigned returns the smallest TypeSize that losslessly represents
// v, per the width-minimality rule.
func SizeForUnsigned(v uint64) TypeSize {
	switch {
	case v <= 0xFF:
		return Size1
	case v <= 0xFFFF:
		return Size2
	case v <= 0xFFFFFFFF:
		return Size4
	default:
		return Size8
	}
}

// RangeType enumerates the kinds a range tag can carry.
type RangeType uint8

const (
	List                   RangeType = 0
	Map                    RangeType = 1
	Set                    RangeType = 2
	String                 RangeType = 3
	CatalogedString        RangeType = 4
	Tuple                  RangeType = 5
	ExtendedTypeIdentifier RangeType = 6
)

func (r RangeType) String() string {
	switch r {
	case List:
		return "list"
	case Map:
		return "map"
	case Set:
		return "set"
	case String:
		return "string"
	case CatalogedString:
		return "cataloged_string"
	case Tuple:
		return "tuple"
	case ExtendedTypeIdentifier:
		return "extendedTypeIdentifier"
	default:
		return "unknown"
	}
}

func (r RangeType) valid() bool { return r <= ExtendedTypeIdentifier }

// RangeLayout selects whether a range's elements share one leading tag
// (Compact) or each carry their own (OnTiEach).
type RangeLayout uint8

const (
	Compact  RangeLayout = 0
	OnTiEach RangeLayout = 1
)

func (l RangeLayout) String() string {
	if l == OnTiEach {
		return "on_ti_each"
	}
	return "compact"
}

// RangeSize is the width of a range's length/id prefix.
type RangeSize uint8

const (
	RangeSize1 RangeSize = 0
	RangeSize2 RangeSize = 1
)

// Bytes returns the width this size code represents.
func (s RangeSize) Bytes() int {
	if s == RangeSize2 {
		return 2
	}
	return 1
}

// SizeForLength returns the smallest RangeSize that holds n, per the
// width-minimality rule: _1 if n <= 255 else _2.
func SizeForLength(n int) RangeSize {
	if n <= 255 {
		return RangeSize1
	}
	return RangeSize2
}

// TimeType distinguishes a duration from a time point.
type TimeType uint8

const (
	Duration  TimeType = 0
	TimePoint TimeType = 1
)

func (t TimeType) String() string {
	if t == TimePoint {
		return "time_point"
	}
	return "duration"
}

// TimeSize is the width of a time value's signed count.
type TimeSize uint8

const (
	TimeSize4 TimeSize = 0
	TimeSize8 TimeSize = 1
)

// Bytes returns the width this size code represents.
func (s TimeSize) Bytes() int {
	if s == TimeSize8 {
		return 8
	}
	return 4
}

// SizeForCount returns _4 if v fits a signed 32-bit integer else _8.
func SizeForCount(v int64) TimeSize {
	if v >= -(1<<31) && v <= (1<<31)-1 {
		return TimeSize4
	}
	return TimeSize8
}

// FmtStringType selects between an inline/cataloged template and whether it
// is the top-level template or a nested sub-template.
type FmtStringType uint8

const (
	Sub             FmtStringType = 0
	Normal          FmtStringType = 1
	CatalogedSub    FmtStringType = 2
	CatalogedNormal FmtStringType = 3
)

func (f FmtStringType) String() string {
	switch f {
	case Sub:
		return "sub"
	case Normal:
		return "normal"
	case CatalogedSub:
		return "cataloged_sub"
	case CatalogedNormal:
		return "cataloged_normal"
	default:
		return "unknown"
	}
}

// Cataloged reports whether this fmt_string kind carries a catalog id
// rather than inline template bytes.
func (f FmtStringType) Cataloged() bool {
	return f == CatalogedSub || f == CatalogedNormal
}

// SubTemplate reports whether this fmt_string kind is a nested sub-template rather
// than the frame's top-level template.
func (f FmtStringType) SubTemplate() bool {
	return f == Sub || f == CatalogedSub
}

// ExtendedType enumerates the extension codes carried in a range's size
// slot when its RangeType is ExtendedTypeIdentifier.
type ExtendedType uint16

const (
	Styled   ExtendedType = 0
	Optional ExtendedType = 1
)

func (e ExtendedType) String() string {
	switch e {
	case Styled:
		return "styled"
	case Optional:
		return "optional"
	default:
		return "unknown"
	}
}

// ParseExtendedType validates a size-slot value as an ExtendedType.
func ParseExtendedType(v uint16) (ExtendedType, error) {
	switch ExtendedType(v) {
	case Styled, Optional:
		return ExtendedType(v), nil
	default:
		return 0, fmt.Errorf("extended type code %d: %w", v, errs.ErrInvalidTag)
	}
}

// TrivialTag is the decoded form of a trivial tag byte.
type TrivialTag struct {
	Size TypeSize
	Type TrivialType
}

// Pack encodes t into its tag byte.
func (t TrivialTag) Pack() byte {
	return byte(FamilyTrivial) | byte(t.Size)<<2 | byte(t.Type)<<4
}

// ParseTrivialTag decodes b as a trivial tag, failing closed on any
// reserved bit or out-of-range field.
func ParseTrivialTag(b byte) (TrivialTag, error) {
	if PeekFamily(b) != FamilyTrivial {
		return TrivialTag{}, fmt.Errorf("tag 0x%02x: %w", b, errs.ErrInvalidTypeIdentifier)
	}
	t := TrivialTag{
		Size: TypeSize((b >> 2) & 0x03),
		Type: TrivialType((b >> 4) & 0x07),
	}
	if !t.Type.valid() || t.Pack() != b {
		return TrivialTag{}, fmt.Errorf("trivial tag 0x%02x: %w", b, errs.ErrInvalidTag)
	}
	return t, nil
}

// RangeTag is the decoded form of a range tag byte.
type RangeTag struct {
	Size   RangeSize
	Type   RangeType
	Layout RangeLayout
}

// Pack encodes r into its tag byte.
func (r RangeTag) Pack() byte {
	return byte(FamilyRange) | byte(r.Size)<<2 | byte(r.Type)<<4 | byte(r.Layout)<<7
}

// ParseRangeTag decodes b as a range tag, failing closed on any reserved
// bit or out-of-range field.
func ParseRangeTag(b byte) (RangeTag, error) {
	if PeekFamily(b) != FamilyRange {
		return RangeTag{}, fmt.Errorf("tag 0x%02x: %w", b, errs.ErrInvalidTypeIdentifier)
	}
	r := RangeTag{
		Size:   RangeSize((b >> 2) & 0x01),
		Type:   RangeType((b >> 4) & 0x07),
		Layout: RangeLayout((b >> 7) & 0x01),
	}
	if !r.Type.valid() || r.Pack() != b {
		return RangeTag{}, fmt.Errorf("range tag 0x%02x: %w", b, errs.ErrInvalidTag)
	}
	return r, nil
}

// TimeTag is the decoded form of a time tag byte.
type TimeTag struct {
	NumSize   TypeSize
	DenSize   TypeSize
	CountSize TimeSize
	Type      TimeType
}

// Pack encodes t into its tag byte.
func (t TimeTag) Pack() byte {
	return byte(FamilyTime) | byte(t.NumSize)<<2 | byte(t.DenSize)<<4 | byte(t.CountSize)<<6 | byte(t.Type)<<7
}

// ParseTimeTag decodes b as a time tag. The family, numerator-size and
// denominator-size fields are two bits wide and the count-size and type
// fields one bit each, filling all eight bits, so there are no reserved
// bits to reject beyond the repack check.
func ParseTimeTag(b byte) (TimeTag, error) {
	if PeekFamily(b) != FamilyTime {
		return TimeTag{}, fmt.Errorf("tag 0x%02x: %w", b, errs.ErrInvalidTypeIdentifier)
	}
	t := TimeTag{
		NumSize:   TypeSize((b >> 2) & 0x03),
		DenSize:   TypeSize((b >> 4) & 0x03),
		CountSize: TimeSize((b >> 6) & 0x01),
		Type:      TimeType((b >> 7) & 0x01),
	}
	if t.Pack() != b {
		return TimeTag{}, fmt.Errorf("time tag 0x%02x: %w", b, errs.ErrInvalidTag)
	}
	return t, nil
}

// FmtStringTag is the decoded form of a fmt_string tag byte.
type FmtStringTag struct {
	Size RangeSize
	Type FmtStringType
}

// Pack encodes f into its tag byte.
func (f FmtStringTag) Pack() byte {
	return byte(FamilyFmtString) | byte(f.Size)<<2 | byte(f.Type)<<4
}

// ParseFmtStringTag decodes b as a fmt_string tag, failing closed on any
// reserved bit.
func ParseFmtStringTag(b byte) (FmtStringTag, error) {
	if PeekFamily(b) != FamilyFmtString {
		return FmtStringTag{}, fmt.Errorf("tag 0x%02x: %w", b, errs.ErrInvalidTypeIdentifier)
	}
	f := FmtStringTag{
		Size: RangeSize((b >> 2) & 0x01),
		Type: FmtStringType((b >> 4) & 0x03),
	}
	if f.Pack() != b {
		return FmtStringTag{}, fmt.Errorf("fmt_string tag 0x%02x: %w", b, errs.ErrInvalidTag)
	}
	return f, nil
}

// IsNormalFmtStringTag reports whether b is a valid fmt_string tag for
// either Normal or CatalogedNormal — the check the framer uses to decide
// whether a Start marker begins a real frame.
func IsNormalFmtStringTag(b byte) bool {
	tag, err := ParseFmtStringTag(b)
	if err != nil {
		return false
	}
	return tag.Type == Normal || tag.Type == CatalogedNormal
}
