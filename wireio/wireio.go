// Package wireio implements size-prefixed primitive reads and writes: the
// little-endian integer and floating-point encodings selected dynamically
// by a width code from a tag byte.
//
// Reads never panic on short input; they return errs.ErrTruncated. Writes
// append to a caller-supplied buffer and return no error; AppendUnsigned
// (and so AppendSigned and AppendRangeSize) panics on a width other than
// 1, 2, 4 or 8.
package wireio

import (
	"math"

	"github.com/arfz/logwire/endian"
	"github.com/arfz/logwire/errs"
	"github.com/arfz/logwire/typeid"
)

var le = endian.GetLittleEndianEngine()

// ReadUnsigned decodes an unsigned integer of the given width from b.
func ReadUnsigned(b []byte, width int) (uint64, error) {
	if len(b) < width {
		return 0, errs.ErrTruncated
	}
	switch width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(le.Uint16(b)), nil
	case 4:
		return uint64(le.Uint32(b)), nil
	case 8:
		return le.Uint64(b), nil
	default:
		return 0, errs.ErrInvalidTag
	}
}

// ReadSigned decodes a two's-complement signed integer of the given width.
func ReadSigned(b []byte, width int) (int64, error) {
	u, err := ReadUnsigned(b, width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int64(int8(u)), nil
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	case 8:
		return int64(u), nil
	default:
		return 0, errs.ErrInvalidTag
	}
}

// ReadFloat decodes an IEEE-754 float of the given width (4 or 8 bytes).
func ReadFloat(b []byte, width int) (float64, error) {
	u, err := ReadUnsigned(b, width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 4:
		return float64(math.Float32frombits(uint32(u))), nil
	case 8:
		return math.Float64frombits(u), nil
	default:
		return 0, errs.ErrInvalidTag
	}
}

// AppendUnsigned appends the low `width` bytes of v to dst, little-endian.
func AppendUnsigned(dst []byte, v uint64, width int) []byte {
	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		return le.AppendUint16(dst, uint16(v))
	case 4:
		return le.AppendUint32(dst, uint32(v))
	case 8:
		return le.AppendUint64(dst, v)
	default:
		panic("wireio: invalid width")
	}
}

// AppendSigned appends v to dst using the given width.
func AppendSigned(dst []byte, v int64, width int) []byte {
	return AppendUnsigned(dst, uint64(v), width)
}

// AppendFloat32 appends a 4-byte IEEE-754 float to dst.
func AppendFloat32(dst []byte, v float32) []byte {
	return le.AppendUint32(dst, math.Float32bits(v))
}

// AppendFloat64 appends an 8-byte IEEE-754 float to dst.
func AppendFloat64(dst []byte, v float64) []byte {
	return le.AppendUint64(dst, math.Float64bits(v))
}

// ReadRangeSize decodes a container length/catalog-id prefix of the given
// RangeSize.
func ReadRangeSize(b []byte, size typeid.RangeSize) (uint64, error) {
	return ReadUnsigned(b, size.Bytes())
}

// AppendRangeSize appends a container length/catalog-id prefix.
func AppendRangeSize(dst []byte, v uint64, size typeid.RangeSize) []byte {
	return AppendUnsigned(dst, v, size.Bytes())
}
