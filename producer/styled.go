package producer

import (
	"github.com/arfz/logwire/bracefmt"
	"github.com/arfz/logwire/typeid"
)

// style-set byte bit layout.
const (
	styleBitFgRGB  = 1 << 0
	styleBitFgTerm = 1 << 1
	styleBitBgRGB  = 1 << 2
	styleBitBgTerm = 1 << 3
	styleBitEmph   = 1 << 4
)

func (e *Encoder) writeStyled(value Arg, style bracefmt.Style) error {
	tag := typeid.RangeTag{Size: typeid.RangeSize1, Type: typeid.ExtendedTypeIdentifier, Layout: typeid.OnTiEach}
	e.appendByte(tag.Pack())
	e.appendByte(byte(typeid.Styled))

	var set byte
	if style.HasFgRGB {
		set |= styleBitFgRGB
	} else if style.HasFgTerm {
		set |= styleBitFgTerm
	}
	if style.HasBgRGB {
		set |= styleBitBgRGB
	} else if style.HasBgTerm {
		set |= styleBitBgTerm
	}
	if style.HasEmphasis {
		set |= styleBitEmph
	}
	e.appendByte(set)

	if style.HasFgRGB {
		e.buf = append(e.buf, style.FgRGB[:]...) // 4-byte rgb payload
	} else if style.HasFgTerm {
		e.appendByte(style.FgTerm)
	}
	if style.HasBgRGB {
		e.buf = append(e.buf, style.BgRGB[:]...)
	} else if style.HasBgTerm {
		e.appendByte(style.BgTerm)
	}
	if style.HasEmphasis {
		e.appendByte(style.Emphasis)
	}

	return value.encode(e)
}
