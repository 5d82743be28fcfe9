package consumer

import (
	"fmt"

	"github.com/arfz/logwire/bracefmt"
	"github.com/arfz/logwire/errs"
)

// style-set byte bit layout, mirroring producer's. The two packages never
// import each other; both are grounded in the same wire bit assignment.
const (
	styleBitFgRGB  = 1 << 0
	styleBitFgTerm = 1 << 1
	styleBitBgRGB  = 1 << 2
	styleBitBgTerm = 1 << 3
	styleBitEmph   = 1 << 4
	styleReserved  = 0xC0 // bits 6-7 must be zero
)

func (p *parser) parseStyled(field string, inList, inMap bool) (string, error) {
	set, err := p.byte()
	if err != nil {
		return "", err
	}
	if set&styleReserved != 0 {
		return "", fmt.Errorf("reserved bits set in style byte 0x%02x: %w", set, errs.ErrStyleInvalid)
	}

	fgRGB := set&styleBitFgRGB != 0
	fgTerm := set&styleBitFgTerm != 0
	bgRGB := set&styleBitBgRGB != 0
	bgTerm := set&styleBitBgTerm != 0
	hasEmph := set&styleBitEmph != 0

	if fgRGB && fgTerm {
		return "", fmt.Errorf("foreground rgb and term both set: %w", errs.ErrStyleInvalid)
	}
	if bgRGB && bgTerm {
		return "", fmt.Errorf("background rgb and term both set: %w", errs.ErrStyleInvalid)
	}
	if (fgTerm || bgTerm) && (fgRGB || bgRGB) {
		return "", fmt.Errorf("mixed rgb/term color modes: %w", errs.ErrStyleInvalid)
	}

	var style bracefmt.Style
	if fgRGB {
		raw, err := p.take(4)
		if err != nil {
			return "", err
		}
		copy(style.FgRGB[:], raw)
		style.HasFgRGB = true
	} else if fgTerm {
		b, err := p.byte()
		if err != nil {
			return "", err
		}
		style.FgTerm = b
		style.HasFgTerm = true
	}

	if bgRGB {
		raw, err := p.take(4)
		if err != nil {
			return "", err
		}
		copy(style.BgRGB[:], raw)
		style.HasBgRGB = true
	} else if bgTerm {
		b, err := p.byte()
		if err != nil {
			return "", err
		}
		style.BgTerm = b
		style.HasBgTerm = true
	}

	if hasEmph {
		b, err := p.byte()
		if err != nil {
			return "", err
		}
		style.Emphasis = b
		style.HasEmphasis = true
	}

	inner, err := p.parseArg(field, inList, inMap)
	if err != nil {
		return "", err
	}
	return style.Apply(inner), nil
}
