package bracefmt

import "strconv"

// Emphasis bit flags for a styled value's optional emphasis byte. These
// bits are this module's own concrete choice for the wire's single
// emphasis byte and are shared between producer and consumer.
const (
	EmphasisBold          = 1 << 0
	EmphasisFaint         = 1 << 1
	EmphasisItalic        = 1 << 2
	EmphasisUnderline     = 1 << 3
	EmphasisBlink         = 1 << 4
	EmphasisReverse       = 1 << 5
	EmphasisStrikethrough = 1 << 6
)

// Style describes a styled value's optional foreground/background color
// and emphasis, decoded from the wire's style-set byte and payloads.
//
// RGB payloads are 4 bytes wide on the wire; only the first three (R, G, B)
// carry color, the fourth is reserved and ignored by Apply.
type Style struct {
	HasFgRGB  bool
	FgRGB     [4]byte
	HasFgTerm bool
	FgTerm    byte

	HasBgRGB  bool
	BgRGB     [4]byte
	HasBgTerm bool
	BgTerm    byte

	HasEmphasis bool
	Emphasis    byte
}

// termColor maps the wire's 1-byte terminal color code (0-15, the standard
// ANSI palette) to its SGR foreground/background offset.
func termColor(code byte, background bool) int {
	base := 30
	if background {
		base = 40
	}
	if code < 8 {
		return base + int(code)
	}
	if code < 16 {
		return base + 60 + int(code-8)
	}
	return base // out-of-range codes fall back to default
}

// sgrCodes builds the ANSI SGR parameter list for s.
func (s Style) sgrCodes() []int {
	var codes []int
	if s.HasEmphasis {
		if s.Emphasis&EmphasisBold != 0 {
			codes = append(codes, 1)
		}
		if s.Emphasis&EmphasisFaint != 0 {
			codes = append(codes, 2)
		}
		if s.Emphasis&EmphasisItalic != 0 {
			codes = append(codes, 3)
		}
		if s.Emphasis&EmphasisUnderline != 0 {
			codes = append(codes, 4)
		}
		if s.Emphasis&EmphasisBlink != 0 {
			codes = append(codes, 5)
		}
		if s.Emphasis&EmphasisReverse != 0 {
			codes = append(codes, 7)
		}
		if s.Emphasis&EmphasisStrikethrough != 0 {
			codes = append(codes, 9)
		}
	}
	if s.HasFgRGB {
		codes = append(codes, 38, 2, int(s.FgRGB[0]), int(s.FgRGB[1]), int(s.FgRGB[2]))
	} else if s.HasFgTerm {
		codes = append(codes, termColor(s.FgTerm, false))
	}
	if s.HasBgRGB {
		codes = append(codes, 48, 2, int(s.BgRGB[0]), int(s.BgRGB[1]), int(s.BgRGB[2]))
	} else if s.HasBgTerm {
		codes = append(codes, termColor(s.BgTerm, true))
	}
	return codes
}

// Apply wraps text in this style's ANSI escape codes, resetting at the
// end. A style with no color or emphasis set returns text unchanged.
func (s Style) Apply(text string) string {
	codes := s.sgrCodes()
	if len(codes) == 0 {
		return text
	}
	prefix := "\x1b["
	for i, c := range codes {
		if i > 0 {
			prefix += ";"
		}
		prefix += strconv.Itoa(c)
	}
	prefix += "m"
	return prefix + text + "\x1b[0m"
}
