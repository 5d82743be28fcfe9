// Package bracefmt is the brace/printf-style formatter the consumer
// delegates to for every replacement field. It implements a practical
// subset of the Python/Rust-style format-spec mini-language: fill/align,
// sign, width, precision and a type character, plus the pass-through flags
// ('n', 'm') the range parser strips before handing a spec down here.
//
// The wire protocol's own grammar only requires that replacement fields be
// counted and validated for character content; the actual rendering
// grammar below is this module's concrete choice of formatter, not part of
// the wire format.
package bracefmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arfz/logwire/errs"
)

// Align selects how a padded field is justified.
type Align byte

const (
	AlignNone   Align = 0
	AlignLeft   Align = '<'
	AlignRight  Align = '>'
	AlignCenter Align = '^'
)

// Spec is a parsed replacement-field format spec, the part of a "{...}"
// field after the colon.
type Spec struct {
	Fill      rune
	Align     Align
	Sign      byte // 0, '+', '-', ' '
	Alternate bool // '#'
	ZeroPad   bool
	Width     int
	HasWidth  bool
	Precision int
	HasPrec   bool
	Type      byte // 0, 'b','o','x','X','d','e','E','f','F','g','G','%','s','?'
}

// ParseSpec parses the portion of a replacement field after "{:" and
// before the closing "}". An empty string is the default spec.
func ParseSpec(s string) (Spec, error) {
	var sp Spec
	runes := []rune(s)
	i := 0

	if len(runes) >= 2 {
		switch runes[1] {
		case '<', '>', '^':
			sp.Fill = runes[0]
			sp.Align = Align(runes[1])
			i = 2
		}
	}
	if sp.Align == AlignNone && len(runes) >= 1 {
		switch runes[0] {
		case '<', '>', '^':
			sp.Align = Align(runes[0])
			i = 1
		}
	}

	if i < len(runes) {
		switch runes[i] {
		case '+', '-', ' ':
			sp.Sign = byte(runes[i])
			i++
		}
	}

	if i < len(runes) && runes[i] == '#' {
		sp.Alternate = true
		i++
	}

	if i < len(runes) && runes[i] == '0' {
		sp.ZeroPad = true
		i++
	}

	start := i
	for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
		i++
	}
	if i > start {
		w, err := strconv.Atoi(string(runes[start:i]))
		if err != nil {
			return Spec{}, fmt.Errorf("bad width in spec %q: %w", s, errs.ErrFormatterFailure)
		}
		sp.Width = w
		sp.HasWidth = true
	}

	if i < len(runes) && runes[i] == '.' {
		i++
		start = i
		for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
			i++
		}
		p, err := strconv.Atoi(string(runes[start:i]))
		if err != nil {
			return Spec{}, fmt.Errorf("bad precision in spec %q: %w", s, errs.ErrFormatterFailure)
		}
		sp.Precision = p
		sp.HasPrec = true
	}

	if i < len(runes) {
		sp.Type = byte(runes[i])
		i++
	}

	if i != len(runes) {
		return Spec{}, fmt.Errorf("trailing characters in spec %q: %w", s, errs.ErrFormatterFailure)
	}

	return sp, nil
}

// pad justifies s to at least sp.Width using sp.Fill/sp.Align (default
// fill is a space, default align is left for strings and right for
// numbers, matching the brace-format convention).
func (sp Spec) pad(s string, numeric bool) string {
	if !sp.HasWidth || len(s) >= sp.Width {
		return s
	}
	fill := sp.Fill
	if fill == 0 {
		fill = ' '
	}
	align := sp.Align
	if align == AlignNone {
		if numeric {
			align = AlignRight
		} else {
			align = AlignLeft
		}
	}
	padLen := sp.Width - len([]rune(s))
	padding := strings.Repeat(string(fill), padLen)
	switch align {
	case AlignRight:
		return padding + s
	case AlignCenter:
		left := padLen / 2
		right := padLen - left
		return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), right)
	default:
		return s + padding
	}
}

// FormatField parses fieldSpec (the text between "{:" and "}", or "" for a
// bare "{}") and renders v.
func FormatField(fieldSpec string, v any) (string, error) {
	sp, err := ParseSpec(fieldSpec)
	if err != nil {
		return "", err
	}
	return sp.Render(v)
}

// Render formats v according to sp.
func (sp Spec) Render(v any) (string, error) {
	switch x := v.(type) {
	case bool:
		return sp.pad(strconv.FormatBool(x), false), nil
	case string:
		s := x
		if sp.HasPrec && sp.Precision < len(s) {
			s = s[:sp.Precision]
		}
		return sp.pad(s, false), nil
	case int64:
		return sp.renderInt(x)
	case uint64:
		return sp.renderUint(x)
	case float64:
		return sp.renderFloat(x)
	case rune:
		return sp.pad(string(x), false), nil
	default:
		return sp.pad(fmt.Sprint(v), false), nil
	}
}

func (sp Spec) renderInt(v int64) (string, error) {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-v)
	}
	digits, err := sp.uintDigits(u)
	if err != nil {
		return "", err
	}
	sign := ""
	switch {
	case neg:
		sign = "-"
	case sp.Sign == '+':
		sign = "+"
	case sp.Sign == ' ':
		sign = " "
	}
	return sp.padNumber(sign, digits), nil
}

func (sp Spec) renderUint(v uint64) (string, error) {
	digits, err := sp.uintDigits(v)
	if err != nil {
		return "", err
	}
	sign := ""
	switch sp.Sign {
	case '+':
		sign = "+"
	case ' ':
		sign = " "
	}
	return sp.padNumber(sign, digits), nil
}

// uintDigits renders v's digits (with any alternate-form prefix) without
// sign or padding; renderInt/renderUint apply those afterwards so the sign
// sits outside zero padding.
func (sp Spec) uintDigits(v uint64) (string, error) {
	base := 10
	prefix := ""
	switch sp.Type {
	case 0, 'd':
		base = 10
	case 'b':
		base = 2
		if sp.Alternate {
			prefix = "0b"
		}
	case 'o':
		base = 8
		if sp.Alternate {
			prefix = "0o"
		}
	case 'x':
		base = 16
		if sp.Alternate {
			prefix = "0x"
		}
	case 'X':
		base = 16
		if sp.Alternate {
			prefix = "0X"
		}
	default:
		return "", fmt.Errorf("unsupported integer type %q: %w", sp.Type, errs.ErrFormatterFailure)
	}
	digits := strconv.FormatUint(v, base)
	if sp.Type == 'X' {
		digits = strings.ToUpper(digits)
	}
	return prefix + digits, nil
}

// padNumber applies zero padding (between the sign and the digits) or the
// generic fill/align padding to a signed digit string.
func (sp Spec) padNumber(sign, digits string) string {
	if sp.ZeroPad && sp.Align == AlignNone && sp.HasWidth {
		if n := sp.Width - len(sign) - len(digits); n > 0 {
			digits = strings.Repeat("0", n) + digits
		}
		return sign + digits
	}
	return sp.pad(sign+digits, true)
}

func (sp Spec) renderFloat(v float64) (string, error) {
	prec := -1
	if sp.HasPrec {
		prec = sp.Precision
	}
	var format byte = 'g'
	switch sp.Type {
	case 0:
		if sp.HasPrec {
			format = 'f'
		} else {
			format = 'g'
		}
	case 'f', 'F', 'e', 'E', 'g', 'G':
		format = sp.Type
	case '%':
		s := strconv.FormatFloat(v*100, 'f', maxInt(prec, 0), 64) + "%"
		return sp.pad(signPrefix(sp, v)+s, true), nil
	default:
		return "", fmt.Errorf("unsupported float type %q: %w", sp.Type, errs.ErrFormatterFailure)
	}
	s := strconv.FormatFloat(v, format, prec, 64)
	return sp.pad(signPrefix(sp, v)+s, true), nil
}

func signPrefix(sp Spec, v float64) string {
	if v >= 0 {
		switch sp.Sign {
		case '+':
			return "+"
		case ' ':
			return " "
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// QuoteString renders s the way the brace formatter quotes a string nested
// inside a list/map/tuple/set: wrapped in double quotes, with backslashes
// and embedded quotes escaped.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(s[i])
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}
