// Package tmpl implements the brace-template validation and splitting
// rules shared by the producer (which validates templates before encoding
// them) and the consumer (which interleaves literal runs with replacement
// fields while rendering).
package tmpl

import (
	"fmt"
	"strings"

	"github.com/arfz/logwire/errs"
)

// IsValidChar reports whether c is allowed in a template or string body:
// newline, or any printable ASCII character in [' ', '~'].
func IsValidChar(c byte) bool {
	return c == '\n' || (c >= ' ' && c <= '~')
}

// AllCharsValid reports whether every byte of s passes IsValidChar.
func AllCharsValid(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsValidChar(s[i]) {
			return false
		}
	}
	return true
}

// CheckReplacementFieldCount walks s, treating "{{" and "}}" as literal
// escapes, and counts balanced "{...}" replacement fields. It fails if a
// brace is ever unbalanced (an unmatched '{' or a stray '}').
func CheckReplacementFieldCount(s string) (int, error) {
	count := 0
	depth := 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				if depth != 0 {
					return 0, fmt.Errorf("escaped brace inside replacement field: %w", errs.ErrInvalidTemplate)
				}
				i += 2
				continue
			}
			if depth != 0 {
				return 0, fmt.Errorf("nested '{' in template: %w", errs.ErrInvalidTemplate)
			}
			depth++
			i++
		case '}':
			if depth == 0 && i+1 < len(s) && s[i+1] == '}' {
				i += 2
				continue
			}
			if depth == 0 {
				return 0, fmt.Errorf("unmatched '}' in template: %w", errs.ErrInvalidTemplate)
			}
			depth--
			count++
			i++
		default:
			if !IsValidChar(s[i]) {
				return 0, fmt.Errorf("invalid character 0x%02x in template: %w", s[i], errs.ErrInvalidTemplate)
			}
			i++
		}
	}
	if depth != 0 {
		return 0, fmt.Errorf("unterminated '{' in template: %w", errs.ErrInvalidTemplate)
	}
	return count, nil
}

// ValidateTemplate runs AllCharsValid and CheckReplacementFieldCount
// together and verifies the field count matches argCount.
func ValidateTemplate(s string, argCount int) error {
	count, err := CheckReplacementFieldCount(s)
	if err != nil {
		return err
	}
	if count != argCount {
		return fmt.Errorf("template has %d replacement fields, got %d arguments: %w", count, argCount, errs.ErrInvalidTemplate)
	}
	return nil
}

// Fix splits a replacement field into a range spec and a child spec, per
// the splitter used for list/map/set/tuple rendering:
//   - If field does not start with "{:", the range spec is "{}" and the
//     child spec is "{}".
//   - Otherwise find the second ':'; if absent, the whole field is the
//     range spec and the child spec is "{}".
//   - Otherwise split at the second ':': the range spec is
//     field[0:colon]+"}" and the child spec is "{"+field[colon:].
func Fix(field string) (rangeSpec string, childSpec string) {
	if !strings.HasPrefix(field, "{:") {
		return "{}", "{}"
	}
	second := strings.IndexByte(field[2:], ':')
	if second < 0 {
		return field, "{}"
	}
	colon := second + 2
	return field[:colon] + "}", "{" + field[colon:]
}

// RangeSpecFlags are the single-character flags recognized in a range
// spec: 'n' omits the outer brackets/parens, 'm' renders the range as
// key/value pairs.
type RangeSpecFlags struct {
	OmitOuter bool
	AsMap     bool
}

// ParseRangeSpecFlags scans spec for the 'n' and 'm' flag characters.
// Other characters are ignored here; they are passed through to the brace
// formatter unchanged.
func ParseRangeSpecFlags(spec string) RangeSpecFlags {
	var f RangeSpecFlags
	for i := 0; i < len(spec); i++ {
		switch spec[i] {
		case 'n':
			f.OmitOuter = true
		case 'm':
			f.AsMap = true
		}
	}
	return f
}
