package consumer

import (
	"fmt"
	"strconv"

	"github.com/arfz/logwire/bracefmt"
	"github.com/arfz/logwire/errs"
	"github.com/arfz/logwire/timeunit"
	"github.com/arfz/logwire/typeid"
	"github.com/arfz/logwire/wireio"
)

func (p *parser) parseTime(tagByte byte, field string) (string, error) {
	tag, err := typeid.ParseTimeTag(tagByte)
	if err != nil {
		return "", err
	}
	numRaw, err := p.take(tag.NumSize.Bytes())
	if err != nil {
		return "", err
	}
	num, err := wireio.ReadUnsigned(numRaw, tag.NumSize.Bytes())
	if err != nil {
		return "", err
	}
	denRaw, err := p.take(tag.DenSize.Bytes())
	if err != nil {
		return "", err
	}
	den, err := wireio.ReadUnsigned(denRaw, tag.DenSize.Bytes())
	if err != nil {
		return "", err
	}
	countRaw, err := p.take(tag.CountSize.Bytes())
	if err != nil {
		return "", err
	}
	count, err := wireio.ReadSigned(countRaw, tag.CountSize.Bytes())
	if err != nil {
		return "", err
	}
	if num == 0 || den == 0 {
		return "", errs.ErrTimeInvalid
	}
	return FormatTime(num, den, count, field)
}

// FormatTime renders a time value (num/den seconds per unit, count units)
// against a replacement field, following these chrono-ratio duration rules:
//
//  1. if (num, den) matches a standard ratio (timeunit.Standard), render
//     "<count><suffix>" (e.g. "5ms"), regardless of field.
//  2. else if field is "{}" or "{:%Q%q}", render "<count>[<num>]s" (den==1)
//     or "<count>[<num>/<den>]s".
//  3. else if field is "{:%Q}", render the count alone.
//  4. else if field is "{:%q}", render the bracketed unit alone, no count.
//  5. otherwise, convert to a double-valued seconds count and format that
//     through the replacement field's own spec.
func FormatTime(num, den uint64, count int64, field string) (string, error) {
	if ratio, ok := timeunit.Lookup(num, den); ok {
		return strconv.FormatInt(count, 10) + ratio.Suffix, nil
	}

	unit := bracketUnit(num, den)
	switch field {
	case "{}", "{:%Q%q}":
		return strconv.FormatInt(count, 10) + unit, nil
	case "{:%Q}":
		return strconv.FormatInt(count, 10), nil
	case "{:%q}":
		return unit, nil
	default:
		seconds := float64(count) * float64(num) / float64(den)
		s, err := bracefmt.FormatField(innerSpec(field), seconds)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errs.ErrFormatterFailure, err)
		}
		return s, nil
	}
}

func bracketUnit(num, den uint64) string {
	if den == 1 {
		return fmt.Sprintf("[%d]s", num)
	}
	return fmt.Sprintf("[%d/%d]s", num, den)
}
