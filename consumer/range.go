package consumer

import (
	"fmt"

	"github.com/arfz/logwire/bracefmt"
	"github.com/arfz/logwire/errs"
	"github.com/arfz/logwire/tmpl"
	"github.com/arfz/logwire/typeid"
	"github.com/arfz/logwire/wireio"
)

func (p *parser) readRangeSize(size typeid.RangeSize) (uint64, error) {
	raw, err := p.take(size.Bytes())
	if err != nil {
		return 0, err
	}
	return wireio.ReadRangeSize(raw, size)
}

func (p *parser) parseRange(tagByte byte, field string, inList, inMap bool) (string, error) {
	tag, err := typeid.ParseRangeTag(tagByte)
	if err != nil {
		return "", err
	}

	switch tag.Type {
	case typeid.String:
		return p.parseStringLiteral(tag, field, inList)
	case typeid.CatalogedString:
		return p.parseCatalogedStringLiteral(tag, field, inList)
	case typeid.List:
		return p.parseContainer(tag, field, "[", "]", false)
	case typeid.Set:
		return p.parseContainer(tag, field, "{", "}", false)
	case typeid.Map:
		return p.parseContainer(tag, field, "{", "}", true)
	case typeid.Tuple:
		return p.parseTuple(tag, field, inMap)
	case typeid.ExtendedTypeIdentifier:
		return p.parseExtended(tag, field, inList, inMap)
	default:
		return "", errs.ErrInvalidTag
	}
}

func (p *parser) renderStringLike(s string, field string, inList bool) (string, error) {
	if inList {
		s = bracefmt.QuoteString(s)
	}
	out, err := bracefmt.FormatField(innerSpec(field), s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrFormatterFailure, err)
	}
	return out, nil
}

func (p *parser) parseStringLiteral(tag typeid.RangeTag, field string, inList bool) (string, error) {
	n, err := p.readRangeSize(tag.Size)
	if err != nil {
		return "", err
	}
	body, err := p.take(int(n))
	if err != nil {
		return "", err
	}
	return p.renderStringLike(string(body), field, inList)
}

func (p *parser) parseCatalogedStringLiteral(tag typeid.RangeTag, field string, inList bool) (string, error) {
	id, err := p.readRangeSize(tag.Size)
	if err != nil {
		return "", err
	}
	if p.cat == nil {
		return "", fmt.Errorf("cataloged string id %d: %w", id, errs.ErrCatalogMiss)
	}
	text, ok := p.cat.Lookup(uint16(id))
	if !ok {
		return "", fmt.Errorf("cataloged string id %d: %w", id, errs.ErrCatalogMiss)
	}
	return p.renderStringLike(text, field, inList)
}

// parseContainer renders a list/set/map: open+close bracket the joined,
// comma-separated element text unless the range spec's 'n' flag omits
// them. forceMap makes every element render as an arity-2 tuple's "k: v"
// pair regardless of whether the range spec itself carries flag 'm'
// (true for RangeType Map, false for List/Set).
func (p *parser) parseContainer(tag typeid.RangeTag, field string, open, closeBr string, forceMap bool) (string, error) {
	rangeSpec, childSpec := tmpl.Fix(field)
	flags := tmpl.ParseRangeSpecFlags(rangeSpec)
	isMap := forceMap || flags.AsMap

	n, err := p.readRangeSize(tag.Size)
	if err != nil {
		return "", err
	}

	parts := make([]string, n)
	if tag.Layout == typeid.Compact {
		trivTagByte, err := p.byte()
		if err != nil {
			return "", err
		}
		trivTag, err := typeid.ParseTrivialTag(trivTagByte)
		if err != nil {
			return "", err
		}
		width := trivTag.Size.Bytes()
		inner := innerSpec(childSpec)
		for i := range parts {
			raw, err := p.take(width)
			if err != nil {
				return "", err
			}
			v, err := decodeTrivialValue(trivTag.Type, raw, width)
			if err != nil {
				return "", err
			}
			s, err := bracefmt.FormatField(inner, v)
			if err != nil {
				return "", fmt.Errorf("%w: %v", errs.ErrFormatterFailure, err)
			}
			parts[i] = s
		}
	} else {
		for i := range parts {
			s, err := p.parseArg(childSpec, true, isMap)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
	}

	body := joined(parts, ", ")
	if flags.OmitOuter {
		return body, nil
	}
	return open + body + closeBr, nil
}

// parseTuple renders a fixed-arity, heterogeneous record. A tuple renders
// as "k: v" rather than "(a, b, ...)" when its own range spec carries flag
// 'm', or when the caller is itself rendering a map — either way the
// tuple's arity must be exactly 2.
func (p *parser) parseTuple(tag typeid.RangeTag, field string, callerInMap bool) (string, error) {
	if tag.Layout != typeid.OnTiEach {
		return "", fmt.Errorf("tuple with compact layout: %w", errs.ErrNestingMismatch)
	}
	rangeSpec, childSpec := tmpl.Fix(field)
	flags := tmpl.ParseRangeSpecFlags(rangeSpec)
	isMapStyle := flags.AsMap || callerInMap

	n, err := p.readRangeSize(tag.Size)
	if err != nil {
		return "", err
	}
	if isMapStyle && n != 2 {
		return "", fmt.Errorf("tuple rendered as map entry has arity %d, want 2: %w", n, errs.ErrNestingMismatch)
	}

	parts := make([]string, n)
	for i := range parts {
		s, err := p.parseArg(childSpec, true, false)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}

	if isMapStyle {
		return parts[0] + ": " + parts[1], nil
	}
	body := joined(parts, ", ")
	if flags.OmitOuter {
		return body, nil
	}
	return "(" + body + ")", nil
}

func (p *parser) parseExtended(tag typeid.RangeTag, field string, inList, inMap bool) (string, error) {
	codeVal, err := p.readRangeSize(tag.Size)
	if err != nil {
		return "", err
	}
	code, err := typeid.ParseExtendedType(uint16(codeVal))
	if err != nil {
		return "", err
	}

	switch code {
	case typeid.Optional:
		flag, err := p.byte()
		if err != nil {
			return "", err
		}
		switch flag {
		case 0:
			return "()", nil
		case 1:
			return p.parseArg(field, inList, inMap)
		default:
			return "", fmt.Errorf("optional flag byte %d: %w", flag, errs.ErrInvalidTag)
		}
	case typeid.Styled:
		return p.parseStyled(field, inList, inMap)
	default:
		return "", errs.ErrInvalidTag
	}
}
