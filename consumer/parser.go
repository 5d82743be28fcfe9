package consumer

import (
	"fmt"
	"strings"

	"github.com/arfz/logwire/bracefmt"
	"github.com/arfz/logwire/errs"
	"github.com/arfz/logwire/internal/pool"
	"github.com/arfz/logwire/tmpl"
	"github.com/arfz/logwire/typeid"
	"github.com/arfz/logwire/wireio"
)

var errNoEndMarker = fmt.Errorf("parsed frame not followed by end marker: %w", errs.ErrInvalidTag)

// parser walks one frame's bytes (everything between Start_marker's tag
// byte and its End_marker) and renders it to text. It is built fresh for
// every frame attempt by Framer.Next; it never retains state afterward.
type parser struct {
	data  []byte
	pos   int
	cat   Catalog
	depth int
	max   int
}

func newParser(data []byte, cat Catalog, maxDepth int) *parser {
	return &parser{data: data, cat: cat, max: maxDepth}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.max {
		return errs.ErrDepthExceeded
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) byte() (byte, error) {
	if p.pos >= len(p.data) {
		return 0, errs.ErrTruncated
	}
	b := p.data[p.pos]
	p.pos++
	return b, nil
}

func (p *parser) take(n int) ([]byte, error) {
	if p.pos+n > len(p.data) {
		return nil, errs.ErrTruncated
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

// parseTopLevel parses the frame's template tag (Normal or CatalogedNormal
// only — a Sub tag at top level is a malformed frame) and its full
// argument series.
func (p *parser) parseTopLevel() (string, error) {
	tagByte, err := p.byte()
	if err != nil {
		return "", err
	}
	tag, err := typeid.ParseFmtStringTag(tagByte)
	if err != nil {
		return "", err
	}
	if tag.Type.SubTemplate() {
		return "", fmt.Errorf("top-level frame tagged sub-template: %w", errs.ErrNestingMismatch)
	}
	return p.parseFmtBody(tag)
}

// resolveTemplate decodes tag's template text: a length-prefixed inline
// body, or a catalog lookup by 16-bit id.
func (p *parser) resolveTemplate(tag typeid.FmtStringTag) (string, error) {
	if tag.Type.Cataloged() {
		idBytes, err := p.take(tag.Size.Bytes())
		if err != nil {
			return "", err
		}
		id, err := wireio.ReadRangeSize(idBytes, tag.Size)
		if err != nil {
			return "", err
		}
		if p.cat == nil {
			return "", fmt.Errorf("cataloged template id %d: %w", id, errs.ErrCatalogMiss)
		}
		text, ok := p.cat.Lookup(uint16(id))
		if !ok {
			return "", fmt.Errorf("cataloged template id %d: %w", id, errs.ErrCatalogMiss)
		}
		return text, nil
	}

	n, err := wireio.ReadRangeSize(p.data[p.pos:], tag.Size)
	if err != nil {
		return "", err
	}
	p.pos += tag.Size.Bytes()
	body, err := p.take(int(n))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// parseFmtBody resolves tag's template text and renders it, consuming one
// argument from the wire per replacement field, in order.
func (p *parser) parseFmtBody(tag typeid.FmtStringTag) (string, error) {
	if err := p.enter(); err != nil {
		return "", err
	}
	defer p.leave()

	text, err := p.resolveTemplate(tag)
	if err != nil {
		return "", err
	}
	if _, err := tmpl.CheckReplacementFieldCount(text); err != nil {
		return "", err
	}

	var out strings.Builder
	i := 0
	for i < len(text) {
		switch text[i] {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				out.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated replacement field: %w", errs.ErrInvalidTemplate)
			}
			field := text[i : i+end+1]
			rendered, err := p.parseArg(field, false, false)
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				out.WriteByte('}')
				i += 2
				continue
			}
			return "", fmt.Errorf("unmatched '}' in template: %w", errs.ErrInvalidTemplate)
		default:
			out.WriteByte(text[i])
			i++
		}
	}
	return out.String(), nil
}

// parseArg reads one tagged value from the wire and renders it against
// field (the full "{...}" replacement field text), dispatching on the
// value's tag family. inList/inMap carry container context so nested
// strings self-quote and nested arity-2 tuples know to render as "k: v".
func (p *parser) parseArg(field string, inList, inMap bool) (string, error) {
	if err := p.enter(); err != nil {
		return "", err
	}
	defer p.leave()

	tagByte, err := p.byte()
	if err != nil {
		return "", err
	}

	switch typeid.PeekFamily(tagByte) {
	case typeid.FamilyTrivial:
		return p.parseTrivial(tagByte, field)
	case typeid.FamilyTime:
		return p.parseTime(tagByte, field)
	case typeid.FamilyFmtString:
		return p.parseSubTemplate(tagByte, field)
	case typeid.FamilyRange:
		return p.parseRange(tagByte, field, inList, inMap)
	default:
		return "", errs.ErrInvalidTag
	}
}

// decodeTrivialValue reads width raw bytes already read into raw and
// returns the Go value bracefmt.Render expects for typ. Shared between a
// standalone trivial tag and a compact-layout range's per-element decode,
// which reads the (type, width) once from a shared leading tag.
func decodeTrivialValue(typ typeid.TrivialType, raw []byte, width int) (any, error) {
	switch typ {
	case typeid.Unsigned:
		u, err := wireio.ReadUnsigned(raw, width)
		return u, err
	case typeid.Signed:
		s, err := wireio.ReadSigned(raw, width)
		return s, err
	case typeid.Boolean:
		u, err := wireio.ReadUnsigned(raw, width)
		return u != 0, err
	case typeid.Character:
		u, err := wireio.ReadUnsigned(raw, width)
		return rune(u), err
	case typeid.Pointer:
		u, err := wireio.ReadUnsigned(raw, width)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("0x%x", u), nil
	case typeid.FloatingPoint:
		f, err := wireio.ReadFloat(raw, width)
		return f, err
	default:
		return nil, errs.ErrInvalidTag
	}
}

func (p *parser) parseTrivial(tagByte byte, field string) (string, error) {
	tag, err := typeid.ParseTrivialTag(tagByte)
	if err != nil {
		return "", err
	}
	width := tag.Size.Bytes()
	raw, err := p.take(width)
	if err != nil {
		return "", err
	}
	v, err := decodeTrivialValue(tag.Type, raw, width)
	if err != nil {
		return "", err
	}
	s, err := bracefmt.FormatField(innerSpec(field), v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrFormatterFailure, err)
	}
	return s, nil
}

func (p *parser) parseSubTemplate(tagByte byte, field string) (string, error) {
	if field != "{}" {
		return "", fmt.Errorf("sub-template under non-bare replacement field %q: %w", field, errs.ErrNestingMismatch)
	}
	tag, err := typeid.ParseFmtStringTag(tagByte)
	if err != nil {
		return "", err
	}
	if !tag.Type.SubTemplate() {
		return "", fmt.Errorf("nested fmt_string tag is not a sub-template: %w", errs.ErrNestingMismatch)
	}
	return p.parseFmtBody(tag)
}

// innerSpec extracts the portion between "{:" and "}" of field, or "" for
// a bare "{}".
func innerSpec(field string) string {
	if field == "{}" {
		return ""
	}
	return field[2 : len(field)-1]
}

// joined renders parts with sep, using a pooled scratch slice of strings
// just long enough to avoid a throwaway allocation per call.
func joined(parts []string, sep string) string {
	if len(parts) == 0 {
		return ""
	}
	scratch, cleanup := pool.GetStringSlice(len(parts))
	defer cleanup()
	copy(scratch, parts)
	return strings.Join(scratch, sep)
}
