package producer

import (
	"fmt"

	"github.com/arfz/logwire/errs"
	"github.com/arfz/logwire/tmpl"
	"github.com/arfz/logwire/typeid"
)

type subTemplateArg struct {
	template string
	args     []Arg
}

func (subTemplateArg) kind() argKind { return kindSubTemplate }

func (a subTemplateArg) encode(e *Encoder) error {
	if err := tmpl.ValidateTemplate(a.template, len(a.args)); err != nil {
		return err
	}

	if e.catalog != nil {
		id, ok := e.catalog.ID(a.template)
		if !ok {
			return fmt.Errorf("sub-template %q: %w", a.template, errs.ErrCatalogMiss)
		}
		e.writeFmtStringTag(typeid.RangeSize2, typeid.CatalogedSub)
		e.appendUnsignedWidth(uint64(id), 2)
	} else {
		e.writeFmtStringTag(typeid.SizeForLength(len(a.template)), typeid.Sub)
		e.writeLengthPrefixedBody([]byte(a.template))
	}

	for _, arg := range a.args {
		if err := arg.encode(e); err != nil {
			return err
		}
	}
	return nil
}

// SubTemplate encodes a nested formatted message as one argument: the
// replacement field it fills must be exactly "{}", and the consumer
// renders it by recursively running its own template/argument interleave
// and splicing the result in place.
func SubTemplate(template string, args ...Arg) Arg {
	return subTemplateArg{template: template, args: args}
}
