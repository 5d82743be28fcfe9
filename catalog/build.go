// Package catalog implements the 16-bit id <-> literal text mapping the
// wire codec treats as an external collaborator: the codec itself only
// borrows a read-only lookup for the lifetime of a parse call. This package
// supplies both halves a host needs to produce that mapping — Builder.Register
// assigns ids to literal text producer-side, Save and Load persist the table
// as a Sidecar, and Sidecar.Lookup resolves ids consumer-side, one path
// producing the table and a separate path consulting it read-only.
package catalog

import (
	"errors"
	"fmt"

	"github.com/arfz/logwire/errs"
	"github.com/arfz/logwire/internal/collision"
	"github.com/arfz/logwire/internal/hash"
	"github.com/arfz/logwire/tmpl"
)

// Builder assigns 16-bit catalog ids to format templates and interned
// string constants. It implements producer.CatalogIndex, so an Encoder
// can be configured with producer.WithCatalog(builder) directly while the
// builder is still accumulating entries — there is no build/freeze split,
// and callers that log before all literals are known (e.g. a long-running
// process discovering new templates at runtime) are free to keep assigning.
type Builder struct {
	tracker *collision.Tracker
	byText  map[string]uint16
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{tracker: collision.NewTracker(), byText: make(map[string]uint16)}
}

// Register assigns text an id, deriving the starting slot from its xxHash64
// and resolving collisions by linear probing. Registering the same text
// twice is a no-op: it returns the previously assigned id and a nil error.
// text must already satisfy tmpl.AllCharsValid; Register does not validate
// brace balance (templates and plain string constants share this table).
func (b *Builder) Register(text string) (uint16, error) {
	if !tmpl.AllCharsValid(text) {
		return 0, fmt.Errorf("catalog: literal %q: %w", text, errs.ErrInvalidTemplate)
	}
	id, err := b.tracker.Assign(text, hash.ID(text))
	if err != nil && !errors.Is(err, errs.ErrCatalogDuplicate) {
		return id, err
	}
	b.byText[text] = id
	return id, nil
}

// ID implements producer.CatalogIndex: it returns the id text was assigned,
// if any, without assigning a new one. Callers that want auto-registration
// on first use should call Register instead of configuring the producer
// directly with a Builder that hasn't seen the literal yet.
func (b *Builder) ID(text string) (uint16, bool) {
	id, ok := b.byText[text]
	return id, ok
}

// HasCollision reports whether any Register call needed to probe past its
// hash-derived starting slot, which a host may want to log at startup —
// collisions are harmless (ids are still unique and stable within one
// Builder's lifetime) but worth knowing about when diagnosing catalog drift
// between producer and consumer builds.
func (b *Builder) HasCollision() bool {
	return b.tracker.HasCollision()
}

// Count returns the number of distinct literals registered so far.
func (b *Builder) Count() int {
	return b.tracker.Count()
}

// Build returns a Sidecar snapshot of every literal registered so far,
// suitable for JSON serialization via Save or direct use as a
// consumer.Catalog via Sidecar.Lookup.
func (b *Builder) Build() *Sidecar {
	return &Sidecar{entries: b.tracker.Entries()}
}
