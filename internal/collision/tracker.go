// Package collision assigns 16-bit catalog ids to literal text (format
// templates and interned string constants) and resolves hash collisions by
// linear probing over a dense id space.
package collision

import "github.com/arfz/logwire/errs"

// Tracker assigns a dense id space (0..65535) to literal text, keyed by a
// 64-bit hash of the text. It resolves collisions (two distinct literals
// hashing to the same starting id) by linear probing to the next free slot,
// and reports duplicate registrations of the identical literal.
type Tracker struct {
	ids          map[uint16]string // assigned id -> literal text
	textToID     map[string]uint16 // literal text -> assigned id, for dedup
	order        []string          // literals in assignment order
	hasCollision bool
}

// NewTracker creates an empty catalog id tracker.
func NewTracker() *Tracker {
	return &Tracker{
		ids:      make(map[uint16]string),
		textToID: make(map[string]uint16),
		order:    make([]string, 0),
	}
}

// Assign assigns text an id derived from hash, probing linearly past any id
// already occupied by different text. Re-registering the same text returns
// its previously assigned id and errs.ErrCatalogDuplicate; callers typically
// treat that as a no-op rather than a failure.
func (t *Tracker) Assign(text string, hash uint64) (uint16, error) {
	if id, ok := t.textToID[text]; ok {
		return id, errs.ErrCatalogDuplicate
	}

	start := uint16(hash)
	id := start
	collided := false
	for {
		_, occupied := t.ids[id]
		if !occupied {
			break
		}
		collided = true
		id++
		if id == start {
			return 0, errs.ErrCatalogExhausted
		}
	}

	if collided {
		t.hasCollision = true
	}
	t.ids[id] = text
	t.textToID[text] = id
	t.order = append(t.order, text)

	return id, nil
}

// HasCollision reports whether any Assign call needed to probe past its
// hash-derived starting id.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Count returns the number of distinct literals assigned so far.
func (t *Tracker) Count() int {
	return len(t.order)
}

// Entries returns a snapshot of the id -> text assignments.
func (t *Tracker) Entries() map[uint16]string {
	out := make(map[uint16]string, len(t.ids))
	for id, text := range t.ids {
		out[id] = text
	}

	return out
}

// Order returns literals in the order they were first assigned.
func (t *Tracker) Order() []string {
	return append([]string(nil), t.order...)
}

// Reset clears all assignments and the collision flag, preserving map
// capacity for reuse across a subsequent Build call.
func (t *Tracker) Reset() {
	for id := range t.ids {
		delete(t.ids, id)
	}
	for text := range t.textToID {
		delete(t.textToID, text)
	}
	t.order = t.order[:0]
	t.hasCollision = false
}
