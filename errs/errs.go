// Package errs collects the sentinel errors returned by logwire's producer,
// consumer, and catalog packages.
//
// Every error here corresponds to one of the error kinds in the wire format
// design: truncated buffers, malformed tag bytes, catalog misses, invalid
// templates, invalid styled-text bit combinations, invalid time values,
// nesting mismatches, and formatter rejections. Callers should compare
// against these with errors.Is, never by string.
package errs

import "errors"

var (
	// ErrTruncated indicates fewer bytes remained than the tag byte demanded.
	ErrTruncated = errors.New("logwire: truncated buffer")

	// ErrInvalidTag indicates a tag byte with reserved bits set, an
	// out-of-range enum value, or a byte that does not re-pack bit-exact.
	ErrInvalidTag = errors.New("logwire: invalid tag byte")

	// ErrInvalidTypeIdentifier indicates the low two bits of a tag byte did
	// not match the type family the caller expected.
	ErrInvalidTypeIdentifier = errors.New("logwire: unexpected type identifier")

	// ErrCatalogMiss indicates a cataloged template or string id was not
	// found in the supplied catalog.
	ErrCatalogMiss = errors.New("logwire: catalog id not found")

	// ErrInvalidTemplate indicates brace imbalance, an invalid character, or
	// a replacement-field-count mismatch in a template.
	ErrInvalidTemplate = errors.New("logwire: invalid template")

	// ErrStyleInvalid indicates a styled-text set byte with reserved bits
	// set, mutually exclusive color bits, or a bad emphasis byte.
	ErrStyleInvalid = errors.New("logwire: invalid styled value")

	// ErrTimeInvalid indicates a time value with a zero numerator or
	// denominator.
	ErrTimeInvalid = errors.New("logwire: invalid time value")

	// ErrNestingMismatch indicates a sub-template used with a non-"{}"
	// replacement field, a tuple carrying flag 'm' with arity != 2, or a
	// range layout incompatible with its range kind.
	ErrNestingMismatch = errors.New("logwire: nesting mismatch")

	// ErrFormatterFailure indicates the brace formatter rejected a
	// replacement field/value combination.
	ErrFormatterFailure = errors.New("logwire: formatter rejected value")

	// ErrSinkFailed indicates a producer sink hook returned an error.
	ErrSinkFailed = errors.New("logwire: sink failed")

	// ErrDepthExceeded indicates the parser's explicit recursion-depth guard
	// tripped before the frame's own bytes ran out.
	ErrDepthExceeded = errors.New("logwire: nesting depth exceeded")

	// ErrCatalogDuplicate indicates the catalog id tracker behind
	// catalog.Builder.Register was asked to assign an id
	// to literal text it has already assigned one to.
	ErrCatalogDuplicate = errors.New("logwire: literal already in catalog")

	// ErrCatalogExhausted indicates every id in the 16-bit space is already
	// occupied by other literal text; catalog.Builder.Register cannot assign
	// a new one.
	ErrCatalogExhausted = errors.New("logwire: catalog id space exhausted")
)
