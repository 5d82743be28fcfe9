package consumer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arfz/logwire/consumer"
	"github.com/arfz/logwire/errs"
	"github.com/arfz/logwire/producer"
	"github.com/arfz/logwire/typeid"
)

// encodeFrame builds one complete frame's bytes the same way a real
// producer.Encoder would, for tests that need a known-good frame to mutate
// or surround with noise.
func encodeFrame(t *testing.T, template string, args ...producer.Arg) []byte {
	t.Helper()
	enc, err := producer.NewEncoder()
	require.NoError(t, err)
	sink := producer.NewBufferSink()
	require.NoError(t, enc.Print(sink, template, args...))
	return append([]byte(nil), sink.Bytes()...)
}

func TestFramer_LoneStartMarker(t *testing.T) {
	f, err := consumer.NewFramer()
	require.NoError(t, err)

	data := []byte{consumer.StartMarker}
	msg, ok, remaining, discarded := f.Next(data)
	require.False(t, ok)
	require.Empty(t, msg)
	require.Equal(t, data, remaining)
	require.Zero(t, discarded)
}

func TestFramer_NoCompleteFrameYet(t *testing.T) {
	f, err := consumer.NewFramer()
	require.NoError(t, err)

	frame := encodeFrame(t, "{}", producer.Int(1))
	// Drop the End_marker and everything after it so no complete frame has
	// arrived yet.
	incomplete := frame[:len(frame)-1]

	_, ok, remaining, discarded := f.Next(incomplete)
	require.False(t, ok)
	require.Equal(t, incomplete, remaining)
	require.Zero(t, discarded)
}

func TestFramer_SkipsLeadingNoise(t *testing.T) {
	f, err := consumer.NewFramer()
	require.NoError(t, err)

	frame := encodeFrame(t, "hello {}", producer.Int(42))
	noise := []byte{0x00, 0xFF, 0x12}
	data := append(append([]byte(nil), noise...), frame...)

	msg, ok, remaining, discarded := f.Next(data)
	require.True(t, ok)
	require.Equal(t, "hello 42", msg)
	require.Empty(t, remaining)
	require.Equal(t, len(noise), discarded)
}

// TestFramer_SkipsSpuriousStartMarker checks the noise-tolerance property
// that a stray Start_marker byte not followed by a plausible fmt_string tag
// does not itself desynchronize framing: it is discarded like any other
// noise byte, and the real frame right after it still decodes.
func TestFramer_SkipsSpuriousStartMarker(t *testing.T) {
	f, err := consumer.NewFramer()
	require.NoError(t, err)

	frame := encodeFrame(t, "{}", producer.Int(7))
	// 0x00 has family trivial, not fmt_string, so this is not a plausible
	// tag and the Start_marker before it is noise.
	noise := []byte{consumer.StartMarker, 0x00}
	data := append(append([]byte(nil), noise...), frame...)

	msg, ok, remaining, discarded := f.Next(data)
	require.True(t, ok)
	require.Equal(t, "7", msg)
	require.Empty(t, remaining)
	require.Equal(t, len(noise), discarded)
}

func TestFramer_ReportsTruncatedBody(t *testing.T) {
	var reported error
	f, err := consumer.NewFramer(consumer.WithErrorSink(func(e error) { reported = e }))
	require.NoError(t, err)

	// A top-level Normal tag (RangeSize1), a template length of 5, an
	// End_marker present so the framer believes a frame might be complete,
	// but no template bytes at all in between.
	tag := typeid.FmtStringTag{Size: typeid.RangeSize1, Type: typeid.Normal}.Pack()
	data := []byte{consumer.StartMarker, tag, 5, consumer.EndMarker}

	msg, ok, remaining, discarded := f.Next(data)
	require.False(t, ok)
	require.Empty(t, msg)
	require.Equal(t, data, remaining)
	require.Zero(t, discarded)
	require.ErrorIs(t, reported, errs.ErrTruncated)
}

func TestFramer_ReportsInvalidArgumentTag(t *testing.T) {
	var reported error
	f, err := consumer.NewFramer(consumer.WithErrorSink(func(e error) { reported = e }))
	require.NoError(t, err)

	tag := typeid.FmtStringTag{Size: typeid.RangeSize1, Type: typeid.Normal}.Pack()
	// Template "{}" (length 2), then a trivial tag byte with an
	// out-of-range TrivialType (3 bits, value 7 is unassigned), then an
	// End_marker so the framer attempts to parse it.
	badArgTag := byte(0x70)
	data := []byte{consumer.StartMarker, tag, 2, '{', '}', badArgTag, consumer.EndMarker}

	msg, ok, remaining, discarded := f.Next(data)
	require.False(t, ok)
	require.Empty(t, msg)
	require.Equal(t, data, remaining)
	require.Zero(t, discarded)
	require.ErrorIs(t, reported, errs.ErrInvalidTag)
}

func TestFramer_ReportsMissingEndMarker(t *testing.T) {
	var reported error
	f, err := consumer.NewFramer(consumer.WithErrorSink(func(e error) { reported = e }))
	require.NoError(t, err)

	tag := typeid.FmtStringTag{Size: typeid.RangeSize1, Type: typeid.Normal}.Pack()
	trivialTag := typeid.TrivialTag{Size: typeid.Size1, Type: typeid.Signed}.Pack()
	// A well-formed "{}" + one-byte signed argument, but an extra stray
	// byte sits where the End_marker should be. An End_marker byte does
	// exist later in the buffer, so the presence scan finds one and the
	// framer attempts a parse that then lands on the wrong byte.
	data := []byte{consumer.StartMarker, tag, 2, '{', '}', trivialTag, 1, 0x00, consumer.EndMarker}

	_, ok, remaining, discarded := f.Next(data)
	require.False(t, ok)
	require.Equal(t, data, remaining)
	require.Zero(t, discarded)
	require.ErrorIs(t, reported, errs.ErrInvalidTag)
}

// mapCatalog and funcCatalog are two independent consumer.Catalog
// implementations; a frame cataloged against the same entries must render
// identically regardless of which one resolves it.
type mapCatalog map[uint16]string

func (c mapCatalog) Lookup(id uint16) (string, bool) {
	text, ok := c[id]
	return text, ok
}

type funcCatalog func(uint16) (string, bool)

func (c funcCatalog) Lookup(id uint16) (string, bool) { return c(id) }

type dualIndex map[string]uint16

func (d dualIndex) ID(text string) (uint16, bool) {
	id, ok := d[text]
	return id, ok
}

func TestFramer_CatalogSubstitutability(t *testing.T) {
	idx := dualIndex{"order {} shipped": 10}

	enc, err := producer.NewEncoder(producer.WithCatalog(idx))
	require.NoError(t, err)
	sink := producer.NewBufferSink()
	require.NoError(t, enc.Print(sink, "order {} shipped", producer.Int(5)))
	frame := sink.Bytes()

	mc := mapCatalog{10: "order {} shipped"}
	f1, err := consumer.NewFramer(consumer.WithCatalog(mc))
	require.NoError(t, err)
	msg1, ok, _, _ := f1.Next(frame)
	require.True(t, ok)

	fc := funcCatalog(func(id uint16) (string, bool) {
		if id == 10 {
			return "order {} shipped", true
		}
		return "", false
	})
	f2, err := consumer.NewFramer(consumer.WithCatalog(fc))
	require.NoError(t, err)
	msg2, ok, _, _ := f2.Next(frame)
	require.True(t, ok)

	require.Equal(t, msg1, msg2)
	require.Equal(t, "order 5 shipped", msg1)
}

func TestFramer_CatalogMissWithoutConfiguredCatalog(t *testing.T) {
	var reported error
	f, err := consumer.NewFramer(consumer.WithErrorSink(func(e error) { reported = e }))
	require.NoError(t, err)

	idx := dualIndex{"login {} failed": 3}
	enc, err := producer.NewEncoder(producer.WithCatalog(idx))
	require.NoError(t, err)
	sink := producer.NewBufferSink()
	require.NoError(t, enc.Print(sink, "login {} failed", producer.Int(1)))

	_, ok, _, _ := f.Next(sink.Bytes())
	require.False(t, ok)
	require.ErrorIs(t, reported, errs.ErrCatalogMiss)
}

func TestFramer_DepthExceeded(t *testing.T) {
	var reported error
	f, err := consumer.NewFramer(
		consumer.WithMaxDepth(2),
		consumer.WithErrorSink(func(e error) { reported = e }),
	)
	require.NoError(t, err)

	// Three levels of sub-template nesting. Depth counts every template body
	// and every argument, so the mid template's body is already level 3,
	// past the configured max depth of 2.
	nested := producer.SubTemplate("mid {}", producer.SubTemplate("inner {}", producer.Int(1)))
	frame := encodeFrame(t, "outer {}", nested)

	_, ok, _, _ := f.Next(frame)
	require.False(t, ok)
	require.True(t, errors.Is(reported, errs.ErrDepthExceeded))
}
