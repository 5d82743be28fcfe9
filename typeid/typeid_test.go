package typeid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arfz/logwire/typeid"
)

func TestTrivialTagRoundTrip(t *testing.T) {
	cases := []typeid.TrivialTag{
		{Size: typeid.Size1, Type: typeid.Unsigned},
		{Size: typeid.Size2, Type: typeid.Signed},
		{Size: typeid.Size4, Type: typeid.Boolean},
		{Size: typeid.Size8, Type: typeid.Character},
		{Size: typeid.Size8, Type: typeid.Pointer},
		{Size: typeid.Size4, Type: typeid.FloatingPoint},
	}
	for _, tc := range cases {
		b := tc.Pack()
		got, err := typeid.ParseTrivialTag(b)
		require.NoError(t, err)
		require.Equal(t, tc, got)
	}
}

func TestTrivialTagRejectsReservedBits(t *testing.T) {
	base := typeid.TrivialTag{Size: typeid.Size1, Type: typeid.Unsigned}.Pack()
	// bit 7 is reserved and must be zero.
	bad := base | 0x80
	_, err := typeid.ParseTrivialTag(bad)
	require.Error(t, err)
}

func TestTrivialTagRejectsOutOfRangeType(t *testing.T) {
	// TrivialType values 6 and 7 are out of range (max is FloatingPoint=5).
	b := byte(typeid.FamilyTrivial) | 6<<4
	_, err := typeid.ParseTrivialTag(b)
	require.Error(t, err)
}

func TestRangeTagRoundTrip(t *testing.T) {
	cases := []typeid.RangeTag{
		{Size: typeid.RangeSize1, Type: typeid.List, Layout: typeid.Compact},
		{Size: typeid.RangeSize2, Type: typeid.Map, Layout: typeid.OnTiEach},
		{Size: typeid.RangeSize1, Type: typeid.Tuple, Layout: typeid.OnTiEach},
		{Size: typeid.RangeSize2, Type: typeid.ExtendedTypeIdentifier, Layout: typeid.Compact},
	}
	for _, tc := range cases {
		b := tc.Pack()
		got, err := typeid.ParseRangeTag(b)
		require.NoError(t, err)
		require.Equal(t, tc, got)
	}
}

func TestRangeTagRejectsReservedBit3(t *testing.T) {
	base := typeid.RangeTag{Size: typeid.RangeSize1, Type: typeid.List, Layout: typeid.Compact}.Pack()
	bad := base | 0x08 // bit 3 reserved
	_, err := typeid.ParseRangeTag(bad)
	require.Error(t, err)
}

func TestRangeTagRejectsOutOfRangeType(t *testing.T) {
	b := byte(typeid.FamilyRange) | 7<<4 // RangeType 7 is out of range
	_, err := typeid.ParseRangeTag(b)
	require.Error(t, err)
}

func TestTimeTagRoundTrip(t *testing.T) {
	cases := []typeid.TimeTag{
		{NumSize: typeid.Size1, DenSize: typeid.Size1, CountSize: typeid.TimeSize4, Type: typeid.Duration},
		{NumSize: typeid.Size4, DenSize: typeid.Size8, CountSize: typeid.TimeSize8, Type: typeid.TimePoint},
	}
	for _, tc := range cases {
		b := tc.Pack()
		got, err := typeid.ParseTimeTag(b)
		require.NoError(t, err)
		require.Equal(t, tc, got)
	}
}

func TestFmtStringTagRoundTrip(t *testing.T) {
	cases := []typeid.FmtStringTag{
		{Size: typeid.RangeSize1, Type: typeid.Sub},
		{Size: typeid.RangeSize2, Type: typeid.Normal},
		{Size: typeid.RangeSize1, Type: typeid.CatalogedSub},
		{Size: typeid.RangeSize2, Type: typeid.CatalogedNormal},
	}
	for _, tc := range cases {
		b := tc.Pack()
		got, err := typeid.ParseFmtStringTag(b)
		require.NoError(t, err)
		require.Equal(t, tc, got)
	}
}

func TestFmtStringTagRejectsReservedBits(t *testing.T) {
	base := typeid.FmtStringTag{Size: typeid.RangeSize1, Type: typeid.Normal}.Pack()
	require.Error(t, checkErr(base|0x08)) // bit 3 reserved
	require.Error(t, checkErr(base|0x40)) // bit 6 reserved
	require.Error(t, checkErr(base|0x80)) // bit 7 reserved
}

func checkErr(b byte) error {
	_, err := typeid.ParseFmtStringTag(b)
	return err
}

func TestIsNormalFmtStringTag(t *testing.T) {
	normal := typeid.FmtStringTag{Size: typeid.RangeSize1, Type: typeid.Normal}.Pack()
	catalogedNormal := typeid.FmtStringTag{Size: typeid.RangeSize2, Type: typeid.CatalogedNormal}.Pack()
	sub := typeid.FmtStringTag{Size: typeid.RangeSize1, Type: typeid.Sub}.Pack()

	require.True(t, typeid.IsNormalFmtStringTag(normal))
	require.True(t, typeid.IsNormalFmtStringTag(catalogedNormal))
	require.False(t, typeid.IsNormalFmtStringTag(sub))
	require.False(t, typeid.IsNormalFmtStringTag(0x55)) // Start marker is never a valid fmt_string tag
}

func TestSizeForUnsigned(t *testing.T) {
	require.Equal(t, typeid.Size1, typeid.SizeForUnsigned(0))
	require.Equal(t, typeid.Size1, typeid.SizeForUnsigned(255))
	require.Equal(t, typeid.Size2, typeid.SizeForUnsigned(256))
	require.Equal(t, typeid.Size2, typeid.SizeForUnsigned(65535))
	require.Equal(t, typeid.Size4, typeid.SizeForUnsigned(65536))
	require.Equal(t, typeid.Size8, typeid.SizeForUnsigned(1<<32))
}

func TestSizeForLength(t *testing.T) {
	require.Equal(t, typeid.RangeSize1, typeid.SizeForLength(0))
	require.Equal(t, typeid.RangeSize1, typeid.SizeForLength(255))
	require.Equal(t, typeid.RangeSize2, typeid.SizeForLength(256))
}

func TestSizeForCount(t *testing.T) {
	require.Equal(t, typeid.TimeSize4, typeid.SizeForCount(0))
	require.Equal(t, typeid.TimeSize4, typeid.SizeForCount(1<<31-1))
	require.Equal(t, typeid.TimeSize8, typeid.SizeForCount(1<<31))
	require.Equal(t, typeid.TimeSize8, typeid.SizeForCount(-(1 << 31) - 1))
}

func TestParseExtendedType(t *testing.T) {
	styled, err := typeid.ParseExtendedType(0)
	require.NoError(t, err)
	require.Equal(t, typeid.Styled, styled)

	optional, err := typeid.ParseExtendedType(1)
	require.NoError(t, err)
	require.Equal(t, typeid.Optional, optional)

	_, err = typeid.ParseExtendedType(2)
	require.Error(t, err)
}
