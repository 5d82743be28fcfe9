package wireio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arfz/logwire/errs"
	"github.com/arfz/logwire/typeid"
	"github.com/arfz/logwire/wireio"
)

func TestUnsignedRoundTrip(t *testing.T) {
	widths := []int{1, 2, 4, 8}
	values := []uint64{0, 1, 255, 256, 65535, 65536, 1 << 40}
	for _, w := range widths {
		for _, v := range values {
			buf := wireio.AppendUnsigned(nil, v&widthMask(w), w)
			got, err := wireio.ReadUnsigned(buf, w)
			require.NoError(t, err)
			require.Equal(t, v&widthMask(w), got)
		}
	}
}

func widthMask(w int) uint64 {
	if w >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << (8 * w)) - 1
}

func TestSignedRoundTrip(t *testing.T) {
	buf := wireio.AppendSigned(nil, -1, 1)
	v, err := wireio.ReadSigned(buf, 1)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v)

	buf = wireio.AppendSigned(nil, -12345, 4)
	v, err = wireio.ReadSigned(buf, 4)
	require.NoError(t, err)
	require.Equal(t, int64(-12345), v)
}

func TestFloatRoundTrip(t *testing.T) {
	buf := wireio.AppendFloat32(nil, 3.5)
	v, err := wireio.ReadFloat(buf, 4)
	require.NoError(t, err)
	require.InDelta(t, 3.5, v, 0.0001)

	buf = wireio.AppendFloat64(nil, -2.25)
	v, err = wireio.ReadFloat(buf, 8)
	require.NoError(t, err)
	require.InDelta(t, -2.25, v, 0.0001)
}

func TestReadTruncated(t *testing.T) {
	_, err := wireio.ReadUnsigned([]byte{1, 2}, 4)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestRangeSizeRoundTrip(t *testing.T) {
	buf := wireio.AppendRangeSize(nil, 300, typeid.RangeSize2)
	v, err := wireio.ReadRangeSize(buf, typeid.RangeSize2)
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)
}
