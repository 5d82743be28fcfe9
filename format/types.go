// Package format carries the small enums shared by the catalog sidecar's
// storage layer: which compression codec (if any) was used to write it.
package format

// CompressionType selects the codec used to compress a catalog sidecar
// file on disk. It never appears on the wire frame itself, since the wire
// codec is always uncompressed; it is purely a catalog/store.go storage
// detail.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
