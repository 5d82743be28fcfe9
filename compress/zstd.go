package compress

// ZstdCompressor provides Zstandard compression optimized for catalog sidecars.
//
// This compressor is designed for scenarios where compression ratio is more important
// than compression speed, making it ideal for:
//   - Archival of catalog sidecars alongside long-retention log frames
//   - Network transmission where bandwidth is limited
//   - Scenarios where decompression happens infrequently (a sidecar is loaded
//     once at process startup)
//
// Performance characteristics:
//   - Compression: ~5-20 ns/byte (depending on compression level)
//   - Decompression: ~2-5 ns/byte
//   - Compression ratio: 5:1 to 20:1 for text-heavy id->literal maps
//   - Memory usage: Moderate (encoders/decoders are reused through a sync.Pool)
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
