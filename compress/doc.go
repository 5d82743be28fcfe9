// Package compress provides compression and decompression codecs for the
// catalog sidecar file: the JSON mapping of 16-bit catalog ids to
// template/string literal text that catalog.Save writes and catalog.Load reads.
//
// This is storage-layer compression for that sidecar file, not part of the
// wire frame, since the wire codec is always uncompressed. Compression and
// encoding are a single stage here, since there is nothing upstream to
// encode before compressing.
//
// # Supported algorithms
//
//   - None: no compression, useful for debugging a sidecar by eye
//   - Zstd: best ratio, moderate speed — suited to archived sidecars
//   - S2: balanced ratio/speed
//   - LZ4: fastest decompression, used when sidecars are reloaded often
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// GetCodec selects an implementation by format.CompressionType;
// catalog.Save and catalog.Load use it to round-trip a sidecar written with a given
// algorithm.
package compress
