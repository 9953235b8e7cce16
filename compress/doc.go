// Package compress provides the payload codecs used when reading EPT nodes.
//
// Two concerns share the same Codec interfaces:
//
//  1. Node payloads. The dataset "dataType" selects how a node file turns
//     into packed point records. ForDataType resolves it:
//     binary payloads pass through NoOp, zstandard payloads are zstd frames
//     decoded by Zstd, and laszip payloads need a caller-supplied decoder.
//  2. Cached payloads. A reader may keep fetched node files in memory,
//     compressed with the codec picked by CacheCodec.
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
// Decompressors that can write into a reusable buffer also implement
// AppendDecompressor; the reader uses it with pooled scratch buffers.
//
// # Supported Algorithms
//
//   - NoOp: pass-through
//   - Zstd: klauspost/compress zstd with pooled encoders and decoders
//   - S2: klauspost/compress s2 blocks
//   - LZ4: pierrec/lz4 blocks with a 4-byte size header
//
// Pick S2 or LZ4 for a cache that favors speed and Zstd for one that favors
// memory.
//
// # Thread Safety
//
// All codecs are stateless values and safe for concurrent use.
package compress
