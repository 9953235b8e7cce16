package compress

import (
	"fmt"
	"strings"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/format"
)

// Compressor compresses a whole payload.
//
// The returned slice is owned by the caller and the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a whole payload.
//
// Implementations must be safe for concurrent use: node payloads are decoded
// by several pool workers at once.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// AppendDecompressor is implemented by decompressors that can write into a
// caller-provided buffer. The result is appended to dst and returned.
type AppendDecompressor interface {
	DecompressAppend(dst, data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CacheKind selects the codec used to hold cached node payloads in memory.
type CacheKind string

const (
	CacheNone CacheKind = "none"
	CacheS2   CacheKind = "s2"
	CacheLZ4  CacheKind = "lz4"
	CacheZstd CacheKind = "zstd"
)

// ParseCacheKind parses a cache codec name, case-insensitively. An empty name
// selects CacheNone.
func ParseCacheKind(s string) (CacheKind, error) {
	switch k := CacheKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return CacheNone, nil
	case CacheNone, CacheS2, CacheLZ4, CacheZstd:
		return k, nil
	default:
		return "", fmt.Errorf("%w: cache codec %q", errs.ErrUnsupportedOperation, s)
	}
}

// CacheCodec returns the codec for a cache kind.
//
// Returns:
//   - Codec: codec instance
//   - error: ErrUnsupportedOperation for an unknown kind
func CacheCodec(kind CacheKind) (Codec, error) {
	switch kind {
	case CacheNone, "":
		return NewNoOp(), nil
	case CacheS2:
		return NewS2(), nil
	case CacheLZ4:
		return NewLZ4(), nil
	case CacheZstd:
		return NewZstd(), nil
	default:
		return nil, fmt.Errorf("%w: cache codec %q", errs.ErrUnsupportedOperation, string(kind))
	}
}

// ForDataType returns the decompressor turning a node payload of the given
// data type into packed point records.
//
// LASzip decoding is not built in; laszip is used when the dataset stores
// laszip payloads and may be nil otherwise.
//
// Parameters:
//   - dt: dataset data type
//   - laszip: optional LASzip decoder
//
// Returns:
//   - Decompressor: payload decoder
//   - error: ErrUnsupportedOperation for laszip without a decoder or an
//     unknown data type
func ForDataType(dt format.DataType, laszip Decompressor) (Decompressor, error) {
	switch dt {
	case format.DataTypeBinary:
		return NewNoOp(), nil
	case format.DataTypeZstandard:
		return NewZstd(), nil
	case format.DataTypeLaszip:
		if laszip == nil {
			return nil, fmt.Errorf("%w: laszip payloads need a decoder", errs.ErrUnsupportedOperation)
		}

		return laszip, nil
	default:
		return nil, fmt.Errorf("%w: data type %s", errs.ErrUnsupportedOperation, dt)
	}
}
