package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/ept/endian"
)

// lz4SizeHeader is the byte length of the uncompressed size stored in front
// of every LZ4 block.
const lz4SizeHeader = 4

// maxLZ4Size bounds the uncompressed size read from a block header.
const maxLZ4Size = 1 << 30

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4 is an LZ4 block codec. Blocks carry their uncompressed size in a
// 4-byte little-endian header so decompression allocates exactly once.
type LZ4 struct{}

var _ Codec = (*LZ4)(nil)

// NewLZ4 creates an LZ4 codec.
func NewLZ4() LZ4 {
	return LZ4{}
}

// Compress compresses data as one size-prefixed LZ4 block.
func (c LZ4) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) > maxLZ4Size {
		return nil, fmt.Errorf("lz4: payload of %d bytes is too large", len(data))
	}

	engine := endian.RecordEngine()
	dst := make([]byte, lz4SizeHeader, lz4SizeHeader+lz4.CompressBlockBound(len(data)))
	engine.PutUint32(dst, uint32(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4SizeHeader:cap(dst)])
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	return dst[:lz4SizeHeader+n], nil
}

// Decompress decodes one size-prefixed LZ4 block.
func (c LZ4) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < lz4SizeHeader {
		return nil, errors.New("lz4: block shorter than its header")
	}

	size := endian.RecordEngine().Uint32(data)
	if size > maxLZ4Size {
		return nil, fmt.Errorf("lz4: declared size %d is too large", size)
	}

	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data[lz4SizeHeader:], dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	if n != int(size) {
		return nil, fmt.Errorf("lz4: decoded %d bytes, header declares %d", n, size)
	}

	return dst, nil
}
