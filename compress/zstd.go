package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// The klauspost decoder is designed to be reused; DecodeAll and EncodeAll
// are stateless so pooled instances can serve any caller.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// Zstd is the Zstandard codec. It decodes "zstandard" node payloads, which
// are zstd frames wrapping packed records, and can hold cached payloads.
type Zstd struct{}

var (
	_ Codec              = (*Zstd)(nil)
	_ AppendDecompressor = (*Zstd)(nil)
)

// NewZstd creates a Zstandard codec.
func NewZstd() Zstd {
	return Zstd{}
}

// Compress compresses data into a single zstd frame.
func (c Zstd) Compress(data []byte) ([]byte, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decodes zstd frames into a new slice.
func (c Zstd) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return c.DecompressAppend(nil, data)
}

// DecompressAppend decodes zstd frames and appends the result to dst.
func (c Zstd) DecompressAppend(dst, data []byte) ([]byte, error) {
	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	out, err := decoder.DecodeAll(data, dst)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return out, nil
}
