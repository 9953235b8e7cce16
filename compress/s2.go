package compress

import "github.com/klauspost/compress/s2"

// S2 is the klauspost S2 block codec.
type S2 struct{}

var _ Codec = (*S2)(nil)

// NewS2 creates an S2 codec.
func NewS2() S2 {
	return S2{}
}

// Compress compresses data as one S2 block.
func (c S2) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes one S2 block.
func (c S2) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
