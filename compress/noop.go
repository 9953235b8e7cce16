package compress

// NoOp passes payloads through unchanged. It decodes "binary" node payloads,
// which are stored as packed records already.
type NoOp struct{}

var (
	_ Codec              = (*NoOp)(nil)
	_ AppendDecompressor = (*NoOp)(nil)
)

// NewNoOp creates a pass-through codec.
func NewNoOp() NoOp {
	return NoOp{}
}

// Compress returns data itself. The result shares memory with the input.
func (c NoOp) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself. The result shares memory with the input.
func (c NoOp) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// DecompressAppend copies data to the end of dst.
func (c NoOp) DecompressAppend(dst, data []byte) ([]byte, error) {
	return append(dst, data...), nil
}
