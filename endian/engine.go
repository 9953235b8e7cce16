// Package endian provides the byte order used to decode EPT point records.
//
// EPT "binary" and "zstandard" payloads store every field in little-endian
// order regardless of the producing host. This package wraps the standard
// library byte orders into a single Engine interface and adds the float
// accessors needed to read record fields in place.
//
// # Basic Usage
//
//	engine := endian.RecordEngine()
//	x := engine.Uint32(record[0:4])
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// Engine values are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 stores 0x00 first on little-endian hosts.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// RecordEngine returns the engine matching the EPT record byte order.
func RecordEngine() Engine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() Engine {
	return binary.BigEndian
}

// Float32 decodes a float32 stored in the first 4 bytes of b.
func Float32(engine Engine, b []byte) float32 {
	return math.Float32frombits(engine.Uint32(b))
}

// Float64 decodes a float64 stored in the first 8 bytes of b.
func Float64(engine Engine, b []byte) float64 {
	return math.Float64frombits(engine.Uint64(b))
}

// AppendFloat32 appends the encoding of v to b.
func AppendFloat32(engine Engine, b []byte, v float32) []byte {
	return engine.AppendUint32(b, math.Float32bits(v))
}

// AppendFloat64 appends the encoding of v to b.
func AppendFloat64(engine Engine, b []byte, v float64) []byte {
	return engine.AppendUint64(b, math.Float64bits(v))
}
