// Package format defines the enumerations shared by the EPT metadata, layout
// and codec packages.
package format

type (
	DataType  uint8
	FieldType uint8
)

const (
	DataTypeBinary    DataType = 0x1 // DataTypeBinary represents uncompressed fixed-size records.
	DataTypeLaszip    DataType = 0x2 // DataTypeLaszip represents LASzip compressed points.
	DataTypeZstandard DataType = 0x3 // DataTypeZstandard represents zstd compressed fixed-size records.
)

const (
	FieldNone FieldType = iota
	FieldSigned8
	FieldSigned16
	FieldSigned32
	FieldSigned64
	FieldUnsigned8
	FieldUnsigned16
	FieldUnsigned32
	FieldUnsigned64
	FieldFloat32
	FieldFloat64
)

// ParseDataType maps the "dataType" tag of ept.json to a DataType.
// The second return is false for unrecognized tags.
func ParseDataType(tag string) (DataType, bool) {
	switch tag {
	case "binary":
		return DataTypeBinary, true
	case "laszip":
		return DataTypeLaszip, true
	case "zstandard":
		return DataTypeZstandard, true
	default:
		return 0, false
	}
}

func (d DataType) String() string {
	switch d {
	case DataTypeBinary:
		return "binary"
	case DataTypeLaszip:
		return "laszip"
	case DataTypeZstandard:
		return "zstandard"
	default:
		return "unknown"
	}
}

// Extension returns the file extension of node payloads stored with this data type.
func (d DataType) Extension() string {
	switch d {
	case DataTypeLaszip:
		return "laz"
	case DataTypeZstandard:
		return "zst"
	default:
		return "bin"
	}
}

// ParseFieldType resolves a schema entry kind and byte size to a FieldType.
//
// Parameters:
//   - kind: "signed", "unsigned" or "float"
//   - size: byte size, {1,2,4,8} for integers and {4,8} for floats
//
// Returns:
//   - FieldType: FieldNone when the combination is not recognized
func ParseFieldType(kind string, size uint64) FieldType {
	switch kind {
	case "signed":
		switch size {
		case 1:
			return FieldSigned8
		case 2:
			return FieldSigned16
		case 4:
			return FieldSigned32
		case 8:
			return FieldSigned64
		}
	case "unsigned":
		switch size {
		case 1:
			return FieldUnsigned8
		case 2:
			return FieldUnsigned16
		case 4:
			return FieldUnsigned32
		case 8:
			return FieldUnsigned64
		}
	case "float":
		switch size {
		case 4:
			return FieldFloat32
		case 8:
			return FieldFloat64
		}
	}

	return FieldNone
}

// Size returns the byte size of the field type, 0 for FieldNone.
func (f FieldType) Size() int {
	switch f {
	case FieldSigned8, FieldUnsigned8:
		return 1
	case FieldSigned16, FieldUnsigned16:
		return 2
	case FieldSigned32, FieldUnsigned32, FieldFloat32:
		return 4
	case FieldSigned64, FieldUnsigned64, FieldFloat64:
		return 8
	default:
		return 0
	}
}

// Kind returns the schema kind tag ("signed", "unsigned" or "float").
func (f FieldType) Kind() string {
	switch f {
	case FieldSigned8, FieldSigned16, FieldSigned32, FieldSigned64:
		return "signed"
	case FieldUnsigned8, FieldUnsigned16, FieldUnsigned32, FieldUnsigned64:
		return "unsigned"
	case FieldFloat32, FieldFloat64:
		return "float"
	default:
		return ""
	}
}

func (f FieldType) String() string {
	switch f {
	case FieldSigned8:
		return "int8"
	case FieldSigned16:
		return "int16"
	case FieldSigned32:
		return "int32"
	case FieldSigned64:
		return "int64"
	case FieldUnsigned8:
		return "uint8"
	case FieldUnsigned16:
		return "uint16"
	case FieldUnsigned32:
		return "uint32"
	case FieldUnsigned64:
		return "uint64"
	case FieldFloat32:
		return "float32"
	case FieldFloat64:
		return "float64"
	default:
		return "none"
	}
}
