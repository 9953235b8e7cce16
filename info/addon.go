package info

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/format"
)

type addonDocument struct {
	fieldDocument
	DataType string `json:"dataType"`
}

// ParseAddon parses an ept-addon.json descriptor.
//
// The descriptor holds a single field. When it carries no name, the returned
// spec has an empty Name and the caller supplies one.
//
// Returns:
//   - FieldSpec: the addon field
//   - format.DataType: payload encoding, always binary
//   - error: ErrMalformedMetadata for invalid JSON, an unsupported field type
//     or a dataType other than binary
func ParseAddon(data []byte) (FieldSpec, format.DataType, error) {
	var doc addonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return FieldSpec{}, 0, fmt.Errorf("%w: ept-addon.json: %w", errs.ErrMalformedMetadata, err)
	}

	tag := doc.DataType
	if tag == "" {
		tag = format.DataTypeBinary.String()
	}
	dt, ok := format.ParseDataType(tag)
	if !ok || dt != format.DataTypeBinary {
		return FieldSpec{}, 0, fmt.Errorf("%w: addon dataType %q, only binary is supported",
			errs.ErrMalformedMetadata, doc.DataType)
	}

	name := doc.Name
	if name == "" {
		// placeholder so the field validates; restored below
		doc.Name = "addon"
	}
	spec, err := doc.spec()
	if err != nil {
		return FieldSpec{}, 0, err
	}
	spec.Name = name

	return spec, dt, nil
}
