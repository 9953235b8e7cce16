package info

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

type srsDocument struct {
	WKT        string    `json:"wkt"`
	Authority  *srsToken `json:"authority"`
	Horizontal *srsToken `json:"horizontal"`
	Vertical   *srsToken `json:"vertical"`
}

// srsToken accepts both "3857" and 3857.
type srsToken string

func (t *srsToken) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte{'"'}) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = srsToken(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*t = srsToken(n.String())

	return nil
}

// resolve picks the spatial reference string: a non-empty wkt, otherwise
// "authority:horizontal" when both are present, followed by "+vertical" when
// a vertical code is present.
func (s *srsDocument) resolve() string {
	if s == nil {
		return ""
	}
	if s.WKT != "" {
		return s.WKT
	}

	var out string
	if s.Authority != nil && s.Horizontal != nil {
		out = string(*s.Authority) + ":" + string(*s.Horizontal)
	}
	if s.Vertical != nil {
		out += "+" + string(*s.Vertical)
	}

	return out
}
