package hierarchy

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/key"
)

// Subtree is the page value marking a node whose subtree is described by its
// own page.
const Subtree int64 = -1

// Page is one parsed hierarchy page.
type Page map[key.ID]int64

// PagePath returns the resource path of the page rooted at id.
func PagePath(id key.ID) string {
	return "ept-hierarchy/" + id.String() + ".json"
}

// ParsePage parses a hierarchy page document.
//
// Returns:
//   - Page: parsed entries
//   - error: ErrInvalidAddress for a malformed key, ErrMalformedMetadata for
//     invalid JSON or a count below -1
func ParsePage(data []byte) (Page, error) {
	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: hierarchy page: %w", errs.ErrMalformedMetadata, err)
	}

	page := make(Page, len(raw))
	for s, n := range raw {
		id, err := key.ParseID(s)
		if err != nil {
			return nil, err
		}
		if n < Subtree {
			return nil, fmt.Errorf("%w: hierarchy count %d for %s", errs.ErrMalformedMetadata, n, s)
		}
		page[id] = n
	}

	return page, nil
}
