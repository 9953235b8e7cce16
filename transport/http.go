package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arloliu/ept/errs"
)

// HTTP fetches resources with GET requests below a base URL.
type HTTP struct {
	Base   string
	Client *http.Client
}

var _ Transport = (*HTTP)(nil)

// NewHTTP creates a transport for base. A nil client uses http.DefaultClient.
func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTP{Base: strings.TrimRight(base, "/"), Client: client}
}

// Get issues GET Base/p. Any status outside 2xx is an error and 404 also
// wraps ErrNotFound.
func (h *HTTP) Get(ctx context.Context, p string) ([]byte, error) {
	url := h.Base + "/" + strings.TrimLeft(p, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTransport, err)
	}

	resp, err := h.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, notFound(h.Base, p)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", errs.ErrTransport, url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", errs.ErrTransport, url, err)
	}

	return data, nil
}

// Endpoint returns the base URL.
func (h *HTTP) Endpoint() string {
	return h.Base
}

func (h *HTTP) client() *http.Client {
	if h.Client == nil {
		return http.DefaultClient
	}

	return h.Client
}
