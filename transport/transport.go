// Package transport fetches EPT resources by relative path from a dataset
// endpoint.
//
// An endpoint is either a local directory or an http(s) URL. Paths are
// always slash separated and relative to the endpoint, such as "ept.json" or
// "ept-data/2-1-0-3.bin".
//
// Every failure wraps errs.ErrTransport; a resource that does not exist also
// wraps errs.ErrNotFound. Transports never retry.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/arloliu/ept/errs"
)

// Transport fetches resources below one endpoint. Implementations must be
// safe for concurrent use.
type Transport interface {
	// Get returns the full contents of the resource at path.
	Get(ctx context.Context, path string) ([]byte, error)
	// Endpoint identifies the endpoint, for logging and cache keys.
	Endpoint() string
}

// GetText fetches a resource and returns it as a string.
func GetText(ctx context.Context, t Transport, path string) (string, error) {
	data, err := t.Get(ctx, path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// New picks the transport for an endpoint: HTTP for http:// and https://
// URLs, File for anything else.
func New(endpoint string) Transport {
	lower := strings.ToLower(endpoint)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTP(endpoint, http.DefaultClient)
	}

	return NewFile(strings.TrimPrefix(endpoint, "file://"))
}

// Join appends a relative path to an endpoint, for addon endpoints given
// relative to a dataset.
func Join(endpoint, path string) string {
	if path == "" {
		return endpoint
	}

	return strings.TrimRight(endpoint, "/") + "/" + strings.TrimLeft(path, "/")
}

func notFound(endpoint, path string) error {
	return fmt.Errorf("%w: %w: %s/%s", errs.ErrTransport, errs.ErrNotFound, endpoint, path)
}
