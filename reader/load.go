package reader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/ept/hierarchy"
	"github.com/arloliu/ept/key"
	"github.com/arloliu/ept/transport"
)

// loadHierarchy fetches the root hierarchy page and, recursively, every page
// it references. At most limit pages are in flight; when no slot is free the
// page is loaded on the goroutine that discovered it.
func loadHierarchy(ctx context.Context, t transport.Transport, limit int) (*hierarchy.Hierarchy, error) {
	h := hierarchy.New()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var load func(id key.ID) error
	load = func(id key.ID) error {
		path := hierarchy.PagePath(id)

		data, err := t.Get(gctx, path)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", path, err)
		}
		page, err := hierarchy.ParsePage(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		for _, sub := range h.Merge(page) {
			if g.TryGo(func() error { return load(sub) }) {
				continue
			}
			if err := load(sub); err != nil {
				return err
			}
		}

		return nil
	}

	g.Go(func() error { return load(key.ID{}) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return h, nil
}
