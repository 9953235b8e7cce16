package reader

import (
	"context"
	"fmt"

	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/hierarchy"
	"github.com/arloliu/ept/info"
	"github.com/arloliu/ept/key"
	"github.com/arloliu/ept/layout"
	"github.com/arloliu/ept/transport"
)

// AddonInfoPath is the path of an addon descriptor below the addon endpoint.
const AddonInfoPath = "ept-addon.json"

// Addon is a supplemental field stored and indexed apart from the dataset.
// Its values are matched to base points by node key and point index.
type Addon struct {
	Name      string
	Endpoint  string
	Field     info.FieldSpec
	Hierarchy *hierarchy.Hierarchy

	transport transport.Transport
	layout    *layout.Fixed
}

func openAddon(ctx context.Context, spec addonSpec, inf *info.Info, cfg *config) (*Addon, error) {
	if _, clash := inf.FindField(spec.name); clash {
		return nil, fmt.Errorf("%w: addon %q shadows a schema field", errs.ErrMalformedMetadata, spec.name)
	}

	t, err := withCache(transport.New(spec.endpoint), cfg)
	if err != nil {
		return nil, err
	}

	text, err := transport.GetText(ctx, t, AddonInfoPath)
	if err != nil {
		return nil, fmt.Errorf("addon %s: fetching %s: %w", spec.name, AddonInfoPath, err)
	}
	field, _, err := info.ParseAddon([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("addon %s: %w", spec.name, err)
	}
	field.Name = spec.name

	l, err := layout.FromSchema([]info.FieldSpec{field})
	if err != nil {
		return nil, err
	}

	h, err := loadHierarchy(ctx, t, cfg.hierarchyConcurrency)
	if err != nil {
		return nil, fmt.Errorf("addon %s: %w", spec.name, err)
	}

	return &Addon{
		Name:      spec.name,
		Endpoint:  spec.endpoint,
		Field:     field,
		Hierarchy: h,
		transport: t,
		layout:    l,
	}, nil
}

// values decodes the addon values of one node into dst as words of kind k,
// one slot per base point. A node the addon has no entry for leaves zeros.
func (a *Addon) values(ctx context.Context, id key.ID, k Kind, dst []uint64) error {
	if a.Hierarchy.Get(id) == 0 {
		clear(dst)
		return nil
	}

	path := nodePath(id, "bin")
	data, err := a.transport.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("addon %s: %w", a.Name, err)
	}

	buf := layout.NewPointBuffer(data, a.layout)
	n, err := buf.PointCount()
	if err != nil {
		return fmt.Errorf("addon %s node %s: %w", a.Name, id, err)
	}
	if n != len(dst) {
		return fmt.Errorf("%w: addon %s node %s has %d points, dataset node has %d",
			errs.ErrMalformedRecord, a.Name, id, n, len(dst))
	}

	for i := range dst {
		dst[i] = fieldWord(buf, 0, i, k)
	}

	return nil
}
