// Package hierarchy tracks which octree nodes of an EPT dataset exist and how
// many points each one holds.
//
// A hierarchy is assembled from JSON pages. Each page maps "d-x-y-z" keys to
// point counts; a count of -1 marks a subtree whose entries live in a
// separate page named after that key. A key present with count 0 is known to
// be empty, while an absent key is unknown until a deeper page is merged.
//
// Pages may be merged from several goroutines while other goroutines read
// counts: Merge takes an exclusive lock and lookups take a shared lock.
package hierarchy

import (
	"sync"

	"github.com/arloliu/ept/key"
)

// Hierarchy maps node addresses to point counts.
//
// The zero value is not usable; create instances with New.
type Hierarchy struct {
	mu     sync.RWMutex
	counts map[key.ID]uint64
}

// New creates an empty hierarchy.
func New() *Hierarchy {
	return &Hierarchy{counts: make(map[key.ID]uint64)}
}

// Get returns the point count of the node, or 0 when the node is absent.
//
// Get does not distinguish a known-empty node from an unknown one; use Has
// for membership.
func (h *Hierarchy) Get(id key.ID) uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.counts[id]
}

// Lookup returns the point count and whether the node is present.
func (h *Hierarchy) Lookup(id key.ID) (uint64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n, ok := h.counts[id]

	return n, ok
}

// Has reports whether the node is present, including nodes with 0 points.
func (h *Hierarchy) Has(id key.ID) bool {
	_, ok := h.Lookup(id)
	return ok
}

// Len returns the number of nodes present.
func (h *Hierarchy) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.counts)
}

// Points returns the sum of all node counts.
func (h *Hierarchy) Points() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var total uint64
	for _, n := range h.counts {
		total += n
	}

	return total
}

// Keys returns every present node in ascending key order.
func (h *Hierarchy) Keys() []key.ID {
	h.mu.RLock()
	ids := make([]key.ID, 0, len(h.counts))
	for id := range h.counts {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	key.SortIDs(ids)

	return ids
}

// Merge inserts the entries of a page.
//
// Existing entries are never overwritten, so merging pages out of order or
// more than once is safe. Entries marked as Subtree are not inserted; their
// IDs are returned, in ascending order, so the caller can fetch those pages.
//
// Parameters:
//   - page: parsed hierarchy page
//
// Returns:
//   - []key.ID: subtrees that need their own page
func (h *Hierarchy) Merge(page Page) []key.ID {
	var subtrees []key.ID

	h.mu.Lock()
	for id, n := range page {
		if n == Subtree {
			subtrees = append(subtrees, id)
			continue
		}
		if _, ok := h.counts[id]; ok {
			continue
		}
		h.counts[id] = uint64(n)
	}
	h.mu.Unlock()

	key.SortIDs(subtrees)

	return subtrees
}

// Select returns the non-empty nodes, in ascending key order, with bounds
// derived from root.
//
// Parameters:
//   - root: dataset cube bounds
//   - maxDepth: deepest depth to include; negative means unlimited
//   - query: when non-nil, only nodes whose bounds intersect it are returned
func (h *Hierarchy) Select(root key.Bounds, maxDepth int, query *key.Bounds) []key.Key {
	ids := h.Keys()

	out := make([]key.Key, 0, len(ids))
	for _, id := range ids {
		if maxDepth >= 0 && id.D > uint64(maxDepth) {
			// ids are sorted by depth first
			break
		}
		if h.Get(id) == 0 {
			continue
		}

		k, err := key.At(root, id)
		if err != nil {
			continue
		}
		if query != nil && !k.Bounds.Intersects(*query) {
			continue
		}
		out = append(out, k)
	}

	return out
}
