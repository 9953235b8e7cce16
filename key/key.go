package key

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/ept/errs"
)

// Delimiter separates the four tokens of a node address string.
const Delimiter = "-"

// MaxDepth is the deepest address whose bounds can be derived from the root.
const MaxDepth = 64

// ID is the depth/X/Y/Z part of a node address. It is comparable and used as
// the map key of a hierarchy.
type ID struct {
	D uint64
	X uint64
	Y uint64
	Z uint64
}

// Key is an octree node address together with the box it covers.
//
// Bounds is only meaningful when the key was derived from a root (Root,
// ParseWithin, Bisect); Parse leaves it zero.
type Key struct {
	ID
	Bounds Bounds
}

// Root returns the depth 0 key covering the given bounds.
func Root(bounds Bounds) Key {
	return Key{Bounds: bounds}
}

// Parse parses a "d-x-y-z" address.
//
// Returns:
//   - Key: parsed key with zero Bounds
//   - error: ErrInvalidAddress when the token count is not 4 or a token is not
//     an unsigned decimal integer
func Parse(s string) (Key, error) {
	id, err := ParseID(s)
	if err != nil {
		return Key{}, err
	}

	return Key{ID: id}, nil
}

// ParseID parses a "d-x-y-z" address into its ID.
func ParseID(s string) (ID, error) {
	tokens := strings.Split(s, Delimiter)
	if len(tokens) != 4 {
		return ID{}, fmt.Errorf("%w: %q", errs.ErrInvalidAddress, s)
	}

	var vals [4]uint64
	for i, tok := range tokens {
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return ID{}, fmt.Errorf("%w: %q", errs.ErrInvalidAddress, s)
		}
		vals[i] = v
	}

	return ID{D: vals[0], X: vals[1], Y: vals[2], Z: vals[3]}, nil
}

// ParseWithin parses a "d-x-y-z" address and derives its bounds from the
// dataset root bounds.
func ParseWithin(s string, root Bounds) (Key, error) {
	id, err := ParseID(s)
	if err != nil {
		return Key{}, err
	}

	return At(root, id)
}

// At derives the key for id by bisecting from the root bounds.
//
// Returns ErrInvalidAddress when the depth exceeds MaxDepth or a coordinate
// does not fit the grid at that depth.
func At(root Bounds, id ID) (Key, error) {
	if id.D > MaxDepth {
		return Key{}, fmt.Errorf("%w: depth %d exceeds %d", errs.ErrInvalidAddress, id.D, MaxDepth)
	}
	if id.D < 64 {
		limit := uint64(1) << id.D
		if id.X >= limit || id.Y >= limit || id.Z >= limit {
			return Key{}, fmt.Errorf("%w: %s is outside the depth %d grid", errs.ErrInvalidAddress, id, id.D)
		}
	}

	k := Root(root)
	for level := uint64(0); level < id.D; level++ {
		shift := id.D - 1 - level
		dir := uint8((id.X>>shift)&1) |
			uint8((id.Y>>shift)&1)<<1 |
			uint8((id.Z>>shift)&1)<<2
		k = k.Bisect(dir)
	}

	return k, nil
}

// Bisect returns the child in the given direction (0..7).
//
// For each axis i the midpoint is min_i + (max_i - min_i) / 2. When bit i of
// direction is set the child takes the upper half and coordinate 2c+1,
// otherwise the lower half and coordinate 2c.
func (k Key) Bisect(direction uint8) Key {
	child := k
	child.D++

	coords := [3]*uint64{&child.X, &child.Y, &child.Z}
	for axis := 0; axis < 3; axis++ {
		*coords[axis] *= 2

		lo := child.Bounds.MinAt(axis)
		hi := child.Bounds.MaxAt(axis)
		mid := lo + (hi-lo)/2

		if direction&(1<<axis) != 0 {
			setComponent(&child.Bounds.Min, axis, mid)
			*coords[axis]++
		} else {
			setComponent(&child.Bounds.Max, axis, mid)
		}
	}

	return child
}

// Children returns the eight children indexed by direction.
func (k Key) Children() [8]Key {
	var out [8]Key
	for dir := range out {
		out[dir] = k.Bisect(uint8(dir))
	}

	return out
}

// Direction returns the direction this key was bisected in from its parent.
// The root returns 0.
func (id ID) Direction() uint8 {
	if id.D == 0 {
		return 0
	}

	return uint8(id.X&1) | uint8(id.Y&1)<<1 | uint8(id.Z&1)<<2
}

// Parent returns the ID of the parent node. The root is its own parent.
func (id ID) Parent() ID {
	if id.D == 0 {
		return id
	}

	return ID{D: id.D - 1, X: id.X >> 1, Y: id.Y >> 1, Z: id.Z >> 1}
}

// IsRoot reports whether id addresses the root node.
func (id ID) IsRoot() bool {
	return id == ID{}
}

func (id ID) String() string {
	buf := make([]byte, 0, 32)
	buf = strconv.AppendUint(buf, id.D, 10)
	buf = append(buf, Delimiter...)
	buf = strconv.AppendUint(buf, id.X, 10)
	buf = append(buf, Delimiter...)
	buf = strconv.AppendUint(buf, id.Y, 10)
	buf = append(buf, Delimiter...)
	buf = strconv.AppendUint(buf, id.Z, 10)

	return string(buf)
}

// Compare orders IDs by depth, then X, Y and Z.
func Compare(a, b ID) int {
	if c := cmp.Compare(a.D, b.D); c != 0 {
		return c
	}
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}

	return cmp.Compare(a.Z, b.Z)
}

// Less reports whether id sorts before other.
func (id ID) Less(other ID) bool {
	return Compare(id, other) < 0
}

// Sort sorts keys in ascending (depth, x, y, z) order.
func Sort(keys []Key) {
	slices.SortFunc(keys, func(a, b Key) int { return Compare(a.ID, b.ID) })
}

// SortIDs sorts ids in ascending (depth, x, y, z) order.
func SortIDs(ids []ID) {
	slices.SortFunc(ids, Compare)
}
