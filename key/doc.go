// Package key implements octree node addressing for EPT datasets.
//
// A node is identified by its depth and integer X/Y/Z coordinates, written as
// the ASCII string "d-x-y-z". The root node is "0-0-0-0" and covers the
// dataset's cubic bounds. Every node has eight children produced by Bisect:
// bit 0 of the direction selects the upper half of the X axis, bit 1 the
// upper half of Y and bit 2 the upper half of Z.
//
// Node bounds are never stored on disk. Consumers rebuild them from the
// address by bisecting repeatedly from the root, so Bisect is the single
// source of truth for node geometry:
//
//	root := key.Root(info.Bounds)
//	child := root.Bisect(7) // 1-1-1-1, the upper octant on all axes
//
//	k, err := key.ParseWithin("3-5-2-7", info.Bounds)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(k.Bounds)
package key
