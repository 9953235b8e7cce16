// Package ept reads Entwine Point Tile (EPT) point-cloud datasets.
//
// An EPT dataset is an octree of point tiles. Every node is addressed by its
// depth and integer X/Y/Z coordinates, written "d-x-y-z", and its bounds
// follow from bisecting the dataset cube once per level. A JSON hierarchy
// records how many points each node holds, and each node's points are stored
// as packed fixed-size records in one file.
//
// # Core Features
//
//   - Node addressing and bounds derivation (package key)
//   - Hierarchy pages with deferred subtrees (package hierarchy)
//   - ept.json and ept-addon.json parsing (package info)
//   - Order-preserving record layouts and zero-copy record views (package layout)
//   - A bounded worker pool with per-task fault isolation (package workerpool)
//   - File and HTTP transports with a compressed node cache (package transport)
//   - A reader session decoding nodes into columnar tables (package reader)
//
// # Basic Usage
//
//	r, err := ept.Open(ctx, "/data/autzen")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	table := r.NewTable()
//	if err := r.Read(ctx, r.Select(-1, nil), table); err != nil {
//	    return err
//	}
//
// Addressing nodes directly:
//
//	root := ept.Root(r.Info().Bounds)
//	child := root.Bisect(7) // 1-1-1-1, the upper octant on every axis
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the subpackages
// for the most common use cases. Use the subpackages directly for finer
// control.
package ept

import (
	"context"

	"github.com/arloliu/ept/hierarchy"
	"github.com/arloliu/ept/info"
	"github.com/arloliu/ept/internal/hash"
	"github.com/arloliu/ept/key"
	"github.com/arloliu/ept/reader"
	"github.com/arloliu/ept/workerpool"
)

// Open opens the dataset at endpoint, a local directory or an http(s) URL.
// See reader.Open for the options.
func Open(ctx context.Context, endpoint string, opts ...reader.Option) (*reader.Reader, error) {
	return reader.Open(ctx, endpoint, opts...)
}

// ParseKey parses a "d-x-y-z" node address and derives its bounds from the
// dataset cube.
func ParseKey(s string, root key.Bounds) (key.Key, error) {
	return key.ParseWithin(s, root)
}

// Root returns the root node of a dataset cube.
func Root(bounds key.Bounds) key.Key {
	return key.Root(bounds)
}

// ParseInfo parses an ept.json document.
func ParseInfo(data []byte) (*info.Info, error) {
	return info.Parse(data)
}

// ParseHierarchy builds a hierarchy from a single page and returns the
// subtrees that need their own page.
func ParseHierarchy(data []byte) (*hierarchy.Hierarchy, []key.ID, error) {
	page, err := hierarchy.ParsePage(data)
	if err != nil {
		return nil, nil, err
	}

	h := hierarchy.New()
	subtrees := h.Merge(page)

	return h, subtrees, nil
}

// NewPool creates and starts a worker pool.
func NewPool(workers int, opts ...workerpool.Option) (*workerpool.Pool, error) {
	return workerpool.New(workers, opts...)
}

// NodeHash returns a stable 64-bit hash of a node address (xxHash64 of its
// "d-x-y-z" form), suitable for sharding node reads across processes.
func NodeHash(id key.ID) uint64 {
	return hash.ID(id.String())
}
