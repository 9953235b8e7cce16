// Package reader opens an EPT dataset and decodes its nodes into columnar
// tables.
//
// Open fetches ept.json, loads the whole hierarchy (the root page and every
// deeper page it references, several at a time) and opens any configured
// addons the same way. A worker pool is started for node reads.
//
//	r, err := reader.Open(ctx, "https://example.com/ept/autzen",
//		reader.WithThreads(8),
//		reader.WithAddon("Classification", "https://example.com/ept/autzen/addons/class"),
//	)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	table := r.NewTable()
//	if err := r.Read(ctx, r.Select(4, nil), table); err != nil {
//		return err
//	}
//	xs, _ := table.Column("X")
//
// Read submits one pool task per node. Each task fetches the node payload,
// decodes it according to the dataset data type, checks its point count
// against the hierarchy, merges addon values by point index and appends the
// result to the table. Nodes land in the table in completion order. Failed
// nodes do not stop the others; their errors are combined into the error Read
// returns.
//
// Selecting which nodes to read is left to the caller. Select offers a depth
// limit and a bounding box filter over the hierarchy.
package reader
