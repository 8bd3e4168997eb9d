// Package store implements the in-memory notification store: append-only,
// insertion-ordered, safe for concurrent use. Reads return independent
// snapshots; the forwarding outcome of a record is written exactly once via
// the Stored handle returned by Add.
package store
