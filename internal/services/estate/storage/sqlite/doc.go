// Package sqlite implements the estate event journal on SQLite.
//
// Events are stored in one append-only table keyed by sequence number. Each
// row keeps its content hash and the chain hash linking it to its
// predecessor, so a replay can verify the whole history before folding it.
package sqlite
