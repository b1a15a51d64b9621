// Package store provides SQLite-backed durable storage for quad datasets.
//
// A Store implements both rdf.PatternMatchingDataset and
// rdf.MutableDataset, so layouts can be hydrated from and dehydrated into
// a database file directly.
//
// # Ordering
//
// Pattern queries are ordered by row id, so matches come back in
// insertion order, exactly like the in-memory dataset. Evaluation over a
// Store is therefore deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version.
package store
