// Package store provides persistent storage for notesd using SQLite.
//
// # Architecture
//
// Two narrow interfaces cover the data model:
//
//   - UserStore: account records keyed by ID, email, or username
//   - NoteStore: per-user notes with ordered tag lists
//
// SQLiteStore implements both in a single struct. Callers depend on the
// interface slice they need, not on the concrete store.
//
// # SQLite configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Timestamps are stored as RFC3339 text, note tags as a JSON array column.
//
// # Error handling
//
// Common errors:
//
//   - ErrNotFound: requested entity does not exist
//   - ErrEmailTaken / ErrUsernameTaken: unique violations on registration
//
// All methods accept context.Context for cancellation support.
package store
