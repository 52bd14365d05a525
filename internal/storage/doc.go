// Package storage keeps uploaded bundle-size reports in a SQLite database.
//
// Reports are stored per branch together with the commit they were measured
// at. The compare command uses the latest report of a branch as its baseline
// when no baseline file is given.
//
// The database is a single file (via modernc.org/sqlite, CGO-free) in the
// XDG data directory. Report bodies are stored as JSON text.
package storage
