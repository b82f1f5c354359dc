// Package usage tracks which palette items a user opens.
//
// A Tracker keeps a bounded most-recently-used list of item ids and a
// count per id. Both feed palette ranking as recency and frequency boosts.
// State is persisted after every change through a Store: in memory, in a
// TOML file, or in a SQLite database.
package usage
