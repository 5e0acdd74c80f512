// Package ledger keeps each user's lifetime donation total.
//
// A Store holds the whole ledger in memory and writes every change through
// to a Backend before returning. Two backends are provided:
//   - JSONFile: a flat, indented JSON file mapping user id to {"total": n},
//     the layout the bot has always used (donations.json)
//   - SQLite: a single donations table in an embedded database
//
// Both backends are rewritten wholesale on every Save; there is no
// incremental diff and no write-ahead log of donations.
//
// # Amount policy
//
// Amounts must be finite. Negative amounts are accepted as
// corrections (refunds, typos) but a total can never go below zero.
//
// # Failure model
//
// If Save fails the in-memory change is undone and the caller receives an
// error wrapping ErrPersistence, so memory and durable state never drift.
// A crash between the two is not guarded against.
package ledger
