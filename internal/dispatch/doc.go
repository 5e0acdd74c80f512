// Package dispatch turns the bot's two slash commands into ledger updates
// and badge (role) changes.
//
// Dispatcher holds the command semantics:
//   - RecordDonation: admin only; adds to the ledger, resolves the tier, and
//     reconciles the target's badges
//   - CheckDonation: anyone; reports a user's total
//
// Loop is the single-writer event loop in front of the Dispatcher. The
// platform adapter calls Submit from whatever goroutine delivered the
// interaction; Run processes commands one at a time in FIFO order, so ledger
// read-modify-write and badge reconciliation for one command finish before
// the next begins.
//
// # Badge reconciliation
//
// Given the resolved tier T, every badge whose threshold is below T's is
// revoked if held, then T's badge is granted if not held. Badges above T
// are never touched. Platform calls run in sequence; the first failure stops
// reconciliation and is reported as ErrReconcile. Nothing is rolled back.
//
// Every command gets a request id (UUIDv7 by default) that is attached to
// the request-scoped zerolog logger carried in the context.
package dispatch
