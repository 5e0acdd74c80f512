// Package tier defines the donation tier table and the resolver that maps a
// lifetime donation total to the single highest badge it qualifies for.
//
// A Table is immutable once built. New rejects any table that is not ordered
// strictly descending by threshold; the resolver never sorts and relies on
// that order for its linear scan.
//
// The shipped table lives in tiers.yaml and is checked against the CUE
// schema in tiers.cue before it is turned into a Table. Both files are
// embedded, so the table is fixed at build time.
package tier
