package ledger

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Entry is one user's lifetime donation total.
type Entry struct {
	UserID string
	Total  decimal.Decimal
}

// Backend loads and saves the complete ledger.
//
// Load returns an empty slice (not an error) when nothing has been persisted
// yet. Save replaces everything previously persisted with entries.
type Backend interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// Store is the in-memory ledger backed by a Backend.
//
// Store is not safe for concurrent mutation. The dispatch loop is its only
// writer; read-only CLI commands open their own Store.
type Store struct {
	backend Backend
	totals  map[string]decimal.Decimal
}

// Open loads the ledger from backend.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	entries, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	totals := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		totals[e.UserID] = e.Total
	}
	return &Store{backend: backend, totals: totals}, nil
}

// AmountFromFloat converts a platform-supplied number into an amount.
// NaN and ±Inf are rejected with ErrInvalidAmount.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, ErrInvalidAmount
	}
	return decimal.NewFromFloat(f), nil
}

// Total returns the user's total and whether the user has ever donated.
func (s *Store) Total(userID string) (decimal.Decimal, bool) {
	total, ok := s.totals[userID]
	if !ok {
		return decimal.Zero, false
	}
	return total, true
}

// AddDonation adds amount to the user's total, persists the whole ledger,
// and returns the new total. A zero amount still creates the entry and
// rewrites the ledger.
func (s *Store) AddDonation(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	prev, existed := s.totals[userID]
	next := prev.Add(amount)
	if next.IsNegative() {
		return prev, fmt.Errorf("%w: %s + (%s)", ErrNegativeTotal, prev, amount)
	}

	s.totals[userID] = next
	if err := s.backend.Save(ctx, s.snapshot()); err != nil {
		if existed {
			s.totals[userID] = prev
		} else {
			delete(s.totals, userID)
		}
		return prev, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return next, nil
}

// Entries returns every entry, highest total first, ties by user id.
func (s *Store) Entries() []Entry {
	entries := s.snapshot()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total.GreaterThan(entries[j].Total)
	})
	return entries
}

// Len returns the number of users with an entry.
func (s *Store) Len() int {
	return len(s.totals)
}

// snapshot returns the entries ordered by user id so saves are deterministic.
func (s *Store) snapshot() []Entry {
	entries := make([]Entry, 0, len(s.totals))
	for id, total := range s.totals {
		entries = append(entries, Entry{UserID: id, Total: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}
