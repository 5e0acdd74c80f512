package ledger

import "errors"

var (
	// ErrInvalidAmount is returned for NaN or infinite amounts.
	ErrInvalidAmount = errors.New("amount must be a finite number")

	// ErrNegativeTotal is returned when a correction would take a total below zero.
	ErrNegativeTotal = errors.New("donation total cannot go below zero")

	// ErrPersistence wraps any backend failure during AddDonation.
	ErrPersistence = errors.New("ledger persistence failed")

	// ErrMalformed is returned by Load when persisted data cannot be decoded.
	ErrMalformed = errors.New("persisted ledger is malformed")
)
