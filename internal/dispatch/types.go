package dispatch

import (
	"context"
	"errors"
)

var (
	// ErrPermissionDenied is reported when a non-admin calls RecordDonation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrReconcile wraps the first badge call that failed during reconciliation.
	ErrReconcile = errors.New("badge reconciliation incomplete")
)

// User identifies a guild member by platform id and display name.
type User struct {
	ID   string
	Name string
}

// Caller is the member who invoked a command.
type Caller struct {
	User
	Admin bool
}

// RecordDonation adds Amount to Target's lifetime total.
type RecordDonation struct {
	Caller Caller
	Target User
	Amount float64
}

// CheckDonation reports Target's lifetime total.
type CheckDonation struct {
	Target User
}

// Reply is the response to a command. Private replies are visible only to
// the caller.
type Reply struct {
	Content string
	Private bool
}

// Guild is the badge surface of the chat platform.
//
// GrantBadge on a badge the member holds and RevokeBadge on one the member
// lacks must both be harmless no-ops.
type Guild interface {
	MemberBadges(ctx context.Context, userID string) ([]string, error)
	GrantBadge(ctx context.Context, userID, badgeID string) error
	RevokeBadge(ctx context.Context, userID, badgeID string) error
}
