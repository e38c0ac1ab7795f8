// Package approval holds the review workflow shared by donations and
// expenses: the status machine, its transition rules, and the errors the
// workflow can produce.
package approval

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrNotOwner          = errors.New("not_owner")
)

// DefaultRejectReason is stored when a reviewer rejects without giving one.
const DefaultRejectReason = "No reason provided"

// Status is the review state of a financial record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a record may move from one status to
// another. Approving an already approved record is allowed so a double
// submit from a reviewer is harmless; callers treat it as a no-op.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusApproved
	case StatusRejected:
		// Resubmission by the owner puts the record back in review.
		return to == StatusPending
	default:
		return false
	}
}
