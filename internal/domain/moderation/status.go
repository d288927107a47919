// Package moderation defines the submission lifecycle shared by reviews and
// dorms: pending → {approved, declined}. Terminal states only change via
// hard delete.
package moderation

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDeclined:
		return true
	}
	return false
}
