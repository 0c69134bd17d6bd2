package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the review state of a payment instruction.
type Status string

const (
	StatusPendingVerification Status = "PendingVerification"
	StatusVerified            Status = "Verified"
	StatusRejected            Status = "Rejected"
	StatusSubmitted           Status = "Submitted"
)

// Statuses lists every state in lifecycle order.
var Statuses = []Status{
	StatusPendingVerification,
	StatusVerified,
	StatusRejected,
	StatusSubmitted,
}

var statusLabels = map[Status]string{
	StatusPendingVerification: "Pending",
	StatusVerified:            "Verified",
	StatusRejected:            "Rejected",
	StatusSubmitted:           "Submitted",
}

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the human readable form shown to employees.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusSubmitted
}

// Transaction is a customer-initiated international payment instruction
// together with its review outcome.
type Transaction struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt        time.Time       `gorm:"index;not null" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	SenderAccount    string          `gorm:"size:12;not null;index" json:"sender_account"`
	RecipientAccount string          `gorm:"size:12;not null" json:"recipient_account"`
	Amount           decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Currency         string          `gorm:"size:3;not null;index" json:"currency"`
	Provider         string          `gorm:"size:20;not null;index" json:"provider"`
	SwiftCode        string          `gorm:"size:11;not null" json:"swift_code"`
	Status           Status          `gorm:"size:24;not null;index;default:'PendingVerification'" json:"status"`

	VerifiedBy *string    `gorm:"size:36" json:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at"`

	RejectedBy      *string    `gorm:"size:36" json:"rejected_by"`
	RejectedAt      *time.Time `json:"rejected_at"`
	RejectionReason *string    `gorm:"size:250" json:"rejection_reason"`

	SubmittedBy   *string    `gorm:"size:36" json:"submitted_by"`
	SubmittedAt   *time.Time `json:"submitted_at"`
	SubmissionRef *string    `gorm:"size:36;index" json:"swift_submission_ref"`
}

// TableName overrides the table name
func (Transaction) TableName() string {
	return "transactions"
}

// Column names written by lifecycle transitions.
const (
	ColStatus          = "status"
	ColVerifiedBy      = "verified_by"
	ColVerifiedAt      = "verified_at"
	ColRejectedBy      = "rejected_by"
	ColRejectedAt      = "rejected_at"
	ColRejectionReason = "rejection_reason"
	ColSubmittedBy     = "submitted_by"
	ColSubmittedAt     = "submitted_at"
	ColSubmissionRef   = "submission_ref"
)

func (t *Transaction) verifiedSet() bool {
	return t.VerifiedBy != nil || t.VerifiedAt != nil
}

func (t *Transaction) rejectedSet() bool {
	return t.RejectedBy != nil || t.RejectedAt != nil || t.RejectionReason != nil
}

func (t *Transaction) submittedSet() bool {
	return t.SubmittedBy != nil || t.SubmittedAt != nil || t.SubmissionRef != nil
}

// CheckMetadata verifies that the outcome metadata matches the status.
// A submitted record keeps the verification group it passed through.
func (t *Transaction) CheckMetadata() error {
	var want [3]bool // verified, rejected, submitted
	switch t.Status {
	case StatusPendingVerification:
	case StatusVerified:
		want = [3]bool{true, false, false}
	case StatusRejected:
		want = [3]bool{false, true, false}
	case StatusSubmitted:
		want = [3]bool{true, false, true}
	default:
		return fmt.Errorf("transaction %s: unknown status %q", t.ID, t.Status)
	}

	got := [3]bool{t.verifiedSet(), t.rejectedSet(), t.submittedSet()}
	if got != want {
		return fmt.Errorf("transaction %s: status %s with metadata verified=%t rejected=%t submitted=%t",
			t.ID, t.Status, got[0], got[1], got[2])
	}
	return nil
}
