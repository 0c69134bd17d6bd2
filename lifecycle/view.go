package lifecycle

import (
	"time"

	"github.com/yourusername/swiftpay-review/models"
)

// TransactionView is the display-safe projection of a transaction.
type TransactionView struct {
	ID                 string        `json:"id"`
	Reference          string        `json:"reference"`
	SenderAccount      string        `json:"senderAccount"`
	RecipientAccount   string        `json:"recipientAccount"`
	Amount             string        `json:"amount"`
	Currency           string        `json:"currency"`
	Provider           string        `json:"provider"`
	SwiftCode          string        `json:"swiftCode"`
	Status             models.Status `json:"status"`
	StatusLabel        string        `json:"statusLabel"`
	Timestamp          time.Time     `json:"timestamp"`
	VerifiedAt         *time.Time    `json:"verifiedAt"`
	VerifiedBy         *string       `json:"verifiedBy"`
	RejectedAt         *time.Time    `json:"rejectedAt"`
	RejectedBy         *string       `json:"rejectedBy"`
	RejectionReason    *string       `json:"rejectionReason"`
	SubmittedAt        *time.Time    `json:"submittedAt"`
	SubmittedBy        *string       `json:"submittedBy"`
	SwiftSubmissionRef *string       `json:"swiftSubmissionRef"`
}

func toView(t models.Transaction) TransactionView {
	return TransactionView{
		ID:                 t.ID,
		Reference:          t.ID,
		SenderAccount:      t.SenderAccount,
		RecipientAccount:   t.RecipientAccount,
		Amount:             t.Amount.StringFixed(2),
		Currency:           t.Currency,
		Provider:           t.Provider,
		SwiftCode:          t.SwiftCode,
		Status:             t.Status,
		StatusLabel:        t.Status.Label(),
		Timestamp:          t.CreatedAt,
		VerifiedAt:         t.VerifiedAt,
		VerifiedBy:         t.VerifiedBy,
		RejectedAt:         t.RejectedAt,
		RejectedBy:         t.RejectedBy,
		RejectionReason:    t.RejectionReason,
		SubmittedAt:        t.SubmittedAt,
		SubmittedBy:        t.SubmittedBy,
		SwiftSubmissionRef: t.SubmissionRef,
	}
}

func toViews(txs []models.Transaction) []TransactionView {
	out := make([]TransactionView, 0, len(txs))
	for _, t := range txs {
		out = append(out, toView(t))
	}
	return out
}
