package lifecycle

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest is the customer's payment instruction as received on
// the wire. The sender account comes from the authenticated principal.
type CreatePaymentRequest struct {
	RecipientAccount string      `json:"recipientAccount" validate:"required,account"`
	Amount           json.Number `json:"amount" validate:"required,amount"`
	Currency         string      `json:"currency" validate:"required,currency"`
	Provider         string      `json:"provider" validate:"required,provider"`
	SwiftCode        string      `json:"swiftCode" validate:"required,swiftcode"`
	// RoutingCode is accepted as an alias of SwiftCode.
	RoutingCode string `json:"routingCode,omitempty" validate:"-"`
}

// PaymentDraft is a payment instruction that passed boundary validation.
// It can only be obtained from CreatePaymentRequest.Validate.
type PaymentDraft struct {
	recipientAccount string
	amount           decimal.Decimal
	currency         string
	provider         string
	swiftCode        string
}

func (r CreatePaymentRequest) normalize() CreatePaymentRequest {
	out := CreatePaymentRequest{
		RecipientAccount: strings.TrimSpace(r.RecipientAccount),
		Amount:           json.Number(strings.TrimSpace(string(r.Amount))),
		Currency:         strings.ToUpper(strings.TrimSpace(r.Currency)),
		Provider:         strings.ToUpper(strings.TrimSpace(r.Provider)),
		SwiftCode:        strings.ToUpper(strings.TrimSpace(r.SwiftCode)),
	}
	if out.SwiftCode == "" {
		out.SwiftCode = strings.ToUpper(strings.TrimSpace(r.RoutingCode))
	}
	return out
}

// Validate normalizes the request (trimming, upper-casing codes) and checks
// every field, reporting all failures at once.
func (r CreatePaymentRequest) Validate() (PaymentDraft, error) {
	n := r.normalize()
	if err := checkStruct(n); err != nil {
		return PaymentDraft{}, err
	}
	amount, err := decimal.NewFromString(string(n.Amount))
	if err != nil {
		return PaymentDraft{}, validationError([]FieldError{{
			Field:   "amount",
			Value:   string(n.Amount),
			Message: "Amount must be a positive number with at most 16 digits before and 2 after the decimal point",
			Code:    CodeInvalidAmount,
		}})
	}
	return PaymentDraft{
		recipientAccount: n.RecipientAccount,
		amount:           amount,
		currency:         n.Currency,
		provider:         n.Provider,
		swiftCode:        n.SwiftCode,
	}, nil
}
