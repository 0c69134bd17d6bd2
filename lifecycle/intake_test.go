package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentRequestValidate(t *testing.T) {
	draft, err := CreatePaymentRequest{
		RecipientAccount: " 123456789012 ",
		Amount:           "0.01",
		Currency:         " zar",
		Provider:         "Swift",
		RoutingCode:      "abcdzajj123",
	}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "123456789012", draft.recipientAccount)
	assert.Equal(t, "0.01", draft.amount.StringFixed(2))
	assert.Equal(t, "ZAR", draft.currency)
	assert.Equal(t, "SWIFT", draft.provider)
	assert.Equal(t, "ABCDZAJJ123", draft.swiftCode)
}

func TestCreatePaymentRequestInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreatePaymentRequest)
		field  string
		code   string
	}{
		{"missing recipient", func(r *CreatePaymentRequest) { r.RecipientAccount = "" }, "recipientAccount", CodeFieldRequired},
		{"short recipient", func(r *CreatePaymentRequest) { r.RecipientAccount = "12345" }, "recipientAccount", CodeInvalidNumeric},
		{"alpha recipient", func(r *CreatePaymentRequest) { r.RecipientAccount = "12345abcde" }, "recipientAccount", CodeInvalidNumeric},
		{"missing amount", func(r *CreatePaymentRequest) { r.Amount = "" }, "amount", CodeFieldRequired},
		{"zero amount", func(r *CreatePaymentRequest) { r.Amount = "0" }, "amount", CodeInvalidAmount},
		{"negative amount", func(r *CreatePaymentRequest) { r.Amount = "-5" }, "amount", CodeInvalidAmount},
		{"three decimals", func(r *CreatePaymentRequest) { r.Amount = "1.005" }, "amount", CodeInvalidAmount},
		{"seventeen integer digits", func(r *CreatePaymentRequest) { r.Amount = "12345678901234567.89" }, "amount", CodeInvalidAmount},
		{"unsupported currency", func(r *CreatePaymentRequest) { r.Currency = "BTC" }, "currency", CodeInvalidCurrency},
		{"unsupported provider", func(r *CreatePaymentRequest) { r.Provider = "PayPal" }, "provider", CodeInvalidProvider},
		{"missing swift", func(r *CreatePaymentRequest) { r.SwiftCode = "" }, "swiftCode", CodeFieldRequired},
		{"bad swift", func(r *CreatePaymentRequest) { r.SwiftCode = "AB1DUS33" }, "swiftCode", CodeInvalidSwift},
		{"nine char swift", func(r *CreatePaymentRequest) { r.SwiftCode = "ABCDUS33X" }, "swiftCode", CodeInvalidSwift},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := req.Validate()
			e := requireCode(t, err, ErrValidation, CodeValidation)
			require.Len(t, e.Details, 1)
			assert.Equal(t, tt.field, e.Details[0].Field)
			assert.Equal(t, tt.code, e.Details[0].Code)
			assert.NotEmpty(t, e.Details[0].Message)
		})
	}
}

func TestCreatePaymentRequestReportsEveryField(t *testing.T) {
	_, err := CreatePaymentRequest{}.Validate()
	e := requireCode(t, err, ErrValidation, CodeValidation)

	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"recipientAccount", "amount", "currency", "provider", "swiftCode"}, fields)
}

func TestCreatePaymentRequestLargestAmount(t *testing.T) {
	req := validRequest()
	req.Amount = "9999999999999999.99"

	draft, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, "9999999999999999.99", draft.amount.StringFixed(2))
}
