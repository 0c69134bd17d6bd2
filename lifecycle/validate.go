package lifecycle

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/swiftpay-review/models"
)

// SupportedCurrencies is the allow-list of payment currencies.
var SupportedCurrencies = []string{"ZAR", "USD", "EUR", "GBP", "JPY", "CAD", "AUD"}

// SupportedProvider is the only settlement network accepted today.
const SupportedProvider = "SWIFT"

var (
	accountNumberRe = regexp.MustCompile(`^[0-9]{10,12}$`)
	// At most 16 integer digits, the capacity of numeric(18,2).
	amountRe        = regexp.MustCompile(`^[0-9]{1,16}(\.[0-9]{1,2})?$`)
	swiftCodeRe     = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]validator.Func{
		"account": func(fl validator.FieldLevel) bool {
			return accountNumberRe.MatchString(fl.Field().String())
		},
		"amount": func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if !amountRe.MatchString(s) {
				return false
			}
			d, err := decimal.NewFromString(s)
			return err == nil && d.IsPositive()
		},
		"currency": func(fl validator.FieldLevel) bool {
			return isSupportedCurrency(fl.Field().String())
		},
		"provider": func(fl validator.FieldLevel) bool {
			return fl.Field().String() == SupportedProvider
		},
		"swiftcode": func(fl validator.FieldLevel) bool {
			return swiftCodeRe.MatchString(fl.Field().String())
		},
		"status": func(fl validator.FieldLevel) bool {
			return models.Status(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

func joinStatuses(statuses []models.Status) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func isSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// fieldMessages holds the user-facing text per field and tag.
var fieldMessages = map[string]map[string]FieldError{
	"recipientAccount": {
		"required": {Message: "Recipient account number is required", Code: CodeFieldRequired},
		"account":  {Message: "Recipient account number must be exactly 10-12 digits", Code: CodeInvalidNumeric},
	},
	"amount": {
		"required": {Message: "Amount is required", Code: CodeFieldRequired},
		"amount":   {Message: "Amount must be a positive number with at most 16 digits before and 2 after the decimal point", Code: CodeInvalidAmount},
	},
	"currency": {
		"required": {Message: "Currency is required", Code: CodeFieldRequired},
		"currency": {Message: "Unsupported currency. Supported currencies are: " + strings.Join(SupportedCurrencies, ", "), Code: CodeInvalidCurrency},
		"len":      {Message: "Currency must be a 3-letter ISO code", Code: CodeInvalidCurrency},
		"alpha":    {Message: "Currency must be a 3-letter ISO code", Code: CodeInvalidCurrency},
	},
	"provider": {
		"required": {Message: "Payment provider is required", Code: CodeFieldRequired},
		"provider": {Message: "Unsupported payment provider. Currently only SWIFT transfers are supported", Code: CodeInvalidProvider},
		"min":      {Message: "Provider must be between 2 and 20 characters", Code: CodeInvalidLength},
		"max":      {Message: "Provider must be between 2 and 20 characters", Code: CodeInvalidLength},
	},
	"swiftCode": {
		"required":  {Message: "SWIFT code is required", Code: CodeFieldRequired},
		"swiftcode": {Message: "Invalid SWIFT code format. Must be 8 characters (e.g., ABCDZAJJ) or 11 characters (e.g., ABCDZAJJ123)", Code: CodeInvalidSwift},
	},
	"status": {
		"status": {Message: "Status must be one of: " + joinStatuses(models.Statuses), Code: CodeInvalidStatus},
	},
}

// checkStruct runs the struct validators and converts failures into a
// VALIDATION_ERROR listing every offending field.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", v, err)
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		d, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			d = FieldError{Message: fmt.Sprintf("%s is invalid", fe.Field()), Code: CodeValidation}
		}
		d.Field = fe.Field()
		if s, ok := fe.Value().(string); ok && s != "" {
			d.Value = s
		}
		details = append(details, d)
	}
	return validationError(details)
}

// parseID checks that id is a well-formed transaction id and returns its
// canonical form.
func parseID(field, id string) (string, *FieldError) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", &FieldError{
			Field:   field,
			Value:   id,
			Message: "Transaction ID must be a valid identifier",
			Code:    CodeInvalidID,
		}
	}
	return parsed.String(), nil
}
