package lifecycle

import (
	"strings"

	"github.com/yourusername/swiftpay-review/models"
	"github.com/yourusername/swiftpay-review/store"
)

// Filters are the optional listing criteria a caller may supply.
type Filters struct {
	Status   string `form:"status" json:"status" validate:"omitempty,status"`
	Currency string `form:"currency" json:"currency" validate:"omitempty,len=3,alpha"`
	Provider string `form:"provider" json:"provider" validate:"omitempty,min=2,max=20"`
}

// Scope selects whose records a listing may return.
type Scope int

const (
	// ScopeOwn limits results to the caller's own account.
	ScopeOwn Scope = iota
	// ScopeAll is the unrestricted employee review queue.
	ScopeAll
)

// ReviewQueueStatuses are listed when an employee gives no status filter.
var ReviewQueueStatuses = []models.Status{
	models.StatusPendingVerification,
	models.StatusVerified,
}

func (f Filters) trimmed() Filters {
	return Filters{
		Status:   strings.TrimSpace(f.Status),
		Currency: strings.TrimSpace(f.Currency),
		Provider: strings.TrimSpace(f.Provider),
	}
}

// Validate checks the filter syntax.
func (f Filters) Validate() error {
	return checkStruct(f.trimmed())
}

// ResolveEffectiveFilters turns requested filters into the store query that
// is actually run. Currency and provider are upper-cased. Under ScopeOwn the
// owner account always comes from the caller and no status default applies;
// under ScopeAll a missing status means the review queue.
func ResolveEffectiveFilters(requested Filters, scope Scope, caller Principal) store.Query {
	f := requested.trimmed()
	q := store.Query{
		Currency: strings.ToUpper(f.Currency),
		Provider: strings.ToUpper(f.Provider),
	}
	if f.Status != "" {
		q.Statuses = []models.Status{models.Status(f.Status)}
	}

	switch scope {
	case ScopeAll:
		if len(q.Statuses) == 0 {
			q.Statuses = append([]models.Status(nil), ReviewQueueStatuses...)
		}
	default:
		q.SenderAccount = caller.AccountNumber
	}
	return q
}
