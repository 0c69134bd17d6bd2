package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/swiftpay-review/models"
	"github.com/yourusername/swiftpay-review/store"
	"go.uber.org/zap"
)

// Store is the payment record store the engine runs against.
type Store interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context, q store.Query) ([]models.Transaction, error)
	Transition(ctx context.Context, id string, from models.Status, fields store.Fields) (*models.Transaction, error)
	TransitionBatch(ctx context.Context, ids []string, from models.Status, fields store.Fields) (store.BatchOutcome, error)
}

const (
	minReasonLength = 3
	maxReasonLength = 250
)

// Engine enforces the payment instruction lifecycle. It holds no per-request
// state; every guard is evaluated by the store inside the write itself.
type Engine struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewEngine(st Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  st,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

// CreatePayment records a new instruction in PendingVerification. The sender
// account is taken from the customer principal.
func (e *Engine) CreatePayment(ctx context.Context, customer Principal, draft PaymentDraft) (TransactionView, error) {
	if err := requireCustomer(customer); err != nil {
		return TransactionView{}, err
	}

	tx := models.Transaction{
		ID:               e.newID(),
		CreatedAt:        e.now(),
		SenderAccount:    customer.AccountNumber,
		RecipientAccount: draft.recipientAccount,
		Amount:           draft.amount,
		Currency:         draft.currency,
		Provider:         draft.provider,
		SwiftCode:        draft.swiftCode,
		Status:           models.StatusPendingVerification,
	}
	if err := e.store.Create(ctx, &tx); err != nil {
		e.logger.Error("create payment failed", zap.String("customer_id", customer.ID), zap.Error(err))
		return TransactionView{}, storeFailure("An error occurred while processing your payment. Please try again later.", err)
	}

	// Respond with what the store holds, not the draft.
	stored, err := e.store.Get(ctx, tx.ID)
	if err != nil {
		e.logger.Error("reload payment failed", zap.String("transaction_id", tx.ID), zap.Error(err))
		return TransactionView{}, storeFailure("An error occurred while processing your payment. Please try again later.", err)
	}

	e.logger.Info("payment created",
		zap.String("transaction_id", stored.ID),
		zap.String("customer_id", customer.ID),
		zap.String("amount", stored.Amount.StringFixed(2)),
		zap.String("currency", stored.Currency),
	)
	return toView(*stored), nil
}

// GetTransaction returns one record. Customers may only read their own.
func (e *Engine) GetTransaction(ctx context.Context, actor Principal, rawID string) (TransactionView, error) {
	id, ferr := parseID("id", rawID)
	if ferr != nil {
		return TransactionView{}, validationError([]FieldError{*ferr})
	}
	tx, err := e.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TransactionView{}, notFound(id)
		}
		e.logger.Error("get transaction failed", zap.String("transaction_id", id), zap.Error(err))
		return TransactionView{}, storeFailure("Unable to fetch transaction", err)
	}
	if !actor.IsEmployee() && tx.SenderAccount != actor.AccountNumber {
		return TransactionView{}, forbidden("Transaction does not belong to this account")
	}
	return toView(*tx), nil
}

// ListTransactions returns the records visible under scope, newest first.
func (e *Engine) ListTransactions(ctx context.Context, actor Principal, filters Filters, scope Scope) ([]TransactionView, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	switch scope {
	case ScopeAll:
		if err := requireEmployee(actor, "list all transactions"); err != nil {
			return nil, err
		}
	default:
		if actor.AccountNumber == "" {
			return nil, forbidden("Caller has no account to list payments for")
		}
	}

	q := ResolveEffectiveFilters(filters, scope, actor)
	txs, err := e.store.List(ctx, q)
	if err != nil {
		e.logger.Error("list transactions failed", zap.Error(err))
		return nil, storeFailure("Unable to fetch transactions", err)
	}
	return toViews(txs), nil
}

// Verify moves a PendingVerification record to Verified.
func (e *Engine) Verify(ctx context.Context, actor Principal, id string) (TransactionView, error) {
	return e.apply(ctx, actor, id, EventVerify, "")
}

// Reject moves a PendingVerification record to Rejected with the given
// reason, which must be 3 to 250 characters once trimmed.
func (e *Engine) Reject(ctx context.Context, actor Principal, id, reason string) (TransactionView, error) {
	if err := requireEmployee(actor, "reject transactions"); err != nil {
		return TransactionView{}, err
	}
	reason = strings.TrimSpace(reason)
	if n := len([]rune(reason)); n < minReasonLength || n > maxReasonLength {
		return TransactionView{}, invalidInput(CodeInvalidRejectionReason, "reason",
			fmt.Sprintf("Rejection reason must be between %d and %d characters", minReasonLength, maxReasonLength))
	}
	return e.apply(ctx, actor, id, EventReject, reason)
}

// Submit moves a single Verified record to Submitted.
func (e *Engine) Submit(ctx context.Context, actor Principal, id string) (TransactionView, error) {
	return e.apply(ctx, actor, id, EventSubmit, "")
}

func (e *Engine) apply(ctx context.Context, actor Principal, rawID string, ev Event, reason string) (TransactionView, error) {
	if err := requireEmployee(actor, string(ev)+" transactions"); err != nil {
		return TransactionView{}, err
	}
	id, ferr := parseID("id", rawID)
	if ferr != nil {
		return TransactionView{}, validationError([]FieldError{*ferr})
	}

	t := transitions[ev]
	to, err := Next(t.from, ev)
	if err != nil {
		return TransactionView{}, err
	}
	s := stamp{actor: actor.ID, at: e.now(), reason: reason}
	if ev == EventSubmit {
		s.submissionRef = e.newID()
	}

	updated, err := e.store.Transition(ctx, id, t.from, t.fields(s))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return TransactionView{}, notFound(id)
	case errors.Is(err, store.ErrNoMatch):
		current := models.StatusPendingVerification
		if updated != nil {
			current = updated.Status
		}
		e.logger.Info("transition refused",
			zap.String("transaction_id", id),
			zap.String("event", string(ev)),
			zap.String("actor_id", actor.ID),
			zap.String("current", string(current)),
		)
		return TransactionView{}, refusal(current, ev)
	case err != nil:
		e.logger.Error("transition failed",
			zap.String("transaction_id", id),
			zap.String("event", string(ev)),
			zap.Error(err),
		)
		return TransactionView{}, storeFailure(fmt.Sprintf("Unable to %s transaction", ev), err)
	}

	e.logger.Info("transaction transitioned",
		zap.String("transaction_id", id),
		zap.String("actor_id", actor.ID),
		zap.String("from", string(t.from)),
		zap.String("to", string(to)),
	)
	return toView(*updated), nil
}
