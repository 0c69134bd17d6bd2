package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/swiftpay-review/models"
	"gorm.io/gorm"
)

// Query selects transactions. Zero-valued fields do not constrain the result.
type Query struct {
	Statuses      []models.Status
	Currency      string
	Provider      string
	SenderAccount string
}

// Fields are the column assignments of a conditional update.
type Fields map[string]any

// BatchOutcome reports how many rows a set-oriented conditional update touched.
type BatchOutcome struct {
	Matched  int64
	Modified int64
}

type TransactionStore struct {
	db *gorm.DB
}

func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *TransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load transaction %s: %w", id, err)
	}
	return &tx, nil
}

// List returns the matching transactions, newest first.
func (s *TransactionStore) List(ctx context.Context, q Query) ([]models.Transaction, error) {
	db := s.db.WithContext(ctx).Model(&models.Transaction{})
	switch len(q.Statuses) {
	case 0:
	case 1:
		db = db.Where("status = ?", q.Statuses[0])
	default:
		db = db.Where("status IN ?", q.Statuses)
	}
	if q.Currency != "" {
		db = db.Where("currency = ?", q.Currency)
	}
	if q.Provider != "" {
		db = db.Where("provider = ?", q.Provider)
	}
	if q.SenderAccount != "" {
		db = db.Where("sender_account = ?", q.SenderAccount)
	}

	var txs []models.Transaction
	if err := db.Order("created_at DESC").Order("id DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Transition applies fields to the transaction only while it is still in
// state from. The check and the write are one UPDATE statement, so of two
// concurrent callers at most one observes a match. ErrNoMatch is returned
// together with the current record when it exists in another state,
// ErrNotFound when it does not exist.
func (s *TransactionStore) Transition(ctx context.Context, id string, from models.Status, fields Fields) (*models.Transaction, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any(fields))
	if res.Error != nil {
		return nil, fmt.Errorf("update transaction %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return current, ErrNoMatch
	}
	return s.Get(ctx, id)
}

// TransitionBatch applies fields to every id that is currently in state from,
// in a single UPDATE. Ids in any other state, or unknown ids, are left alone.
func (s *TransactionStore) TransitionBatch(ctx context.Context, ids []string, from models.Status, fields Fields) (BatchOutcome, error) {
	if len(ids) == 0 {
		return BatchOutcome{}, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id IN ? AND status = ?", ids, from).
		Updates(map[string]any(fields))
	if res.Error != nil {
		return BatchOutcome{}, fmt.Errorf("batch update %d transactions: %w", len(ids), res.Error)
	}
	// The status column is always part of fields, so every matched row changes.
	return BatchOutcome{Matched: res.RowsAffected, Modified: res.RowsAffected}, nil
}
