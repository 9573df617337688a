package repository

import (
	"context"

	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/domain"
)

// TransactionsCollection is the document collection holding payments.
const TransactionsCollection = "transactions"

// TransactionRepository reads payment records. Writes happen in the payment flow
// elsewhere; Create exists for seeding.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	List(ctx context.Context) ([]*domain.Transaction, error)
	Recent(ctx context.Context, limit int) ([]*domain.Transaction, error)
	ListCompleted(ctx context.Context) ([]*domain.Transaction, error)
}

type transactionRecord struct {
	SchemaVersion int     `json:"schemaVersion,omitempty"`
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	UserID        string  `json:"userId"`
	UserName      string  `json:"userName"`
	EventID       string  `json:"eventId,omitempty"`
	EventName     string  `json:"eventName,omitempty"`
	ProductID     string  `json:"productId,omitempty"`
	ProductName   string  `json:"productName,omitempty"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status"`
	CreatedAt     *stamp  `json:"createdAt,omitempty"`
	CompletedAt   *stamp  `json:"completedAt,omitempty"`
}

type transactionRepository struct {
	coll collection[domain.Transaction, transactionRecord]
}

// NewTransactionRepository returns a document-store backed implementation.
func NewTransactionRepository(store docstore.Store) TransactionRepository {
	return &transactionRepository{coll: collection[domain.Transaction, transactionRecord]{
		store:    store,
		name:     TransactionsCollection,
		toRecord: transactionToRecord,
		toDomain: transactionFromRecord,
	}}
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return r.coll.create(ctx, t.ID, t)
}

func (r *transactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.coll.find(ctx, docstore.Query{OrderBy: "createdAt", Descending: true})
}

func (r *transactionRepository) Recent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	return r.coll.find(ctx, docstore.Query{OrderBy: "createdAt", Descending: true, Limit: limit})
}

func (r *transactionRepository) ListCompleted(ctx context.Context) ([]*domain.Transaction, error) {
	return r.coll.find(ctx, docstore.Query{
		Filters: []docstore.Filter{statusValues(string(domain.TransactionStatusCompleted))},
	})
}

func transactionToRecord(t *domain.Transaction) *transactionRecord {
	return &transactionRecord{
		SchemaVersion: SchemaVersion,
		ID:            t.ID,
		Type:          string(t.Type),
		UserID:        t.UserID,
		UserName:      t.UserName,
		EventID:       t.EventID,
		EventName:     t.EventName,
		ProductID:     t.ProductID,
		ProductName:   t.ProductName,
		Amount:        t.Amount,
		PaymentMethod: t.PaymentMethod,
		Status:        string(t.Status),
		CreatedAt:     newStamp(t.CreatedAt),
		CompletedAt:   newStampPtr(t.CompletedAt),
	}
}

func transactionFromRecord(id string, r *transactionRecord, _ *docstore.Document) *domain.Transaction {
	return &domain.Transaction{
		ID:            firstNonEmpty(id, r.ID),
		Type:          domain.TransactionType(normalizeUpper(r.Type)),
		UserID:        r.UserID,
		UserName:      r.UserName,
		EventID:       r.EventID,
		EventName:     r.EventName,
		ProductID:     r.ProductID,
		ProductName:   r.ProductName,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		Status:        domain.TransactionStatus(normalizeUpper(r.Status)),
		CreatedAt:     r.CreatedAt.value(),
		CompletedAt:   r.CompletedAt.ptr(),
	}
}
