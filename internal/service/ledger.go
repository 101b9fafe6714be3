package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go-inventory-tracker/internal/model"
	apperr "go-inventory-tracker/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostTransactionInput is a requested stock movement. A zero OccurredAt means today.
type PostTransactionInput struct {
	ProductID  uuid.UUID
	Type       model.TransactionType
	Quantity   int
	UnitPrice  int64
	OccurredAt time.Time
	Memo       string
}

// TransactionPosted is the payload of a transaction_created event.
type TransactionPosted struct {
	Transaction model.Transaction `json:"transaction"`
	ProductName string            `json:"product_name"`
	NewStock    int               `json:"new_stock"`
}

type posting struct {
	transaction *model.Transaction
	product     *model.Product
}

func validatePosting(in PostTransactionInput) error {
	if in.Quantity <= 0 || int64(in.Quantity) > math.MaxInt32 {
		return ErrInvalidQuantity
	}
	// total_amount must fit in int64.
	if in.UnitPrice < 0 || (in.UnitPrice > 0 && int64(in.Quantity) > math.MaxInt64/in.UnitPrice) {
		return ErrInvalidPrice
	}
	if !in.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	return nil
}

// PostTransaction records a stock movement and applies it to the product in one
// database transaction. Outbound movements never take stock below zero.
func (s *inventoryService) PostTransaction(ctx context.Context, ownerID uuid.UUID, in PostTransactionInput) (*model.Transaction, error) {
	start := time.Now()
	ctx = s.log.WithFields(ctx, map[string]any{"product_id": in.ProductID.String(), "type": string(in.Type)})

	if err := validatePosting(in); err != nil {
		s.metrics.IncRejected(string(apperr.CodeOf(err)))
		return nil, err
	}

	var result *posting
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.post(ctx, tx, ownerID, in)
		return err
	})
	if err != nil {
		err = passThrough(err, "posting transaction")
		s.metrics.IncRejected(string(apperr.CodeOf(err)))
		if shortage, ok := ShortageOf(err); ok {
			s.log.Info(s.log.WithFields(ctx, map[string]any{
				"current":   shortage.Current,
				"requested": shortage.Requested,
			}), "posting rejected: insufficient stock")
		} else if apperr.CodeOf(err) == apperr.CodePersistenceFailure {
			s.log.Error(ctx, "posting transaction failed", err)
		}
		return nil, err
	}

	s.afterPosting(ctx, ownerID, result, time.Since(start))
	posted := *result.transaction
	return &posted, nil
}

// post runs inside tx. Every repository call must go through tx.
func (s *inventoryService) post(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, in PostTransactionInput) (*posting, error) {
	products := s.productRepo.WithTx(tx)

	product, err := products.FindByID(ctx, ownerID, in.ProductID)
	if err != nil {
		return nil, lookupFailure(err, ErrProductNotFound, "loading product")
	}
	if in.Type == model.TxOut && product.CurrentStock < in.Quantity {
		return nil, insufficientStock(product.CurrentStock, in.Quantity)
	}

	affected, err := products.AdjustStock(ctx, ownerID, product.ID, in.Type.Delta(in.Quantity))
	if err != nil {
		return nil, persistenceFailure(err, "adjusting stock")
	}

	// Re-read after the write: on success it is the new stock, on a lost race it
	// tells a deleted product apart from one that no longer has enough stock.
	current, err := products.FindByID(ctx, ownerID, product.ID)
	if err != nil {
		return nil, lookupFailure(err, ErrProductNotFound, "reloading product")
	}
	if affected == 0 {
		return nil, insufficientStock(current.CurrentStock, in.Quantity)
	}

	entry := &model.Transaction{
		OwnerID:     ownerID,
		ProductID:   product.ID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TotalAmount: int64(in.Quantity) * in.UnitPrice,
		OccurredAt:  s.occurredAt(in.OccurredAt),
		Memo:        optionalText(in.Memo),
	}
	if err := s.transactionRepo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, persistenceFailure(err, "saving transaction")
	}

	return &posting{transaction: entry, product: current}, nil
}

func (s *inventoryService) afterPosting(ctx context.Context, ownerID uuid.UUID, result *posting, elapsed time.Duration) {
	entry := result.transaction
	s.metrics.ObservePosted(string(entry.Type), entry.Quantity, elapsed)
	s.events.Publish(ownerID, EventTransactionCreated, TransactionPosted{
		Transaction: *entry,
		ProductName: result.product.Name,
		NewStock:    result.product.CurrentStock,
	})
	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"transaction_id": entry.ID.String(),
		"quantity":       entry.Quantity,
		"new_stock":      result.product.CurrentStock,
	}), "transaction posted")
}

// occurredAt keeps only the UTC day; a zero value means today.
func (s *inventoryService) occurredAt(at time.Time) time.Time {
	if at.IsZero() {
		at = s.now()
	}
	return at.UTC().Truncate(24 * time.Hour)
}

func optionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
