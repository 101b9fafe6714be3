package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

func (t TransactionType) IsValid() bool {
	return t == TxIn || t == TxOut
}

// Delta is the signed stock change for quantity units moving in direction t.
func (t TransactionType) Delta(quantity int) int {
	if t == TxOut {
		return -quantity
	}
	return quantity
}

// Transaction is an append-only ledger entry. ProductID carries no foreign key so
// entries outlive the product they reference.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_owner_occurred,priority:1" json:"owner_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Type        TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity    int             `gorm:"not null;check:chk_transactions_quantity,quantity > 0" json:"quantity"`
	UnitPrice   int64           `gorm:"not null;check:chk_transactions_unit_price,unit_price >= 0" json:"unit_price"`
	TotalAmount int64           `gorm:"not null" json:"total_amount"` // Snapshot quantity * unit_price
	OccurredAt  time.Time       `gorm:"not null;index:idx_transactions_owner_occurred,priority:2" json:"occurred_at"`
	Memo        *string         `gorm:"type:text" json:"memo,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// UnknownProductName labels entries whose product has been deleted.
const UnknownProductName = "unknown"

// TransactionView is a ledger entry joined with its product, if it still exists.
type TransactionView struct {
	Transaction
	ProductName  *string `json:"product_name"`
	ProductSKU   *string `json:"product_sku"`
	ProductLabel string  `gorm:"-" json:"product_label"`
}

func (v *TransactionView) DisplayProductName() string {
	if v.ProductName == nil {
		return UnknownProductName
	}
	return *v.ProductName
}
