package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-inventory-tracker/internal/metrics"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"
	apperr "go-inventory-tracker/pkg/errors"
	"go-inventory-tracker/pkg/logger"
	"go-inventory-tracker/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpeningStockMemo marks the ledger entry recorded for stock given at registration.
const OpeningStockMemo = "opening stock"

type InventoryService interface {
	CreateProduct(ctx context.Context, ownerID uuid.UUID, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, ownerID, id uuid.UUID, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error
	GetProduct(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error)
	FindProductBySKU(ctx context.Context, ownerID uuid.UUID, sku string) (*model.Product, error)
	PostTransaction(ctx context.Context, ownerID uuid.UUID, in PostTransactionInput) (*model.Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*model.TransactionView, error)
}

// ProductInput carries registrable product fields. Stock is never editable here;
// InitialStock only applies on create. A nil MinStock means the default on create
// and "unchanged" on update.
type ProductInput struct {
	Name         string `json:"name" validate:"notblank,max=255"`
	SKU          string `json:"sku" validate:"max=64"`
	Category     string `json:"category" validate:"category"`
	Unit         string `json:"unit" validate:"unit"`
	UnitPrice    int64  `json:"unit_price" validate:"gte=0"`
	MinStock     *int   `json:"min_stock" validate:"omitempty,gte=0,lte=2147483647"`
	InitialStock int    `json:"initial_stock" validate:"gte=0,lte=2147483647"`
}

func (in *ProductInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Category = strings.TrimSpace(in.Category)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.Unit == "" {
		in.Unit = string(model.UnitEach)
	}
}

func (in *ProductInput) validate() error {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return apperr.New(apperr.CodeInvalidInput, validator.Message(errs))
	}
	return nil
}

type inventoryService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	events          EventPublisher
	metrics         *metrics.LedgerMetrics
	log             *logger.Logger
	now             func() time.Time
}

func NewInventoryService(db *gorm.DB, pRepo repository.ProductRepository, tRepo repository.TransactionRepository, events EventPublisher, ledgerMetrics *metrics.LedgerMetrics, logg *logger.Logger) InventoryService {
	if events == nil {
		events = noopPublisher{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &inventoryService{
		db:              db,
		productRepo:     pRepo,
		transactionRepo: tRepo,
		events:          events,
		metrics:         ledgerMetrics,
		log:             logg,
		now:             time.Now,
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, ownerID uuid.UUID, in ProductInput) (*model.Product, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &model.Product{
		OwnerID:   ownerID,
		Name:      in.Name,
		SKU:       optionalText(in.SKU),
		Category:  model.Category(in.Category),
		Unit:      model.Unit(in.Unit),
		UnitPrice: in.UnitPrice,
		MinStock:  model.DefaultMinStock,
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}

	openingInput := PostTransactionInput{
		Type:      model.TxIn,
		Quantity:  in.InitialStock,
		UnitPrice: product.UnitPrice,
		Memo:      OpeningStockMemo,
	}
	if in.InitialStock > 0 {
		if err := validatePosting(openingInput); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	var opening *posting
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		if err := ensureSKUFree(ctx, products, ownerID, product.SKU, uuid.Nil); err != nil {
			return err
		}
		if err := products.Create(ctx, product); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSKU
			}
			return persistenceFailure(err, "creating product")
		}

		if in.InitialStock == 0 {
			return nil
		}
		openingInput.ProductID = product.ID
		var err error
		opening, err = s.post(ctx, tx, ownerID, openingInput)
		if err != nil {
			return err
		}
		product = opening.product
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "creating product")
	}

	s.events.Publish(ownerID, EventProductCreated, product)
	if opening != nil {
		s.afterPosting(ctx, ownerID, opening, time.Since(start))
	}
	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, ownerID, id uuid.UUID, in ProductInput) (*model.Product, error) {
	in.normalize()
	in.InitialStock = 0
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		existing, err := products.FindByID(ctx, ownerID, id)
		if err != nil {
			return lookupFailure(err, ErrProductNotFound, "loading product")
		}

		existing.Name = in.Name
		existing.SKU = optionalText(in.SKU)
		existing.Category = model.Category(in.Category)
		existing.Unit = model.Unit(in.Unit)
		existing.UnitPrice = in.UnitPrice
		if in.MinStock != nil {
			existing.MinStock = *in.MinStock
		}

		if err := ensureSKUFree(ctx, products, ownerID, existing.SKU, existing.ID); err != nil {
			return err
		}
		if err := products.UpdateDetails(ctx, existing); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSKU
			}
			return lookupFailure(err, ErrProductNotFound, "updating product")
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "updating product")
	}

	s.events.Publish(ownerID, EventProductUpdated, updated)
	return updated, nil
}

// DeleteProduct removes the product. Its ledger entries stay and render as "unknown".
func (s *inventoryService) DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error {
	removed, err := s.productRepo.Delete(ctx, ownerID, id)
	if err != nil {
		return persistenceFailure(err, "deleting product")
	}
	if removed == 0 {
		return ErrProductNotFound
	}

	s.events.Publish(ownerID, EventProductDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

func (s *inventoryService) GetProduct(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupFailure(err, ErrProductNotFound, "loading product")
	}
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	products, err := s.productRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, persistenceFailure(err, "listing products")
	}
	return products, nil
}

// FindProductBySKU serves barcode lookups.
func (s *inventoryService) FindProductBySKU(ctx context.Context, ownerID uuid.UUID, sku string) (*model.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, ErrSKURequired
	}
	product, err := s.productRepo.FindBySKU(ctx, ownerID, sku)
	if err != nil {
		return nil, lookupFailure(err, ErrProductNotFound, "looking up sku")
	}
	return product, nil
}

func (s *inventoryService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*model.TransactionView, error) {
	view, err := s.transactionRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupFailure(err, ErrTransactionNotFound, "loading transaction")
	}
	return view, nil
}

func ensureSKUFree(ctx context.Context, products repository.ProductRepository, ownerID uuid.UUID, sku *string, self uuid.UUID) error {
	if sku == nil {
		return nil
	}
	existing, err := products.FindBySKU(ctx, ownerID, *sku)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return persistenceFailure(err, "checking sku")
	case existing.ID != self:
		return ErrDuplicateSKU
	}
	return nil
}
