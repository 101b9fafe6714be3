package handler

import (
	"strings"
	"time"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type InventoryHandler struct {
	service   service.InventoryService
	dashboard service.DashboardService
}

func NewInventoryHandler(s service.InventoryService, dashboard service.DashboardService) *InventoryHandler {
	return &InventoryHandler{service: s, dashboard: dashboard}
}

// transactionRequest accepts occurred_at as a date ("2006-01-02") or RFC 3339 timestamp.
type transactionRequest struct {
	ProductID  string `json:"product_id"`
	Type       string `json:"type"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	OccurredAt string `json:"occurred_at"`
	Memo       string `json:"memo"`
}

func (r transactionRequest) toInput() (service.PostTransactionInput, error) {
	in := service.PostTransactionInput{
		Type:      model.TransactionType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Memo:      r.Memo,
	}

	productID, err := uuid.Parse(strings.TrimSpace(r.ProductID))
	if err != nil {
		return in, badRequest("invalid product_id")
	}
	in.ProductID = productID

	if occurred := strings.TrimSpace(r.OccurredAt); occurred != "" {
		at, err := time.Parse(dateLayout, occurred)
		if err != nil {
			at, err = time.Parse(time.RFC3339, occurred)
		}
		if err != nil {
			return in, badRequest("occurred_at must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		}
		in.OccurredAt = at
	}
	return in, nil
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest("Invalid JSON")
	}

	product, err := h.service.CreateProduct(c.UserContext(), owner, in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	productID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest("Invalid JSON")
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), owner, productID, in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	productID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.UserContext(), owner, productID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	products, err := h.service.ListProducts(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	productID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.service.GetProduct(c.UserContext(), owner, productID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

// LookupProduct resolves a scanned barcode.
func (h *InventoryHandler) LookupProduct(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	product, err := h.service.FindProductBySKU(c.UserContext(), owner, c.Query("sku"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

func (h *InventoryHandler) CreateTransaction(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid JSON")
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	tx, err := h.service.PostTransaction(c.UserContext(), owner, in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transaction recorded", "data": tx})
}

// GetTransactions lists recent transactions.
// Query params: limit (default 100, max 500), product_id, type (IN|OUT),
// from and to (YYYY-MM-DD, both inclusive)
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	query := service.RecentTransactionsQuery{
		Limit: c.QueryInt("limit", service.DefaultRecentLimit),
		Type:  model.TransactionType(strings.ToUpper(c.Query("type"))),
	}
	if raw := c.Query("product_id"); raw != "" {
		productID, err := uuid.Parse(raw)
		if err != nil {
			return badRequest("invalid product_id")
		}
		query.ProductID = &productID
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return badRequest("from must be a date (YYYY-MM-DD)")
		}
		query.Since = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return badRequest("to must be a date (YYYY-MM-DD)")
		}
		until := to.AddDate(0, 0, 1)
		query.Until = &until
	}

	transactions, err := h.dashboard.RecentTransactions(c.UserContext(), owner, query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactions})
}

func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	tx, err := h.service.GetTransaction(c.UserContext(), owner, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tx})
}
