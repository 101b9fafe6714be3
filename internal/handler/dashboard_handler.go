package handler

import (
	"go-inventory-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSummary returns overview statistics
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	summary, err := h.service.Summary(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	products, err := h.service.LowStockList(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

func (h *DashboardHandler) GetCategories(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	counts, err := h.service.CategoryDistribution(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// GetTopProducts ranks products by stock value.
// Query params: n (default 10)
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	values, err := h.service.TopValueProducts(c.UserContext(), owner, c.QueryInt("n", service.DefaultTopN))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": values})
}

// GetTrend returns stock movement data for charts
// Query params: days (default 30)
func (h *DashboardHandler) GetTrend(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	days := windowDays(c)
	data, err := h.service.TransactionTrend(c.UserContext(), owner, days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetMovement returns inbound and outbound amounts over the window.
// Query params: days (default 30)
func (h *DashboardHandler) GetMovement(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	days := windowDays(c)
	totals, err := h.service.MovementTotals(c.UserContext(), owner, days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   totals,
	})
}

func (h *DashboardHandler) GetInventory(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	statuses, err := h.service.Inventory(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statuses})
}

func windowDays(c *fiber.Ctx) int {
	days := c.QueryInt("days", service.DefaultTrendDays)
	if days <= 0 {
		return service.DefaultTrendDays
	}
	if days > service.MaxTrendDays {
		return service.MaxTrendDays
	}
	return days
}
