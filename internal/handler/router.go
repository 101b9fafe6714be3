package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth      *AuthHandler
	Inventory *InventoryHandler
	Dashboard *DashboardHandler
	WS        *WSHandler
}

// Register mounts the API under /api/v1 and the live feed under /ws. requireAuth
// guards every route except sign-up and sign-in.
func Register(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/sign-up", h.Auth.SignUp)
	auth.Post("/sign-in", h.Auth.SignIn)
	auth.Post("/sign-out", requireAuth, h.Auth.SignOut)
	auth.Get("/me", requireAuth, h.Auth.Me)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/products", h.Inventory.GetProducts)
	protected.Post("/products", h.Inventory.CreateProduct)
	protected.Get("/products/lookup", h.Inventory.LookupProduct)
	protected.Get("/products/:id", h.Inventory.GetProduct)
	protected.Put("/products/:id", h.Inventory.UpdateProduct)
	protected.Delete("/products/:id", h.Inventory.DeleteProduct)

	protected.Post("/transactions", h.Inventory.CreateTransaction)
	protected.Get("/transactions", h.Inventory.GetTransactions)
	protected.Get("/transactions/:id", h.Inventory.GetTransaction)

	protected.Get("/dashboard/summary", h.Dashboard.GetSummary)
	protected.Get("/dashboard/low-stock", h.Dashboard.GetLowStock)
	protected.Get("/dashboard/categories", h.Dashboard.GetCategories)
	protected.Get("/dashboard/top-products", h.Dashboard.GetTopProducts)
	protected.Get("/dashboard/trend", h.Dashboard.GetTrend)
	protected.Get("/dashboard/movement", h.Dashboard.GetMovement)
	protected.Get("/dashboard/inventory", h.Dashboard.GetInventory)

	if h.WS != nil {
		app.Get("/ws", requireAuth, h.WS.Upgrade, h.WS.Stream())
	}
}
