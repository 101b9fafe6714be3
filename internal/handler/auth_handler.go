package handler

import (
	"go-inventory-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var in service.Credentials
	if err := c.BodyParser(&in); err != nil {
		return badRequest("Invalid JSON")
	}

	resp, err := h.service.SignUp(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var in service.Credentials
	if err := c.BodyParser(&in); err != nil {
		return badRequest("Invalid JSON")
	}

	resp, err := h.service.SignIn(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SignOut revokes every token issued to the caller.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	if err := h.service.SignOut(c.UserContext(), owner); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	user, err := h.service.CurrentUser(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}
