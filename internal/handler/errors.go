package handler

import (
	"errors"

	"go-inventory-tracker/internal/session"
	apperr "go-inventory-tracker/pkg/errors"
	"go-inventory-tracker/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    apperr.Code `json:"code"`
	Details any         `json:"details,omitempty"`
}

// ErrorHandler renders errors returned by handlers and middleware.
func ErrorHandler(logg *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := apperr.CodeInternal
			switch {
			case fiberErr.Code == fiber.StatusNotFound:
				code = apperr.CodeNotFound
			case fiberErr.Code < fiber.StatusInternalServerError:
				code = apperr.CodeInvalidInput
			}
			return c.Status(fiberErr.Code).JSON(ErrorResponse{Error: fiberErr.Message, Code: code})
		}

		typed := apperr.As(err)
		code := apperr.CodeOf(err)
		meta := apperr.MetadataFor(code)

		resp := ErrorResponse{Error: meta.PublicMessage, Code: code}
		if typed != nil && meta.ExposeMessage {
			resp.Error = typed.Message()
			resp.Details = typed.Details()
		}
		if meta.HTTPStatus >= fiber.StatusInternalServerError {
			logg.Error(c.UserContext(), "request failed", err)
		}
		return c.Status(meta.HTTPStatus).JSON(resp)
	}
}

func badRequest(message string) error {
	return apperr.New(apperr.CodeInvalidInput, message)
}

// ownerID returns the authenticated owner placed in the request context by RequireAuth.
func ownerID(c *fiber.Ctx) (uuid.UUID, error) {
	identity, ok := session.FromContext(c.UserContext())
	if !ok {
		return uuid.Nil, apperr.New(apperr.CodeUnauthorized, "authentication required")
	}
	return identity.UserID, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, badRequest("invalid " + name)
	}
	return id, nil
}
