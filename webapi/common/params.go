package common

import (
	"fmt"

	"github.com/amirasaad/strides/pkg/domain"
	"github.com/amirasaad/strides/pkg/domain/user"
	authsvc "github.com/amirasaad/strides/pkg/service/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrentUserID returns the id of the user the verified bearer token
// belongs to.
func CurrentUserID(c *fiber.Ctx, authSvc *authsvc.Service) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return authSvc.GetCurrentUserId(token)
}

// ParamUUID parses the named route parameter as a UUID.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, domain.NewError(domain.ErrValidation, fmt.Sprintf("%s must be a valid UUID", name))
	}
	return id, nil
}

// QueryUUID parses an optional query parameter as a UUID. It returns nil
// when the parameter is absent.
func QueryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewError(domain.ErrValidation, fmt.Sprintf("%s must be a valid UUID", name))
	}
	return &id, nil
}

// QueryDecimal parses an optional query parameter as a decimal. It returns
// nil when the parameter is absent.
func QueryDecimal(c *fiber.Ctx, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.NewError(domain.ErrValidation, fmt.Sprintf("%s must be a number", name))
	}
	return &d, nil
}
