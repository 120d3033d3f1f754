package account

import (
	"github.com/amirasaad/strides/pkg/config"
	"github.com/amirasaad/strides/pkg/middleware"
	accountsvc "github.com/amirasaad/strides/pkg/service/account"
	authsvc "github.com/amirasaad/strides/pkg/service/auth"
	"github.com/amirasaad/strides/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers HTTP routes for account operations. All routes require a
// valid bearer token, and every account is resolved against its owner.
//
// Routes:
//   - POST   /accounts                          : Create an account.
//   - GET    /accounts                          : List the caller's accounts.
//   - GET    /accounts/:id                      : Get one account.
//   - PUT    /accounts/:id                      : Partially update an account.
//   - DELETE /accounts/:id                      : Delete an account.
//   - GET    /accounts/:id/credit-analysis      : Analyze a credit card.
//   - GET    /accounts/:id/payment-suggestions  : Suggest a credit card payment.
func Routes(
	app *fiber.App,
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	g := app.Group("/accounts", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Post("/", CreateAccount(accountSvc, authSvc))
	g.Get("/", ListAccounts(accountSvc, authSvc))
	g.Get("/:id", GetAccount(accountSvc, authSvc))
	g.Put("/:id", UpdateAccount(accountSvc, authSvc))
	g.Delete("/:id", DeleteAccount(accountSvc, authSvc))
	g.Get("/:id/credit-analysis", CreditAnalysis(accountSvc, authSvc))
	g.Get("/:id/payment-suggestions", PaymentSuggestions(accountSvc, authSvc))
}

// CreateAccount returns a Fiber handler for creating an account for the current user.
// @Summary Create a new account
// @Description Creates an account with an optional opening balance. Credit card fields are only accepted for credit_card accounts.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response "Account created successfully"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts [post]
// @Security Bearer
func CreateAccount(
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := accountSvc.CreateAccount(c.UserContext(), input.toCreate(userID))
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(a))
	}
}

// ListAccounts lists the accounts of the current user.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts [get]
// @Security Bearer
func ListAccounts(
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accounts, err := accountSvc.ListAccounts(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		out := make([]*AccountDTO, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, ToAccountDTO(a))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", out)
	}
}

// GetAccount returns one account of the current user.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id} [get]
// @Security Bearer
func GetAccount(
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		a, err := accountSvc.GetAccount(c.UserContext(), userID, accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountDTO(a))
	}
}

// UpdateAccount applies a partial update to an account.
// @Summary Update an account
// @Description Only the fields present are written. Balance and account type are not editable.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body UpdateAccountRequest true "Fields to update"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id} [put]
// @Security Bearer
func UpdateAccount(
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		input, err := common.BindAndValidate[UpdateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := accountSvc.UpdateAccount(c.UserContext(), userID, accountID, input.toUpdate())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", ToAccountDTO(a))
	}
}

// DeleteAccount deletes an account. Its transactions are kept.
// @Summary Delete an account
// @Tags accounts
// @Param id path string true "Account ID"
// @Success 204
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id} [delete]
// @Security Bearer
func DeleteAccount(
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		if err := accountSvc.DeleteAccount(c.UserContext(), userID, accountID); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete account", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CreditAnalysis returns the credit analysis of a credit card account.
// @Summary Credit card analysis
// @Description Utilization, due date status and a payment ladder. Only valid for credit_card accounts.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id}/credit-analysis [get]
// @Security Bearer
func CreditAnalysis(
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		a, err := accountSvc.CreditAnalysis(c.UserContext(), userID, accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to analyze account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Credit analysis", ToCreditAnalysisDTO(a))
	}
}

// PaymentSuggestions suggests a payment for a credit card account.
// @Summary Credit card payment suggestions
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param available_budget query number false "Budget that caps the recommendation"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id}/payment-suggestions [get]
// @Security Bearer
func PaymentSuggestions(
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		budget, err := common.QueryDecimal(c, "available_budget")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid budget", err)
		}
		s, err := accountSvc.PaymentSuggestions(c.UserContext(), userID, accountID, budget)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to suggest payment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment suggestions", ToPaymentSuggestionDTO(s))
	}
}
