// Package transaction exposes expenses, incomes and transfers. Every write
// moves the affected account balances in the same unit of work.
package transaction

import (
	"log/slog"

	"github.com/amirasaad/strides/pkg/cache"
	"github.com/amirasaad/strides/pkg/config"
	"github.com/amirasaad/strides/pkg/middleware"
	authsvc "github.com/amirasaad/strides/pkg/service/auth"
	transactionsvc "github.com/amirasaad/strides/pkg/service/transaction"
	transfersvc "github.com/amirasaad/strides/pkg/service/transfer"
	"github.com/amirasaad/strides/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the transaction routes. The two create routes honour an
// Idempotency-Key header backed by store.
//
// Routes:
//   - POST   /transactions           : Record an expense or income.
//   - POST   /transactions/transfer  : Transfer between two accounts.
//   - GET    /transactions           : List, newest first, optionally ?account_id=.
//   - GET    /transactions/:id       : Get one transaction.
//   - PUT    /transactions/:id       : Partially update a transaction.
//   - DELETE /transactions/:id       : Delete a transaction, or both sides of a transfer.
func Routes(
	app *fiber.App,
	txSvc *transactionsvc.Service,
	transferSvc *transfersvc.Service,
	authSvc *authsvc.Service,
	store cache.ResponseCache,
	cfg *config.App,
	logger *slog.Logger,
) {
	idempotent := middleware.Idempotency(store, cfg.Idempotency.TTL, logger)
	g := app.Group("/transactions", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Post("/", idempotent, CreateTransaction(txSvc, authSvc))
	g.Post("/transfer", idempotent, CreateTransfer(transferSvc, authSvc))
	g.Get("/", ListTransactions(txSvc, authSvc))
	g.Get("/:id", GetTransaction(txSvc, authSvc))
	g.Put("/:id", UpdateTransaction(txSvc, authSvc))
	g.Delete("/:id", DeleteTransaction(txSvc, authSvc))
}

// CreateTransaction records an expense or income.
// @Summary Create a transaction
// @Description Records an expense or income and applies it to the account balance. On a credit card an expense increases the debt.
// @Tags transactions
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the stored response of an earlier request with the same key"
// @Param request body CreateTransactionRequest true "Transaction details"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /transactions [post]
// @Security Bearer
func CreateTransaction(
	txSvc *transactionsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err // error response already written
		}
		tx, err := txSvc.Create(c.UserContext(), input.toRequest(userID))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created", ToTransactionDTO(tx))
	}
}

// CreateTransfer moves money between two accounts of the current user.
// @Summary Transfer between accounts
// @Description Writes an out and an in document sharing a transfer group. A transfer from a non-credit account into a credit card is a card payment and cannot exceed the card balance.
// @Tags transactions
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the stored response of an earlier request with the same key"
// @Param request body TransferRequest true "Transfer details"
// @Success 201 {object} common.Response "Out and in documents, in that order"
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /transactions/transfer [post]
// @Security Bearer
func CreateTransfer(
	transferSvc *transfersvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err // error response already written
		}
		pair, err := transferSvc.Create(c.UserContext(), input.toRequest(userID))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to transfer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer completed", ToTransactionDTOs(pair))
	}
}

// ListTransactions lists the newest transactions of the current user.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param account_id query string false "Only transactions of this account"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /transactions [get]
// @Security Bearer
func ListTransactions(
	txSvc *transactionsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.QueryUUID(c, "account_id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		txs, err := txSvc.List(c.UserContext(), userID, accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", ToTransactionDTOs(txs))
	}
}

// GetTransaction returns one transaction of the current user.
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [get]
// @Security Bearer
func GetTransaction(
	txSvc *transactionsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err)
		}
		tx, err := txSvc.Get(c.UserContext(), userID, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", ToTransactionDTO(tx))
	}
}

// UpdateTransaction applies a partial update to a transaction.
// @Summary Update a transaction
// @Description Amount, category, subcategory, notes and date only. The amount of a transfer side cannot change; a new date moves both sides.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [put]
// @Security Bearer
func UpdateTransaction(
	txSvc *transactionsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err)
		}
		input, err := common.BindAndValidate[UpdateTransactionRequest](c)
		if input == nil {
			return err // error response already written
		}
		tx, err := txSvc.Update(c.UserContext(), userID, id, input.toUpdate())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction updated", ToTransactionDTO(tx))
	}
}

// DeleteTransaction deletes a transaction and reverts its balance effect.
// Deleting either side of a transfer deletes both.
// @Summary Delete a transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [delete]
// @Security Bearer
func DeleteTransaction(
	txSvc *transactionsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err)
		}
		if err := txSvc.Delete(c.UserContext(), userID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete transaction", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
