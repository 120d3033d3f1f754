// Package app wires configuration and infrastructure into the services the
// transports use.
package app

import (
	"log/slog"

	"github.com/amirasaad/strides/pkg/cache"
	"github.com/amirasaad/strides/pkg/config"
	"github.com/amirasaad/strides/pkg/repository"
	"github.com/amirasaad/strides/pkg/service/account"
	"github.com/amirasaad/strides/pkg/service/auth"
	"github.com/amirasaad/strides/pkg/service/category"
	"github.com/amirasaad/strides/pkg/service/transaction"
	"github.com/amirasaad/strides/pkg/service/transfer"
	"github.com/amirasaad/strides/pkg/service/user"
)

// Deps contains the infrastructure the services are built from.
type Deps struct {
	Uow    repository.UnitOfWork
	Cache  cache.ResponseCache
	Logger *slog.Logger
}

type App struct {
	Deps               *Deps
	Config             *config.App
	AuthService        *auth.Service
	UserService        *user.Service
	AccountService     *account.Service
	CategoryService    *category.Service
	TransactionService *transaction.Service
	TransferService    *transfer.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}

	authMap := map[string]func() *auth.Service{
		"jwt": func() *auth.Service {
			return auth.NewWithJWT(deps.Uow, cfg.Auth.Jwt, deps.Logger)
		},
	}
	if authFactory, ok := authMap[cfg.Auth.Strategy]; ok {
		app.AuthService = authFactory()
	} else {
		deps.Logger.Warn("Unknown auth strategy, using jwt", "strategy", cfg.Auth.Strategy)
		app.AuthService = authMap["jwt"]()
	}
	app.UserService = user.New(deps.Uow, deps.Logger)
	app.AccountService = account.New(deps.Uow, deps.Logger)
	app.CategoryService = category.New(deps.Uow, deps.Logger)
	app.TransactionService = transaction.New(deps.Uow, deps.Logger, cfg.Transactions.PageSize)
	app.TransferService = transfer.New(deps.Uow, deps.Logger)
	return app
}
