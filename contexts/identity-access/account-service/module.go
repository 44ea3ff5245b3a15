package accountservice

import (
	"log/slog"

	httpadapter "quorum/contexts/identity-access/account-service/adapters/http"
	"quorum/contexts/identity-access/account-service/adapters/memory"
	"quorum/contexts/identity-access/account-service/application"
	"quorum/contexts/identity-access/account-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.AccountRepository
	Tokens     ports.TokenIssuer
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	BcryptCost int
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:       deps.Repository,
		Tokens:     deps.Tokens,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		BcryptCost: deps.BcryptCost,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Accounts: service,
			Logger:   deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(tokens ports.TokenIssuer, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Tokens:     tokens,
		Clock:      store,
		IDGen:      store,
		// Minimum bcrypt cost keeps test suites fast.
		BcryptCost: 4,
		Logger:     logger,
	})
	module.Store = store
	return module
}
