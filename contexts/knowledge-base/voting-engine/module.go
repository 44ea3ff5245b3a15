package votingengine

import (
	"log/slog"

	httpadapter "quorum/contexts/knowledge-base/voting-engine/adapters/http"
	"quorum/contexts/knowledge-base/voting-engine/adapters/memory"
	"quorum/contexts/knowledge-base/voting-engine/application/commands"
	"quorum/contexts/knowledge-base/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Votables      ports.VotableRepository
	Reputation    ports.ReputationWriter
	Notifications ports.NotificationEmitter
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Votables:      deps.Votables,
		Reputation:    deps.Reputation,
		Notifications: deps.Notifications,
		Outbox:        deps.Outbox,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	acceptUseCase := commands.AcceptUseCase{
		Votables:      deps.Votables,
		Reputation:    deps.Reputation,
		Notifications: deps.Notifications,
		Outbox:        deps.Outbox,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:      voteUseCase,
			Acceptance: acceptUseCase,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Votables:      store,
		Reputation:    store,
		Notifications: store,
		Outbox:        store,
		Clock:         store,
		IDGen:         store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
