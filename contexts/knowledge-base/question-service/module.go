package questionservice

import (
	"log/slog"

	httpadapter "quorum/contexts/knowledge-base/question-service/adapters/http"
	"quorum/contexts/knowledge-base/question-service/adapters/memory"
	"quorum/contexts/knowledge-base/question-service/application"
	"quorum/contexts/knowledge-base/question-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.QuestionRepository
	Activity   ports.ActivityRecorder
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:     deps.Repository,
		Activity: deps.Activity,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Questions: service,
			Logger:    deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(activity ports.ActivityRecorder, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Activity:   activity,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
