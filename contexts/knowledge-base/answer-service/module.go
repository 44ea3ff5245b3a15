package answerservice

import (
	"log/slog"

	httpadapter "quorum/contexts/knowledge-base/answer-service/adapters/http"
	"quorum/contexts/knowledge-base/answer-service/adapters/memory"
	"quorum/contexts/knowledge-base/answer-service/application"
	"quorum/contexts/knowledge-base/answer-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository    ports.AnswerRepository
	Questions     ports.QuestionDirectory
	Activity      ports.ActivityRecorder
	Notifications ports.NotificationEmitter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:          deps.Repository,
		Questions:     deps.Questions,
		Activity:      deps.Activity,
		Notifications: deps.Notifications,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Answers: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(
	activity ports.ActivityRecorder,
	notifications ports.NotificationEmitter,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:    store,
		Questions:     store,
		Activity:      activity,
		Notifications: notifications,
		Clock:         store,
		IDGen:         store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
