package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	notificationservice "quorum/contexts/community-experience/notification-service"
	notificationpostgres "quorum/contexts/community-experience/notification-service/adapters/postgres"
	notificationapp "quorum/contexts/community-experience/notification-service/application"
	accountservice "quorum/contexts/identity-access/account-service"
	accountpostgres "quorum/contexts/identity-access/account-service/adapters/postgres"
	answerservice "quorum/contexts/knowledge-base/answer-service"
	answerpostgres "quorum/contexts/knowledge-base/answer-service/adapters/postgres"
	answerports "quorum/contexts/knowledge-base/answer-service/ports"
	questionservice "quorum/contexts/knowledge-base/question-service"
	questionpostgres "quorum/contexts/knowledge-base/question-service/adapters/postgres"
	votingengine "quorum/contexts/knowledge-base/voting-engine"
	votingpostgres "quorum/contexts/knowledge-base/voting-engine/adapters/postgres"
	votingworkers "quorum/contexts/knowledge-base/voting-engine/application/workers"
	votingports "quorum/contexts/knowledge-base/voting-engine/ports"
	contractsv1 "quorum/contracts/gen/events/v1"
	"quorum/internal/platform/auth"
	"quorum/internal/platform/config"
	"quorum/internal/platform/db"
	"quorum/internal/platform/httpserver"
	"quorum/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.Bus
	outboxRelay  votingworkers.OutboxRelay
	enabled      bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(context.Background(), cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	accountRepo := accountpostgres.NewRepository(pg.DB, logger)
	accounts := accountservice.NewModule(accountservice.Dependencies{
		Repository: accountRepo,
		Tokens:     tokens,
		Clock:      accountpostgres.SystemClock{},
		IDGen:      accountpostgres.UUIDGenerator{},
		BcryptCost: cfg.BcryptCost,
		Logger:     logger,
	})

	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
	notifications := notificationservice.NewModule(notificationservice.Dependencies{
		Repository: notificationRepo,
		Clock:      notificationpostgres.SystemClock{},
		IDGen:      notificationpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	questionRepo := questionpostgres.NewRepository(pg.DB, logger)
	questions := questionservice.NewModule(questionservice.Dependencies{
		Repository: questionRepo,
		Activity:   accounts.Service,
		Clock:      questionpostgres.SystemClock{},
		IDGen:      questionpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	answerRepo := answerpostgres.NewRepository(pg.DB, logger)
	answers := answerservice.NewModule(answerservice.Dependencies{
		Repository:    answerRepo,
		Questions:     answerpostgres.NewQuestionDirectory(pg.DB, logger),
		Activity:      accounts.Service,
		Notifications: answerNotificationBridge{notifications: notifications.Service},
		Clock:         answerpostgres.SystemClock{},
		IDGen:         answerpostgres.UUIDGenerator{},
		Logger:        logger,
	})

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	voting := votingengine.NewModule(votingengine.Dependencies{
		Votables:      votingRepo,
		Reputation:    accounts.Service,
		Notifications: votingNotificationBridge{notifications: notifications.Service},
		Outbox:        votingRepo,
		Clock:         votingpostgres.SystemClock{},
		IDGen:         votingpostgres.UUIDGenerator{},
		Logger:        logger,
	})

	server := httpserver.New(httpserver.Modules{
		Accounts:      accounts,
		Questions:     questions,
		Answers:       answers,
		Voting:        voting,
		Notifications: notifications,
	}, tokens, logger, normalizeAddr(cfg.HTTPPort))

	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(context.Background(), cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	votingRepo := votingpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		outboxRelay: votingworkers.OutboxRelay{
			Outbox:    votingRepo,
			Publisher: bus,
			Clock:     votingpostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		enabled:      cfg.EnableOutboxRelay,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.enabled {
		w.logger.Info("outbox relay disabled, worker idle",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	for _, topic := range []string{
		contractsv1.TopicVoteApplied,
		contractsv1.TopicVoteRemoved,
		contractsv1.TopicAnswerAccepted,
	} {
		if err := w.bus.Subscribe(ctx, topic, "audit-log", w.auditEvent); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) auditEvent(_ context.Context, event contractsv1.Envelope) error {
	w.logger.Info("domain event consumed",
		"event", "worker_event_consumed",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// votingNotificationBridge adapts the voting engine's emitter port to the
// notification module. Contexts never import each other, so the translation
// lives here in the composition root.
type votingNotificationBridge struct {
	notifications notificationapp.Service
}

func (b votingNotificationBridge) EmitNotification(ctx context.Context, notification votingports.Notification) error {
	_, err := b.notifications.Emit(ctx, notificationapp.EmitCommand{
		RecipientID: notification.RecipientID,
		SenderID:    notification.SenderID,
		Type:        notification.Type,
		QuestionID:  notification.QuestionID,
		AnswerID:    notification.AnswerID,
		VoteAction:  notification.VoteAction,
	})
	return err
}

type answerNotificationBridge struct {
	notifications notificationapp.Service
}

func (b answerNotificationBridge) EmitNotification(ctx context.Context, notification answerports.Notification) error {
	_, err := b.notifications.Emit(ctx, notificationapp.EmitCommand{
		RecipientID: notification.RecipientID,
		SenderID:    notification.SenderID,
		Type:        notification.Type,
		QuestionID:  notification.QuestionID,
		AnswerID:    notification.AnswerID,
	})
	return err
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
