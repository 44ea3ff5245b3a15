package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "quorum/contexts/identity-access/account-service/domain/errors"
	"quorum/contexts/identity-access/account-service/domain/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateAccount(ctx context.Context, account entities.Account) error {
	row := accountModelFromEntity(account)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err, "accounts_username_key") {
			return domainerrors.ErrUsernameTaken
		}
		if isUniqueViolation(err, "accounts_email_key") {
			return domainerrors.ErrEmailTaken
		}
		if isUniqueViolation(err, "") {
			return domainerrors.ErrEmailTaken
		}
		return r.logError("account_repo_create_failed", err, "account_id", account.ID)
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, accountID string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(accountID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, r.logError("account_repo_get_failed", err, "account_id", accountID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, r.logError("account_repo_get_by_email_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) ApplyReputationDelta(ctx context.Context, accountID string, delta int) error {
	update := r.db.WithContext(ctx).Model(&accountModel{}).
		Where("id = ?", strings.TrimSpace(accountID)).
		Updates(map[string]any{
			"reputation": gorm.Expr("reputation + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if update.Error != nil {
		return r.logError("account_repo_reputation_delta_failed", update.Error,
			"account_id", strings.TrimSpace(accountID),
			"delta", delta,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) IncrementQuestionsAsked(ctx context.Context, accountID string) error {
	return r.incrementCounter(ctx, accountID, "questions_asked")
}

func (r *Repository) IncrementAnswersGiven(ctx context.Context, accountID string) error {
	return r.incrementCounter(ctx, accountID, "answers_given")
}

func (r *Repository) incrementCounter(ctx context.Context, accountID string, column string) error {
	update := r.db.WithContext(ctx).Model(&accountModel{}).
		Where("id = ?", strings.TrimSpace(accountID)).
		Update(column, gorm.Expr(column+" + 1"))
	if update.Error != nil {
		return r.logError("account_repo_counter_failed", update.Error,
			"account_id", strings.TrimSpace(accountID),
			"column", column,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/account-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("account repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	if constraint == "" {
		return true
	}
	return pgErr.ConstraintName == constraint
}

type accountModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	Username       string    `gorm:"column:username"`
	Email          string    `gorm:"column:email"`
	PasswordHash   string    `gorm:"column:password_hash"`
	Reputation     int       `gorm:"column:reputation"`
	QuestionsAsked int       `gorm:"column:questions_asked"`
	AnswersGiven   int       `gorm:"column:answers_given"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "accounts"
}

func accountModelFromEntity(account entities.Account) accountModel {
	return accountModel{
		ID:             account.ID,
		Username:       account.Username,
		Email:          account.Email,
		PasswordHash:   account.PasswordHash,
		Reputation:     account.Reputation,
		QuestionsAsked: account.QuestionsAsked,
		AnswersGiven:   account.AnswersGiven,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Reputation:     m.Reputation,
		QuestionsAsked: m.QuestionsAsked,
		AnswersGiven:   m.AnswersGiven,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// SystemClock satisfies the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator satisfies the IDGenerator port with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
