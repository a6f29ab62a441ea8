package postgres

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
)

const sessionUserQuery = `SELECT user_id FROM sessions WHERE code = ?`

type sessionRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewSessionRepository returns the relational SessionRepository
// implementation. Session codes carry a unique index, so reusing a code
// across users fails as an integrity error instead of producing an
// ambiguous owner.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db, log: observability.NewRepoLogger("postgres", "sessions")}
}

func (r *sessionRepository) Create(ctx context.Context, userID, code string) error {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.sessions.create")
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uid, err := parseID(userID)
		if err != nil {
			return err
		}
		if code == "" {
			return models.NewValidationError("session code should be non-empty")
		}
		row := sessionRow{UserID: uint(uid), Code: code}
		if err := tx.Create(&row).Error; err != nil {
			return wrapError(err)
		}
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogOperation(ctx, "create", map[string]interface{}{"user_id": userID})
	return nil
}

func (r *sessionRepository) GetUserID(ctx context.Context, code string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.sessions.get_user_id")
	var userID string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Raw(sessionUserQuery, code).Scan(&ids).Error; err != nil {
			return wrapError(err)
		}
		if len(ids) == 0 {
			return models.NewNotFoundMessage("user with this session code doesn't exist")
		}
		userID = strconv.FormatInt(ids[0], 10)
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "get_user_id")
		return "", err
	}
	return userID, nil
}
