package postgres

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"quill/internal/auth"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
)

// userSettingsQuery loads a user joined with its settings. The user's own
// email follows the same redaction rule as post author views: hidden unless
// DisplayEmail is set.
const userSettingsQuery = `SELECT
	u.id AS user_id, u.first_name, u.last_name,
	CASE WHEN s.display_email = false THEN NULL ELSE u.email END AS email,
	s.id AS settings_id, s.posts_per_page, s.display_email
FROM users u
INNER JOIN settings s ON s.user_id = u.id
WHERE u.id = ?`

const userIDQuery = `SELECT id FROM users WHERE email = ? AND password = ?`

type userSettingsResult struct {
	UserID       int64
	FirstName    string
	LastName     string
	Email        *string
	SettingsID   int64
	PostsPerPage int
	DisplayEmail bool
}

func (res *userSettingsResult) toModel() *models.User {
	id := strconv.FormatInt(res.UserID, 10)
	return &models.User{
		ID:        id,
		FirstName: res.FirstName,
		LastName:  res.LastName,
		Email:     res.Email,
		Settings: models.Settings{
			ID:           strconv.FormatInt(res.SettingsID, 10),
			UserID:       id,
			PostsPerPage: res.PostsPerPage,
			DisplayEmail: res.DisplayEmail,
		},
	}
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns the relational UserRepository implementation.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("postgres", "users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (string, error) {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.users.create")
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user.Password == nil || *user.Password == "" {
			return models.NewValidationError("password should be non-empty")
		}
		digest := auth.Digest(*user.Password)

		row := userRow{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Password:  &digest,
		}
		if err := tx.Create(&row).Error; err != nil {
			return wrapError(err)
		}
		user.ID = formatID(row.ID)
		user.Settings.UserID = user.ID

		// The settings record is created in the same unit of work: a user
		// is never visible without one.
		settings := settingsRow{
			UserID:       row.ID,
			PostsPerPage: user.Settings.PostsPerPage,
			DisplayEmail: user.Settings.DisplayEmail,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return wrapError(err)
		}
		user.Settings.ID = formatID(settings.ID)
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return "", err
	}
	r.log.LogOperation(ctx, "create", map[string]interface{}{"user_id": user.ID})
	return user.ID, nil
}

func (r *userRepository) GetID(ctx context.Context, email, password string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.users.get_id")
	var id string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Raw(userIDQuery, email, auth.Digest(password)).Scan(&ids).Error; err != nil {
			return wrapError(err)
		}
		if len(ids) == 0 {
			return models.NewNotFoundMessage("user with this email and password doesn't exist")
		}
		id = strconv.FormatInt(ids[0], 10)
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "get_id")
		return "", err
	}
	return id, nil
}

func (r *userRepository) GetSettings(ctx context.Context, id string) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.users.get_settings")
	var user *models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := parseID(id)
		if err != nil {
			return err
		}
		var results []userSettingsResult
		if err := tx.Raw(userSettingsQuery, userID).Scan(&results).Error; err != nil {
			return wrapError(err)
		}
		if len(results) == 0 {
			return models.NewNotFoundError("User", id)
		}
		user = results[0].toModel()
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "get_settings")
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Edit(ctx context.Context, settings *models.Settings) error {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.users.edit")
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := parseID(settings.UserID)
		if err != nil {
			return err
		}
		res := tx.Exec(
			`UPDATE settings SET posts_per_page = ?, display_email = ? WHERE user_id = ?`,
			settings.PostsPerPage, settings.DisplayEmail, userID,
		)
		if res.Error != nil {
			return wrapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Settings", settings.UserID)
		}
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "edit")
		return err
	}
	r.log.LogOperation(ctx, "edit", map[string]interface{}{"user_id": settings.UserID})
	return nil
}
