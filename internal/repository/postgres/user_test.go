package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/auth"
	"quill/internal/models"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	email := "ada@example.com"
	password := "test"
	user := models.NewUser()
	user.FirstName = "Ada"
	user.LastName = "Lovelace"
	user.Email = &email
	user.Password = &password

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WithArgs("Ada", "Lovelace", &email, auth.Digest("test")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "settings"`)).
		WithArgs(1, 10, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, "5", user.Settings.ID)
	assert.Equal(t, "1", user.Settings.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_EmptyPassword(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	tests := []struct {
		name string
		user *models.User
	}{
		{"nil password", models.NewUser()},
		{"empty password", func() *models.User {
			u := models.NewUser()
			empty := ""
			u.Password = &empty
			return u
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The unit of work opens, fails validation, and rolls back
			// without touching either table.
			mock.ExpectBegin()
			mock.ExpectRollback()

			_, err := repo.Create(context.Background(), tt.user)
			require.Error(t, err)
			assert.Equal(t, models.KindValidation, models.KindOf(err))
			assert.Empty(t, tt.user.ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_SettingsFailureAborts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	password := "test"
	user := models.NewUser()
	user.FirstName = "Ada"
	user.Password = &password

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "settings"`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), user)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("match", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(queryPattern(userIDQuery)).
			WithArgs("ada@example.com", auth.Digest("test")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectCommit()

		id, err := repo.GetID(ctx, "ada@example.com", "test")
		require.NoError(t, err)
		assert.Equal(t, "7", id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no match", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(queryPattern(userIDQuery)).
			WithArgs("ada@example.com", auth.Digest("wrong")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := repo.GetID(ctx, "ada@example.com", "wrong")
		require.Error(t, err)
		assert.True(t, models.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

var userSettingsColumns = []string{
	"user_id", "first_name", "last_name", "email",
	"settings_id", "posts_per_page", "display_email",
}

func TestUserRepository_GetSettings(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("email hidden by default", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(queryPattern(userSettingsQuery)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(userSettingsColumns).
				AddRow(1, "Ada", "Lovelace", nil, 5, 10, false))
		mock.ExpectCommit()

		user, err := repo.GetSettings(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "1", user.ID)
		assert.Equal(t, "Ada", user.FirstName)
		assert.Nil(t, user.Email)
		assert.Equal(t, "5", user.Settings.ID)
		assert.Equal(t, "1", user.Settings.UserID)
		assert.Equal(t, 10, user.Settings.PostsPerPage)
		assert.False(t, user.Settings.DisplayEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email visible when opted in", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(queryPattern(userSettingsQuery)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(userSettingsColumns).
				AddRow(1, "Ada", "Lovelace", "ada@example.com", 5, 30, true))
		mock.ExpectCommit()

		user, err := repo.GetSettings(ctx, "1")
		require.NoError(t, err)
		require.NotNil(t, user.Email)
		assert.Equal(t, "ada@example.com", *user.Email)
		assert.Equal(t, 30, user.Settings.PostsPerPage)
		assert.True(t, user.Settings.DisplayEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(queryPattern(userSettingsQuery)).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(userSettingsColumns))
		mock.ExpectRollback()

		_, err := repo.GetSettings(ctx, "99")
		require.Error(t, err)
		assert.True(t, models.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := repo.GetSettings(ctx, "zzz")
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, models.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Edit(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("updates settings", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(queryPattern(`UPDATE settings SET posts_per_page = ?, display_email = ? WHERE user_id = ?`)).
			WithArgs(30, true, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Edit(ctx, &models.Settings{UserID: "1", PostsPerPage: 30, DisplayEmail: true})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(queryPattern(`UPDATE settings SET posts_per_page = ?, display_email = ? WHERE user_id = ?`)).
			WithArgs(10, false, int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Edit(ctx, &models.Settings{UserID: "99", PostsPerPage: 10})
		require.Error(t, err)
		assert.True(t, models.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
