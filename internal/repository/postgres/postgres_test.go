package postgres

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"quill/internal/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// queryPattern turns a query constant into the regexp sqlmock will see:
// quoted literally, with each ? placeholder rewritten to the $n bind var
// the postgres dialect emits.
func queryPattern(q string) string {
	return strings.ReplaceAll(regexp.QuoteMeta(q), `\?`, `\$\d+`)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("not-a-number")
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestViewerParam(t *testing.T) {
	assert.Nil(t, viewerParam(""))
	assert.Nil(t, viewerParam("abc"))
	assert.Equal(t, int64(7), viewerParam("7"))
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind models.Kind
	}{
		{"record not found", gorm.ErrRecordNotFound, models.KindNotFound},
		{"unique violation", errors.New(`duplicate key value violates unique constraint "idx_sessions_code" (SQLSTATE 23505)`), models.KindIntegrity},
		{"foreign key violation", errors.New(`insert or update on table "posts" violates foreign key constraint (SQLSTATE 23503)`), models.KindIntegrity},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), models.KindConnection},
		{"auth failure", errors.New("pq: password authentication failed for user"), models.KindConnection},
		{"other", errors.New("boom"), models.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, models.KindOf(wrapError(tt.err)))
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, wrapError(nil))
	})

	t.Run("tagged errors pass through", func(t *testing.T) {
		tagged := models.NewValidationError("bad input")
		assert.Same(t, error(tagged), wrapError(tagged))
	})
}
