// Package postgres implements the repository contracts on PostgreSQL.
//
// Every operation runs inside one request-scoped transaction: the gorm
// Transaction closure begins the unit of work, the queries execute, and the
// closure's return value decides commit or rollback. Projection into domain
// entities happens in SQL (author join, email redaction, viewer-relative
// liked flag) so a single query serves each read.
package postgres

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"quill/internal/models"
)

// Row records mirror the relational schema. They are deliberately separate
// from the domain entities: domain ids are opaque strings while the schema
// uses integer keys, and Liked never exists as a column.

type userRow struct {
	ID        uint `gorm:"primaryKey"`
	FirstName string
	LastName  string
	Email     *string
	Password  *string
}

func (userRow) TableName() string { return "users" }

type settingsRow struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"index"`
	PostsPerPage int
	DisplayEmail bool
}

func (settingsRow) TableName() string { return "settings" }

type postRow struct {
	ID          uint  `gorm:"primaryKey"`
	UserID      *uint `gorm:"index"`
	Title       string
	Text        *string `gorm:"type:text"`
	Description *string
}

func (postRow) TableName() string { return "posts" }

// likeRow carries no payload beyond the relation. There is no unique index
// on (user_id, post_id): the write path does not deduplicate likes.
type likeRow struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index"`
	PostID uint `gorm:"index"`
}

func (likeRow) TableName() string { return "likes" }

type sessionRow struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"index"`
	Code   string `gorm:"uniqueIndex"`
}

func (sessionRow) TableName() string { return "sessions" }

// Tables returns the record set for schema migration.
func Tables() []any {
	return []any{&userRow{}, &settingsRow{}, &postRow{}, &likeRow{}, &sessionRow{}}
}

// parseID converts an opaque domain id into the schema's integer key.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, models.NewValidationError("malformed id: " + id)
	}
	return n, nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// viewerParam converts an optional viewer id into a bind value for the like
// join. An absent or unparsable viewer binds NULL, which matches no like
// row, so Liked comes back false everywhere.
func viewerParam(viewerID string) any {
	if viewerID == "" {
		return nil
	}
	n, err := strconv.ParseInt(viewerID, 10, 64)
	if err != nil {
		return nil
	}
	return n
}

// wrapError maps engine failures onto the tagged error taxonomy.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var tagged *models.Error
	if errors.As(err, &tagged) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundMessage("record not found")
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "sqlstate 23"),
		strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "violates"):
		return models.NewIntegrityError(err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "bad connection"),
		strings.Contains(msg, "password authentication failed"),
		strings.Contains(msg, "no such host"):
		return models.NewConnectionError(err)
	default:
		return models.NewInternalError(err)
	}
}
