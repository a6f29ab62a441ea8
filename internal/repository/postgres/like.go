package postgres

import (
	"context"

	"gorm.io/gorm"

	"quill/internal/observability"
	"quill/internal/repository"
)

type likeRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewLikeRepository returns the relational LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) repository.LikeRepository {
	return &likeRepository{db: db, log: observability.NewRepoLogger("postgres", "likes")}
}

func (r *likeRepository) Create(ctx context.Context, userID, postID string) error {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.likes.create")
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uid, err := parseID(userID)
		if err != nil {
			return err
		}
		pid, err := parseID(postID)
		if err != nil {
			return err
		}
		// Plain insert: duplicate likes are not prevented here.
		row := likeRow{UserID: uint(uid), PostID: uint(pid)}
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
	r.log.LogOperation(ctx, "create", map[string]interface{}{"user_id": userID, "post_id": postID})
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID string) error {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.likes.delete")
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uid, err := parseID(userID)
		if err != nil {
			return err
		}
		pid, err := parseID(postID)
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND post_id = ?", uid, pid).Delete(&likeRow{}).Error; err != nil {
			return wrapError(err)
		}
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return err
	}
	r.log.LogOperation(ctx, "delete", map[string]interface{}{"user_id": userID, "post_id": postID})
	return nil
}
