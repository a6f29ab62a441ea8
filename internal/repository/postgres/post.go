package postgres

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
)

// postProjection joins the owning user and its settings onto each post and
// computes the two derived read-model fields: email, redacted unless the
// author opted in, and liked, true only when the like join found a row for
// the viewer. The like join itself is appended per query since list and
// liked-list differ in join type.
const postProjection = `SELECT
	u.id AS author_id, u.first_name, u.last_name,
	CASE WHEN s.display_email IS NULL OR s.display_email = false THEN NULL ELSE u.email END AS email,
	p.id AS post_id, p.title, p.text, p.description,
	CASE WHEN l.id IS NULL THEN false ELSE true END AS liked
FROM posts p
LEFT JOIN users u ON p.user_id = u.id
LEFT JOIN settings s ON p.user_id = s.user_id
`

const (
	postGetQuery       = postProjection + `LEFT JOIN likes l ON p.id = l.post_id AND l.user_id = ? WHERE p.id = ?`
	postListQuery      = postProjection + `LEFT JOIN likes l ON p.id = l.post_id AND l.user_id = ?`
	postLikedListQuery = postProjection + `INNER JOIN likes l ON p.id = l.post_id AND l.user_id = ?`
)

// postResult is the scan target for the projection queries.
type postResult struct {
	AuthorID    *int64
	FirstName   *string
	LastName    *string
	Email       *string
	PostID      int64
	Title       string
	Text        *string
	Description *string
	Liked       bool
}

func (res *postResult) toModel() models.Post {
	post := models.Post{
		ID:          strconv.FormatInt(res.PostID, 10),
		Title:       res.Title,
		Text:        res.Text,
		Description: res.Description,
		Liked:       res.Liked,
	}
	if res.AuthorID != nil {
		author := models.NewUser()
		author.ID = strconv.FormatInt(*res.AuthorID, 10)
		if res.FirstName != nil {
			author.FirstName = *res.FirstName
		}
		if res.LastName != nil {
			author.LastName = *res.LastName
		}
		author.Email = res.Email
		post.Author = author
	}
	return post
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository returns the relational PostRepository implementation.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("postgres", "posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (string, error) {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.posts.create")
	var id string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := postRow{
			Title:       post.Title,
			Text:        post.Text,
			Description: post.Description,
		}
		if post.Author != nil {
			authorID, err := parseID(post.Author.ID)
			if err != nil {
				return err
			}
			uid := uint(authorID)
			row.UserID = &uid
		}
		if err := tx.Create(&row).Error; err != nil {
			return wrapError(err)
		}
		id = formatID(row.ID)
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return "", err
	}
	r.log.LogOperation(ctx, "create", map[string]interface{}{"post_id": id})
	return id, nil
}

func (r *postRepository) Get(ctx context.Context, id, viewerID string) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.posts.get")
	var post *models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postID, err := parseID(id)
		if err != nil {
			return err
		}
		var results []postResult
		if err := tx.Raw(postGetQuery, viewerParam(viewerID), postID).Scan(&results).Error; err != nil {
			return wrapError(err)
		}
		if len(results) == 0 {
			return models.NewNotFoundError("Post", id)
		}
		p := results[0].toModel()
		post = &p
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "get")
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, viewerID string) ([]models.Post, error) {
	return r.list(ctx, "list", postListQuery, viewerParam(viewerID))
}

func (r *postRepository) LikedList(ctx context.Context, viewerID string) ([]models.Post, error) {
	viewer, err := parseID(viewerID)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, "liked_list", postLikedListQuery, viewer)
}

func (r *postRepository) list(ctx context.Context, operation, query string, viewer any) ([]models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "repository.postgres.posts."+operation)
	var posts []models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var results []postResult
		if err := tx.Raw(query, viewer).Scan(&results).Error; err != nil {
			return wrapError(err)
		}
		posts = make([]models.Post, 0, len(results))
		for i := range results {
			posts = append(posts, results[i].toModel())
		}
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, operation)
		return nil, err
	}
	r.log.LogOperation(ctx, operation, map[string]interface{}{"count": len(posts)})
	return posts, nil
}
