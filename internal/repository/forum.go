package repository

import (
	"context"
	"errors"

	"tavern/internal/cache"
	"tavern/internal/models"

	"gorm.io/gorm"
)

const forumSummaryColumns = "forums.*, " +
	"threads.id AS last_post_thread_id, threads.title AS last_post_thread_title, " +
	"posts.created_at AS last_post_time, " +
	"users.uid AS last_post_user_uid, users.username AS last_post_username, users.role AS last_post_user_role"

const threadSummaryColumns = "threads.*, " +
	"author.username AS author_username, author.role AS author_role, " +
	"author.avatar_url AS author_avatar_url, author.avatar_color AS author_avatar_color, " +
	"last_poster.username AS last_post_username, last_poster.role AS last_post_role"

const postViewColumns = "posts.*, " +
	"users.username, users.role, users.avatar_url, users.avatar_color, " +
	"users.registration_date, users.post_count AS poster_post_count"

// ForumRepository defines persistence operations for forums, threads and
// posts. Counter maintenance is not handled here; the write transactions
// in the forum service own that.
type ForumRepository interface {
	// ListSummaries returns every forum joined with its resolved last-post
	// pointer, ordered by category then display order. Served cache-aside
	// from Redis.
	ListSummaries(ctx context.Context) ([]models.ForumSummary, error)
	GetForum(ctx context.Context, id uint) (*models.Forum, error)
	// ThreadsByForum returns the forum's threads joined with author and
	// last-poster identity, pinned threads first, then newest activity.
	ThreadsByForum(ctx context.Context, forumID uint) ([]models.ThreadSummary, error)
	GetThread(ctx context.Context, id uint) (*models.Thread, error)
	// IncrementViewCount bumps a thread's view counter without touching
	// any other column.
	IncrementViewCount(ctx context.Context, threadID uint) error
	// PostsByThread returns the thread's posts in posting order, joined
	// with poster identity and the poster's board-wide post count.
	PostsByThread(ctx context.Context, threadID uint) ([]models.PostView, error)
	GetPostView(ctx context.Context, id uint) (*models.PostView, error)
}

type forumRepository struct {
	db *gorm.DB
}

// NewForumRepository returns a new ForumRepository implementation.
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) ListSummaries(ctx context.Context) ([]models.ForumSummary, error) {
	summaries := []models.ForumSummary{}

	err := cache.Aside(ctx, cache.ForumListKey, &summaries, cache.ForumListTTL, func() error {
		err := r.db.WithContext(ctx).
			Table("forums").
			Select(forumSummaryColumns).
			Joins("LEFT JOIN posts ON posts.id = forums.last_post_id").
			Joins("LEFT JOIN threads ON threads.id = posts.thread_id").
			Joins("LEFT JOIN users ON users.uid = posts.uid").
			Order("forums.category ASC, forums.display_order ASC, forums.id ASC").
			Scan(&summaries).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *forumRepository) GetForum(ctx context.Context, id uint) (*models.Forum, error) {
	var forum models.Forum
	if err := r.db.WithContext(ctx).First(&forum, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Forum")
		}
		return nil, models.NewInternalError(err)
	}
	return &forum, nil
}

func (r *forumRepository) ThreadsByForum(ctx context.Context, forumID uint) ([]models.ThreadSummary, error) {
	threads := []models.ThreadSummary{}
	err := r.db.WithContext(ctx).
		Table("threads").
		Select(threadSummaryColumns).
		Joins("JOIN users author ON author.uid = threads.author_uid").
		Joins("JOIN users last_poster ON last_poster.uid = threads.last_post_uid").
		Where("threads.forum_id = ?", forumID).
		Order("threads.is_pinned DESC, threads.last_post_time DESC").
		Scan(&threads).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return threads, nil
}

func (r *forumRepository) GetThread(ctx context.Context, id uint) (*models.Thread, error) {
	var thread models.Thread
	if err := r.db.WithContext(ctx).First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread")
		}
		return nil, models.NewInternalError(err)
	}
	return &thread, nil
}

func (r *forumRepository) IncrementViewCount(ctx context.Context, threadID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", threadID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *forumRepository) PostsByThread(ctx context.Context, threadID uint) ([]models.PostView, error) {
	posts := []models.PostView{}
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(postViewColumns).
		Joins("JOIN users ON users.uid = posts.uid").
		Where("posts.thread_id = ?", threadID).
		Order("posts.created_at ASC, posts.id ASC").
		Scan(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *forumRepository) GetPostView(ctx context.Context, id uint) (*models.PostView, error) {
	var view models.PostView
	res := r.db.WithContext(ctx).
		Table("posts").
		Select(postViewColumns).
		Joins("JOIN users ON users.uid = posts.uid").
		Where("posts.id = ?", id).
		Scan(&view)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Post")
	}
	return &view, nil
}
