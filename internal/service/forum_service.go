package service

import (
	"context"
	"time"

	"tavern/internal/cache"
	"tavern/internal/models"
	"tavern/internal/repository"
	"tavern/internal/validation"

	"gorm.io/gorm"
)

// ForumService owns the forum index, thread listings and the two write
// transactions that keep the denormalized counters consistent.
type ForumService struct {
	db        *gorm.DB
	forumRepo repository.ForumRepository
	userRepo  repository.UserRepository
}

type CreateThreadInput struct {
	ForumID uint
	UID     uint
	Title   string
	Content string
}

type CreatePostInput struct {
	ThreadID uint
	UID      uint
	Content  string
}

// ThreadView is a thread with its posts, as served by the thread page.
type ThreadView struct {
	Thread models.Thread     `json:"thread"`
	Posts  []models.PostView `json:"posts"`
}

func NewForumService(db *gorm.DB, forumRepo repository.ForumRepository, userRepo repository.UserRepository) *ForumService {
	return &ForumService{db: db, forumRepo: forumRepo, userRepo: userRepo}
}

// uncategorizedLabel groups forums whose category is unset.
const uncategorizedLabel = "General"

// ListForums returns the forum index grouped by category, categories and
// forums in display order.
func (s *ForumService) ListForums(ctx context.Context) ([]models.ForumCategory, error) {
	summaries, err := s.forumRepo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	categories := []models.ForumCategory{}
	index := map[string]int{}
	for _, summary := range summaries {
		label := summary.Category
		if label == "" {
			label = uncategorizedLabel
		}
		i, ok := index[label]
		if !ok {
			categories = append(categories, models.ForumCategory{Category: label})
			i = len(categories) - 1
			index[label] = i
		}
		categories[i].Forums = append(categories[i].Forums, summary)
	}
	return categories, nil
}

// ListThreads returns the forum together with its thread listing, as
// served by the forum page.
func (s *ForumService) ListThreads(ctx context.Context, forumID uint) (*models.Forum, []models.ThreadSummary, error) {
	forum, err := s.forumRepo.GetForum(ctx, forumID)
	if err != nil {
		return nil, nil, err
	}
	threads, err := s.forumRepo.ThreadsByForum(ctx, forumID)
	if err != nil {
		return nil, nil, err
	}
	return forum, threads, nil
}

// GetThread returns a thread and its posts in posting order. Serving a
// thread counts as a view.
func (s *ForumService) GetThread(ctx context.Context, threadID uint) (*ThreadView, error) {
	thread, err := s.forumRepo.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if err := s.forumRepo.IncrementViewCount(ctx, threadID); err != nil {
		return nil, err
	}
	thread.ViewCount++

	posts, err := s.forumRepo.PostsByThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return &ThreadView{Thread: *thread, Posts: posts}, nil
}

// CreateThread creates the thread row and its opening post and bumps the
// forum and author counters, all in one transaction.
func (s *ForumService) CreateThread(ctx context.Context, in CreateThreadInput) (*models.Thread, error) {
	if err := validation.ValidateThreadTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.forumRepo.GetForum(ctx, in.ForumID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByUID(ctx, in.UID); err != nil {
		return nil, err
	}

	now := time.Now()
	thread := &models.Thread{
		ForumID:      in.ForumID,
		Title:        in.Title,
		AuthorUID:    in.UID,
		CreatedAt:    now,
		LastPostTime: now,
		LastPostUID:  in.UID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(thread).Error; err != nil {
			return models.NewInternalError(err)
		}

		post := &models.Post{ThreadID: thread.ID, UID: in.UID, Content: in.Content, CreatedAt: now}
		if err := tx.Create(post).Error; err != nil {
			return models.NewInternalError(err)
		}

		err := tx.Model(&models.Forum{}).
			Where("id = ?", in.ForumID).
			Updates(map[string]interface{}{
				"thread_count": gorm.Expr("thread_count + 1"),
				"post_count":   gorm.Expr("post_count + 1"),
				"last_post_id": post.ID,
			}).Error
		if err != nil {
			return models.NewInternalError(err)
		}

		err = tx.Model(&models.User{}).
			Where("uid = ?", in.UID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateForumList(ctx)
	cache.InvalidateUser(ctx, in.UID)
	return thread, nil
}

// CreatePost appends a reply to a thread and updates the thread, forum
// and author counters in one transaction. Locked threads reject replies.
func (s *ForumService) CreatePost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.userRepo.GetByUID(ctx, in.UID); err != nil {
		return nil, err
	}

	now := time.Now()
	post := &models.Post{ThreadID: in.ThreadID, UID: in.UID, Content: in.Content, CreatedAt: now}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread, err := repository.NewForumRepository(tx).GetThread(ctx, in.ThreadID)
		if err != nil {
			return err
		}
		if thread.IsLocked {
			return models.NewForbiddenError("Thread is locked")
		}

		if err := tx.Create(post).Error; err != nil {
			return models.NewInternalError(err)
		}

		err = tx.Model(&models.Thread{}).
			Where("id = ?", in.ThreadID).
			Updates(map[string]interface{}{
				"reply_count":    gorm.Expr("reply_count + 1"),
				"last_post_time": now,
				"last_post_uid":  in.UID,
			}).Error
		if err != nil {
			return models.NewInternalError(err)
		}

		err = tx.Model(&models.Forum{}).
			Where("id = ?", thread.ForumID).
			Updates(map[string]interface{}{
				"post_count":   gorm.Expr("post_count + 1"),
				"last_post_id": post.ID,
			}).Error
		if err != nil {
			return models.NewInternalError(err)
		}

		err = tx.Model(&models.User{}).
			Where("uid = ?", in.UID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateForumList(ctx)
	cache.InvalidateUser(ctx, in.UID)
	return s.forumRepo.GetPostView(ctx, post.ID)
}
