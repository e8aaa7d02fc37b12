package service

import (
	"context"
	"testing"

	"artfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]*models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func TestCommentService_CreateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("empty content rejected", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), noopNotificationRepo())
		_, err := svc.CreateComment(ctx, 1, 2, "   ")
		require.Error(t, err)
	})

	t.Run("markup stripped before storage", func(t *testing.T) {
		repo := noopCommentRepo()
		var created *models.Comment
		repo.createFn = func(_ context.Context, comment *models.Comment) error {
			comment.ID = 3
			created = comment
			return nil
		}
		svc := NewCommentService(repo, noopPostRepo(), noopNotificationRepo())

		_, err := svc.CreateComment(ctx, 1, 2, `nice <img src=x onerror=alert(1)> work`)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotContains(t, created.Content, "<img")
	})

	t.Run("notifies the post owner", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 9}, nil
		}
		notified := false
		notifRepo := noopNotificationRepo()
		notifRepo.createFn = func(_ context.Context, n *models.Notification) error {
			notified = true
			assert.Equal(t, models.NotificationTypeComment, n.Type)
			assert.Equal(t, uint(9), n.UserID)
			return nil
		}
		svc := NewCommentService(noopCommentRepo(), postRepo, notifRepo)

		_, err := svc.CreateComment(ctx, 1, 2, "wonderful texture")
		require.NoError(t, err)
		assert.True(t, notified)
	})

	t.Run("own post does not notify", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 2}, nil
		}
		notified := false
		notifRepo := noopNotificationRepo()
		notifRepo.createFn = func(_ context.Context, _ *models.Notification) error {
			notified = true
			return nil
		}
		svc := NewCommentService(noopCommentRepo(), postRepo, notifRepo)

		_, err := svc.CreateComment(ctx, 1, 2, "journal note")
		require.NoError(t, err)
		assert.False(t, notified)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("author can delete", func(t *testing.T) {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 2, PostID: 1}, nil
		}
		svc := NewCommentService(repo, noopPostRepo(), noopNotificationRepo())
		assert.NoError(t, svc.DeleteComment(ctx, 5, 2))
	})

	t.Run("post owner can delete", func(t *testing.T) {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 3, PostID: 1}, nil
		}
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 2}, nil
		}
		svc := NewCommentService(repo, postRepo, noopNotificationRepo())
		assert.NoError(t, svc.DeleteComment(ctx, 5, 2))
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 3, PostID: 1}, nil
		}
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 9}, nil
		}
		svc := NewCommentService(repo, postRepo, noopNotificationRepo())

		err := svc.DeleteComment(ctx, 5, 2)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	})
}
