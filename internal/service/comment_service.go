package service

import (
	"context"
	"strings"

	"artfolio/internal/middleware"
	"artfolio/internal/models"
	"artfolio/internal/observability"
	"artfolio/internal/repository"
)

const maxCommentLen = 2000

type CommentService struct {
	commentRepo      repository.CommentRepository
	postRepo         repository.PostRepository
	notificationRepo repository.NotificationRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notificationRepo repository.NotificationRepository,
) *CommentService {
	return &CommentService{
		commentRepo:      commentRepo,
		postRepo:         postRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, postID, userID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(sanitizer.Sanitize(content))
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if post.UserID != userID && s.notificationRepo != nil {
		n := &models.Notification{
			UserID:  post.UserID,
			ActorID: userID,
			Type:    models.NotificationTypeComment,
			PostID:  &postID,
			Message: "commented on your work",
		}
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			middleware.Logger.WarnContext(ctx, "notification emit failed",
				"type", n.Type, "recipient", n.UserID, "error", err)
		} else {
			observability.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
		}
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}

// DeleteComment allows the comment author or the post owner to remove
// a comment.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID, userID)
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
	}
	return s.commentRepo.Delete(ctx, commentID)
}
