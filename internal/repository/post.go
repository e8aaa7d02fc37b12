package repository

import (
	"context"
	"errors"

	"artfolio/internal/cache"
	"artfolio/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts and the
// like/bookmark join relations that hang off them.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	MarkAnalyzed(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (liked bool, likeCount int, err error)
	ToggleBookmark(ctx context.Context, userID, postID uint) (bookmarked bool, err error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries computing the comment count and the
// requesting user's like/bookmark membership in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count"

	if currentUserID != 0 {
		return db.Select(
			selectQuery+
				", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked"+
				", EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.post_id = posts.id AND bookmarks.user_id = ?) AS bookmarked",
			currentUserID, currentUserID,
		)
	}

	return db.Select(selectQuery + ", 0 AS liked, 0 AS bookmarked")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID, post.UserID)
	return nil
}

// GetByID loads the post with the viewer's like/bookmark flags. The
// flags make the row viewer-specific, so only the anonymous view goes
// through the cache.
func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	if currentUserID != 0 {
		return r.fetchByID(ctx, id, currentUserID)
	}

	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		fetched, err := r.fetchByID(ctx, id, 0)
		if err != nil {
			return err
		}
		post = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) fetchByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListFeed returns the user's own posts plus those of accepted friends,
// newest first. Friendship symmetry is resolved in the subquery.
func (r *postRepository) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	friendIDs := "SELECT CASE WHEN requester_id = ? THEN addressee_id ELSE requester_id END " +
		"FROM friendships WHERE status = ? AND (requester_id = ? OR addressee_id = ?)"

	err := r.applyPostDetails(r.db.WithContext(ctx), userID).
		Preload("User").
		Where("user_id = ? OR user_id IN ("+friendIDs+")",
			userID, userID, models.FriendshipStatusAccepted, userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), userID).
		Preload("User").
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID, post.UserID)
	return nil
}

// Delete removes the post and every dependent join row in a single
// transaction. No orphaned likes, bookmarks, comments or folder items
// may survive the post.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	var ownerID uint
	var folderOwnerIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		ownerID = post.UserID

		// The post may sit in other users' folders; their cached folder
		// lists go stale once the items cascade below.
		if err := tx.Model(&models.FolderItem{}).
			Distinct("folders.user_id").
			Joins("JOIN folders ON folders.id = folder_items.folder_id").
			Where("folder_items.post_id = ?", id).
			Pluck("folders.user_id", &folderOwnerIDs).Error; err != nil {
			return models.NewInternalError(err)
		}

		for _, dependent := range []any{&models.Like{}, &models.Bookmark{}, &models.Comment{}, &models.FolderItem{}} {
			if err := tx.Where("post_id = ?", id).Delete(dependent).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id, ownerID)
	for _, folderOwnerID := range folderOwnerIDs {
		cache.Invalidate(ctx, cache.FoldersKey(folderOwnerID))
	}
	return nil
}

// MarkAnalyzed flips is_analyzed on. The guard on ai_summary keeps the
// flag's invariant inside the store even under concurrent flips.
func (r *postRepository) MarkAnalyzed(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND ai_summary IS NOT NULL AND ai_summary != ''", id).
		UpdateColumn("is_analyzed", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	return nil
}

// ToggleLike flips the (user, post) like membership and adjusts the
// stored like_count inside one transaction. The insert uses
// ON CONFLICT DO NOTHING so concurrent toggles cannot double-count.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, int, error) {
	var liked bool
	var likeCount int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Like{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Count(&exists).Error; err != nil {
			return err
		}

		if exists > 0 {
			result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				if err := tx.Model(&models.Post{}).
					Where("id = ? AND like_count > 0", postID).
					UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
					return err
				}
			}
			liked = false
		} else {
			result := tx.Exec(
				`INSERT INTO likes (user_id, post_id, created_at)
				 VALUES (?, ?, CURRENT_TIMESTAMP)
				 ON CONFLICT (user_id, post_id) DO NOTHING`,
				userID, postID,
			)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				if err := tx.Model(&models.Post{}).
					Where("id = ?", postID).
					UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
					return err
				}
			}
			liked = true
		}

		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Pluck("like_count", &likeCount).Error
	})
	if err != nil {
		return false, 0, models.NewInternalError(err)
	}

	cache.Invalidate(ctx, cache.PostKey(postID))
	return liked, likeCount, nil
}

// ToggleBookmark flips the (user, post) bookmark membership.
func (r *postRepository) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	var bookmarked bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Bookmark{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Count(&exists).Error; err != nil {
			return err
		}

		if exists > 0 {
			bookmarked = false
			return tx.Where("user_id = ? AND post_id = ?", userID, postID).
				Delete(&models.Bookmark{}).Error
		}

		bookmarked = true
		return tx.Exec(
			`INSERT INTO bookmarks (user_id, post_id, created_at)
			 VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (user_id, post_id) DO NOTHING`,
			userID, postID,
		).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}

	cache.Invalidate(ctx, cache.PostKey(postID))
	return bookmarked, nil
}
