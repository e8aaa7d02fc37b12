package repository

import (
	"context"
	"errors"

	"artfolio/internal/cache"
	"artfolio/internal/models"

	"gorm.io/gorm"
)

// FolderRepository defines persistence operations for folders and
// their post membership.
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder, postIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Folder, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Folder, error)
	Update(ctx context.Context, folder *models.Folder) error
	Delete(ctx context.Context, id uint) error
	AddItem(ctx context.Context, folderID, postID uint) error
	RemoveItem(ctx context.Context, folderID, postID uint) error
	ListItems(ctx context.Context, folderID uint, currentUserID uint, limit, offset int) ([]*models.Post, error)
}

type folderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new folder repository.
func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &folderRepository{db: db}
}

const folderItemCountSelect = "folders.*, " +
	"(SELECT COUNT(*) FROM folder_items WHERE folder_items.folder_id = folders.id) AS item_count"

// Create inserts the folder and any initial items in one transaction.
// A bad post ID fails the whole creation; no half-filled folder is
// ever visible.
func (r *folderRepository) Create(ctx context.Context, folder *models.Folder, postIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(folder).Error; err != nil {
			return models.NewInternalError(err)
		}
		for _, postID := range postIDs {
			var exists int64
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
				return models.NewInternalError(err)
			}
			if exists == 0 {
				return models.NewNotFoundError("Post", postID)
			}
			item := models.FolderItem{FolderID: folder.ID, PostID: postID}
			if err := tx.Create(&item).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	folder.ItemCount = len(postIDs)
	cache.Invalidate(ctx, cache.FoldersKey(folder.UserID))
	return nil
}

func (r *folderRepository) GetByID(ctx context.Context, id uint) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.WithContext(ctx).
		Select(folderItemCountSelect).
		First(&folder, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Folder", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &folder, nil
}

func (r *folderRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Folder, error) {
	var folders []*models.Folder
	err := cache.Aside(ctx, cache.FoldersKey(userID), &folders, cache.FoldersTTL, func() error {
		return r.db.WithContext(ctx).
			Select(folderItemCountSelect).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&folders).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return folders, nil
}

func (r *folderRepository) Update(ctx context.Context, folder *models.Folder) error {
	err := r.db.WithContext(ctx).
		Model(&models.Folder{}).
		Where("id = ?", folder.ID).
		Updates(map[string]any{"name": folder.Name, "color": folder.Color}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.FoldersKey(folder.UserID))
	return nil
}

// Delete removes the folder and its items. Posts themselves survive;
// a folder is only ever a view over them.
func (r *folderRepository) Delete(ctx context.Context, id uint) error {
	var userID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var folder models.Folder
		if err := tx.Select("id", "user_id").First(&folder, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Folder", id)
			}
			return models.NewInternalError(err)
		}
		userID = folder.UserID

		if err := tx.Where("folder_id = ?", id).Delete(&models.FolderItem{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Folder{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.FoldersKey(userID))
	return nil
}

func (r *folderRepository) AddItem(ctx context.Context, folderID, postID uint) error {
	var folder models.Folder
	if err := r.db.WithContext(ctx).Select("id", "user_id").First(&folder, folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Folder", folderID)
		}
		return models.NewInternalError(err)
	}

	// Duplicate adds are a no-op, matching the like/bookmark toggles.
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO folder_items (folder_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (folder_id, post_id) DO NOTHING`,
		folderID, postID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.FoldersKey(folder.UserID))
	return nil
}

func (r *folderRepository) RemoveItem(ctx context.Context, folderID, postID uint) error {
	var folder models.Folder
	if err := r.db.WithContext(ctx).Select("id", "user_id").First(&folder, folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Folder", folderID)
		}
		return models.NewInternalError(err)
	}

	result := r.db.WithContext(ctx).
		Where("folder_id = ? AND post_id = ?", folderID, postID).
		Delete(&models.FolderItem{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("FolderItem", postID)
	}
	cache.Invalidate(ctx, cache.FoldersKey(folder.UserID))
	return nil
}

// ListItems returns the folder's posts, most recently added first.
func (r *folderRepository) ListItems(ctx context.Context, folderID uint, currentUserID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count"
	db := r.db.WithContext(ctx)
	if currentUserID != 0 {
		db = db.Select(
			selectQuery+
				", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked"+
				", EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.post_id = posts.id AND bookmarks.user_id = ?) AS bookmarked",
			currentUserID, currentUserID,
		)
	} else {
		db = db.Select(selectQuery + ", 0 AS liked, 0 AS bookmarked")
	}

	err := db.
		Preload("User").
		Joins("JOIN folder_items ON folder_items.post_id = posts.id").
		Where("folder_items.folder_id = ?", folderID).
		Order("folder_items.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
