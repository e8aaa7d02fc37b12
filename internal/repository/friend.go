package repository

import (
	"context"
	"errors"

	"artfolio/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines persistence operations for friendships.
type FriendRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	GetBetween(ctx context.Context, userA, userB uint) (*models.Friendship, error)
	ListFriends(ctx context.Context, userID uint) ([]*models.User, error)
	ListPendingReceived(ctx context.Context, userID uint) ([]*models.Friendship, error)
	ListPendingSent(ctx context.Context, userID uint) ([]*models.Friendship, error)
	UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus) error
	Delete(ctx context.Context, id uint) error
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friendship repository.
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Addressee").
		First(&friendship, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friendship", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

// GetBetween looks up the friendship row connecting two users in
// either direction. Returns nil, nil when none exists.
func (r *friendRepository) GetBetween(ctx context.Context, userA, userB uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userA, userB, userB, userA).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) ListFriends(ctx context.Context, userID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins(`JOIN friendships ON friendships.status = ?
			AND ((friendships.requester_id = ? AND friendships.addressee_id = users.id)
			OR (friendships.addressee_id = ? AND friendships.requester_id = users.id))`,
			models.FriendshipStatusAccepted, userID, userID).
		Order("users.username ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *friendRepository) ListPendingReceived(ctx context.Context, userID uint) ([]*models.Friendship, error) {
	return r.listPending(ctx, "addressee_id", "Requester", userID)
}

func (r *friendRepository) ListPendingSent(ctx context.Context, userID uint) ([]*models.Friendship, error) {
	return r.listPending(ctx, "requester_id", "Addressee", userID)
}

func (r *friendRepository) listPending(ctx context.Context, column, preload string, userID uint) ([]*models.Friendship, error) {
	var friendships []*models.Friendship
	err := r.db.WithContext(ctx).
		Preload(preload).
		Where(column+" = ? AND status = ?", userID, models.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&friendships).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return friendships, nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Friendship", id)
	}
	return nil
}

func (r *friendRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Friendship{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Friendship", id)
	}
	return nil
}
