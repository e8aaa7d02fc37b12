package repository

import (
	"context"

	"artfolio/internal/models"

	"gorm.io/gorm"
)

// LabelCount is a generic (label, count) aggregation row.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DayCount is one calendar day of posting activity.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatsRepository defines read-only aggregation queries over a single
// user's posts. Nothing here mutates state.
type StatsRepository interface {
	GenreCounts(ctx context.Context, userID uint) ([]LabelCount, error)
	TopStyles(ctx context.Context, userID uint, limit int) ([]LabelCount, error)
	TopArtists(ctx context.Context, userID uint, limit int) ([]LabelCount, error)
	Activity(ctx context.Context, userID uint) ([]DayCount, error)
	TotalPosts(ctx context.Context, userID uint) (int64, error)
	LocationPosts(ctx context.Context, userID uint) ([]*models.Post, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GenreCounts(ctx context.Context, userID uint) ([]LabelCount, error) {
	return r.labelCounts(ctx, "genre", userID, 0)
}

func (r *statsRepository) TopStyles(ctx context.Context, userID uint, limit int) ([]LabelCount, error) {
	return r.labelCounts(ctx, "style", userID, limit)
}

func (r *statsRepository) TopArtists(ctx context.Context, userID uint, limit int) ([]LabelCount, error) {
	return r.labelCounts(ctx, "artist_name", userID, limit)
}

// labelCounts groups the user's posts by a text column. Ties are broken
// by label so rankings are stable across runs.
func (r *statsRepository) labelCounts(ctx context.Context, column string, userID uint, limit int) ([]LabelCount, error) {
	var rows []LabelCount
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(column+" AS label, COUNT(*) AS count").
		Where("user_id = ? AND "+column+" != ''", userID).
		Group(column).
		Order("count DESC, label ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

// Activity buckets posts by calendar day, ascending. The day expression
// differs per dialect; SQLite has DATE(), Postgres uses a cast.
func (r *statsRepository) Activity(ctx context.Context, userID uint) ([]DayCount, error) {
	dayExpr := "DATE(created_at)"
	if r.db.Dialector.Name() == "postgres" {
		dayExpr = "TO_CHAR(created_at, 'YYYY-MM-DD')"
	}

	var rows []DayCount
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(dayExpr+" AS date, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group(dayExpr).
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func (r *statsRepository) TotalPosts(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// LocationPosts returns every post that carries at least a province,
// ordered so the service can fold them into the province/city tree in
// one pass.
func (r *statsRepository) LocationPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND location_province IS NOT NULL AND location_province != ''", userID).
		Order("location_province ASC, location_city ASC, created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
