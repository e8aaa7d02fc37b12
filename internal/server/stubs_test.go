package server

import (
	"context"

	"artfolio/internal/models"
	"artfolio/internal/repository"
)

// Function-backed repository stubs. Each test overrides only the
// methods it expects to be called; anything else panics via nil deref,
// which surfaces unexpected repo traffic immediately.

type userRepoStub struct {
	CreateFn        func(ctx context.Context, user *models.User) error
	GetByIDFn       func(ctx context.Context, id uint) (*models.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	UpdateFn        func(ctx context.Context, user *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.CreateFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.GetByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.GetByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.GetByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.UpdateFn(ctx, user)
}

type postRepoStub struct {
	CreateFn         func(ctx context.Context, post *models.Post) error
	GetByIDFn        func(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserIDFn    func(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListFeedFn       func(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	ListBookmarkedFn func(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	UpdateFn         func(ctx context.Context, post *models.Post) error
	DeleteFn         func(ctx context.Context, id uint) error
	MarkAnalyzedFn   func(ctx context.Context, id uint) error
	ToggleLikeFn     func(ctx context.Context, userID, postID uint) (bool, int, error)
	ToggleBookmarkFn func(ctx context.Context, userID, postID uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.CreateFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.GetByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.GetByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.ListFeedFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.ListBookmarkedFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.UpdateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.DeleteFn(ctx, id)
}
func (s *postRepoStub) MarkAnalyzed(ctx context.Context, id uint) error {
	return s.MarkAnalyzedFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, int, error) {
	return s.ToggleLikeFn(ctx, userID, postID)
}
func (s *postRepoStub) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	return s.ToggleBookmarkFn(ctx, userID, postID)
}

type notificationRepoStub struct {
	CreateFn      func(ctx context.Context, notification *models.Notification) error
	GetByIDFn     func(ctx context.Context, id uint) (*models.Notification, error)
	ListByUserFn  func(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	CountUnreadFn func(ctx context.Context, userID uint) (int64, error)
	MarkReadFn    func(ctx context.Context, id uint) error
	MarkAllReadFn func(ctx context.Context, userID uint) error
	DeleteFn      func(ctx context.Context, id uint) error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.CreateFn(ctx, n)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.GetByIDFn(ctx, id)
}
func (s *notificationRepoStub) ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	return s.ListByUserFn(ctx, userID, unreadOnly, limit, offset)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.CountUnreadFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id uint) error {
	return s.MarkReadFn(ctx, id)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID uint) error {
	return s.MarkAllReadFn(ctx, userID)
}
func (s *notificationRepoStub) Delete(ctx context.Context, id uint) error {
	return s.DeleteFn(ctx, id)
}

// noopNotificationRepo accepts every write silently; handler tests that
// only care about the main operation use it.
func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		CreateFn: func(ctx context.Context, n *models.Notification) error { return nil },
	}
}

type statsRepoStub struct {
	GenreCountsFn   func(ctx context.Context, userID uint) ([]repository.LabelCount, error)
	TopStylesFn     func(ctx context.Context, userID uint, limit int) ([]repository.LabelCount, error)
	TopArtistsFn    func(ctx context.Context, userID uint, limit int) ([]repository.LabelCount, error)
	ActivityFn      func(ctx context.Context, userID uint) ([]repository.DayCount, error)
	TotalPostsFn    func(ctx context.Context, userID uint) (int64, error)
	LocationPostsFn func(ctx context.Context, userID uint) ([]*models.Post, error)
}

func (s *statsRepoStub) GenreCounts(ctx context.Context, userID uint) ([]repository.LabelCount, error) {
	return s.GenreCountsFn(ctx, userID)
}
func (s *statsRepoStub) TopStyles(ctx context.Context, userID uint, limit int) ([]repository.LabelCount, error) {
	return s.TopStylesFn(ctx, userID, limit)
}
func (s *statsRepoStub) TopArtists(ctx context.Context, userID uint, limit int) ([]repository.LabelCount, error) {
	return s.TopArtistsFn(ctx, userID, limit)
}
func (s *statsRepoStub) Activity(ctx context.Context, userID uint) ([]repository.DayCount, error) {
	return s.ActivityFn(ctx, userID)
}
func (s *statsRepoStub) TotalPosts(ctx context.Context, userID uint) (int64, error) {
	return s.TotalPostsFn(ctx, userID)
}
func (s *statsRepoStub) LocationPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.LocationPostsFn(ctx, userID)
}

type folderRepoStub struct {
	CreateFn     func(ctx context.Context, folder *models.Folder, postIDs []uint) error
	GetByIDFn    func(ctx context.Context, id uint) (*models.Folder, error)
	ListByUserFn func(ctx context.Context, userID uint) ([]*models.Folder, error)
	UpdateFn     func(ctx context.Context, folder *models.Folder) error
	DeleteFn     func(ctx context.Context, id uint) error
	AddItemFn    func(ctx context.Context, folderID, postID uint) error
	RemoveItemFn func(ctx context.Context, folderID, postID uint) error
	ListItemsFn  func(ctx context.Context, folderID uint, currentUserID uint, limit, offset int) ([]*models.Post, error)
}

func (s *folderRepoStub) Create(ctx context.Context, folder *models.Folder, postIDs []uint) error {
	return s.CreateFn(ctx, folder, postIDs)
}
func (s *folderRepoStub) GetByID(ctx context.Context, id uint) (*models.Folder, error) {
	return s.GetByIDFn(ctx, id)
}
func (s *folderRepoStub) ListByUser(ctx context.Context, userID uint) ([]*models.Folder, error) {
	return s.ListByUserFn(ctx, userID)
}
func (s *folderRepoStub) Update(ctx context.Context, folder *models.Folder) error {
	return s.UpdateFn(ctx, folder)
}
func (s *folderRepoStub) Delete(ctx context.Context, id uint) error {
	return s.DeleteFn(ctx, id)
}
func (s *folderRepoStub) AddItem(ctx context.Context, folderID, postID uint) error {
	return s.AddItemFn(ctx, folderID, postID)
}
func (s *folderRepoStub) RemoveItem(ctx context.Context, folderID, postID uint) error {
	return s.RemoveItemFn(ctx, folderID, postID)
}
func (s *folderRepoStub) ListItems(ctx context.Context, folderID uint, currentUserID uint, limit, offset int) ([]*models.Post, error) {
	return s.ListItemsFn(ctx, folderID, currentUserID, limit, offset)
}
