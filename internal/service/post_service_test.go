package service

import (
	"context"
	"testing"

	"artfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn    func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFeedFn       func(context.Context, uint, int, int) ([]*models.Post, error)
	listBookmarkedFn func(context.Context, uint, int, int) ([]*models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
	markAnalyzedFn   func(context.Context, uint) error
	toggleLikeFn     func(context.Context, uint, uint) (bool, int, error)
	toggleBookmarkFn func(context.Context, uint, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listFeedFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listBookmarkedFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) MarkAnalyzed(ctx context.Context, id uint) error {
	return s.markAnalyzedFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, int, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *postRepoStub) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleBookmarkFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		listFeedFn:       func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		listBookmarkedFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		markAnalyzedFn:   func(_ context.Context, _ uint) error { return nil },
		toggleLikeFn:     func(_ context.Context, _, _ uint) (bool, int, error) { return true, 1, nil },
		toggleBookmarkFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

// notificationRepoStub is a stub for repository.NotificationRepository.
type notificationRepoStub struct {
	createFn      func(context.Context, *models.Notification) error
	getByIDFn     func(context.Context, uint) (*models.Notification, error)
	listByUserFn  func(context.Context, uint, bool, int, int) ([]*models.Notification, error)
	countUnreadFn func(context.Context, uint) (int64, error)
	markReadFn    func(context.Context, uint) error
	markAllReadFn func(context.Context, uint) error
	deleteFn      func(context.Context, uint) error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	return s.listByUserFn(ctx, userID, unreadOnly, limit, offset)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.countUnreadFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id uint) error {
	return s.markReadFn(ctx, id)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID uint) error {
	return s.markAllReadFn(ctx, userID)
}
func (s *notificationRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn:  func(_ context.Context, _ *models.Notification) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Notification, error) { return &models.Notification{ID: id}, nil },
		listByUserFn: func(_ context.Context, _ uint, _ bool, _, _ int) ([]*models.Notification, error) {
			return nil, nil
		},
		countUnreadFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		markReadFn:    func(_ context.Context, _ uint) error { return nil },
		markAllReadFn: func(_ context.Context, _ uint) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

func validCreateInput() CreatePostInput {
	return CreatePostInput{
		UserID:     1,
		Title:      "Evening study",
		ArtistName: "Hilma af Klint",
		Rating:     4,
		Genre:      "painting",
		Style:      "abstract",
		Tags:       models.TagList{{ID: "t1", Label: "oil", Path: []string{"medium", "oil"}}},
		ImageRef:   "/media/abc.webp",
	}
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopUserRepo(), noopNotificationRepo())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreatePostInput)
	}{
		{"missing title", func(in *CreatePostInput) { in.Title = " " }},
		{"missing image", func(in *CreatePostInput) { in.ImageRef = "" }},
		{"rating above bound", func(in *CreatePostInput) { in.Rating = 6 }},
		{"rating below bound", func(in *CreatePostInput) { in.Rating = -1 }},
		{"bad work date", func(in *CreatePostInput) { in.WorkDate = "08/28/2026" }},
		{"city without province", func(in *CreatePostInput) {
			city := "Toronto"
			in.LocationCity = &city
		}},
		{"invalid tag", func(in *CreatePostInput) {
			in.Tags = models.TagList{{ID: "", Label: "oil", Path: []string{"medium"}}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateInput()
			tt.mutate(&in)
			_, err := svc.CreatePost(ctx, in)
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestPostService_CreatePost_SanitizesDescription(t *testing.T) {
	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 7
		created = post
		return nil
	}
	svc := NewPostService(repo, noopUserRepo(), noopNotificationRepo())

	in := validCreateInput()
	in.Description = `Lovely <script>alert("x")</script> piece`

	_, err := svc.CreatePost(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotContains(t, created.Description, "<script>")
	assert.Contains(t, created.Description, "Lovely")
}

func TestPostService_UpdatePost_OwnershipRequired(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 99}, nil
	}
	svc := NewPostService(repo, noopUserRepo(), noopNotificationRepo())

	base := validCreateInput()
	in := UpdatePostInput{
		UserID:   base.UserID,
		PostID:   1,
		Title:    base.Title,
		Rating:   base.Rating,
		Tags:     base.Tags,
		ImageRef: base.ImageRef,
	}

	_, err := svc.UpdatePost(context.Background(), in)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestPostService_DeletePost_OwnershipRequired(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 99}, nil
	}
	deleted := false
	repo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	svc := NewPostService(repo, noopUserRepo(), noopNotificationRepo())

	err := svc.DeletePost(context.Background(), 1, 2)
	require.Error(t, err)
	assert.False(t, deleted)
}

func TestPostService_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("empty summary leaves post untouched", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1}, nil
		}
		updated := false
		repo.updateFn = func(_ context.Context, _ *models.Post) error {
			updated = true
			return nil
		}
		svc := NewPostService(repo, noopUserRepo(), noopNotificationRepo())

		result, err := svc.Analyze(ctx, 1, 1, "   ")
		require.NoError(t, err)
		assert.False(t, result.HasAnalysis)
		assert.False(t, updated)
	})

	t.Run("empty summary flips flag over stored summary", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, AISummary: "Bold color fields", Style: "abstract"}, nil
		}
		marked := false
		repo.markAnalyzedFn = func(_ context.Context, id uint) error {
			marked = true
			return nil
		}
		updated := false
		repo.updateFn = func(_ context.Context, _ *models.Post) error {
			updated = true
			return nil
		}
		svc := NewPostService(repo, noopUserRepo(), noopNotificationRepo())

		result, err := svc.Analyze(ctx, 1, 1, "")
		require.NoError(t, err)
		assert.True(t, marked)
		assert.False(t, updated)
		assert.True(t, result.HasAnalysis)
		assert.Equal(t, "Bold color fields", result.Summary)
		assert.Equal(t, "abstract", result.PrimaryStyle)
		assert.Len(t, result.Scores, 3)

		// Repeating without input keeps returning the stored summary.
		again, err := svc.Analyze(ctx, 1, 1, "")
		require.NoError(t, err)
		assert.Equal(t, result.Summary, again.Summary)
		assert.Equal(t, result.Scores, again.Scores)
	})

	t.Run("non-empty summary stores and flags", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Style: "abstract"}, nil
		}
		var saved *models.Post
		repo.updateFn = func(_ context.Context, post *models.Post) error {
			saved = post
			return nil
		}
		svc := NewPostService(repo, noopUserRepo(), noopNotificationRepo())

		result, err := svc.Analyze(ctx, 1, 1, "Bold color fields")
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.True(t, saved.IsAnalyzed)
		assert.Equal(t, "Bold color fields", saved.AISummary)
		assert.True(t, result.HasAnalysis)
		assert.Equal(t, "abstract", result.PrimaryStyle)
		assert.Len(t, result.Scores, 3)
		for _, score := range result.Scores {
			assert.GreaterOrEqual(t, score, 60)
			assert.Less(t, score, 100)
		}
	})

	t.Run("repeat with same summary is idempotent", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, AISummary: "Bold color fields", IsAnalyzed: true}, nil
		}
		updated := false
		repo.updateFn = func(_ context.Context, _ *models.Post) error {
			updated = true
			return nil
		}
		svc := NewPostService(repo, noopUserRepo(), noopNotificationRepo())

		first, err := svc.Analyze(ctx, 1, 1, "Bold color fields")
		require.NoError(t, err)
		second, err := svc.Analyze(ctx, 1, 1, "Bold color fields")
		require.NoError(t, err)
		assert.False(t, updated)
		assert.Equal(t, first.Scores, second.Scores)
	})

	t.Run("not the owner", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 99}, nil
		}
		svc := NewPostService(repo, noopUserRepo(), noopNotificationRepo())

		_, err := svc.Analyze(ctx, 1, 1, "whatever")
		require.Error(t, err)
	})
}

func TestPostService_ToggleLike_NotifiesOwnerOnce(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 9}, nil
	}
	liked := true
	repo.toggleLikeFn = func(_ context.Context, _, _ uint) (bool, int, error) {
		return liked, 3, nil
	}

	notifications := 0
	notifRepo := noopNotificationRepo()
	notifRepo.createFn = func(_ context.Context, n *models.Notification) error {
		notifications++
		assert.Equal(t, models.NotificationTypeLike, n.Type)
		assert.Equal(t, uint(9), n.UserID)
		return nil
	}
	svc := NewPostService(repo, noopUserRepo(), notifRepo)
	ctx := context.Background()

	gotLiked, count, err := svc.ToggleLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, gotLiked)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, notifications)

	// Unlike must not notify.
	liked = false
	_, _, err = svc.ToggleLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, notifications)
}

func TestPostService_ToggleLike_SelfLikeDoesNotNotify(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2}, nil
	}
	notifications := 0
	notifRepo := noopNotificationRepo()
	notifRepo.createFn = func(_ context.Context, _ *models.Notification) error {
		notifications++
		return nil
	}
	svc := NewPostService(repo, noopUserRepo(), notifRepo)

	_, _, err := svc.ToggleLike(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, notifications)
}
