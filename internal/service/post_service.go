package service

import (
	"context"
	"hash/fnv"
	"strings"
	"time"

	"artfolio/internal/middleware"
	"artfolio/internal/models"
	"artfolio/internal/observability"
	"artfolio/internal/repository"

	"github.com/microcosm-cc/bluemonday"
)

// sanitizer strips all markup from user-authored text before storage.
var sanitizer = bluemonday.StrictPolicy()

type PostService struct {
	postRepo         repository.PostRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

type CreatePostInput struct {
	UserID           uint
	Title            string
	ArtistName       string
	Description      string
	Rating           int
	WorkDate         string
	Genre            string
	Style            string
	Tags             models.TagList
	ImageRef         string
	MusicRef         string
	LocationProvince *string
	LocationCity     *string
	LocationDistrict *string
}

type UpdatePostInput struct {
	UserID           uint
	PostID           uint
	Title            string
	ArtistName       string
	Description      string
	Rating           int
	WorkDate         string
	Genre            string
	Style            string
	Tags             models.TagList
	ImageRef         string
	MusicRef         string
	LocationProvince *string
	LocationCity     *string
	LocationDistrict *string
}

// AnalysisResult is the payload returned by Analyze. Scores are derived
// from the summary so repeated calls with the same summary are stable.
type AnalysisResult struct {
	HasAnalysis  bool           `json:"has_analysis"`
	Summary      string         `json:"summary,omitempty"`
	PrimaryStyle string         `json:"primary_style,omitempty"`
	Scores       map[string]int `json:"scores,omitempty"`
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) *PostService {
	return &PostService{
		postRepo:         postRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

const (
	maxTitleLen       = 200
	maxArtistNameLen  = 200
	maxDescriptionLen = 10000
)

func validatePostFields(title, artistName, description, workDate string, rating int, tags models.TagList) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(artistName) > maxArtistNameLen {
		return models.NewValidationError("Artist name too long (max 200 characters)")
	}
	if len(description) > maxDescriptionLen {
		return models.NewValidationError("Description too long (max 10000 characters)")
	}
	if rating < 0 || rating > 5 {
		return models.NewValidationError("Rating must be between 0 and 5")
	}
	if workDate != "" {
		if _, err := time.Parse("2006-01-02", workDate); err != nil {
			return models.NewValidationError("work_date must be formatted YYYY-MM-DD")
		}
	}
	return tags.Validate()
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.ArtistName, in.Description, in.WorkDate, in.Rating, in.Tags); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ImageRef) == "" {
		return nil, models.NewValidationError("An image is required")
	}
	if in.LocationProvince == nil && (in.LocationCity != nil || in.LocationDistrict != nil) {
		return nil, models.NewValidationError("Location city requires a province")
	}

	post := &models.Post{
		UserID:           in.UserID,
		Title:            strings.TrimSpace(in.Title),
		ArtistName:       strings.TrimSpace(in.ArtistName),
		Description:      sanitizer.Sanitize(in.Description),
		Rating:           in.Rating,
		WorkDate:         in.WorkDate,
		Genre:            strings.TrimSpace(in.Genre),
		Style:            strings.TrimSpace(in.Style),
		Tags:             in.Tags,
		ImageRef:         in.ImageRef,
		MusicRef:         in.MusicRef,
		LocationProvince: in.LocationProvince,
		LocationCity:     in.LocationCity,
		LocationDistrict: in.LocationDistrict,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListFeed(ctx, userID, limit, offset)
}

func (s *PostService) ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListBookmarked(ctx, userID, limit, offset)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	if err := validatePostFields(in.Title, in.ArtistName, in.Description, in.WorkDate, in.Rating, in.Tags); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ImageRef) == "" {
		return nil, models.NewValidationError("An image is required")
	}

	post.Title = strings.TrimSpace(in.Title)
	post.ArtistName = strings.TrimSpace(in.ArtistName)
	post.Description = sanitizer.Sanitize(in.Description)
	post.Rating = in.Rating
	post.WorkDate = in.WorkDate
	post.Genre = strings.TrimSpace(in.Genre)
	post.Style = strings.TrimSpace(in.Style)
	post.Tags = in.Tags
	post.ImageRef = in.ImageRef
	post.MusicRef = in.MusicRef
	post.LocationProvince = in.LocationProvince
	post.LocationCity = in.LocationCity
	post.LocationDistrict = in.LocationDistrict

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// Analyze flips the post's analysis flag over its stored summary, or
// records a new summary when the request carries one. Without a stored
// summary an empty request is a no-op. Repeating a call with the same
// summary only re-asserts the flag.
func (s *PostService) Analyze(ctx context.Context, postID, userID uint, summary string) (*AnalysisResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only analyze your own posts")
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = post.AISummary
	}
	if summary == "" {
		return &AnalysisResult{HasAnalysis: false}, nil
	}

	if post.AISummary == summary && post.IsAnalyzed {
		return s.analysisResult(post), nil
	}
	if post.AISummary == summary {
		if err := s.postRepo.MarkAnalyzed(ctx, postID); err != nil {
			return nil, err
		}
		post.IsAnalyzed = true
		return s.analysisResult(post), nil
	}

	post.AISummary = summary
	post.IsAnalyzed = true
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.analysisResult(post), nil
}

var analysisCategories = []string{"composition", "color", "technique"}

// analysisResult folds the stored summary into a stable per-category
// score breakdown in the 60..99 range.
func (s *PostService) analysisResult(post *models.Post) *AnalysisResult {
	scores := make(map[string]int, len(analysisCategories))
	for _, category := range analysisCategories {
		h := fnv.New32a()
		h.Write([]byte(category))
		h.Write([]byte(post.AISummary))
		scores[category] = 60 + int(h.Sum32()%40)
	}
	return &AnalysisResult{
		HasAnalysis:  true,
		Summary:      post.AISummary,
		PrimaryStyle: post.Style,
		Scores:       scores,
	}
}

// ToggleLike flips the caller's like on a post and notifies the owner
// on the like edge. Notification failures never fail the toggle.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, int, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return false, 0, err
	}

	liked, likeCount, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return false, 0, err
	}

	state := "off"
	if liked {
		state = "on"
	}
	observability.ToggleOperations.WithLabelValues("like", state).Inc()

	if liked && post.UserID != userID {
		s.notify(ctx, &models.Notification{
			UserID:  post.UserID,
			ActorID: userID,
			Type:    models.NotificationTypeLike,
			PostID:  &postID,
			Message: "liked your work",
		})
	}
	return liked, likeCount, nil
}

// ToggleBookmark flips the caller's bookmark. Bookmarks are private,
// so no notification is emitted.
func (s *PostService) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return false, err
	}

	bookmarked, err := s.postRepo.ToggleBookmark(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	state := "off"
	if bookmarked {
		state = "on"
	}
	observability.ToggleOperations.WithLabelValues("bookmark", state).Inc()
	return bookmarked, nil
}

func (s *PostService) notify(ctx context.Context, n *models.Notification) {
	if s.notificationRepo == nil {
		return
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		middleware.Logger.WarnContext(ctx, "notification emit failed",
			"type", n.Type, "recipient", n.UserID, "error", err)
		return
	}
	observability.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
}
