package server

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"artfolio/internal/models"
	"artfolio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postFormFields carries the metadata fields shared by create and
// update. Both endpoints accept multipart form data so the image file
// can travel with its metadata.
type postFormFields struct {
	Title            string
	ArtistName       string
	Description      string
	Rating           int
	WorkDate         string
	Genre            string
	Style            string
	Tags             models.TagList
	MusicRef         string
	LocationProvince *string
	LocationCity     *string
	LocationDistrict *string
}

func parsePostForm(c *fiber.Ctx) (*postFormFields, error) {
	fields := &postFormFields{
		Title:       c.FormValue("title"),
		ArtistName:  c.FormValue("artist_name"),
		Description: c.FormValue("description"),
		WorkDate:    c.FormValue("work_date"),
		Genre:       strings.TrimSpace(c.FormValue("genre")),
		Style:       strings.TrimSpace(c.FormValue("style")),
		MusicRef:    strings.TrimSpace(c.FormValue("music_ref")),
	}

	if raw := c.FormValue("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Rating must be a number"))
			return nil, errResponseWritten
		}
		fields.Rating = rating
	}

	if raw := c.FormValue("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fields.Tags); err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Tags must be a JSON array"))
			return nil, errResponseWritten
		}
	}

	fields.LocationProvince = optionalFormValue(c, "location_province")
	fields.LocationCity = optionalFormValue(c, "location_city")
	fields.LocationDistrict = optionalFormValue(c, "location_district")

	return fields, nil
}

// optionalFormValue distinguishes an absent field from an empty one.
func optionalFormValue(c *fiber.Ctx, name string) *string {
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		if values, ok := form.Value[name]; ok && len(values) > 0 {
			v := strings.TrimSpace(values[0])
			return &v
		}
		return nil
	}
	if v := strings.TrimSpace(c.FormValue(name)); v != "" {
		return &v
	}
	return nil
}

// resolveImageRef stores an uploaded image file if one is present,
// otherwise falls back to the image_ref form field. Exactly one of the
// two must be provided on create.
func (s *Server) resolveImageRef(c *fiber.Ctx, userID uint) (string, bool, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return strings.TrimSpace(c.FormValue("image_ref")), false, nil
	}
	if strings.TrimSpace(c.FormValue("image_ref")) != "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Provide an image file or an image_ref, not both"))
		return "", false, errResponseWritten
	}

	src, err := file.Open()
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
		return "", false, errResponseWritten
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
		return "", false, errResponseWritten
	}

	ref, err := s.imageService.Upload(c.UserContext(), service.UploadImageInput{
		UserID:      userID,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		_ = respondServiceError(c, err)
		return "", false, errResponseWritten
	}
	return ref, true, nil
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	fields, err := parsePostForm(c)
	if err != nil {
		return nil
	}

	imageRef, uploaded, err := s.resolveImageRef(c, userID)
	if err != nil {
		return nil
	}
	if imageRef == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file or image_ref is required"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:           userID,
		Title:            fields.Title,
		ArtistName:       fields.ArtistName,
		Description:      fields.Description,
		Rating:           fields.Rating,
		WorkDate:         fields.WorkDate,
		Genre:            fields.Genre,
		Style:            fields.Style,
		Tags:             fields.Tags,
		ImageRef:         imageRef,
		MusicRef:         fields.MusicRef,
		LocationProvince: fields.LocationProvince,
		LocationCity:     fields.LocationCity,
		LocationDistrict: fields.LocationDistrict,
	})
	if err != nil {
		// The stored file is orphaned if validation rejected the post.
		if uploaded {
			s.imageService.Remove(c.UserContext(), imageRef)
		}
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id. Works without authentication;
// liked/bookmarked flags are populated when a valid token is sent.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	post, err := s.postService.GetPost(c.UserContext(), id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.ListUserPosts(c.UserContext(), id, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetFeed handles GET /api/posts, returning the requester's own posts
// interleaved with accepted friends' posts, newest first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListFeed(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetBookmarkedPosts handles GET /api/posts/bookmarked
func (s *Server) GetBookmarkedPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListBookmarked(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	fields, err := parsePostForm(c)
	if err != nil {
		return nil
	}

	existing, err := s.postService.GetPost(c.UserContext(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	imageRef, uploaded, err := s.resolveImageRef(c, userID)
	if err != nil {
		return nil
	}
	if imageRef == "" {
		// No replacement image; keep the stored one.
		imageRef = existing.ImageRef
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:           userID,
		PostID:           id,
		Title:            fields.Title,
		ArtistName:       fields.ArtistName,
		Description:      fields.Description,
		Rating:           fields.Rating,
		WorkDate:         fields.WorkDate,
		Genre:            fields.Genre,
		Style:            fields.Style,
		Tags:             fields.Tags,
		ImageRef:         imageRef,
		MusicRef:         fields.MusicRef,
		LocationProvince: fields.LocationProvince,
		LocationCity:     fields.LocationCity,
		LocationDistrict: fields.LocationDistrict,
	})
	if err != nil {
		// The stored file is orphaned if validation rejected the update.
		if uploaded {
			s.imageService.Remove(c.UserContext(), imageRef)
		}
		return respondServiceError(c, err)
	}

	// Best effort; the post now points at the replacement file.
	if uploaded && existing.ImageRef != "" && existing.ImageRef != imageRef {
		s.imageService.Remove(c.UserContext(), existing.ImageRef)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, err := s.postService.GetPost(c.UserContext(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.postService.DeletePost(c.UserContext(), id, userID); err != nil {
		return respondServiceError(c, err)
	}

	// Best effort; the DB row is already gone.
	s.imageService.Remove(c.UserContext(), post.ImageRef)

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// AnalyzeRequest carries the external analyzer's summary.
type AnalyzeRequest struct {
	Summary string `json:"summary"`
}

// AnalyzePost handles POST /api/posts/:id/analyze
func (s *Server) AnalyzePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	// A bare POST with no body flips the flag over the stored summary.
	var req AnalyzeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	result, err := s.postService.Analyze(c.UserContext(), id, currentUserID(c), req.Summary)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, likeCount, err := s.postService.ToggleLike(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"liked":      liked,
		"like_count": likeCount,
	})
}

// ToggleBookmark handles POST /api/posts/:id/bookmark
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	bookmarked, err := s.postService.ToggleBookmark(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarked": bookmarked})
}
