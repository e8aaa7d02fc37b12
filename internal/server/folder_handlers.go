package server

import (
	"artfolio/internal/models"
	"artfolio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateFolderRequest represents the request body for folder creation
type CreateFolderRequest struct {
	Name    string  `json:"name"`
	Color   *string `json:"color"`
	PostIDs []uint  `json:"post_ids"`
}

// UpdateFolderRequest represents the request body for folder updates
type UpdateFolderRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

// AddFolderItemRequest represents the request body for adding a post to
// a folder.
type AddFolderItemRequest struct {
	PostID uint `json:"post_id"`
}

// CreateFolder handles POST /api/folders
func (s *Server) CreateFolder(c *fiber.Ctx) error {
	var req CreateFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	folder, err := s.folderService.CreateFolder(c.UserContext(), service.CreateFolderInput{
		UserID:  currentUserID(c),
		Name:    req.Name,
		Color:   req.Color,
		PostIDs: req.PostIDs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(folder)
}

// GetUserFolders handles GET /api/users/:id/folders. Folders are
// private, so only the owner can list them.
func (s *Server) GetUserFolders(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if id != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Folders are private"))
	}

	folders, err := s.folderService.ListFolders(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(folders)
}

// UpdateFolder handles PUT /api/folders/:id
func (s *Server) UpdateFolder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req UpdateFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	folder, err := s.folderService.UpdateFolder(c.UserContext(), id, currentUserID(c), req.Name, req.Color)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(folder)
}

// DeleteFolder handles DELETE /api/folders/:id. Deleting a folder never
// deletes the posts inside it.
func (s *Server) DeleteFolder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.folderService.DeleteFolder(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Folder deleted"})
}

// AddFolderItem handles POST /api/folders/:id/items
func (s *Server) AddFolderItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req AddFolderItemRequest
	if err := c.BodyParser(&req); err != nil || req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A post_id is required"))
	}

	if err := s.folderService.AddItem(c.UserContext(), id, req.PostID, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post added to folder"})
}

// RemoveFolderItem handles DELETE /api/folders/:id/items/:postId
func (s *Server) RemoveFolderItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.folderService.RemoveItem(c.UserContext(), id, postID, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post removed from folder"})
}

// GetFolderItems handles GET /api/folders/:id/items
func (s *Server) GetFolderItems(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	posts, err := s.folderService.ListItems(c.UserContext(), id, currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}
