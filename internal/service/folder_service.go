package service

import (
	"context"
	"strings"

	"artfolio/internal/models"
	"artfolio/internal/repository"
)

const maxFolderNameLen = 100

type FolderService struct {
	folderRepo repository.FolderRepository
	postRepo   repository.PostRepository
}

type CreateFolderInput struct {
	UserID  uint
	Name    string
	Color   *string
	PostIDs []uint
}

func NewFolderService(folderRepo repository.FolderRepository, postRepo repository.PostRepository) *FolderService {
	return &FolderService{folderRepo: folderRepo, postRepo: postRepo}
}

func (s *FolderService) CreateFolder(ctx context.Context, in CreateFolderInput) (*models.Folder, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Folder name is required")
	}
	if len(name) > maxFolderNameLen {
		return nil, models.NewValidationError("Folder name too long (max 100 characters)")
	}

	folder := &models.Folder{
		UserID: in.UserID,
		Name:   name,
		Color:  in.Color,
	}
	if err := s.folderRepo.Create(ctx, folder, in.PostIDs); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *FolderService) ListFolders(ctx context.Context, userID uint) ([]*models.Folder, error) {
	return s.folderRepo.ListByUser(ctx, userID)
}

func (s *FolderService) UpdateFolder(ctx context.Context, folderID, userID uint, name string, color *string) (*models.Folder, error) {
	folder, err := s.ownedFolder(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Folder name is required")
	}
	if len(name) > maxFolderNameLen {
		return nil, models.NewValidationError("Folder name too long (max 100 characters)")
	}

	folder.Name = name
	folder.Color = color
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *FolderService) DeleteFolder(ctx context.Context, folderID, userID uint) error {
	if _, err := s.ownedFolder(ctx, folderID, userID); err != nil {
		return err
	}
	return s.folderRepo.Delete(ctx, folderID)
}

func (s *FolderService) AddItem(ctx context.Context, folderID, postID, userID uint) error {
	if _, err := s.ownedFolder(ctx, folderID, userID); err != nil {
		return err
	}
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return err
	}
	return s.folderRepo.AddItem(ctx, folderID, postID)
}

func (s *FolderService) RemoveItem(ctx context.Context, folderID, postID, userID uint) error {
	if _, err := s.ownedFolder(ctx, folderID, userID); err != nil {
		return err
	}
	return s.folderRepo.RemoveItem(ctx, folderID, postID)
}

func (s *FolderService) ListItems(ctx context.Context, folderID, userID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.ownedFolder(ctx, folderID, userID); err != nil {
		return nil, err
	}
	return s.folderRepo.ListItems(ctx, folderID, userID, limit, offset)
}

// Folders are private; every operation starts with an ownership check.
func (s *FolderService) ownedFolder(ctx context.Context, folderID, userID uint) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.UserID != userID {
		return nil, models.NewUnauthorizedError("This folder belongs to another user")
	}
	return folder, nil
}
