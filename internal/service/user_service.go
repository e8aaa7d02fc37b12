package service

import (
	"context"
	"strings"

	"artfolio/internal/models"
	"artfolio/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID       uint
	Nickname     string
	ProfileImage string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	nickname := strings.TrimSpace(in.Nickname)
	if len(nickname) > 50 {
		return nil, models.NewValidationError("Nickname too long (max 50 characters)")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	user.Nickname = nickname
	if in.ProfileImage != "" {
		user.ProfileImage = in.ProfileImage
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
