package service

import (
	"context"
	"strings"
	"testing"

	"artfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates nickname", func(t *testing.T) {
		repo := noopUserRepo()
		var saved *models.User
		repo.updateFn = func(_ context.Context, user *models.User) error {
			saved = user
			return nil
		}
		svc := NewUserService(repo)

		user, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Nickname: "  brushstroke  "})
		require.NoError(t, err)
		assert.Equal(t, "brushstroke", user.Nickname)
		require.NotNil(t, saved)
	})

	t.Run("nickname too long", func(t *testing.T) {
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Nickname: strings.Repeat("a", 51)})
		require.Error(t, err)
	})

	t.Run("empty profile image keeps existing", func(t *testing.T) {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, ProfileImage: "/media/old.webp"}, nil
		}
		svc := NewUserService(repo)

		user, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Nickname: "x"})
		require.NoError(t, err)
		assert.Equal(t, "/media/old.webp", user.ProfileImage)
	})
}
