package service

import (
	"context"

	"artfolio/internal/middleware"
	"artfolio/internal/models"
	"artfolio/internal/observability"
	"artfolio/internal/repository"
)

type FriendService struct {
	friendRepo       repository.FriendRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

// FriendRequests groups pending requests by direction for the caller.
type FriendRequests struct {
	Received []*models.Friendship `json:"received"`
	Sent     []*models.Friendship `json:"sent"`
}

func NewFriendService(
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) *FriendService {
	return &FriendService{
		friendRepo:       friendRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *FriendService) SendRequest(ctx context.Context, requesterID, addresseeID uint) (*models.Friendship, error) {
	if requesterID == addresseeID {
		return nil, models.NewValidationError("You cannot befriend yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, addresseeID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetBetween(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.FriendshipStatusAccepted {
			return nil, models.NewValidationError("You are already friends")
		}
		return nil, models.NewValidationError("A friend request is already pending")
	}

	friendship := &models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	s.notify(ctx, &models.Notification{
		UserID:  addresseeID,
		ActorID: requesterID,
		Type:    models.NotificationTypeFriendRequest,
		Message: "sent you a friend request",
	})
	return friendship, nil
}

func (s *FriendService) ListRequests(ctx context.Context, userID uint) (*FriendRequests, error) {
	received, err := s.friendRepo.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.friendRepo.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FriendRequests{Received: received, Sent: sent}, nil
}

// AcceptRequest is addressee-only; the requester cannot accept their
// own request.
func (s *FriendService) AcceptRequest(ctx context.Context, requestID, userID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if friendship.AddresseeID != userID {
		return nil, models.NewUnauthorizedError("Only the recipient can accept a friend request")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewValidationError("This request has already been handled")
	}

	if err := s.friendRepo.UpdateStatus(ctx, requestID, models.FriendshipStatusAccepted); err != nil {
		return nil, err
	}
	friendship.Status = models.FriendshipStatusAccepted

	s.notify(ctx, &models.Notification{
		UserID:  friendship.RequesterID,
		ActorID: userID,
		Type:    models.NotificationTypeFriendAccepted,
		Message: "accepted your friend request",
	})
	return friendship, nil
}

// RejectRequest deletes the pending row so the requester may try
// again later.
func (s *FriendService) RejectRequest(ctx context.Context, requestID, userID uint) error {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if friendship.AddresseeID != userID {
		return models.NewUnauthorizedError("Only the recipient can reject a friend request")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return models.NewValidationError("This request has already been handled")
	}
	return s.friendRepo.Delete(ctx, requestID)
}

func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.friendRepo.ListFriends(ctx, userID)
}

// RemoveFriend deletes the accepted friendship between the caller and
// the given user.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendUserID uint) error {
	friendship, err := s.friendRepo.GetBetween(ctx, userID, friendUserID)
	if err != nil {
		return err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return models.NewNotFoundError("Friendship", friendUserID)
	}
	return s.friendRepo.Delete(ctx, friendship.ID)
}

func (s *FriendService) notify(ctx context.Context, n *models.Notification) {
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
