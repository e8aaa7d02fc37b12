package models

import (
	"time"
)

// NotificationType enumerates the actions that produce a notification.
type NotificationType string

const (
	NotificationTypeFriendRequest  NotificationType = "friend_request"
	NotificationTypeFriendAccepted NotificationType = "friend_accepted"
	NotificationTypeLike           NotificationType = "like"
	NotificationTypeComment        NotificationType = "comment"
)

// Notification is a per-recipient event row. Clients poll for these on
// a fixed interval; there is no server-side push.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	ActorID   uint             `gorm:"not null" json:"actor_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null;index" json:"type"`
	PostID    *uint            `json:"post_id,omitempty"`
	Message   string           `json:"message"`
	Read      bool             `gorm:"not null;default:false;index" json:"read"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`

	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
