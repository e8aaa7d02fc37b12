package models

import (
	"time"
)

// Folder is a user-defined named collection of posts.
type Folder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ItemCount is never stored; always COUNT(*) over folder_items.
	ItemCount int `gorm:"->" json:"item_count"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// FolderItem is the join row placing a post into a folder. Listing
// order is CreatedAt descending (most recently added first).
type FolderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FolderID  uint      `gorm:"not null;uniqueIndex:idx_folder_post;index" json:"folder_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_folder_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	Folder Folder `gorm:"foreignKey:FolderID" json:"folder,omitempty"`
	Post   Post   `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
