package models

import (
	"time"
)

// Rating bounds for a post. Zero means unrated.
const (
	MinRating = 0
	MaxRating = 5
)

// Post represents a single archived artwork record with its metadata.
// A post is exclusively owned by its user.
type Post struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"not null;index" json:"user_id"`
	User        User    `gorm:"foreignKey:UserID" json:"user"`
	Title       string  `gorm:"not null" json:"title"`
	ArtistName  string  `gorm:"index" json:"artist_name"`
	Description string  `gorm:"type:text" json:"description"`
	Rating      int     `gorm:"not null;default:0" json:"rating"`
	WorkDate    string  `json:"work_date"`
	Genre       string  `gorm:"index" json:"genre"`
	Style       string  `gorm:"index" json:"style"`
	Tags        TagList `gorm:"type:text" json:"tags"`
	ImageRef    string  `gorm:"not null" json:"image_ref"`
	MusicRef    string  `json:"music_ref,omitempty"`

	// Location of the encounter. Province is the grouping root; a post
	// without a province never appears in the locations view.
	LocationProvince *string `gorm:"index" json:"location_province"`
	LocationCity     *string `json:"location_city"`
	LocationDistrict *string `json:"location_district"`

	// AISummary is produced by an external analyzer and arrives
	// out of band. IsAnalyzed=true requires a non-empty summary.
	AISummary  string `gorm:"type:text" json:"ai_summary,omitempty"`
	IsAnalyzed bool   `gorm:"not null;default:false" json:"is_analyzed"`

	// LikeCount is stored and adjusted in the same transaction as the
	// like join row so the counter never drifts from membership.
	LikeCount int `gorm:"not null;default:0" json:"like_count"`

	// CommentsCount is not persisted; computed at query time.
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked/Bookmarked indicate the requesting user's membership (computed).
	Liked      bool `gorm:"->" json:"liked"`
	Bookmarked bool `gorm:"->" json:"bookmarked"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAnalysis reports whether an external summary is present,
// regardless of the is_analyzed flag.
func (p *Post) HasAnalysis() bool {
	return p.AISummary != ""
}

// PostSummary is the reduced shape used by location grouping and folder
// item listings.
type PostSummary struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	ArtistName       string  `json:"artist_name"`
	ImageRef         string  `json:"image_ref"`
	LocationProvince *string `json:"location_province,omitempty"`
	LocationCity     *string `json:"location_city,omitempty"`
	LocationDistrict *string `json:"location_district,omitempty"`
}

// Summary projects the post into its reduced listing shape.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:               p.ID,
		Title:            p.Title,
		ArtistName:       p.ArtistName,
		ImageRef:         p.ImageRef,
		LocationProvince: p.LocationProvince,
		LocationCity:     p.LocationCity,
		LocationDistrict: p.LocationDistrict,
	}
}
