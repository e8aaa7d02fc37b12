// Package seed provides helpers to create demo data for development
// and testing. Never run against a production database.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"artfolio/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes how much data the factories generate.
type Options struct {
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
	// DryRun builds entities without persisting them.
	DryRun bool
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter for DryRun mode
	nextID uint
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1000,
	}
}

var genres = []string{"painting", "sculpture", "photography", "printmaking", "digital", "drawing", "craft"}

var styles = []string{
	"impressionism", "expressionism", "surrealism", "minimalism",
	"abstract", "realism", "pop art", "folk art",
}

var provinces = map[string][]string{
	"Ontario":          {"Toronto", "Ottawa", "Hamilton"},
	"Quebec":           {"Montreal", "Quebec City"},
	"British Columbia": {"Vancouver", "Victoria"},
	"Alberta":          {"Calgary", "Edmonton"},
}

// seedPassword is the login password for every generated account.
const seedPassword = "SeedGallery12!@"

// CreateUser creates a user with a deterministic password so seeded
// accounts can be logged into during development.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), f.rng.Intn(10000)),
		Email:    gofakeit.Email(),
		Password: string(hash),
		Nickname: gofakeit.FirstName(),
	}
	for _, o := range overrides {
		o(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs an artwork post without persisting it.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	genre := genres[f.rng.Intn(len(genres))]
	style := styles[f.rng.Intn(len(styles))]

	post := &models.Post{
		UserID:      user.ID,
		Title:       gofakeit.Sentence(3),
		ArtistName:  gofakeit.Name(),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Rating:      f.rng.Intn(models.MaxRating + 1),
		WorkDate:    gofakeit.DateRange(time.Now().AddDate(-3, 0, 0), time.Now()).Format("2006-01-02"),
		Genre:       genre,
		Style:       style,
		Tags: models.TagList{
			{ID: gofakeit.UUID(), Label: style, Path: []string{"style", style}},
			{ID: gofakeit.UUID(), Label: genre, Path: []string{"genre", genre}},
		},
		ImageRef: fmt.Sprintf("https://picsum.photos/seed/%s/1200/900", gofakeit.UUID()),
	}

	// roughly two thirds of posts carry a location
	if f.rng.Intn(3) != 0 {
		names := make([]string, 0, len(provinces))
		for name := range provinces {
			names = append(names, name)
		}
		province := names[f.rng.Intn(len(names))]
		post.LocationProvince = &province
		if f.rng.Intn(4) != 0 {
			city := provinces[province][f.rng.Intn(len(provinces[province]))]
			post.LocationCity = &city
		}
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays*24*60)) * time.Minute
	post.CreatedAt = time.Now().Add(-back)

	for _, o := range overrides {
		o(post)
	}
	return post
}

// CreatePost builds and persists an artwork post.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, overrides...)
	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		return post, nil
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateFriendship persists an accepted friendship between two users.
func (f *Factory) CreateFriendship(requesterID, addresseeID uint) (*models.Friendship, error) {
	friendship := &models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipStatusAccepted,
	}
	if f.opts.DryRun {
		f.nextID++
		friendship.ID = f.nextID
		return friendship, nil
	}
	if err := f.db.Create(friendship).Error; err != nil {
		return nil, err
	}
	return friendship, nil
}

// CreateComment persists a comment from user on post.
func (f *Factory) CreateComment(userID, postID uint) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: gofakeit.Sentence(8),
	}
	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFolder persists a folder for the user.
func (f *Factory) CreateFolder(userID uint, name string) (*models.Folder, error) {
	color := gofakeit.HexColor()
	folder := &models.Folder{
		UserID: userID,
		Name:   name,
		Color:  &color,
	}
	if f.opts.DryRun {
		f.nextID++
		folder.ID = f.nextID
		return folder, nil
	}
	if err := f.db.Create(folder).Error; err != nil {
		return nil, err
	}
	return folder, nil
}
