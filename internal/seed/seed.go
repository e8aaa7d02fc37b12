package seed

import (
	"fmt"
	"log"

	"artfolio/internal/models"

	"gorm.io/gorm"
)

// Seeder orchestrates demo data generation.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder with default options.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, Options{MaxDays: 120}),
	}
}

// ClearAll wipes every seeded table. Order matters: children before
// parents so foreign keys never dangle mid-wipe.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Notification{},
		&models.FolderItem{},
		&models.Folder{},
		&models.Comment{},
		&models.Like{},
		&models.Bookmark{},
		&models.Friendship{},
		&models.Post{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	log.Println("database cleared")
	return nil
}

// Run seeds users with posts, then wires a social mesh of friendships,
// likes, bookmarks, comments, and folders on top.
func (s *Seeder) Run(numUsers, numPosts int) error {
	if numUsers < 2 {
		numUsers = 2
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		owner := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(owner)
		if err != nil {
			return fmt.Errorf("creating post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("created %d posts", len(posts))

	if err := s.wireFriendships(users); err != nil {
		return err
	}
	if err := s.wireEngagement(users, posts); err != nil {
		return err
	}
	if err := s.wireFolders(users, posts); err != nil {
		return err
	}

	log.Println("seeding complete")
	return nil
}

// wireFriendships links each user to a handful of others.
func (s *Seeder) wireFriendships(users []*models.User) error {
	count := 0
	for i, user := range users {
		friends := s.factory.rng.Intn(4) + 1
		for j := 1; j <= friends; j++ {
			other := users[(i+j)%len(users)]
			if other.ID == user.ID {
				continue
			}
			if _, err := s.factory.CreateFriendship(user.ID, other.ID); err != nil {
				// duplicate pair in the other direction; skip it
				continue
			}
			count++
		}
	}
	log.Printf("created %d friendships", count)
	return nil
}

func (s *Seeder) wireEngagement(users []*models.User, posts []*models.Post) error {
	likes, comments := 0, 0
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID {
				continue
			}
			roll := s.factory.rng.Intn(10)
			if roll < 3 {
				err := s.db.Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error
				if err == nil {
					likes++
					s.db.Model(post).UpdateColumn("like_count", gorm.Expr("like_count + 1"))
				}
			}
			if roll == 0 {
				if _, err := s.factory.CreateComment(user.ID, post.ID); err == nil {
					comments++
				}
			}
			if roll == 1 {
				_ = s.db.Create(&models.Bookmark{UserID: user.ID, PostID: post.ID}).Error
			}
		}
	}
	log.Printf("created %d likes, %d comments", likes, comments)
	return nil
}

func (s *Seeder) wireFolders(users []*models.User, posts []*models.Post) error {
	names := []string{"Favorites", "To revisit", "Inspiration", "Exhibition picks"}
	count := 0
	for _, user := range users {
		if s.factory.rng.Intn(2) == 0 {
			continue
		}
		folder, err := s.factory.CreateFolder(user.ID, names[s.factory.rng.Intn(len(names))])
		if err != nil {
			return fmt.Errorf("creating folder: %w", err)
		}
		count++
		for _, post := range posts {
			if post.UserID == user.ID && s.factory.rng.Intn(3) == 0 {
				_ = s.db.Create(&models.FolderItem{FolderID: folder.ID, PostID: post.ID}).Error
			}
		}
	}
	log.Printf("created %d folders", count)
	return nil
}
