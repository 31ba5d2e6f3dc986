// Package seed provides helpers to create demo data for the application
// database. Intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"tavern/internal/models"
	"tavern/internal/repository"
	"tavern/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumThreads  int
	NumShouts   int
	ShouldClean bool
}

var forumLayout = map[string][]string{
	"General": {
		"Introductions", "General Discussion", "Off Topic",
	},
	"Technology": {
		"Programming", "Linux", "Homelab",
	},
	"Entertainment": {
		"Movies", "Music", "Gaming",
	},
}

// Seeder populates the database with generated data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes every row from the domain tables, children first.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"posts", "threads", "forums", "shouts",
		"ip_logs", "invite_codes", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds users, invite codes, forums and a mesh of threads, replies
// and shouts.
func (s *Seeder) Run(opts Options) error {
	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	if err := s.SeedInviteCodes(); err != nil {
		return err
	}
	forums, err := s.SeedForums()
	if err != nil {
		return err
	}
	if err := s.SeedThreads(forums, users, opts.NumThreads); err != nil {
		return err
	}
	if err := s.SeedShouts(users, opts.NumShouts); err != nil {
		return err
	}
	log.Printf("seeded %d users, %d forums, %d threads", len(users), len(forums), opts.NumThreads)
	return nil
}

// SeedUsers creates n users with the shared password "password123".
// The first user is an admin, the second a moderator.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		user := models.User{
			Username:         username,
			Email:            fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			PasswordHash:     string(hash),
			Role:             models.RoleUser,
			RegistrationDate: time.Now().Add(-time.Duration(s.rand.Intn(365*24)) * time.Hour),
			AvatarURL:        service.DefaultAvatarURL(username),
			AvatarColor:      gofakeit.HexColor(),
			Location:         gofakeit.City(),
			About:            gofakeit.Sentence(8),
			ReceiveEmails:    true,
		}
		switch i {
		case 0:
			user.Role = models.RoleAdmin
		case 1:
			user.Role = models.RoleModerator
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedInviteCodes creates one unlimited code and a handful of single-use
// codes, one of them already expired.
func (s *Seeder) SeedInviteCodes() error {
	expired := time.Now().Add(-24 * time.Hour)
	codes := []models.InviteCode{
		{Code: "WELCOME", UsesLeft: models.UnlimitedUses},
		{Code: "FRIEND-" + gofakeit.LetterN(6), UsesLeft: 1},
		{Code: "FRIEND-" + gofakeit.LetterN(6), UsesLeft: 5},
		{Code: "EXPIRED-" + gofakeit.LetterN(6), UsesLeft: 1, ExpiresAt: &expired},
	}
	for i := range codes {
		if err := s.db.Create(&codes[i]).Error; err != nil {
			return fmt.Errorf("seed invite code: %w", err)
		}
	}
	return nil
}

// SeedForums creates the forum layout with display order per category.
func (s *Seeder) SeedForums() ([]models.Forum, error) {
	forums := []models.Forum{}
	for category, titles := range forumLayout {
		for order, title := range titles {
			forum := models.Forum{
				Category:     category,
				Title:        title,
				Description:  gofakeit.Sentence(6),
				DisplayOrder: order,
			}
			if err := s.db.Create(&forum).Error; err != nil {
				return nil, fmt.Errorf("seed forum %q: %w", title, err)
			}
			forums = append(forums, forum)
		}
	}
	return forums, nil
}

// SeedThreads opens n threads in random forums and adds a few replies to
// each, going through the forum service so the denormalized counters
// stay consistent.
func (s *Seeder) SeedThreads(forums []models.Forum, users []models.User, n int) error {
	if len(forums) == 0 || len(users) == 0 {
		return nil
	}
	forumSvc := service.NewForumService(s.db,
		repository.NewForumRepository(s.db), repository.NewUserRepository(s.db))
	ctx := context.Background()
	for i := 0; i < n; i++ {
		forum := forums[s.rand.Intn(len(forums))]
		author := users[s.rand.Intn(len(users))]

		thread, err := forumSvc.CreateThread(ctx, service.CreateThreadInput{
			ForumID: forum.ID,
			UID:     author.UID,
			Title:   strings.TrimSuffix(gofakeit.Sentence(5), "."),
			Content: gofakeit.Paragraph(1, 3, 8, "\n"),
		})
		if err != nil {
			return fmt.Errorf("seed thread %d: %w", i, err)
		}

		replies := s.rand.Intn(6)
		for j := 0; j < replies; j++ {
			replier := users[s.rand.Intn(len(users))]
			_, err := forumSvc.CreatePost(ctx, service.CreatePostInput{
				ThreadID: thread.ID,
				UID:      replier.UID,
				Content:  gofakeit.Paragraph(1, 2, 6, "\n"),
			})
			if err != nil {
				return fmt.Errorf("seed reply %d/%d: %w", i, j, err)
			}
		}
	}
	return nil
}

// SeedShouts fills the shoutbox feed.
func (s *Seeder) SeedShouts(users []models.User, n int) error {
	if len(users) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		shout := models.Shout{
			UID:     author.UID,
			Message: gofakeit.Sentence(s.rand.Intn(10) + 3),
			Time:    time.Now().Add(-time.Duration(s.rand.Intn(72)) * time.Hour),
		}
		if err := s.db.Create(&shout).Error; err != nil {
			return fmt.Errorf("seed shout %d: %w", i, err)
		}
	}
	return nil
}
