package seed

import (
	"fmt"
	"log"
	"math/rand"

	"forumhub/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumThreads  int
	MaxDays     int
	ShouldClean bool
}

// Seed populates the database with demo forum data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d threads...", opts.NumUsers, opts.NumThreads)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := Categories(db); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	var categories []models.Category
	if err := db.Where("admin_only = ?", false).Order("sort_order").Find(&categories).Error; err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	log.Printf("✓ %d public categories available", len(categories))

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	threads, err := createThreads(factory, users, categories, opts.NumThreads)
	if err != nil {
		return fmt.Errorf("failed to create threads: %w", err)
	}
	log.Printf("✓ %d threads created", len(threads))

	postCount, err := createPosts(factory, users, threads)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d replies created", postCount)

	if err := createReactions(factory, users, threads); err != nil {
		return fmt.Errorf("failed to create reactions: %w", err)
	}

	shoutCount, err := createShouts(factory, users)
	if err != nil {
		return fmt.Errorf("failed to create shoutbox messages: %w", err)
	}
	log.Printf("✓ %d shoutbox messages created", shoutCount)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE reactions, posts, threads, shoutbox_messages, conversation_participants, direct_messages, conversations, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a couple of fixed accounts so the demo login works.
	if count >= 2 {
		for _, u := range []struct {
			username string
			role     string
		}{
			{"demo", models.RoleMember},
			{"demo_mod", models.RoleModerator},
		} {
			username := u.username
			role := u.role
			user, err := factory.CreateUser(func(m *models.User) {
				m.Username = username
				m.Email = fmt.Sprintf("%s@example.com", username)
				m.DisplayName = username
				m.Role = role
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		n := i
		user, err := factory.CreateUser(func(m *models.User) {
			m.Username = fmt.Sprintf("%s%d", m.Username, n)
			m.Email = fmt.Sprintf("%s@example.com", m.Username)
		})
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createThreads(factory *Factory, users []*models.User, categories []models.Category, count int) ([]*models.Thread, error) {
	if len(users) == 0 || len(categories) == 0 {
		return nil, nil
	}

	threads := make([]*models.Thread, 0, count)
	for i := 0; i < count; i++ {
		author := users[factory.r.Intn(len(users))]
		category := categories[factory.r.Intn(len(categories))]

		thread, err := factory.CreateThread(author, &category)
		if err != nil {
			log.Printf("Failed to create thread: %v", err)
			continue
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

func createPosts(factory *Factory, users []*models.User, threads []*models.Thread) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}

	created := 0
	for _, thread := range threads {
		replies := factory.r.Intn(8)
		for i := 0; i < replies; i++ {
			author := users[factory.r.Intn(len(users))]
			if _, err := factory.CreatePost(author, thread); err != nil {
				log.Printf("Failed to create post: %v", err)
				continue
			}
			created++
		}
	}
	return created, nil
}

func createReactions(factory *Factory, users []*models.User, threads []*models.Thread) error {
	for _, thread := range threads {
		likers := pickUsers(factory.r, users, factory.r.Intn(6))
		for _, liker := range likers {
			threadID := thread.ID
			reaction := models.Reaction{
				UserID:   liker.ID,
				ThreadID: &threadID,
				Type:     models.ReactionTypeLike,
			}
			if err := factory.db.Create(&reaction).Error; err != nil {
				log.Printf("Failed to create reaction: %v", err)
			}
		}
	}
	return nil
}

func createShouts(factory *Factory, users []*models.User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}

	created := 0
	for _, channel := range []string{models.ShoutboxChannelGeneral, models.ShoutboxChannelMarketplace} {
		count := factory.r.Intn(20) + 10
		for i := 0; i < count; i++ {
			author := users[factory.r.Intn(len(users))]
			if _, err := factory.CreateShout(author, channel); err != nil {
				log.Printf("Failed to create shoutbox message: %v", err)
				continue
			}
			created++
		}
	}
	return created, nil
}

// pickUsers returns up to n distinct users.
func pickUsers(r *rand.Rand, users []*models.User, n int) []*models.User {
	if n >= len(users) {
		n = len(users)
	}
	perm := r.Perm(len(users))
	picked := make([]*models.User, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, users[idx])
	}
	return picked
}
