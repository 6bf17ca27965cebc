package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"forumhub/internal/config"
	"forumhub/internal/featureflags"
	"forumhub/internal/models"
	"forumhub/internal/repository"
	"forumhub/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a Server against an in-memory sqlite database with
// all repositories and services wired, but no Redis, hubs, or metrics.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Thread{},
		&models.Post{},
		&models.Reaction{},
		&models.ShoutboxMessage{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.DirectMessage{},
		&models.Advertisement{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	s := &Server{
		config: &config.Config{
			JWTSecret: "test-secret",
			Port:      "0",
			Env:       "test",
		},
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		threadRepo:   repository.NewThreadRepository(db),
		postRepo:     repository.NewPostRepository(db),
		reactionRepo: repository.NewReactionRepository(db),
		shoutboxRepo: repository.NewShoutboxRepository(db),
		chatRepo:     repository.NewChatRepository(db),
		adRepo:       repository.NewAdvertisementRepository(db),
		featureFlags: featureflags.NewManager(""),
	}

	s.userService = service.NewUserService(s.userRepo, s.threadRepo, s.postRepo)
	s.threadService = service.NewThreadService(s.threadRepo, s.categoryRepo, s.isStaffByUserID)
	s.postService = service.NewPostService(s.postRepo, s.threadRepo, s.isStaffByUserID)
	s.reactionService = service.NewReactionService(s.reactionRepo, s.threadRepo, s.postRepo)
	s.categoryService = service.NewCategoryService(s.categoryRepo)
	s.shoutboxService = service.NewShoutboxService(s.shoutboxRepo, s.userRepo)
	s.chatService = service.NewChatService(s.chatRepo, s.userRepo)
	s.adService = service.NewAdvertisementService(s.adRepo)

	return s
}

// withTestRedis attaches a miniredis-backed client to the server.
func withTestRedis(t *testing.T, s *Server) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s.redis = client
	return mr
}

// authedApp returns a fiber app whose requests run as the given user.
func authedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	return app
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name, slug string, adminOnly bool) *models.Category {
	t.Helper()

	cat := &models.Category{Name: name, Slug: slug, AdminOnly: adminOnly}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("create category %s: %v", slug, err)
	}
	return cat
}

func createTestThread(t *testing.T, db *gorm.DB, author *models.User, cat *models.Category, title, slug string) *models.Thread {
	t.Helper()

	thread := &models.Thread{
		Title:      title,
		Slug:       slug,
		Content:    "thread content for " + title,
		AuthorID:   author.ID,
		CategoryID: cat.ID,
	}
	if err := db.Create(thread).Error; err != nil {
		t.Fatalf("create thread %s: %v", slug, err)
	}
	return thread
}

// jsonRequest builds an httptest request with an optional JSON body.
func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()

	req := jsonRequest(t, method, target, body)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, target, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
