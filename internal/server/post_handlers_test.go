package server

import (
	"net/http"
	"testing"

	"forumhub/internal/cache"
	"forumhub/internal/models"
	"forumhub/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
)

func TestCreateAndListPosts(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	author := createTestUser(t, s.db, "postauthor", models.RoleMember)
	replier := createTestUser(t, s.db, "postreplier", models.RoleMember)
	cat := createTestCategory(t, s.db, "General", "general-discussion", false)
	createTestThread(t, s.db, author, cat, "Reply to me", "reply-to-me")

	app := authedApp(replier.ID)
	app.Post("/api/threads/:id/posts", s.CreatePost)
	app.Get("/api/threads/:id/posts", s.GetThreadPosts)

	resp := doJSON(t, app, http.MethodPost, "/api/threads/1/posts", map[string]string{
		"content": "Great topic, following along.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d", resp.StatusCode)
	}
	var post models.Post
	decodeBody(t, resp, &post)
	if post.AuthorID != replier.ID {
		t.Fatalf("expected author %d, got %d", replier.ID, post.AuthorID)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/threads/1/posts", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list posts: expected 200, got %d", resp.StatusCode)
	}
	var page struct {
		Posts []models.Post `json:"posts"`
	}
	decodeBody(t, resp, &page)
	if len(page.Posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(page.Posts))
	}
}

func TestCreatePostUnknownThread(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	replier := createTestUser(t, s.db, "lostreplier", models.RoleMember)

	app := authedApp(replier.ID)
	app.Post("/api/threads/:id/posts", s.CreatePost)

	resp := doJSON(t, app, http.MethodPost, "/api/threads/999/posts", map[string]string{
		"content": "Replying into the void",
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdatePostOwnership(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	author := createTestUser(t, s.db, "editauthor", models.RoleMember)
	stranger := createTestUser(t, s.db, "editstranger", models.RoleMember)
	cat := createTestCategory(t, s.db, "General", "general-discussion", false)
	thread := createTestThread(t, s.db, author, cat, "Edit wars", "edit-wars")

	post := &models.Post{Content: "original words", AuthorID: author.ID, ThreadID: thread.ID}
	if err := s.db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}

	newApp := func(userID uint) *fiber.App {
		app := authedApp(userID)
		app.Put("/api/posts/:id", s.UpdatePost)
		return app
	}

	resp := doJSON(t, newApp(stranger.ID), http.MethodPut, "/api/posts/1", map[string]string{
		"content": "hijacked content",
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger edit: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, newApp(author.ID), http.MethodPut, "/api/posts/1", map[string]string{
		"content": "revised words",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("author edit: expected 200, got %d", resp.StatusCode)
	}
	var updated models.Post
	decodeBody(t, resp, &updated)
	if updated.Content != "revised words" {
		t.Fatalf("expected updated content, got %q", updated.Content)
	}
}

// Deliberately not parallel: it swaps the package-global cache client.
func TestDeletePostInvalidatesCachedThread(t *testing.T) {
	s := newTestServer(t)
	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())
	t.Cleanup(func() { cache.InitRedis("://disabled") })

	author := createTestUser(t, s.db, "cacheauthor", models.RoleMember)
	cat := createTestCategory(t, s.db, "General", "general-discussion", false)
	thread := createTestThread(t, s.db, author, cat, "Cached thread", "cached-thread")

	post := &models.Post{Content: "soon to be removed", AuthorID: author.ID, ThreadID: thread.ID}
	if err := s.db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}

	key := cache.ThreadKey(thread.Slug)
	if err := mr.Set(key, `{"id":1}`); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	app := authedApp(author.ID)
	app.Delete("/api/posts/:id", s.DeletePost)

	resp := doJSON(t, app, http.MethodDelete, "/api/posts/1", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete post: expected 200, got %d", resp.StatusCode)
	}

	if mr.Exists(key) {
		t.Fatal("cached thread detail should be invalidated when a reply is deleted")
	}
}

func TestToggleThreadReaction(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	author := createTestUser(t, s.db, "reactauthor", models.RoleMember)
	reactor := createTestUser(t, s.db, "reactor", models.RoleMember)
	cat := createTestCategory(t, s.db, "General", "general-discussion", false)
	createTestThread(t, s.db, author, cat, "React to me", "react-to-me")

	app := authedApp(reactor.ID)
	app.Post("/api/threads/:id/reactions", s.ToggleThreadReaction)

	resp := doJSON(t, app, http.MethodPost, "/api/threads/1/reactions", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first toggle: expected 200, got %d", resp.StatusCode)
	}
	var result service.ReactionResult
	decodeBody(t, resp, &result)
	if !result.Reacted || result.Count != 1 {
		t.Fatalf("first toggle: expected reacted with count 1, got %+v", result)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/threads/1/reactions", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second toggle: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &result)
	if result.Reacted || result.Count != 0 {
		t.Fatalf("second toggle: expected removed with count 0, got %+v", result)
	}
}

func TestInvalidPostIDParam(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	user := createTestUser(t, s.db, "badparam", models.RoleMember)

	app := authedApp(user.ID)
	app.Delete("/api/posts/:id", s.DeletePost)

	resp := doJSON(t, app, http.MethodDelete, "/api/posts/notanumber", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
