package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"forumhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestHumanizeParam(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"conversationId", "conversation ID"},
		{"someOtherId", "some other ID"},
		{"slug", "slug"},
	}

	for _, tc := range cases {
		if got := humanizeParam(tc.in); got != tc.want {
			t.Errorf("humanizeParam(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	var got int
	app.Get("/pages", func(c *fiber.Ctx) error {
		got = parsePage(c)
		return c.SendStatus(http.StatusOK)
	})

	cases := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?page=3", 3},
		{"?page=0", 1},
		{"?page=-5", 1},
		{"?page=abc", 1},
	}

	for _, tc := range cases {
		resp := doJSON(t, app, http.MethodGet, "/pages"+tc.query, nil)
		_ = resp.Body.Close()
		if got != tc.want {
			t.Errorf("parsePage(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestHasRole(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	admin := createTestUser(t, s.db, "hradmin", models.RoleAdmin)
	mod := createTestUser(t, s.db, "hrmod", models.RoleModerator)
	member := createTestUser(t, s.db, "hrmember", models.RoleMember)

	ctx := context.Background()

	cases := []struct {
		name   string
		userID uint
		role   string
		want   bool
	}{
		{"admin has admin", admin.ID, models.RoleAdmin, true},
		{"mod lacks admin", mod.ID, models.RoleAdmin, false},
		{"mod has moderator", mod.ID, models.RoleModerator, true},
		{"admin has moderator", admin.ID, models.RoleModerator, true},
		{"member lacks moderator", member.ID, models.RoleModerator, false},
		{"member has member", member.ID, models.RoleMember, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.hasRole(ctx, tc.userID, tc.role)
			if err != nil {
				t.Fatalf("hasRole: %v", err)
			}
			if got != tc.want {
				t.Fatalf("hasRole = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRespondServiceErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("bad input"), http.StatusBadRequest},
		{"not found", models.NewNotFoundError("Thread", 7), http.StatusNotFound},
		{"forbidden", models.NewForbiddenError("nope"), http.StatusForbidden},
		{"unauthorized", models.NewUnauthorizedError("who are you"), http.StatusUnauthorized},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/fail", func(c *fiber.Ctx) error {
				return respondServiceError(c, tc.err)
			})
			resp := doJSON(t, app, http.MethodGet, "/fail", nil)
			_ = resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}
