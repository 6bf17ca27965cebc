package service

import (
	"context"
	"strings"
	"testing"

	"forumhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	createFn         func(context.Context, *models.User) error
	updateFn         func(context.Context, *models.User) error
	deleteFn         func(context.Context, uint) error
	listFn           func(context.Context, int, int) ([]models.User, error)
	setRoleFn        func(context.Context, uint, string) error
	setShoutboxBanFn func(context.Context, uint, bool) error
	countFn          func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) SetRole(ctx context.Context, id uint, role string) error {
	return s.setRoleFn(ctx, id, role)
}
func (s *userRepoStub) SetShoutboxBan(ctx context.Context, id uint, banned bool) error {
	return s.setShoutboxBanFn(ctx, id, banned)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "someone", Role: models.RoleMember}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username, Role: models.RoleMember}, nil
		},
		createFn:         func(_ context.Context, _ *models.User) error { return nil },
		updateFn:         func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		listFn:           func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		setRoleFn:        func(_ context.Context, _ uint, _ string) error { return nil },
		setShoutboxBanFn: func(_ context.Context, _ uint, _ bool) error { return nil },
		countFn:          func(_ context.Context) (int64, error) { return 0, nil },
	}
}

func TestUserService_GetProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns user with recent activity", func(t *testing.T) {
		t.Parallel()
		threadRepo := noopThreadRepo()
		threadRepo.listByAuthorFn = func(_ context.Context, authorID uint, _, _ int) ([]*models.Thread, error) {
			return []*models.Thread{{ID: 10, AuthorID: authorID}}, nil
		}
		postRepo := noopPostRepo()
		postRepo.listByAuthorFn = func(_ context.Context, authorID uint, _, _ int) ([]*models.Post, error) {
			return []*models.Post{{ID: 20, AuthorID: authorID}}, nil
		}
		svc := NewUserService(noopUserRepo(), threadRepo, postRepo)

		profile, err := svc.GetProfile(ctx, "someone")
		require.NoError(t, err)
		assert.Equal(t, "someone", profile.User.Username)
		require.Len(t, profile.Threads, 1)
		require.Len(t, profile.Posts, 1)
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) { return nil, nil }
		svc := NewUserService(userRepo, noopThreadRepo(), noopPostRepo())

		_, err := svc.GetProfile(ctx, "ghost")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("updates provided fields only", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "someone", DisplayName: "Old Name", Bio: "old bio"}, nil
		}
		svc := NewUserService(userRepo, noopThreadRepo(), noopPostRepo())

		user, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Bio: "new bio"})
		require.NoError(t, err)
		assert.Equal(t, "new bio", user.Bio)
		assert.Equal(t, "Old Name", user.DisplayName)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), noopThreadRepo(), noopPostRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Bio: strings.Repeat("x", 501)})
		assertValidationError(t, err)
	})

	t.Run("display name too long", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), noopThreadRepo(), noopPostRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, DisplayName: strings.Repeat("x", 51)})
		assertValidationError(t, err)
	})
}

func TestUserService_SetRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), noopThreadRepo(), noopPostRepo())
		_, err := svc.SetRole(ctx, 1, 2, "overlord")
		assertValidationError(t, err)
	})

	t.Run("admins cannot demote themselves", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), noopThreadRepo(), noopPostRepo())
		_, err := svc.SetRole(ctx, 1, 1, models.RoleMember)
		assertValidationError(t, err)
	})

	t.Run("promotes another user", func(t *testing.T) {
		t.Parallel()
		var gotID uint
		var gotRole string
		userRepo := noopUserRepo()
		userRepo.setRoleFn = func(_ context.Context, id uint, role string) error {
			gotID, gotRole = id, role
			return nil
		}
		svc := NewUserService(userRepo, noopThreadRepo(), noopPostRepo())

		_, err := svc.SetRole(ctx, 1, 2, models.RoleModerator)
		require.NoError(t, err)
		assert.Equal(t, uint(2), gotID)
		assert.Equal(t, models.RoleModerator, gotRole)
	})
}

func TestUserService_StaffChecks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		role    string
		isStaff bool
		isAdmin bool
	}{
		{models.RoleAdmin, true, true},
		{models.RoleModerator, true, false},
		{models.RoleMember, false, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.role, func(t *testing.T) {
			t.Parallel()
			userRepo := noopUserRepo()
			userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id, Role: tt.role}, nil
			}
			svc := NewUserService(userRepo, noopThreadRepo(), noopPostRepo())

			staff, err := svc.IsStaff(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.isStaff, staff)

			admin, err := svc.IsAdmin(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.isAdmin, admin)
		})
	}
}

func TestUserService_SetShoutboxBan(t *testing.T) {
	t.Parallel()

	var gotID uint
	var gotBanned bool
	userRepo := noopUserRepo()
	userRepo.setShoutboxBanFn = func(_ context.Context, id uint, banned bool) error {
		gotID, gotBanned = id, banned
		return nil
	}
	svc := NewUserService(userRepo, noopThreadRepo(), noopPostRepo())

	_, err := svc.SetShoutboxBan(context.Background(), 3, true)
	require.NoError(t, err)
	assert.Equal(t, uint(3), gotID)
	assert.True(t, gotBanned)
}
