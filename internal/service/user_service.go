package service

import (
	"context"
	"strings"

	"forumhub/internal/models"
	"forumhub/internal/repository"
)

// UserService provides profile and account management logic.
type UserService struct {
	userRepo   repository.UserRepository
	threadRepo repository.ThreadRepository
	postRepo   repository.PostRepository
}

// UpdateProfileInput is the input for editing the caller's own profile.
type UpdateProfileInput struct {
	UserID      uint
	DisplayName string
	Bio         string
	AvatarURL   string
}

// Profile is a public user profile with recent activity.
type Profile struct {
	User    *models.User     `json:"user"`
	Threads []*models.Thread `json:"threads"`
	Posts   []*models.Post   `json:"posts"`
}

// NewUserService returns a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	threadRepo repository.ThreadRepository,
	postRepo repository.PostRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		threadRepo: threadRepo,
		postRepo:   postRepo,
	}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns a user's public profile with their latest threads
// and replies.
func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	threads, err := s.threadRepo.ListByAuthor(ctx, user.ID, ThreadsPerPage, 0)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, PostsPerPage, 0)
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Threads: threads, Posts: posts}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxDisplayNameLen = 50

	if in.DisplayName != "" {
		if len(in.DisplayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 50 characters)")
		}
		user.DisplayName = strings.TrimSpace(in.DisplayName)
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = strings.TrimSpace(in.Bio)
	}
	if in.AvatarURL != "" {
		user.AvatarURL = in.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole assigns a user role. The caller must be an admin, and admins
// cannot demote themselves.
func (s *UserService) SetRole(ctx context.Context, adminID, targetID uint, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, models.NewValidationError("Unknown role")
	}
	if adminID == targetID && role != models.RoleAdmin {
		return nil, models.NewValidationError("You cannot demote yourself")
	}

	if err := s.userRepo.SetRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}

// IsStaff reports whether the user holds a moderation role.
func (s *UserService) IsStaff(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsStaff(), nil
}

// IsAdmin reports whether the user holds the admin role.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

// SetShoutboxBan bans or unbans a user from the shoutbox.
func (s *UserService) SetShoutboxBan(ctx context.Context, targetID uint, banned bool) (*models.User, error) {
	if err := s.userRepo.SetShoutboxBan(ctx, targetID, banned); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}
