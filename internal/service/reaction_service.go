package service

import (
	"context"

	"forumhub/internal/repository"
)

// ReactionService toggles reactions on threads and posts.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	threadRepo   repository.ThreadRepository
	postRepo     repository.PostRepository
}

// ReactionResult is the outcome of a toggle.
type ReactionResult struct {
	Reacted bool  `json:"reacted"`
	Count   int64 `json:"count"`
}

// NewReactionService returns a new ReactionService.
func NewReactionService(
	reactionRepo repository.ReactionRepository,
	threadRepo repository.ThreadRepository,
	postRepo repository.PostRepository,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		threadRepo:   threadRepo,
		postRepo:     postRepo,
	}
}

// ToggleThreadReaction adds or removes the user's reaction on a thread.
func (s *ReactionService) ToggleThreadReaction(ctx context.Context, userID, threadID uint) (*ReactionResult, error) {
	if _, err := s.threadRepo.GetByID(ctx, threadID, 0); err != nil {
		return nil, err
	}

	reacted, err := s.reactionRepo.ToggleThread(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}
	count, err := s.reactionRepo.CountForThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return &ReactionResult{Reacted: reacted, Count: count}, nil
}

// TogglePostReaction adds or removes the user's reaction on a post.
func (s *ReactionService) TogglePostReaction(ctx context.Context, userID, postID uint) (*ReactionResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}

	reacted, err := s.reactionRepo.TogglePost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.reactionRepo.CountForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &ReactionResult{Reacted: reacted, Count: count}, nil
}
