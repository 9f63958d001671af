package engagement

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/auth"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// LikeResult reports the like count after the operation.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

func (s *Service) LikePost(ctx context.Context, requester *auth.User, postID int64) (*LikeResult, error) {
	target, err := s.repo.GetPostTarget(ctx, postID)
	if err != nil {
		return nil, err
	}
	if target.CompanyID != requester.CompanyID {
		return nil, internal.ErrPostNotFound
	}

	if err := s.repo.InsertPostLike(ctx, postID, requester.ID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountPostLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: true, LikeCount: count}, nil
}

func (s *Service) UnlikePost(ctx context.Context, requester *auth.User, postID int64) (*LikeResult, error) {
	target, err := s.repo.GetPostTarget(ctx, postID)
	if err != nil {
		return nil, err
	}
	if target.CompanyID != requester.CompanyID {
		return nil, internal.ErrPostNotFound
	}

	if err := s.repo.DeletePostLike(ctx, postID, requester.ID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountPostLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: false, LikeCount: count}, nil
}

func (s *Service) LikeComment(ctx context.Context, requester *auth.User, commentID int64) (*LikeResult, error) {
	target, err := s.repo.GetCommentTarget(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if target.CompanyID != requester.CompanyID {
		return nil, internal.ErrCommentNotFound
	}

	if err := s.repo.InsertCommentLike(ctx, commentID, requester.ID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountCommentLikes(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: true, LikeCount: count}, nil
}

func (s *Service) UnlikeComment(ctx context.Context, requester *auth.User, commentID int64) (*LikeResult, error) {
	target, err := s.repo.GetCommentTarget(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if target.CompanyID != requester.CompanyID {
		return nil, internal.ErrCommentNotFound
	}

	if err := s.repo.DeleteCommentLike(ctx, commentID, requester.ID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountCommentLikes(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: false, LikeCount: count}, nil
}
