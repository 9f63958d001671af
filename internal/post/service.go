package post

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/auth"
	"github.com/frahmantamala/peer-recognition/internal/ledger"
)

type Service struct {
	repo   Repository
	ledger *ledger.Service
	logger *slog.Logger
}

func NewService(repo Repository, ledgerSvc *ledger.Service, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		ledger: ledgerSvc,
		logger: logger,
	}
}

// CreatePost runs the recognition through the ledger and returns the
// feed view of the new post.
func (s *Service) CreatePost(ctx context.Context, requester *auth.User, dto ledger.CreatePostDTO) (*View, error) {
	created, err := s.ledger.CreateRecognitionPost(ctx, requester.ID, dto)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, created.ID)
}

// ListFeed returns the requester's company feed, newest first.
func (s *Service) ListFeed(ctx context.Context, requester *auth.User, p internal.Pagination) ([]*View, error) {
	return s.repo.ListByCompany(ctx, requester.CompanyID, p.Normalize())
}

// GetPost returns one post; posts from other companies are not visible.
func (s *Service) GetPost(ctx context.Context, requester *auth.User, postID int64) (*View, error) {
	view, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if view.AuthorCompanyID != requester.CompanyID {
		return nil, internal.ErrPostNotFound
	}
	return view, nil
}
