package comment

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/auth"
	"github.com/frahmantamala/peer-recognition/internal/ledger"
	"github.com/frahmantamala/peer-recognition/internal/post"
)

type Service struct {
	repo   Repository
	posts  post.Repository
	ledger *ledger.Service
	logger *slog.Logger
}

func NewService(repo Repository, posts post.Repository, ledgerSvc *ledger.Service, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		posts:  posts,
		ledger: ledgerSvc,
		logger: logger,
	}
}

// CreateComment runs the comment through the ledger and returns the thread
// view of the new comment.
func (s *Service) CreateComment(ctx context.Context, requester *auth.User, dto ledger.CreateCommentDTO) (*View, error) {
	created, err := s.ledger.CreateRecognitionComment(ctx, requester.ID, dto)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, created.ID)
}

// ListPostComments returns one window of the thread of a post the requester
// can see.
func (s *Service) ListPostComments(ctx context.Context, requester *auth.User, postID int64, p internal.Pagination) ([]*View, error) {
	parent, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if parent.AuthorCompanyID != requester.CompanyID {
		return nil, internal.ErrPostNotFound
	}
	return s.repo.ListByPost(ctx, postID, p.Normalize())
}
