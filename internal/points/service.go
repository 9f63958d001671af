package points

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

// GetBalance returns a user's balances. Members may read their own;
// admins may read any member of their company.
func (s *Service) GetBalance(ctx context.Context, requester *auth.User, userID int64) (*Balance, error) {
	if userID != requester.ID && !requester.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance.CompanyID != requester.CompanyID {
		return nil, internal.ErrCrossCompany
	}
	return balance, nil
}

func (s *Service) ListSentHistory(ctx context.Context, requester *auth.User, p internal.Pagination) ([]*TransactionView, error) {
	return s.repo.ListSent(ctx, requester.ID, p.Normalize())
}

func (s *Service) ListReceivedHistory(ctx context.Context, requester *auth.User, p internal.Pagination) ([]*TransactionView, error) {
	return s.repo.ListReceived(ctx, requester.ID, p.Normalize())
}

// ListCompanyTransactions is the admin audit view of the company ledger.
func (s *Service) ListCompanyTransactions(ctx context.Context, requester *auth.User, p internal.Pagination) ([]*TransactionView, error) {
	if !requester.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	return s.repo.ListByCompany(ctx, requester.CompanyID, p.Normalize())
}
