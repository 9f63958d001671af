package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/auth"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
)

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*datamodel.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies an enumerated update command for the calling user.
// An email change is checked for uniqueness first.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, cmd UpdateUserCommand) (*datamodel.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cmd.Email != nil && *cmd.Email != current.Email {
		if _, err := s.repo.GetByEmail(ctx, *cmd.Email); err == nil {
			return nil, internal.ErrEmailTaken
		}
	}

	if cmd.Password != nil {
		hash, err := auth.HashPassword(*cmd.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("could not hash password", err)
		}
		cmd.PasswordHash = &hash
	}

	if err := s.repo.ApplyUpdate(ctx, userID, cmd); err != nil {
		s.logger.Error("profile update failed", "error", err, "user_id", userID)
		return nil, err
	}

	return s.repo.GetByID(ctx, userID)
}

// ListCompanyUsers returns the active members of the requester's own
// company; soft-deleted users are excluded.
func (s *Service) ListCompanyUsers(ctx context.Context, requester *auth.User, companyID int64) ([]*datamodel.User, error) {
	if requester.CompanyID != companyID {
		return nil, internal.ErrCrossCompany
	}
	return s.repo.ListActiveByCompany(ctx, companyID)
}

// DeactivateUser soft-deletes a user. Admin only, own company, never
// yourself. Ledger rows referencing the user stay intact.
func (s *Service) DeactivateUser(ctx context.Context, requester *auth.User, targetID int64) (*datamodel.User, error) {
	if !requester.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if requester.ID == targetID {
		return nil, internal.ErrSelfTarget
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.CompanyID != requester.CompanyID {
		return nil, internal.ErrCrossCompany
	}

	if err := s.repo.SoftDelete(ctx, targetID); err != nil {
		s.logger.Error("user deactivation failed", "error", err, "user_id", targetID)
		return nil, err
	}

	s.logger.Info("user deactivated", "user_id", targetID, "admin_id", requester.ID)

	return s.repo.GetByID(ctx, targetID)
}
