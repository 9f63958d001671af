package auth

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
)

type Service struct {
	repo       Repository
	enroller   Enroller
	tokens     TokenGeneratorAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, enroller Enroller, tokens TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		enroller:   enroller,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup creates the user, lazily creating their company by name. The first
// user of a company becomes its admin. The user row and the starting
// giveable balance commit together through the ledger, so a failed
// allocation never leaves a zero-point account holding the email.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*datamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetUserByEmail(ctx, dto.Email); err == nil {
		return nil, internal.ErrEmailTaken
	}

	company, err := s.repo.GetOrCreateCompany(ctx, dto.CompanyName)
	if err != nil {
		s.logger.Error("company lookup failed", "error", err, "company_name", dto.CompanyName)
		return nil, internal.NewInternalError("could not resolve company", err)
	}

	existing, err := s.repo.CountCompanyUsers(ctx, company.ID)
	if err != nil {
		return nil, internal.NewInternalError("could not inspect company membership", err)
	}
	role := datamodel.RoleMember
	if existing == 0 {
		role = datamodel.RoleAdmin
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("could not hash password", err)
	}

	user := &datamodel.User{
		FullName:     dto.FullName,
		Email:        dto.Email,
		PasswordHash: hash,
		CompanyID:    company.ID,
		Role:         role,
	}
	if err := s.enroller.EnrollMember(ctx, user); err != nil {
		return nil, err
	}

	// re-read so the response carries the allocated balance
	created, err := s.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		return user, nil
	}

	s.logger.Info("user signed up",
		"user_id", created.ID,
		"company_id", created.CompanyID,
		"role", created.Role)

	return created, nil
}

// Authenticate validates credentials and returns a token pair. Soft-deleted
// users cannot log in.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	user, err := s.repo.GetUserByEmail(ctx, dto.Email)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return AuthTokens{}, internal.ErrUserDeactivated
	}

	return s.issueTokens(user.ID)
}

func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, mapTokenError(err)
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if !user.IsActive() {
		return AuthTokens{}, internal.ErrUserDeactivated
	}

	return s.issueTokens(user.ID)
}

// CurrentUser resolves an access token to the active identity used by the
// auth middleware.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if !user.IsActive() {
		return nil, internal.ErrUserDeactivated
	}

	return &User{
		ID:        user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		Email:     user.Email,
		FullName:  user.FullName,
	}, nil
}

func (s *Service) issueTokens(userID int64) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("could not issue access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(userID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("could not issue refresh token", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func mapTokenError(err error) error {
	switch err {
	case ErrTokenExpired:
		return internal.ErrTokenExpired
	default:
		return internal.ErrInvalidToken
	}
}
