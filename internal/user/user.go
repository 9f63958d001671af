package user

import (
	"context"

	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
)

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*datamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*datamodel.User, error)
	ListActiveByCompany(ctx context.Context, companyID int64) ([]*datamodel.User, error)
	ApplyUpdate(ctx context.Context, userID int64, cmd UpdateUserCommand) error
	SoftDelete(ctx context.Context, userID int64) error
}
