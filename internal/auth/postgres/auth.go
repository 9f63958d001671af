package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/auth"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
)

// AuthRepository implements auth.Repository using GORM.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.Repository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*datamodel.User, error) {
	var user datamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, userID int64) (*datamodel.User, error) {
	var user datamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetOrCreateCompany is idempotent on name: the unique index resolves the
// concurrent-signup race, and the loser of an insert race re-reads the
// winner's row.
func (r *AuthRepository) GetOrCreateCompany(ctx context.Context, name string) (*datamodel.Company, error) {
	var company datamodel.Company
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&company).Error
	if err == nil {
		return &company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	company = datamodel.Company{Name: name}
	if err := r.db.WithContext(ctx).Create(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := r.db.WithContext(ctx).Where("name = ?", name).First(&company).Error; err != nil {
				return nil, err
			}
			return &company, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *AuthRepository) CountCompanyUsers(ctx context.Context, companyID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&datamodel.User{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}
