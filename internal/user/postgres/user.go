package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
	"github.com/frahmantamala/peer-recognition/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*datamodel.User, error) {
	var u datamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*datamodel.User, error) {
	var u datamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ListActiveByCompany(ctx context.Context, companyID int64) ([]*datamodel.User, error) {
	var users []*datamodel.User
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND deleted_at IS NULL", companyID).
		Order("full_name ASC").
		Find(&users).Error
	return users, err
}

// ApplyUpdate writes only the columns named by the command; unknown fields
// cannot reach the database.
func (r *UserRepository) ApplyUpdate(ctx context.Context, userID int64, cmd user.UpdateUserCommand) error {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if cmd.FullName != nil {
		updates["full_name"] = *cmd.FullName
	}
	if cmd.Email != nil {
		updates["email"] = *cmd.Email
	}
	if cmd.PasswordHash != nil {
		updates["password_hash"] = *cmd.PasswordHash
	}

	res := r.db.WithContext(ctx).Model(&datamodel.User{}).
		Where("id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, userID int64) error {
	res := r.db.WithContext(ctx).Model(&datamodel.User{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
