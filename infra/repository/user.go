package repository

import (
	"context"

	"github.com/amirasaad/strides/pkg/domain/user"
	"github.com/amirasaad/strides/pkg/dto"
	repo "github.com/amirasaad/strides/pkg/repository/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository bound to db.
func NewUserRepository(db *gorm.DB) repo.Repository {
	return &userRepository{db: db}
}

var _ repo.Repository = (*userRepository)(nil)

func (r *userRepository) Create(ctx context.Context, create *dto.UserCreate) error {
	u := &User{
		ID:       create.ID,
		Email:    create.Email,
		Password: create.Password,
	}
	return mapError(r.db.WithContext(ctx).Create(u).Error, nil, user.ErrEmailTaken)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, mapError(err, user.ErrUserNotFound, nil)
	}
	return mapUserModelToDTO(&u), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, mapError(err, user.ErrUserNotFound, nil)
	}
	return mapUserModelToDTO(&u), nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, mapError(err, nil, nil)
	}
	return count > 0, nil
}

func mapUserModelToDTO(u *User) *dto.UserRead {
	return &dto.UserRead{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.Password,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
