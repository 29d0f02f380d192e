package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"river-portfolio/internal/entity"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetOrCreateByEmail(ctx context.Context, email, name string) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetOrCreateByEmail(ctx context.Context, email, name string) (*entity.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if user != nil {
		user.LastLoginAt = &now
		if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
			return nil, err
		}
		return user, nil
	}
	user = &entity.User{
		Email:       email,
		Name:        name,
		Provider:    "demo",
		LastLoginAt: &now,
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
