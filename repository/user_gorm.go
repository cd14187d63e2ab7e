package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"courier-booking/models/user"

	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, u *user.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ? AND deleted_at IS NULL", strings.ToLower(strings.TrimSpace(email)))
}

func (r *GormUserRepository) FindByUUID(ctx context.Context, uuid string) (*user.User, error) {
	if uuid == "" {
		return nil, ErrNotFound
	}
	return r.first(ctx, "uuid = ? AND deleted_at IS NULL", uuid)
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.first(ctx, "id = ? AND deleted_at IS NULL", id)
}

func (r *GormUserRepository) first(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &u, nil
}
