package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/datera/datera-backend/internal/db"
)

// UserRepository is the identity lookup the core consumes: it confirms a
// referenced user exists. Account management itself (registration,
// verification, sessions) lives outside this service.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Get fetches a user by ID.
func (r *UserRepository) Get(ctx context.Context, userID uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether an active user with the given ID exists.
func (r *UserRepository) Exists(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ? AND active = ?", userID, true).
		Count(&count).Error
	return count > 0, err
}
