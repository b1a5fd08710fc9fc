package database

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"
	"video-api/pkg/models"
)

// UserStore handles user persistence. Usernames are not unique.
type UserStore struct {
	db *DB
}

func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser stores the credentials verbatim; hashing is the caller's concern.
func (s *UserStore) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	user := models.User{Username: username, Password: password}
	err := s.db.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindUserByUsername returns the first user registered under username.
func (s *UserStore) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.transaction(ctx, func(tx *gorm.DB) error {
		err := tx.Where("userName = ?", username).Order("userId asc").First(&user).Error
		return wrapUserErr(err, "username "+username)
	})
	return user, err
}

func (s *UserStore) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.db.transaction(ctx, func(tx *gorm.DB) error {
		err := tx.Where("userId = ?", id).First(&user).Error
		return wrapUserErr(err, fmt.Sprintf("id %d", id))
	})
	return user, err
}

func wrapUserErr(err error, key string) error {
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("user %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get user %s: %w", key, err)
	}
	return nil
}
