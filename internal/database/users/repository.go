// Package users provides database operations for library accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByUsername("librarian1")
package users

import (
	"time"

	"gorm.io/gorm"

	"github.com/bad-joke/locallibrary/internal/database"
	"github.com/bad-joke/locallibrary/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser stores a new user record. Password hashing is the auth
// service's job; this layer persists whatever hash it is given.
func (r *Repository) CreateUser(user *entities.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, database.AsNotFound(err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, database.AsNotFound(err)
	}
	return &user, nil
}

// GetUserByLogin retrieves a user by username or email. The login form
// accepts either.
func (r *Repository) GetUserByLogin(login string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, database.AsNotFound(err)
	}
	return &user, nil
}

// UserExists reports whether an account already claims the username or
// the email address.
func (r *Repository) UserExists(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// CountUsers returns the number of accounts, deleted ones excluded.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// ListUsers retrieves all users ordered by username.
func (r *Repository) ListUsers() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Order("username ASC").Find(&users).Error
	return users, err
}

// RecordLogin stamps a successful login and clears the failed-attempt
// state in one update.
func (r *Repository) RecordLogin(id uint, at time.Time) error {
	return r.db.Model(&entities.User{ID: id}).Updates(map[string]any{
		"last_login_at":      at,
		"failed_login_count": 0,
		"locked_until":       nil,
	}).Error
}

// RecordFailedLogin persists the failed-attempt counter and, when the
// caller decided to lock the account, the lockout expiry.
func (r *Repository) RecordFailedLogin(id uint, failedCount int, lockedUntil *time.Time) error {
	updates := map[string]any{
		"failed_login_count": failedCount,
	}
	if lockedUntil != nil {
		updates["locked_until"] = *lockedUntil
	}
	return r.db.Model(&entities.User{ID: id}).Updates(updates).Error
}

// DeleteUser removes a user. Copies loaned to them survive with a null
// borrower reference, same policy as the other catalog deletes.
func (r *Repository) DeleteUser(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.BookInstance{}).
			Where("borrower_id = ?", id).
			Update("borrower_id", nil).Error
		if err != nil {
			return err
		}
		result := tx.Delete(&entities.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}
