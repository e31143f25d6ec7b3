package user

import (
	"errors"

	"gorm.io/gorm"
)

// UserRepository defines the account data operations the rest of the
// platform needs.
type UserRepository interface {
	CreateUser(u *User) error
	GetUserByID(id uint) (*User, error)
	GetUserByPhone(phone string) (*User, error)
	// IsActiveCoach reports whether the user exists, is a coach and is ACTIVE.
	IsActiveCoach(id uint) (bool, error)
	// UpdateRole changes a user's role inside the given transaction handle.
	UpdateRole(tx *gorm.DB, id uint, role string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(u *User) error {
	return r.db.Create(u).Error
}

func (r *userRepository) GetUserByID(id uint) (*User, error) {
	var u User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetUserByPhone(phone string) (*User, error) {
	var u User
	if err := r.db.Where("phone = ?", phone).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) IsActiveCoach(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&User{}).
		Where("id = ? AND role = ? AND status = ?", id, RoleCoach, StatusActive).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UpdateRole(tx *gorm.DB, id uint, role string) error {
	res := tx.Model(&User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
