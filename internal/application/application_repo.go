package application

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ApplicationRepository defines the data operations on player applications.
type ApplicationRepository interface {
	Create(app *PlayerApplication) error
	Save(app *PlayerApplication) error
	GetByID(id uint) (*PlayerApplication, error)
	GetByUserID(userID uint) (*PlayerApplication, error)
	// HasDuplicateCandidate reports whether another user's non-REJECTED
	// application carries the same (fullName, dateOfBirth) pair.
	HasDuplicateCandidate(fullName string, dob time.Time, excludeUserID uint) (bool, error)
	ListByStatus(status string, page, limit int) ([]PlayerApplication, int64, error)
	WithTransaction(txFunc func(tx *gorm.DB, repo ApplicationRepository) error) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *PlayerApplication) error {
	return r.db.Create(app).Error
}

func (r *applicationRepository) Save(app *PlayerApplication) error {
	return r.db.Save(app).Error
}

func (r *applicationRepository) GetByID(id uint) (*PlayerApplication, error) {
	var app PlayerApplication
	if err := r.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) GetByUserID(userID uint) (*PlayerApplication, error) {
	var app PlayerApplication
	if err := r.db.Where("user_id = ?", userID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) HasDuplicateCandidate(fullName string, dob time.Time, excludeUserID uint) (bool, error) {
	var count int64
	err := r.db.Model(&PlayerApplication{}).
		Where("full_name = ? AND date_of_birth = ? AND user_id <> ? AND status <> ?",
			fullName, dob, excludeUserID, StatusRejected).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepository) ListByStatus(status string, page, limit int) ([]PlayerApplication, int64, error) {
	var apps []PlayerApplication
	var total int64
	query := r.db.Model(&PlayerApplication{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *applicationRepository) WithTransaction(txFunc func(tx *gorm.DB, repo ApplicationRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(tx, &applicationRepository{db: tx})
	})
}
