package player

import (
	"errors"

	"gorm.io/gorm"
)

type PlayerRepository interface {
	CreateTx(tx *gorm.DB, p *Player) error
	GetByID(id uint) (*Player, error)
	GetByUserID(userID uint) (*Player, error)
	GetByPublicID(publicID string) (*Player, error)
	PublicIDExists(publicID string) (bool, error)
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) CreateTx(tx *gorm.DB, p *Player) error {
	return tx.Create(p).Error
}

func (r *playerRepository) GetByID(id uint) (*Player, error) {
	var p Player
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) GetByUserID(userID uint) (*Player, error) {
	var p Player
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) GetByPublicID(publicID string) (*Player, error) {
	var p Player
	if err := r.db.Where("public_id = ?", publicID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) PublicIDExists(publicID string) (bool, error) {
	var count int64
	err := r.db.Model(&Player{}).Where("public_id = ?", publicID).Count(&count).Error
	return count > 0, err
}
