package team

import (
	"strconv"

	"gorm.io/gorm"
)

// TeamRepository exposes the read-side team operations.
type TeamRepository interface {
	ListAll(page, limit int) ([]Team, int64, error)
	// ResolveNames maps team references (stringified ids) to display names.
	// Unknown refs are simply absent from the result; the write path never
	// validates team references.
	ResolveNames(refs []string) (map[string]string, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) ListAll(page, limit int) ([]Team, int64, error) {
	var teams []Team
	var total int64
	query := r.db.Model(&Team{})
	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *teamRepository) ResolveNames(refs []string) (map[string]string, error) {
	ids := make([]uint, 0, len(refs))
	for _, ref := range refs {
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}
	names := make(map[string]string, len(refs))
	if len(ids) == 0 {
		return names, nil
	}

	var teams []Team
	if err := r.db.Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, err
	}
	for _, t := range teams {
		names[strconv.FormatUint(uint64(t.ID), 10)] = t.Name
	}
	return names, nil
}
