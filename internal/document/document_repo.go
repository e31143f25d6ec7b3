package document

import (
	"errors"

	"gorm.io/gorm"
)

// DocumentRepository defines the registry's data operations.
type DocumentRepository interface {
	Create(doc *Document) error
	Save(doc *Document) error
	GetByID(id uint) (*Document, error)
	ListForOwner(owner OwnerRef) ([]Document, error)
	ListForOwnerByType(owner OwnerRef, docType string) ([]Document, error)
	CountForOwnerByType(owner OwnerRef, docType string) (int64, error)
	// DeleteOthersOfType hard-deletes every document of docType for the owner
	// except keepID. Used only for the medical-report 1:1 cleanup.
	DeleteOthersOfType(owner OwnerRef, docType string, keepID uint) error
	// FirstByTypePreference returns the newest document whose type is first
	// matched walking the preference list in order, or nil.
	FirstByTypePreference(owner OwnerRef, types []string) (*Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *Document) error {
	return r.db.Create(doc).Error
}

func (r *documentRepository) Save(doc *Document) error {
	return r.db.Save(doc).Error
}

func (r *documentRepository) GetByID(id uint) (*Document, error) {
	var doc Document
	if err := r.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListForOwner(owner OwnerRef) ([]Document, error) {
	var docs []Document
	err := r.db.Where("owner_type = ? AND owner_id = ?", owner.Type, owner.ID).
		Order("created_at desc").Find(&docs).Error
	return docs, err
}

func (r *documentRepository) ListForOwnerByType(owner OwnerRef, docType string) ([]Document, error) {
	var docs []Document
	err := r.db.Where("owner_type = ? AND owner_id = ? AND document_type = ?", owner.Type, owner.ID, docType).
		Order("created_at desc").Find(&docs).Error
	return docs, err
}

func (r *documentRepository) CountForOwnerByType(owner OwnerRef, docType string) (int64, error) {
	var count int64
	err := r.db.Model(&Document{}).
		Where("owner_type = ? AND owner_id = ? AND document_type = ?", owner.Type, owner.ID, docType).
		Count(&count).Error
	return count, err
}

func (r *documentRepository) DeleteOthersOfType(owner OwnerRef, docType string, keepID uint) error {
	return r.db.Unscoped().
		Where("owner_type = ? AND owner_id = ? AND document_type = ? AND id <> ?", owner.Type, owner.ID, docType, keepID).
		Delete(&Document{}).Error
}

func (r *documentRepository) FirstByTypePreference(owner OwnerRef, types []string) (*Document, error) {
	for _, t := range types {
		var doc Document
		err := r.db.Where("owner_type = ? AND owner_id = ? AND document_type = ?", owner.Type, owner.ID, t).
			Order("created_at desc").First(&doc).Error
		if err == nil {
			return &doc, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, nil
}
