package document

import (
	"time"

	"github.com/khelsetu/academy/internal/notification"
	"github.com/khelsetu/academy/internal/storage"
	"github.com/khelsetu/academy/pkg/apperr"
)

// OwnerDirectory resolves a tagged owner reference to the user account behind
// it. Implemented over the application/player/user repositories at wiring time.
type OwnerDirectory interface {
	// OwnerUser returns the user id owning the referenced aggregate, or
	// (0, false, nil) when the owner does not exist.
	OwnerUser(owner OwnerRef) (userID uint, found bool, err error)
}

// FileInput carries an uploaded file through the service layer.
type FileInput struct {
	Data     []byte
	FileName string
	MimeType string
}

var knownTypes = map[string]bool{
	TypeIDProof:       true,
	TypePhoto:         true,
	TypeIDCard:        true,
	TypeDOBProof:      true,
	TypeAddressProof:  true,
	TypeMedicalReport: true,
}

// Service is the document registry: uploads, admin verification, owner
// listings and signed read URLs.
type Service struct {
	repo     DocumentRepository
	store    storage.Storage
	notifier notification.Notifier
	owners   OwnerDirectory
	urlTTL   time.Duration
}

func NewService(repo DocumentRepository, store storage.Storage, notifier notification.Notifier, owners OwnerDirectory, urlTTL time.Duration) *Service {
	return &Service{repo: repo, store: store, notifier: notifier, owners: owners, urlTTL: urlTTL}
}

// Upload stores the bytes first (an orphaned blob on a later DB failure is
// acceptable), then records the document. Current policy: uploads are marked
// VERIFIED immediately; the admin verify path can still downgrade them later.
func (s *Service) Upload(owner OwnerRef, docType string, file FileInput, uploadedBy uint, actorRole string) (*Document, error) {
	if !knownTypes[docType] {
		return nil, apperr.Newf(apperr.KindValidation, "unknown document type %q", docType)
	}
	if len(file.Data) == 0 {
		return nil, apperr.Validation("file is empty")
	}

	ownerUserID, found, err := s.owners.OwnerUser(owner)
	if err != nil {
		return nil, apperr.Internal("owner lookup failed", err)
	}
	if !found {
		return nil, apperr.NotFound("owner not found")
	}
	// Applicants may only attach documents to their own application.
	if owner.Type == OwnerApplication && actorRole != "ADMIN" && ownerUserID != uploadedBy {
		return nil, apperr.NotFound("owner not found")
	}

	key, err := s.store.Store(file.Data, file.FileName, file.MimeType)
	if err != nil {
		return nil, apperr.Internal("storage write failed", err)
	}

	now := time.Now()
	doc := &Document{
		OwnerType:          owner.Type,
		OwnerID:            owner.ID,
		DocumentType:       docType,
		FileKey:            key,
		FileName:           file.FileName,
		FileSize:           int64(len(file.Data)),
		MimeType:           file.MimeType,
		VerificationStatus: VerificationVerified,
		VerifiedAt:         &now,
		UploadedBy:         uploadedBy,
	}
	if err := s.repo.Create(doc); err != nil {
		return nil, apperr.Internal("failed to save document", err)
	}
	return doc, nil
}

// Verify records an admin judgment on a document. Rejection requires a reason.
func (s *Service) Verify(docID uint, status string, reason string, verifiedBy uint) (*Document, error) {
	if status != VerificationVerified && status != VerificationRejected {
		return nil, apperr.Newf(apperr.KindValidation, "status must be %s or %s", VerificationVerified, VerificationRejected)
	}
	if status == VerificationRejected && reason == "" {
		return nil, apperr.Validation("a rejection reason is required")
	}

	doc, err := s.repo.GetByID(docID)
	if err != nil {
		return nil, apperr.Internal("document lookup failed", err)
	}
	if doc == nil {
		return nil, apperr.NotFound("document not found")
	}

	now := time.Now()
	doc.VerificationStatus = status
	doc.VerifiedBy = &verifiedBy
	doc.VerifiedAt = &now
	doc.RejectionReason = reason
	if err := s.repo.Save(doc); err != nil {
		return nil, apperr.Internal("failed to update document", err)
	}

	event := notification.EventDocumentVerified
	if status == VerificationRejected {
		event = notification.EventDocumentRejected
	}
	if ownerUserID, found, lookupErr := s.owners.OwnerUser(doc.Owner()); lookupErr == nil && found {
		s.notifier.Emit(ownerUserID, event, notification.Payload{
			"document_id":   doc.ID,
			"document_type": doc.DocumentType,
			"status":        status,
			"reason":        reason,
		})
	}
	return doc, nil
}

// authorizeRead applies the same visibility rule as Upload to the read side:
// admins and coaches see everything the lifecycle needs; everyone else only
// their own aggregate, hidden behind not-found.
func (s *Service) authorizeRead(owner OwnerRef, actorID uint, actorRole string) error {
	if actorRole == "ADMIN" || actorRole == "COACH" {
		return nil
	}
	ownerUserID, found, err := s.owners.OwnerUser(owner)
	if err != nil {
		return apperr.Internal("owner lookup failed", err)
	}
	if !found || ownerUserID != actorID {
		return apperr.NotFound("owner not found")
	}
	return nil
}

// ListForOwner returns the owner's documents, newest first, subject to the
// read visibility rule.
func (s *Service) ListForOwner(owner OwnerRef, actorID uint, actorRole string) ([]Document, error) {
	if err := s.authorizeRead(owner, actorID, actorRole); err != nil {
		return nil, err
	}
	docs, err := s.repo.ListForOwner(owner)
	if err != nil {
		return nil, apperr.Internal("failed to list documents", err)
	}
	return docs, nil
}

// SignedURLFor exchanges a document id for a fresh signed URL. Documents the
// actor may not read are reported as absent, like Upload does for foreign
// applications.
func (s *Service) SignedURLFor(docID uint, actorID uint, actorRole string) (string, error) {
	doc, err := s.repo.GetByID(docID)
	if err != nil {
		return "", apperr.Internal("document lookup failed", err)
	}
	if doc == nil {
		return "", apperr.NotFound("document not found")
	}
	if err := s.authorizeRead(doc.Owner(), actorID, actorRole); err != nil {
		if apperr.IsKind(err, apperr.KindInternal) {
			return "", err
		}
		return "", apperr.NotFound("document not found")
	}
	return s.ResolveReadURL(doc.FileKey)
}

// ResolveReadURL exchanges an opaque storage key for a fresh signed URL.
func (s *Service) ResolveReadURL(fileKey string) (string, error) {
	url, err := s.store.SignURL(fileKey, s.urlTTL)
	if err != nil {
		return "", apperr.Internal("failed to sign url", err)
	}
	return url, nil
}

// ReplaceOrCreateMedicalReport maintains the 1:1 invariant between an
// application and its football medical report. The canonical document is the
// one the trial currently references (when it still exists), else the newest
// of that type; its storage key and metadata are overwritten and every other
// medical report for the owner is deleted.
func (s *Service) ReplaceOrCreateMedicalReport(applicationID uint, file FileInput, uploadedBy uint, preferredDocID *uint) (*Document, error) {
	if len(file.Data) == 0 {
		return nil, apperr.Validation("file is empty")
	}
	owner := ApplicationOwner(applicationID)

	var canonical *Document
	if preferredDocID != nil {
		doc, err := s.repo.GetByID(*preferredDocID)
		if err != nil {
			return nil, apperr.Internal("document lookup failed", err)
		}
		if doc != nil && doc.OwnerType == OwnerApplication && doc.OwnerID == applicationID && doc.DocumentType == TypeMedicalReport {
			canonical = doc
		}
	}
	if canonical == nil {
		existing, err := s.repo.ListForOwnerByType(owner, TypeMedicalReport)
		if err != nil {
			return nil, apperr.Internal("document lookup failed", err)
		}
		if len(existing) > 0 {
			canonical = &existing[0]
		}
	}

	now := time.Now()
	if canonical != nil {
		if err := s.store.Overwrite(canonical.FileKey, file.Data); err != nil {
			return nil, apperr.Internal("storage write failed", err)
		}
		canonical.FileName = file.FileName
		canonical.FileSize = int64(len(file.Data))
		canonical.MimeType = file.MimeType
		canonical.VerificationStatus = VerificationVerified
		canonical.VerifiedAt = &now
		canonical.UploadedBy = uploadedBy
		if err := s.repo.Save(canonical); err != nil {
			return nil, apperr.Internal("failed to update document", err)
		}
	} else {
		key, err := s.store.Store(file.Data, file.FileName, file.MimeType)
		if err != nil {
			return nil, apperr.Internal("storage write failed", err)
		}
		canonical = &Document{
			OwnerType:          OwnerApplication,
			OwnerID:            applicationID,
			DocumentType:       TypeMedicalReport,
			FileKey:            key,
			FileName:           file.FileName,
			FileSize:           int64(len(file.Data)),
			MimeType:           file.MimeType,
			VerificationStatus: VerificationVerified,
			VerifiedAt:         &now,
			UploadedBy:         uploadedBy,
		}
		if err := s.repo.Create(canonical); err != nil {
			return nil, apperr.Internal("failed to save document", err)
		}
	}

	if err := s.repo.DeleteOthersOfType(owner, TypeMedicalReport, canonical.ID); err != nil {
		return nil, apperr.Internal("failed to clean up duplicate medical reports", err)
	}
	return canonical, nil
}
