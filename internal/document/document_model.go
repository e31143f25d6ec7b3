package document

import (
	"fmt"

	"gorm.io/gorm"
	"time"
)

// OwnerType tags which aggregate a document belongs to.
type OwnerType string

const (
	OwnerApplication OwnerType = "PLAYER_APPLICATION"
	OwnerPlayer      OwnerType = "PLAYER"
	OwnerCoach       OwnerType = "COACH"
)

// OwnerRef is the tagged owner reference. Construct it through the helpers so
// an owner type never travels with the wrong kind of id.
type OwnerRef struct {
	Type OwnerType
	ID   uint
}

func ApplicationOwner(id uint) OwnerRef { return OwnerRef{Type: OwnerApplication, ID: id} }
func PlayerOwner(id uint) OwnerRef      { return OwnerRef{Type: OwnerPlayer, ID: id} }
func CoachOwner(id uint) OwnerRef       { return OwnerRef{Type: OwnerCoach, ID: id} }

// ParseOwnerType validates a wire-level owner type string.
func ParseOwnerType(s string) (OwnerType, error) {
	switch OwnerType(s) {
	case OwnerApplication, OwnerPlayer, OwnerCoach:
		return OwnerType(s), nil
	}
	return "", fmt.Errorf("unknown owner type %q", s)
}

// Document types accepted by the registry.
const (
	TypeIDProof       = "ID_PROOF"
	TypePhoto         = "PHOTO"
	TypeIDCard        = "ID_CARD"
	TypeDOBProof      = "DOB_PROOF"
	TypeAddressProof  = "ADDRESS_PROOF"
	TypeMedicalReport = "MEDICAL_REPORT_FOOTBALL"
)

// Verification statuses.
const (
	VerificationPending  = "PENDING"
	VerificationVerified = "VERIFIED"
	VerificationRejected = "REJECTED"
)

// Document is an evidentiary file attached to an application, player or
// coach. FileKey is the opaque storage reference; clients only ever see
// short-lived signed URLs derived from it.
type Document struct {
	gorm.Model
	OwnerType          OwnerType `json:"owner_type" gorm:"index:idx_doc_owner;not null"`
	OwnerID            uint      `json:"owner_id" gorm:"index:idx_doc_owner;not null"`
	DocumentType       string    `json:"document_type" gorm:"index;not null"`
	FileKey            string    `json:"-" gorm:"not null"`
	FileName           string    `json:"file_name"`
	FileSize           int64     `json:"file_size"`
	MimeType           string    `json:"mime_type"`
	VerificationStatus string    `json:"verification_status" gorm:"default:'PENDING';index"`
	VerifiedBy         *uint     `json:"verified_by"`
	VerifiedAt         *time.Time `json:"verified_at"`
	RejectionReason    string    `json:"rejection_reason"`
	Notes              string    `json:"notes"`
	UploadedBy         uint      `json:"uploaded_by"`
}

// Owner returns the document's tagged owner reference.
func (d *Document) Owner() OwnerRef {
	return OwnerRef{Type: d.OwnerType, ID: d.OwnerID}
}
