// Package notification is the fire-and-forget delivery collaborator. A failed
// emit is logged and swallowed; it never fails the business operation that
// triggered it, and no delivery order is guaranteed.
package notification

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// Events emitted by the lifecycle engine.
const (
	EventApplicationSubmitted = "APPLICATION_SUBMITTED"
	EventApplicationApproved  = "APPLICATION_APPROVED"
	EventApplicationRejected  = "APPLICATION_REJECTED"
	EventApplicationHold      = "APPLICATION_HOLD"
	EventTrialAssigned        = "TRIAL_ASSIGNED"
	EventTrialCompleted       = "TRIAL_COMPLETED"
	EventDocumentVerified     = "DOCUMENT_VERIFIED"
	EventDocumentRejected     = "DOCUMENT_REJECTED"
)

type Payload map[string]interface{}

func (p Payload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Payload) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		if s, isStr := src.(string); isStr {
			b = []byte(s)
		} else {
			return fmt.Errorf("Payload: expected []byte, got %T", src)
		}
	}
	return json.Unmarshal(b, p)
}

// Notification is the persisted inbox row a delivery worker or the frontend
// polls; the engine only ever appends.
type Notification struct {
	gorm.Model
	RecipientUserID uint    `json:"recipient_user_id" gorm:"index"`
	Event           string  `json:"event" gorm:"index"`
	Payload         Payload `json:"payload" gorm:"type:json"`
	SentAt          time.Time `json:"sent_at"`
}

// Notifier is the collaborator contract. Emit never returns an error.
type Notifier interface {
	Emit(recipientUserID uint, event string, payload Payload)
}

type dbNotifier struct {
	db *gorm.DB
}

func NewNotifier(db *gorm.DB) Notifier {
	return &dbNotifier{db: db}
}

func (n *dbNotifier) Emit(recipientUserID uint, event string, payload Payload) {
	row := &Notification{
		RecipientUserID: recipientUserID,
		Event:           event,
		Payload:         payload,
		SentAt:          time.Now(),
	}
	if err := n.db.Create(row).Error; err != nil {
		log.Printf("notification emit failed (event=%s recipient=%d): %v", event, recipientUserID, err)
	}
}

// NopNotifier discards everything; handy in tests.
type NopNotifier struct{}

func (NopNotifier) Emit(uint, string, Payload) {}
