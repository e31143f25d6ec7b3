package trial

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Trial states. PENDING is initial, COMPLETED is terminal.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// Evaluation outcomes, set only when the trial completes.
const (
	OutcomeRecommended    = "RECOMMENDED"
	OutcomeNotRecommended = "NOT_RECOMMENDED"
	OutcomeNeedsRetest    = "NEEDS_RETEST"
)

// ValidOutcome reports whether s is an accepted evaluation outcome.
func ValidOutcome(s string) bool {
	switch s {
	case OutcomeRecommended, OutcomeNotRecommended, OutcomeNeedsRetest:
		return true
	}
	return false
}

// Checklist is the coach's medical checklist, stored as an opaque JSON blob.
// The engine never interprets individual items.
type Checklist map[string]interface{}

func (cl Checklist) Value() (driver.Value, error) {
	if cl == nil {
		cl = Checklist{}
	}
	return json.Marshal(cl)
}

func (cl *Checklist) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*cl = Checklist{}
		return nil
	default:
		return fmt.Errorf("Checklist: expected []byte or string, got %T", src)
	}
	if len(b) == 0 {
		*cl = Checklist{}
		return nil
	}
	return json.Unmarshal(b, cl)
}

// Trial is the mandatory in-person evaluation, 1:1 with an application.
// An unassigned trial is claimable by whichever active coach writes first;
// the claim is a compare-and-set on assigned_coach_id.
type Trial struct {
	gorm.Model
	ApplicationID uint   `json:"application_id" gorm:"uniqueIndex;not null"`
	Status        string `json:"status" gorm:"default:'PENDING';index"`

	AssignedCoachID *uint  `json:"assigned_coach_id" gorm:"index"`
	ScheduledDate   string `json:"scheduled_date"`
	ScheduledTime   string `json:"scheduled_time"`
	Venue           string `json:"venue"`

	Outcome     string     `json:"outcome"`
	Notes       string     `json:"notes"`
	EvaluatedAt *time.Time `json:"evaluated_at"`

	MedicalChecklist        Checklist `json:"medical_checklist" gorm:"type:json"`
	MedicalVerified         bool      `json:"medical_verified" gorm:"default:false"`
	MedicalReportDocumentID *uint     `json:"medical_report_document_id"`
	AadhaarVerified         bool      `json:"aadhaar_verified" gorm:"default:false"`
}
