package application

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Application lifecycle statuses.
const (
	StatusDraft       = "DRAFT"
	StatusSubmitted   = "SUBMITTED"
	StatusUnderReview = "UNDER_REVIEW"
	StatusApproved    = "APPROVED"
	StatusRejected    = "REJECTED"
	StatusHold        = "HOLD"
)

// Trial status as mirrored on the application row.
const (
	TrialStatusPending   = "PENDING"
	TrialStatusCompleted = "COMPLETED"
)

// TeamIDList is the ordered preferred-team column. It always writes a JSON
// array; Scan also tolerates the legacy comma-separated encoding older rows
// carry. Business logic only ever sees the []string form.
type TeamIDList []string

func (l TeamIDList) Value() (driver.Value, error) {
	if l == nil {
		l = TeamIDList{}
	}
	return json.Marshal(l)
}

func (l *TeamIDList) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*l = TeamIDList{}
		return nil
	default:
		return fmt.Errorf("TeamIDList: expected []byte or string, got %T", src)
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		*l = TeamIDList{}
		return nil
	}
	if strings.HasPrefix(s, "[") {
		return json.Unmarshal(b, (*[]string)(l))
	}
	// Legacy rows: "T1,T2"
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*l = out
	return nil
}

// PlayerApplication is a candidate's registration, one live row per user.
// Identity and contact fields are an immutable snapshot once submitted.
type PlayerApplication struct {
	gorm.Model
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	FullName     string    `json:"full_name" gorm:"index:idx_app_identity"`
	DateOfBirth  time.Time `json:"date_of_birth" gorm:"index:idx_app_identity"`
	Gender       string    `json:"gender"`
	Nationality  string    `json:"nationality"`
	Sport        string    `json:"sport"`
	Position     string    `json:"position"`
	DominantSide string    `json:"dominant_side"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`

	PlayerPhone           string `json:"player_phone"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`

	PreferredTeamIDs TeamIDList `json:"preferred_team_ids" gorm:"type:json"`

	Status               string     `json:"status" gorm:"default:'DRAFT';index"`
	TrialStatus          string     `json:"trial_status"`
	TrialID              *uint      `json:"trial_id"`
	SubmittedAt          *time.Time `json:"submitted_at"`
	ReviewedAt           *time.Time `json:"reviewed_at"`
	ReviewedBy           *uint      `json:"reviewed_by"`
	RejectionReason      string     `json:"rejection_reason"`
	ResubmissionAttempts int        `json:"resubmission_attempts" gorm:"default:0"`
	LastResubmissionAt   *time.Time `json:"last_resubmission_at"`
}

// Age returns the candidate's age in whole years at the given time.
func (a *PlayerApplication) Age(at time.Time) int {
	years := at.Year() - a.DateOfBirth.Year()
	anniversary := a.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
