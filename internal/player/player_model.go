package player

import (
	"time"

	"gorm.io/gorm"
)

// Player is materialized by the approval engine from the application snapshot
// at approval time. Fields are copied, not live-linked.
type Player struct {
	gorm.Model
	PublicID      string `json:"public_id" gorm:"uniqueIndex;not null"` // PLR-XXXX
	UserID        uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	ApplicationID uint   `json:"application_id" gorm:"index"`

	FullName     string    `json:"full_name"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	Gender       string    `json:"gender"`
	Nationality  string    `json:"nationality"`
	Sport        string    `json:"sport"`
	Position     string    `json:"position"`
	DominantSide string    `json:"dominant_side"`

	PlayerPhone           string `json:"player_phone"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`

	ProfilePhotoKey string `json:"-"`
}
