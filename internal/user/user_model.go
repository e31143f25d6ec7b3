package user

import (
	"gorm.io/gorm"
)

const (
	RoleApplicant = "APPLICANT"
	RolePlayer    = "PLAYER"
	RoleCoach     = "COACH"
	RoleAdmin     = "ADMIN"

	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// User is the account record every actor (applicant, coach, admin) signs in
// with. Credential delivery (OTP etc.) lives outside this service; we only
// keep what the lifecycle engine needs: identity, role and active flag.
type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	Phone    string `json:"phone" gorm:"uniqueIndex;not null"`
	MPINHash string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"default:'APPLICANT';index"`
	Status   string `json:"status" gorm:"default:'ACTIVE'"`
}
