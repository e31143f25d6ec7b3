package team

import (
	"gorm.io/gorm"
)

// Team is the roster entity applicants express preferences against. Roster
// management itself lives elsewhere; this service only reads teams for
// display and listing.
type Team struct {
	gorm.Model
	Name  string `json:"name" gorm:"not null;uniqueIndex"`
	Sport string `json:"sport" gorm:"index"`
	Level string `json:"level"`
	City  string `json:"city"`
}
