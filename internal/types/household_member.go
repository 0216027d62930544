package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleHead    = "HEAD"
	RoleUnknown = "UNKNOWN"
)

// HouseholdMember links one person to one household. Once ManualAssignment is
// set the grouping engine never reassigns or removes the row; only an explicit
// operator action may change it.
type HouseholdMember struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_household_member_pair;column:household_id" json:"household_id"`
	PersonID         uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_household_member_pair;column:person_id" json:"person_id"`
	Role             string    `gorm:"not null;default:UNKNOWN;column:role" json:"role"` // HEAD|UNKNOWN
	GroupedBy        string    `gorm:"not null;column:grouped_by" json:"grouped_by"`     // AUTO|MANUAL
	ManualAssignment bool      `gorm:"not null;default:false;column:manual_assignment" json:"manual_assignment"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (HouseholdMember) TableName() string { return "household_member" }

func (m *HouseholdMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
