package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const FlagActionMerge = "merge"

// PersonFlag is the audit record for one correction action. Exactly one of
// {active, undone, finalized} holds at any time. Snapshot carries the
// serialized pre-action state and is present iff the flag is still reversible:
// finalize nulls it out, which is what makes finalize the point of no return.
type PersonFlag struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	InstitutionID        uuid.UUID      `gorm:"type:uuid;not null;index;column:institution_id" json:"institution_id"`
	ActionType           string         `gorm:"not null;index;column:action_type" json:"action_type"` // merge
	Snapshot             datatypes.JSON `gorm:"column:snapshot" json:"snapshot,omitempty"`
	UndoneAt             *time.Time     `gorm:"column:undone_at" json:"undone_at,omitempty"`
	PermanentlyDeletedAt *time.Time     `gorm:"column:permanently_deleted_at" json:"permanently_deleted_at,omitempty"`
	PermanentlyDeletedBy string         `gorm:"column:permanently_deleted_by" json:"permanently_deleted_by,omitempty"`
	CreatedAt            time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null" json:"updated_at"`
}

func (PersonFlag) TableName() string { return "person_flag" }

func (f *PersonFlag) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// MergeSnapshot is the tagged snapshot payload for ActionType "merge". New
// action types add their own variant next to Merge without touching the
// undo/finalize transitions.
type MergeSnapshot struct {
	Action string            `json:"action"`
	Merge  *MergeSnapshotSet `json:"merge,omitempty"`
}

type MergeSnapshotSet struct {
	SurvivorID     uuid.UUID            `json:"survivor_id"`
	Person         Person               `json:"person"`
	Memberships    []MembershipSnapshot `json:"memberships"`
	TransactionIDs []uuid.UUID          `json:"transaction_ids"`
}

type MembershipSnapshot struct {
	HouseholdID      uuid.UUID `json:"household_id"`
	Role             string    `json:"role"`
	GroupedBy        string    `json:"grouped_by"`
	ManualAssignment bool      `json:"manual_assignment"`
}
