package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is a financial or engagement event tied to a person. HouseholdID
// is a denormalized reporting reference; it is set to null when the household
// dissolves, never cascaded.
type Transaction struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	InstitutionID uuid.UUID  `gorm:"type:uuid;not null;index;column:institution_id" json:"institution_id"`
	PersonID      uuid.UUID  `gorm:"type:uuid;not null;index;column:person_id" json:"person_id"`
	HouseholdID   *uuid.UUID `gorm:"type:uuid;index;column:household_id" json:"household_id,omitempty"`
	Type          string     `gorm:"not null;column:type" json:"type"`
	Description   string     `gorm:"column:description" json:"description"`
	Amount        float64    `gorm:"not null;column:amount" json:"amount"`
	OccurredAt    time.Time  `gorm:"not null;index;column:occurred_at" json:"occurred_at"`
	SourceSystem  string     `gorm:"column:source_system" json:"source_system"`
	Flagged       bool       `gorm:"not null;default:false;column:flagged" json:"flagged"`
	FlagReason    string     `gorm:"column:flag_reason" json:"flag_reason"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (Transaction) TableName() string { return "transaction" }

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
