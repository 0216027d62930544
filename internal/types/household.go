package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GroupedByAuto   = "AUTO"
	GroupedByManual = "MANUAL"
)

// Household is a persisted cluster of two or more persons. A household with
// fewer than two members must never persist; every membership-reducing path
// dissolves it in the same operation.
type Household struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InstitutionID    uuid.UUID `gorm:"type:uuid;not null;index;column:institution_id" json:"institution_id"`
	Name             string    `gorm:"not null;column:name" json:"name"`
	ConfidenceScore  int       `gorm:"not null;default:0;column:confidence_score" json:"confidence_score"` // 0-100
	ConfidenceReason string    `gorm:"column:confidence_reason" json:"confidence_reason"`
	GroupedBy        string    `gorm:"not null;column:grouped_by" json:"grouped_by"` // AUTO|MANUAL
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (Household) TableName() string { return "household" }

func (h *Household) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
