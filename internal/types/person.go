package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CreatedSourceManual = "manual_entry"
	CreatedSourceImport = "import"
)

// Person is the identity record every other aggregate hangs off of. Email and
// Phone hold the display form; NormalizedEmail and NormalizedPhone hold the
// canonical comparison keys and must be recomputed on every write that touches
// the display fields.
type Person struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InstitutionID   uuid.UUID `gorm:"type:uuid;not null;index;column:institution_id" json:"institution_id"`
	FirstName       string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName        string    `gorm:"not null;column:last_name" json:"last_name"`
	Email           string    `gorm:"column:email" json:"email"`
	Phone           string    `gorm:"column:phone" json:"phone"`
	NormalizedEmail string    `gorm:"index;column:normalized_email" json:"normalized_email"`
	NormalizedPhone string    `gorm:"index;column:normalized_phone" json:"normalized_phone"`
	CreatedSource   string    `gorm:"not null;column:created_source" json:"created_source"` // manual_entry|import
	CreatedAt       time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Person) TableName() string { return "person" }

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
