package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Institution is a foreign-key scope for every other record. Tenant
// management beyond that lives outside this service.
type Institution struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Institution) TableName() string { return "institution" }

func (i *Institution) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
