package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ImportJobProcessing = "processing"
	ImportJobCompleted  = "completed"
	ImportJobFailed     = "failed"
)

// ImportJob is one ingestion run. It is created with status processing when
// the run starts and finalized to completed or failed at the end; runs are
// never retried automatically.
type ImportJob struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	InstitutionID uuid.UUID      `gorm:"type:uuid;not null;index;column:institution_id" json:"institution_id"`
	FileName      string         `gorm:"not null;column:file_name" json:"file_name"`
	Status        string         `gorm:"not null;index;column:status" json:"status"` // processing|completed|failed
	StartedAt     time.Time      `gorm:"not null;column:started_at" json:"started_at"`
	FinishedAt    *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	TotalRows     int            `gorm:"not null;default:0;column:total_rows" json:"total_rows"`
	SuccessRows   int            `gorm:"not null;default:0;column:success_rows" json:"success_rows"`
	ErrorRows     int            `gorm:"not null;default:0;column:error_rows" json:"error_rows"`
	Summary       datatypes.JSON `gorm:"column:summary" json:"summary,omitempty"`
	Error         string         `gorm:"column:error" json:"error,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (ImportJob) TableName() string { return "import_job" }

func (j *ImportJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// ImportSummary is the persisted summary blob on a finished ImportJob.
type ImportSummary struct {
	CreatedPeople       int      `json:"created_people"`
	CreatedTransactions int      `json:"created_transactions"`
	Errors              []string `json:"errors"`
}
