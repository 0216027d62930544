package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/types"
)

type ImportJobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, jobs []*types.ImportJob) ([]*types.ImportJob, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ImportJob, error)
	GetByInstitution(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) ([]*types.ImportJob, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type importJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImportJobRepo(db *gorm.DB, baseLog *logger.Logger) ImportJobRepo {
	return &importJobRepo{db: db, log: baseLog.With("repo", "ImportJobRepo")}
}

func (r *importJobRepo) Create(ctx context.Context, tx *gorm.DB, jobs []*types.ImportJob) ([]*types.ImportJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(jobs) == 0 {
		return []*types.ImportJob{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *importJobRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ImportJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ImportJob
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *importJobRepo) GetByInstitution(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) ([]*types.ImportJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ImportJob
	if err := transaction.WithContext(ctx).
		Where("institution_id = ?", institutionID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *importJobRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ImportJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}
