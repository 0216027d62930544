package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/types"
)

type PersonFlagRepo interface {
	Create(ctx context.Context, tx *gorm.DB, flags []*types.PersonFlag) ([]*types.PersonFlag, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.PersonFlag, error)
	GetByInstitution(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) ([]*types.PersonFlag, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type personFlagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonFlagRepo(db *gorm.DB, baseLog *logger.Logger) PersonFlagRepo {
	return &personFlagRepo{db: db, log: baseLog.With("repo", "PersonFlagRepo")}
}

func (r *personFlagRepo) Create(ctx context.Context, tx *gorm.DB, flags []*types.PersonFlag) ([]*types.PersonFlag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(flags) == 0 {
		return []*types.PersonFlag{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&flags).Error; err != nil {
		return nil, err
	}
	return flags, nil
}

func (r *personFlagRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.PersonFlag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PersonFlag
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

func (r *personFlagRepo) GetByInstitution(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) ([]*types.PersonFlag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PersonFlag
	if err := transaction.WithContext(ctx).
		Where("institution_id = ?", institutionID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *personFlagRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.PersonFlag{}).
		Where("id = ?", id).
		Updates(updates).Error
}
