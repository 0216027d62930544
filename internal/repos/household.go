package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/types"
)

type HouseholdRepo interface {
	Create(ctx context.Context, tx *gorm.DB, households []*types.Household) ([]*types.Household, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Household, error)
	GetByInstitution(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) ([]*types.Household, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type householdRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHouseholdRepo(db *gorm.DB, baseLog *logger.Logger) HouseholdRepo {
	return &householdRepo{db: db, log: baseLog.With("repo", "HouseholdRepo")}
}

func (r *householdRepo) Create(ctx context.Context, tx *gorm.DB, households []*types.Household) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(households) == 0 {
		return []*types.Household{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}

func (r *householdRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Household
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

func (r *householdRepo) GetByInstitution(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Household
	if err := transaction.WithContext(ctx).
		Where("institution_id = ?", institutionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *householdRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Household{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *householdRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Household{}).Error
}
