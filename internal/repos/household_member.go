package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/types"
)

type HouseholdMemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, members []*types.HouseholdMember) ([]*types.HouseholdMember, error)
	GetByHouseholdIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) ([]*types.HouseholdMember, error)
	GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []uuid.UUID) ([]*types.HouseholdMember, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error
	DeleteByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) error
}

type householdMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHouseholdMemberRepo(db *gorm.DB, baseLog *logger.Logger) HouseholdMemberRepo {
	return &householdMemberRepo{db: db, log: baseLog.With("repo", "HouseholdMemberRepo")}
}

func (r *householdMemberRepo) Create(ctx context.Context, tx *gorm.DB, members []*types.HouseholdMember) ([]*types.HouseholdMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(members) == 0 {
		return []*types.HouseholdMember{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *householdMemberRepo) GetByHouseholdIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) ([]*types.HouseholdMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.HouseholdMember
	if len(householdIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("household_id IN ?", householdIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *householdMemberRepo) GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []uuid.UUID) ([]*types.HouseholdMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.HouseholdMember
	if len(personIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("person_id IN ?", personIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *householdMemberRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.HouseholdMember{}).Error
}

func (r *householdMemberRepo) DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("household_id = ?", householdID).
		Delete(&types.HouseholdMember{}).Error
}

func (r *householdMemberRepo) DeleteByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("person_id = ?", personID).
		Delete(&types.HouseholdMember{}).Error
}
