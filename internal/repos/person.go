package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/types"
)

type PersonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, people []*types.Person) ([]*types.Person, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Person, error)
	GetByInstitution(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) ([]*types.Person, error)
	FirstByNormalizedEmail(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID, key string) (*types.Person, error)
	FirstByNormalizedPhone(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID, key string) (*types.Person, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type personRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonRepo(db *gorm.DB, baseLog *logger.Logger) PersonRepo {
	return &personRepo{db: db, log: baseLog.With("repo", "PersonRepo")}
}

func (r *personRepo) Create(ctx context.Context, tx *gorm.DB, people []*types.Person) ([]*types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(people) == 0 {
		return []*types.Person{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

func (r *personRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Person
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

func (r *personRepo) GetByInstitution(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) ([]*types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Person
	if err := transaction.WithContext(ctx).
		Where("institution_id = ?", institutionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FirstByNormalizedEmail returns the oldest matching person so repeated
// imports always resolve the same identity. A nil result means no match.
func (r *personRepo) FirstByNormalizedEmail(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID, key string) (*types.Person, error) {
	return r.firstByKey(ctx, tx, institutionID, "normalized_email", key)
}

func (r *personRepo) FirstByNormalizedPhone(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID, key string) (*types.Person, error) {
	return r.firstByKey(ctx, tx, institutionID, "normalized_phone", key)
}

func (r *personRepo) firstByKey(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID, column, key string) (*types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if key == "" {
		return nil, nil
	}
	var results []*types.Person
	if err := transaction.WithContext(ctx).
		Where("institution_id = ? AND "+column+" = ?", institutionID, key).
		Order("created_at ASC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *personRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Person{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *personRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Person{}).Error
}
