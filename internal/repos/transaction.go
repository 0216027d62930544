package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/types"
)

type TransactionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, transactions []*types.Transaction) ([]*types.Transaction, error)
	GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []uuid.UUID) ([]*types.Transaction, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Transaction, error)
	// RepointPerson moves every transaction of one person onto another and
	// drops the stale household link; grouping restamps it on the next run.
	RepointPerson(ctx context.Context, tx *gorm.DB, fromPersonID, toPersonID uuid.UUID) error
	// AssignPersonByIDs points the listed transactions at a person.
	AssignPersonByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, personID uuid.UUID) error
	// AssignHouseholdByPersons stamps every transaction of the listed people
	// with the household they now belong to.
	AssignHouseholdByPersons(ctx context.Context, tx *gorm.DB, personIDs []uuid.UUID, householdID uuid.UUID) error
	// ClearHouseholdByPerson nulls the household reference on one person's
	// transactions, for when they leave a household that survives them.
	ClearHouseholdByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) error
	// ClearHousehold nulls the household reference on every transaction of a
	// dissolving household. The rows themselves are never deleted with it.
	ClearHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error
	DeleteByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) error
}

type transactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransactionRepo(db *gorm.DB, baseLog *logger.Logger) TransactionRepo {
	return &transactionRepo{db: db, log: baseLog.With("repo", "TransactionRepo")}
}

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, transactions []*types.Transaction) ([]*types.Transaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(transactions) == 0 {
		return []*types.Transaction{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *transactionRepo) GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []uuid.UUID) ([]*types.Transaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Transaction
	if len(personIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("person_id IN ?", personIDs).
		Order("occurred_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *transactionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Transaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Transaction
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

func (r *transactionRepo) RepointPerson(ctx context.Context, tx *gorm.DB, fromPersonID, toPersonID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Transaction{}).
		Where("person_id = ?", fromPersonID).
		Updates(map[string]interface{}{"person_id": toPersonID, "household_id": nil}).Error
}

func (r *transactionRepo) AssignHouseholdByPersons(ctx context.Context, tx *gorm.DB, personIDs []uuid.UUID, householdID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(personIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Transaction{}).
		Where("person_id IN ?", personIDs).
		Update("household_id", householdID).Error
}

func (r *transactionRepo) ClearHouseholdByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Transaction{}).
		Where("person_id = ?", personID).
		Update("household_id", nil).Error
}

func (r *transactionRepo) AssignPersonByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, personID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Transaction{}).
		Where("id IN ?", ids).
		Update("person_id", personID).Error
}

func (r *transactionRepo) ClearHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Transaction{}).
		Where("household_id = ?", householdID).
		Update("household_id", nil).Error
}

func (r *transactionRepo) DeleteByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("person_id = ?", personID).
		Delete(&types.Transaction{}).Error
}
