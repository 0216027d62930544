package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/normalization"
	pkgerrors "github.com/yungbote/kinship-backend/internal/pkg/errors"
	"github.com/yungbote/kinship-backend/internal/repos"
	"github.com/yungbote/kinship-backend/internal/types"
)

type PersonService interface {
	List(ctx context.Context, institutionID uuid.UUID) ([]*types.Person, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Person, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePersonInput) (*types.Person, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpdatePersonInput carries only the fields the caller wants to change.
type UpdatePersonInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type personService struct {
	db              *gorm.DB
	log             *logger.Logger
	personRepo      repos.PersonRepo
	memberRepo      repos.HouseholdMemberRepo
	householdRepo   repos.HouseholdRepo
	transactionRepo repos.TransactionRepo
}

func NewPersonService(db *gorm.DB, log *logger.Logger, personRepo repos.PersonRepo, memberRepo repos.HouseholdMemberRepo, householdRepo repos.HouseholdRepo, transactionRepo repos.TransactionRepo) PersonService {
	return &personService{
		db:              db,
		log:             log.With("service", "PersonService"),
		personRepo:      personRepo,
		memberRepo:      memberRepo,
		householdRepo:   householdRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *personService) List(ctx context.Context, institutionID uuid.UUID) ([]*types.Person, error) {
	return s.personRepo.GetByInstitution(ctx, nil, institutionID)
}

func (s *personService) Get(ctx context.Context, id uuid.UUID) (*types.Person, error) {
	people, err := s.personRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("fetch person: %w", err)
	}
	if len(people) == 0 {
		return nil, pkgerrors.ErrPersonNotFound
	}
	return people[0], nil
}

func (s *personService) Update(ctx context.Context, id uuid.UUID, input UpdatePersonInput) (*types.Person, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	// Normalized keys are derived state; they are recomputed on every write
	// that touches the display fields, never edited directly.
	if input.Email != nil {
		updates["email"] = *input.Email
		updates["normalized_email"] = normalization.NormalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
		updates["normalized_phone"] = normalization.NormalizePhone(*input.Phone)
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.personRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a person with their transactions and memberships. The
// cascade is explicit rather than database-level so household dissolution
// side effects run.
func (s *personService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberships, err := s.memberRepo.GetByPersonIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("fetch memberships: %w", err)
		}
		if err := s.transactionRepo.DeleteByPerson(ctx, tx, id); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		if err := s.memberRepo.DeleteByPerson(ctx, tx, id); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		for _, m := range memberships {
			if _, err := dissolveIfBelowMinimum(ctx, tx, s.memberRepo, s.householdRepo, s.transactionRepo, m.HouseholdID); err != nil {
				return err
			}
		}
		if err := s.personRepo.DeleteByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("delete person: %w", err)
		}
		return nil
	})
}
