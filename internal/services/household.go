package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	pkgerrors "github.com/yungbote/kinship-backend/internal/pkg/errors"
	"github.com/yungbote/kinship-backend/internal/repos"
	"github.com/yungbote/kinship-backend/internal/types"
)

type HouseholdService interface {
	List(ctx context.Context, institutionID uuid.UUID) ([]*types.Household, error)
	Members(ctx context.Context, householdID uuid.UUID) ([]*types.HouseholdMember, error)
	// AddMember is the explicit operator assignment. The membership it creates
	// is manual and the grouping engine will never move or remove it.
	AddMember(ctx context.Context, householdID, personID uuid.UUID, role string) (*types.HouseholdMember, error)
	RemoveMember(ctx context.Context, householdID, personID uuid.UUID) error
	Delete(ctx context.Context, householdID uuid.UUID) error
}

type householdService struct {
	db              *gorm.DB
	log             *logger.Logger
	householdRepo   repos.HouseholdRepo
	memberRepo      repos.HouseholdMemberRepo
	personRepo      repos.PersonRepo
	transactionRepo repos.TransactionRepo
}

func NewHouseholdService(db *gorm.DB, log *logger.Logger, householdRepo repos.HouseholdRepo, memberRepo repos.HouseholdMemberRepo, personRepo repos.PersonRepo, transactionRepo repos.TransactionRepo) HouseholdService {
	return &householdService{
		db:              db,
		log:             log.With("service", "HouseholdService"),
		householdRepo:   householdRepo,
		memberRepo:      memberRepo,
		personRepo:      personRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *householdService) List(ctx context.Context, institutionID uuid.UUID) ([]*types.Household, error) {
	return s.householdRepo.GetByInstitution(ctx, nil, institutionID)
}

func (s *householdService) Members(ctx context.Context, householdID uuid.UUID) ([]*types.HouseholdMember, error) {
	households, err := s.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{householdID})
	if err != nil {
		return nil, fmt.Errorf("fetch household: %w", err)
	}
	if len(households) == 0 {
		return nil, pkgerrors.ErrHouseholdNotFound
	}
	return s.memberRepo.GetByHouseholdIDs(ctx, nil, []uuid.UUID{householdID})
}

func (s *householdService) AddMember(ctx context.Context, householdID, personID uuid.UUID, role string) (*types.HouseholdMember, error) {
	households, err := s.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{householdID})
	if err != nil {
		return nil, fmt.Errorf("fetch household: %w", err)
	}
	if len(households) == 0 {
		return nil, pkgerrors.ErrHouseholdNotFound
	}
	people, err := s.personRepo.GetByIDs(ctx, nil, []uuid.UUID{personID})
	if err != nil {
		return nil, fmt.Errorf("fetch person: %w", err)
	}
	if len(people) == 0 {
		return nil, pkgerrors.ErrPersonNotFound
	}
	if role != types.RoleHead {
		role = types.RoleUnknown
	}

	member := &types.HouseholdMember{
		HouseholdID:      householdID,
		PersonID:         personID,
		Role:             role,
		GroupedBy:        types.GroupedByManual,
		ManualAssignment: true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A person belongs to at most one household, so an operator add moves
		// them out of any previous one, dissolving it if it falls under two.
		existing, err := s.memberRepo.GetByPersonIDs(ctx, tx, []uuid.UUID{personID})
		if err != nil {
			return fmt.Errorf("fetch existing memberships: %w", err)
		}
		for _, m := range existing {
			if m.HouseholdID == householdID {
				return fmt.Errorf("person already belongs to this household: %w", pkgerrors.ErrInvalidArgument)
			}
			if err := s.memberRepo.DeleteByIDs(ctx, tx, []uuid.UUID{m.ID}); err != nil {
				return fmt.Errorf("remove previous membership: %w", err)
			}
			if _, err := dissolveIfBelowMinimum(ctx, tx, s.memberRepo, s.householdRepo, s.transactionRepo, m.HouseholdID); err != nil {
				return err
			}
		}
		if _, err := s.memberRepo.Create(ctx, tx, []*types.HouseholdMember{member}); err != nil {
			return fmt.Errorf("create membership: %w", err)
		}
		if err := s.transactionRepo.AssignHouseholdByPersons(ctx, tx, []uuid.UUID{personID}, householdID); err != nil {
			return fmt.Errorf("stamp transactions: %w", err)
		}
		return s.householdRepo.UpdateFields(ctx, tx, householdID, map[string]interface{}{
			"confidence_score":  manualConfidenceScore,
			"confidence_reason": manualConfidenceReason,
		})
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *householdService) RemoveMember(ctx context.Context, householdID, personID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members, err := s.memberRepo.GetByHouseholdIDs(ctx, tx, []uuid.UUID{householdID})
		if err != nil {
			return fmt.Errorf("fetch memberships: %w", err)
		}
		var target *types.HouseholdMember
		for _, m := range members {
			if m.PersonID == personID {
				target = m
				break
			}
		}
		if target == nil {
			return pkgerrors.ErrMemberNotFound
		}
		if err := s.memberRepo.DeleteByIDs(ctx, tx, []uuid.UUID{target.ID}); err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		dissolved, err := dissolveIfBelowMinimum(ctx, tx, s.memberRepo, s.householdRepo, s.transactionRepo, householdID)
		if err != nil {
			return err
		}
		if !dissolved {
			// The household survives without them; their transactions no
			// longer belong to it.
			if err := s.transactionRepo.ClearHouseholdByPerson(ctx, tx, personID); err != nil {
				return fmt.Errorf("unlink transactions: %w", err)
			}
		}
		return nil
	})
}

func (s *householdService) Delete(ctx context.Context, householdID uuid.UUID) error {
	households, err := s.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{householdID})
	if err != nil {
		return fmt.Errorf("fetch household: %w", err)
	}
	if len(households) == 0 {
		return pkgerrors.ErrHouseholdNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return dissolveHousehold(ctx, tx, s.memberRepo, s.householdRepo, s.transactionRepo, householdID)
	})
}

// dissolveIfBelowMinimum enforces the two-member floor: when a household has
// fewer than two members left it is removed outright, inside the caller's
// transaction. Returns whether a dissolution happened.
func dissolveIfBelowMinimum(ctx context.Context, tx *gorm.DB, memberRepo repos.HouseholdMemberRepo, householdRepo repos.HouseholdRepo, transactionRepo repos.TransactionRepo, householdID uuid.UUID) (bool, error) {
	remaining, err := memberRepo.GetByHouseholdIDs(ctx, tx, []uuid.UUID{householdID})
	if err != nil {
		return false, fmt.Errorf("count remaining members: %w", err)
	}
	if len(remaining) >= 2 {
		return false, nil
	}
	if err := dissolveHousehold(ctx, tx, memberRepo, householdRepo, transactionRepo, householdID); err != nil {
		return false, err
	}
	return true, nil
}

// dissolveHousehold deletes the remaining membership rows, nulls the household
// reference on its transactions and removes the household row itself.
func dissolveHousehold(ctx context.Context, tx *gorm.DB, memberRepo repos.HouseholdMemberRepo, householdRepo repos.HouseholdRepo, transactionRepo repos.TransactionRepo, householdID uuid.UUID) error {
	if err := memberRepo.DeleteByHousehold(ctx, tx, householdID); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	if err := transactionRepo.ClearHousehold(ctx, tx, householdID); err != nil {
		return fmt.Errorf("unlink transactions: %w", err)
	}
	if err := householdRepo.DeleteByIDs(ctx, tx, []uuid.UUID{householdID}); err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	return nil
}
