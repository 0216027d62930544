package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	pkgerrors "github.com/yungbote/kinship-backend/internal/pkg/errors"
	"github.com/yungbote/kinship-backend/internal/repos"
	"github.com/yungbote/kinship-backend/internal/types"
)

type FlagService interface {
	// MergePeople folds mergedID into survivorID: transactions are repointed,
	// the merged person's memberships and record are removed, and a PersonFlag
	// with a full pre-merge snapshot is written so the action can be undone.
	MergePeople(ctx context.Context, survivorID, mergedID uuid.UUID) (*types.PersonFlag, error)
	// UndoFlag replays the snapshot to restore pre-action state. Fails once
	// the flag is already undone or permanently finalized.
	UndoFlag(ctx context.Context, flagID uuid.UUID) (*types.PersonFlag, error)
	// FinalizeFlag makes the action permanent: it stamps the acting principal
	// and nulls the snapshot, which is what keeps any later undo impossible.
	FinalizeFlag(ctx context.Context, flagID uuid.UUID, actor string) (*types.PersonFlag, error)
	GetFlag(ctx context.Context, flagID uuid.UUID) (*types.PersonFlag, error)
	ListFlags(ctx context.Context, institutionID uuid.UUID) ([]*types.PersonFlag, error)
}

type flagService struct {
	db              *gorm.DB
	log             *logger.Logger
	flagRepo        repos.PersonFlagRepo
	personRepo      repos.PersonRepo
	memberRepo      repos.HouseholdMemberRepo
	householdRepo   repos.HouseholdRepo
	transactionRepo repos.TransactionRepo
}

func NewFlagService(db *gorm.DB, log *logger.Logger, flagRepo repos.PersonFlagRepo, personRepo repos.PersonRepo, memberRepo repos.HouseholdMemberRepo, householdRepo repos.HouseholdRepo, transactionRepo repos.TransactionRepo) FlagService {
	return &flagService{
		db:              db,
		log:             log.With("service", "FlagService"),
		flagRepo:        flagRepo,
		personRepo:      personRepo,
		memberRepo:      memberRepo,
		householdRepo:   householdRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *flagService) MergePeople(ctx context.Context, survivorID, mergedID uuid.UUID) (*types.PersonFlag, error) {
	if survivorID == mergedID {
		return nil, fmt.Errorf("cannot merge a person into themselves: %w", pkgerrors.ErrInvalidArgument)
	}
	people, err := s.personRepo.GetByIDs(ctx, nil, []uuid.UUID{survivorID, mergedID})
	if err != nil {
		return nil, fmt.Errorf("fetch people: %w", err)
	}
	var survivor, merged *types.Person
	for _, p := range people {
		switch p.ID {
		case survivorID:
			survivor = p
		case mergedID:
			merged = p
		}
	}
	if survivor == nil || merged == nil {
		return nil, pkgerrors.ErrPersonNotFound
	}
	if survivor.InstitutionID != merged.InstitutionID {
		return nil, fmt.Errorf("people belong to different institutions: %w", pkgerrors.ErrInvalidArgument)
	}

	var flag *types.PersonFlag
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transactions, err := s.transactionRepo.GetByPersonIDs(ctx, tx, []uuid.UUID{mergedID})
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		memberships, err := s.memberRepo.GetByPersonIDs(ctx, tx, []uuid.UUID{mergedID})
		if err != nil {
			return fmt.Errorf("fetch memberships: %w", err)
		}

		snapSet := &types.MergeSnapshotSet{
			SurvivorID: survivorID,
			Person:     *merged,
		}
		for _, tr := range transactions {
			snapSet.TransactionIDs = append(snapSet.TransactionIDs, tr.ID)
		}
		for _, m := range memberships {
			snapSet.Memberships = append(snapSet.Memberships, types.MembershipSnapshot{
				HouseholdID:      m.HouseholdID,
				Role:             m.Role,
				GroupedBy:        m.GroupedBy,
				ManualAssignment: m.ManualAssignment,
			})
		}
		snapshot, err := json.Marshal(types.MergeSnapshot{Action: types.FlagActionMerge, Merge: snapSet})
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}

		if err := s.transactionRepo.RepointPerson(ctx, tx, mergedID, survivorID); err != nil {
			return fmt.Errorf("repoint transactions: %w", err)
		}
		if err := s.memberRepo.DeleteByPerson(ctx, tx, mergedID); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		for _, m := range memberships {
			if _, err := dissolveIfBelowMinimum(ctx, tx, s.memberRepo, s.householdRepo, s.transactionRepo, m.HouseholdID); err != nil {
				return err
			}
		}
		if err := s.personRepo.DeleteByIDs(ctx, tx, []uuid.UUID{mergedID}); err != nil {
			return fmt.Errorf("delete merged person: %w", err)
		}

		flag = &types.PersonFlag{
			InstitutionID: merged.InstitutionID,
			ActionType:    types.FlagActionMerge,
			Snapshot:      snapshot,
		}
		if _, err := s.flagRepo.Create(ctx, tx, []*types.PersonFlag{flag}); err != nil {
			return fmt.Errorf("create flag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Merged person", "survivor_id", survivorID, "merged_id", mergedID, "flag_id", flag.ID)
	return flag, nil
}

func (s *flagService) UndoFlag(ctx context.Context, flagID uuid.UUID) (*types.PersonFlag, error) {
	flag, err := s.GetFlag(ctx, flagID)
	if err != nil {
		return nil, err
	}
	if flag.UndoneAt != nil {
		return nil, pkgerrors.ErrFlagUndone
	}
	if flag.PermanentlyDeletedAt != nil {
		return nil, pkgerrors.ErrFlagFinalized
	}

	var snap types.MergeSnapshot
	if err := json.Unmarshal(flag.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Action != types.FlagActionMerge || snap.Merge == nil {
		return nil, fmt.Errorf("snapshot action %q has no undo path", snap.Action)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restored := snap.Merge.Person
		if _, err := s.personRepo.Create(ctx, tx, []*types.Person{&restored}); err != nil {
			return fmt.Errorf("restore person: %w", err)
		}
		if err := s.transactionRepo.AssignPersonByIDs(ctx, tx, snap.Merge.TransactionIDs, restored.ID); err != nil {
			return fmt.Errorf("restore transactions: %w", err)
		}
		// Memberships only come back when the household still exists; the
		// grouping engine rebuilds the rest on its next run.
		for _, m := range snap.Merge.Memberships {
			households, err := s.householdRepo.GetByIDs(ctx, tx, []uuid.UUID{m.HouseholdID})
			if err != nil {
				return fmt.Errorf("fetch household: %w", err)
			}
			if len(households) == 0 {
				continue
			}
			member := &types.HouseholdMember{
				HouseholdID:      m.HouseholdID,
				PersonID:         restored.ID,
				Role:             m.Role,
				GroupedBy:        m.GroupedBy,
				ManualAssignment: m.ManualAssignment,
			}
			if _, err := s.memberRepo.Create(ctx, tx, []*types.HouseholdMember{member}); err != nil {
				return fmt.Errorf("restore membership: %w", err)
			}
		}
		now := time.Now().UTC()
		return s.flagRepo.UpdateFields(ctx, tx, flag.ID, map[string]interface{}{
			"undone_at": &now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Undid flag", "flag_id", flag.ID, "restored_person_id", snap.Merge.Person.ID)
	return s.GetFlag(ctx, flagID)
}

func (s *flagService) FinalizeFlag(ctx context.Context, flagID uuid.UUID, actor string) (*types.PersonFlag, error) {
	flag, err := s.GetFlag(ctx, flagID)
	if err != nil {
		return nil, err
	}
	if flag.ActionType != types.FlagActionMerge {
		return nil, pkgerrors.ErrFlagNotMerge
	}
	if flag.UndoneAt != nil {
		return nil, pkgerrors.ErrFlagUndone
	}
	if flag.PermanentlyDeletedAt != nil {
		return nil, pkgerrors.ErrFlagFinalized
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.flagRepo.UpdateFields(ctx, tx, flag.ID, map[string]interface{}{
			"permanently_deleted_at": &now,
			"permanently_deleted_by": actor,
			"snapshot":               nil,
		})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Finalized flag", "flag_id", flag.ID, "actor", actor)
	return s.GetFlag(ctx, flagID)
}

func (s *flagService) GetFlag(ctx context.Context, flagID uuid.UUID) (*types.PersonFlag, error) {
	flags, err := s.flagRepo.GetByIDs(ctx, nil, []uuid.UUID{flagID})
	if err != nil {
		return nil, fmt.Errorf("fetch flag: %w", err)
	}
	if len(flags) == 0 {
		return nil, pkgerrors.ErrFlagNotFound
	}
	return flags[0], nil
}

func (s *flagService) ListFlags(ctx context.Context, institutionID uuid.UUID) ([]*types.PersonFlag, error) {
	return s.flagRepo.GetByInstitution(ctx, nil, institutionID)
}
