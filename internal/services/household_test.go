package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/kinship-backend/internal/pkg/errors"
	"github.com/yungbote/kinship-backend/internal/types"
)

func TestRemoveMemberDissolvesBelowMinimum(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedPerson(t, "Alice", "Smith", "alice@example.com", "")
	bob := env.seedPerson(t, "Bob", "Smith", "bob@example.com", "")
	h := env.seedHousehold(t, "Smith Household", types.GroupedByAuto)
	env.seedMember(t, h, alice, false)
	env.seedMember(t, h, bob, false)
	tr := env.seedTransaction(t, alice, h, 50)

	if err := env.households.RemoveMember(ctx, h.ID, bob.ID); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}

	if got := env.countRows(t, &types.Household{}); got != 0 {
		t.Fatalf("one-member household must dissolve, rows=%d", got)
	}
	if got := env.countRows(t, &types.HouseholdMember{}); got != 0 {
		t.Fatalf("membership rows: want=0 got=%d", got)
	}
	var reloaded types.Transaction
	if err := env.db.First(&reloaded, "id = ?", tr.ID).Error; err != nil {
		t.Fatalf("fetch transaction: %v", err)
	}
	if reloaded.HouseholdID != nil {
		t.Fatalf("dissolution must null the household reference")
	}
	// People survive their household.
	if got := env.countRows(t, &types.Person{}); got != 2 {
		t.Fatalf("person rows: want=2 got=%d", got)
	}
}

func TestRemoveMemberKeepsLargerHousehold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedPerson(t, "Alice", "Smith", "alice@example.com", "")
	bob := env.seedPerson(t, "Bob", "Smith", "bob@example.com", "")
	carol := env.seedPerson(t, "Carol", "Smith", "carol@example.com", "")
	h := env.seedHousehold(t, "Smith Household", types.GroupedByAuto)
	env.seedMember(t, h, alice, false)
	env.seedMember(t, h, bob, false)
	env.seedMember(t, h, carol, false)
	carolTr := env.seedTransaction(t, carol, h, 30)

	if err := env.households.RemoveMember(ctx, h.ID, carol.ID); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if got := env.countRows(t, &types.Household{}); got != 1 {
		t.Fatalf("two members remain, household must survive, rows=%d", got)
	}
	if got := env.countRows(t, &types.HouseholdMember{}); got != 2 {
		t.Fatalf("membership rows: want=2 got=%d", got)
	}
	var reloaded types.Transaction
	if err := env.db.First(&reloaded, "id = ?", carolTr.ID).Error; err != nil {
		t.Fatalf("fetch transaction: %v", err)
	}
	if reloaded.HouseholdID != nil {
		t.Fatalf("leaver's transactions must drop the household link, got %+v", reloaded.HouseholdID)
	}
}

func TestRemoveMemberUnknownPerson(t *testing.T) {
	env := newTestEnv(t)
	h := env.seedHousehold(t, "Smith Household", types.GroupedByAuto)
	if err := env.households.RemoveMember(context.Background(), h.ID, uuid.New()); !errors.Is(err, pkgerrors.ErrMemberNotFound) {
		t.Fatalf("want ErrMemberNotFound got %v", err)
	}
}

func TestAddMemberCreatesManualAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedPerson(t, "Alice", "Smith", "alice@example.com", "")
	bob := env.seedPerson(t, "Bob", "Smith", "bob@example.com", "")
	carol := env.seedPerson(t, "Carol", "Park", "carol@example.com", "")
	h := env.seedHousehold(t, "Smith Household", types.GroupedByAuto)
	env.seedMember(t, h, alice, false)
	env.seedMember(t, h, bob, false)
	carolTr := env.seedTransaction(t, carol, nil, 30)

	member, err := env.households.AddMember(ctx, h.ID, carol.ID, types.RoleHead)
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if !member.ManualAssignment || member.GroupedBy != types.GroupedByManual {
		t.Fatalf("operator adds must be manual, got %+v", member)
	}
	if member.Role != types.RoleHead {
		t.Fatalf("role: want=%q got=%q", types.RoleHead, member.Role)
	}

	households, err := env.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{h.ID})
	if err != nil {
		t.Fatalf("fetch household: %v", err)
	}
	if households[0].ConfidenceScore != 100 || households[0].ConfidenceReason != "manually matched" {
		t.Fatalf("manual add must restate confidence, got %+v", households[0])
	}
	var reloaded types.Transaction
	if err := env.db.First(&reloaded, "id = ?", carolTr.ID).Error; err != nil {
		t.Fatalf("fetch transaction: %v", err)
	}
	if reloaded.HouseholdID == nil || *reloaded.HouseholdID != h.ID {
		t.Fatalf("joiner's transactions must be stamped with the household, got %+v", reloaded.HouseholdID)
	}

	if _, err := env.households.AddMember(ctx, h.ID, carol.ID, ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("duplicate add: want ErrInvalidArgument got %v", err)
	}
}

func TestAddMemberMovesPersonBetweenHouseholds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedPerson(t, "Alice", "Smith", "alice@example.com", "")
	bob := env.seedPerson(t, "Bob", "Smith", "bob@example.com", "")
	carol := env.seedPerson(t, "Carol", "Park", "carol@example.com", "")
	dan := env.seedPerson(t, "Dan", "Park", "dan@example.com", "")

	from := env.seedHousehold(t, "Smith Household", types.GroupedByAuto)
	env.seedMember(t, from, alice, false)
	env.seedMember(t, from, bob, false)
	to := env.seedHousehold(t, "Park Household", types.GroupedByAuto)
	env.seedMember(t, to, carol, false)
	env.seedMember(t, to, dan, false)

	if _, err := env.households.AddMember(ctx, to.ID, bob.ID, ""); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	// Bob left a two-member household, which therefore dissolved.
	households, err := env.householdRepo.GetByInstitution(ctx, nil, env.institution.ID)
	if err != nil {
		t.Fatalf("fetch households: %v", err)
	}
	if len(households) != 1 || households[0].ID != to.ID {
		t.Fatalf("source household should dissolve, got %+v", households)
	}
	members, err := env.memberRepo.GetByHouseholdIDs(ctx, nil, []uuid.UUID{to.ID})
	if err != nil {
		t.Fatalf("fetch members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("destination members: want=3 got=%d", len(members))
	}
}

func TestDeleteHouseholdUnlinksTransactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedPerson(t, "Alice", "Smith", "alice@example.com", "")
	bob := env.seedPerson(t, "Bob", "Smith", "bob@example.com", "")
	h := env.seedHousehold(t, "Smith Household", types.GroupedByAuto)
	env.seedMember(t, h, alice, false)
	env.seedMember(t, h, bob, false)
	tr := env.seedTransaction(t, alice, h, 50)

	if err := env.households.Delete(ctx, h.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := env.countRows(t, &types.Household{}); got != 0 {
		t.Fatalf("household rows: want=0 got=%d", got)
	}
	var reloaded types.Transaction
	if err := env.db.First(&reloaded, "id = ?", tr.ID).Error; err != nil {
		t.Fatalf("fetch transaction: %v", err)
	}
	if reloaded.HouseholdID != nil {
		t.Fatalf("transactions must be unlinked, not deleted")
	}
	if err := env.households.Delete(ctx, h.ID); !errors.Is(err, pkgerrors.ErrHouseholdNotFound) {
		t.Fatalf("second delete: want ErrHouseholdNotFound got %v", err)
	}
}
