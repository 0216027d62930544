package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/kinship-backend/internal/types"
)

func TestImportThenGroupingSharedPhone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	content := strings.Join([]string{
		"email,phone,first_name,last_name,amount,type",
		"alice@example.com,555-0101,Alice,Smith,100,Donation",
		"bob@example.com,555-0102,Bob,Jones,50,Ticket",
		"charlie@example.com,555-0101,Charlie,Smith,200,Ticket",
	}, "\n")

	imported, err := env.imports.RunImport(ctx, env.institution.ID, content, "mixed.csv", ImportOptions{})
	if err != nil {
		t.Fatalf("RunImport: %v", err)
	}
	if imported.CreatedPeople != 3 {
		t.Fatalf("created people: want=3 got=%d", imported.CreatedPeople)
	}
	if imported.CreatedTransactions != 3 {
		t.Fatalf("created transactions: want=3 got=%d", imported.CreatedTransactions)
	}

	grouped, err := env.grouping.RunGrouping(ctx, env.institution.ID)
	if err != nil {
		t.Fatalf("RunGrouping: %v", err)
	}
	if grouped.HouseholdsCreated != 1 {
		t.Fatalf("households created: want=1 got=%d", grouped.HouseholdsCreated)
	}
	if grouped.PeopleGrouped != 2 {
		t.Fatalf("people grouped: want=2 got=%d", grouped.PeopleGrouped)
	}

	households, err := env.householdRepo.GetByInstitution(ctx, nil, env.institution.ID)
	if err != nil {
		t.Fatalf("fetch households: %v", err)
	}
	if len(households) != 1 {
		t.Fatalf("household rows: want=1 got=%d", len(households))
	}
	h := households[0]
	if h.ConfidenceReason != "matched on phone" {
		t.Fatalf("confidence reason: got=%q", h.ConfidenceReason)
	}

	people, err := env.personRepo.GetByInstitution(ctx, nil, env.institution.ID)
	if err != nil {
		t.Fatalf("fetch people: %v", err)
	}
	byFirst := map[string]*types.Person{}
	for _, p := range people {
		byFirst[p.FirstName] = p
	}
	members, err := env.memberRepo.GetByHouseholdIDs(ctx, nil, []uuid.UUID{h.ID})
	if err != nil {
		t.Fatalf("fetch members: %v", err)
	}
	memberSet := map[uuid.UUID]bool{}
	for _, m := range members {
		memberSet[m.PersonID] = true
	}
	if len(memberSet) != 2 || !memberSet[byFirst["Alice"].ID] || !memberSet[byFirst["Charlie"].ID] {
		t.Fatalf("household must hold alice and charlie, got %v", memberSet)
	}
	if memberSet[byFirst["Bob"].ID] {
		t.Fatalf("bob must stay without a household")
	}

	// Member transactions carry the household link for reporting; bob's does
	// not.
	transactions, err := env.transactionRepo.GetByPersonIDs(ctx, nil, []uuid.UUID{byFirst["Alice"].ID, byFirst["Charlie"].ID})
	if err != nil {
		t.Fatalf("fetch transactions: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("member transactions: want=2 got=%d", len(transactions))
	}
	for _, tr := range transactions {
		if tr.HouseholdID == nil || *tr.HouseholdID != h.ID {
			t.Fatalf("member transaction must be stamped with the household, got %+v", tr.HouseholdID)
		}
	}
	bobTransactions, err := env.transactionRepo.GetByPersonIDs(ctx, nil, []uuid.UUID{byFirst["Bob"].ID})
	if err != nil {
		t.Fatalf("fetch bob transactions: %v", err)
	}
	if len(bobTransactions) != 1 || bobTransactions[0].HouseholdID != nil {
		t.Fatalf("ungrouped transaction must stay unlinked, got %+v", bobTransactions)
	}
}

func TestRunGroupingClustersSharedEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedPerson(t, "Alice", "Smith", "smith@example.com", "555-0101")
	bob := env.seedPerson(t, "Bob", "Smith", "Smith@Example.com ", "555-0202")
	env.seedPerson(t, "Charlie", "Park", "charlie@example.com", "555-0303")

	result, err := env.grouping.RunGrouping(ctx, env.institution.ID)
	if err != nil {
		t.Fatalf("RunGrouping: %v", err)
	}
	if result.HouseholdsCreated != 1 {
		t.Fatalf("households created: want=1 got=%d", result.HouseholdsCreated)
	}
	if result.PeopleGrouped != 2 {
		t.Fatalf("people grouped: want=2 got=%d", result.PeopleGrouped)
	}

	households, err := env.householdRepo.GetByInstitution(ctx, nil, env.institution.ID)
	if err != nil {
		t.Fatalf("fetch households: %v", err)
	}
	if len(households) != 1 {
		t.Fatalf("household rows: want=1 got=%d", len(households))
	}
	h := households[0]
	if h.GroupedBy != types.GroupedByAuto {
		t.Fatalf("grouped_by: want=%q got=%q", types.GroupedByAuto, h.GroupedBy)
	}
	if h.Name != "Smith Household" {
		t.Fatalf("household name: want=%q got=%q", "Smith Household", h.Name)
	}
	if h.ConfidenceScore != 100 || h.ConfidenceReason != "matched on email" {
		t.Fatalf("confidence: got score=%d reason=%q", h.ConfidenceScore, h.ConfidenceReason)
	}

	members, err := env.memberRepo.GetByHouseholdIDs(ctx, nil, []uuid.UUID{h.ID})
	if err != nil {
		t.Fatalf("fetch members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members: want=2 got=%d", len(members))
	}
	byPerson := map[uuid.UUID]*types.HouseholdMember{}
	for _, m := range members {
		byPerson[m.PersonID] = m
	}
	if byPerson[alice.ID] == nil || byPerson[bob.ID] == nil {
		t.Fatalf("alice and bob should both be members")
	}
	if byPerson[alice.ID].Role != types.RoleHead {
		t.Fatalf("oldest member should be head, got role=%q", byPerson[alice.ID].Role)
	}
	if byPerson[alice.ID].ManualAssignment || byPerson[bob.ID].ManualAssignment {
		t.Fatalf("engine memberships must not be manual")
	}
}

func TestRunGroupingIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPerson(t, "Alice", "Smith", "smith@example.com", "")
	env.seedPerson(t, "Bob", "Smith", "smith@example.com", "")

	if _, err := env.grouping.RunGrouping(ctx, env.institution.ID); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := env.grouping.RunGrouping(ctx, env.institution.ID)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.HouseholdsCreated != 0 || second.PeopleGrouped != 0 {
		t.Fatalf("second run on unchanged data must be a no-op, got %+v", second)
	}
	if got := env.countRows(t, &types.Household{}); got != 1 {
		t.Fatalf("household rows: want=1 got=%d", got)
	}
	if got := env.countRows(t, &types.HouseholdMember{}); got != 2 {
		t.Fatalf("membership rows: want=2 got=%d", got)
	}
}

func TestRunGroupingStampsLaterTransactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedPerson(t, "Alice", "Smith", "smith@example.com", "")
	env.seedPerson(t, "Bob", "Smith", "smith@example.com", "")
	if _, err := env.grouping.RunGrouping(ctx, env.institution.ID); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// A transaction recorded after the household formed still picks up the
	// link on the next (otherwise no-op) run.
	tr := env.seedTransaction(t, alice, nil, 30)
	second, err := env.grouping.RunGrouping(ctx, env.institution.ID)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.HouseholdsCreated != 0 || second.PeopleGrouped != 0 {
		t.Fatalf("second run must stay a membership no-op, got %+v", second)
	}

	households, err := env.householdRepo.GetByInstitution(ctx, nil, env.institution.ID)
	if err != nil {
		t.Fatalf("fetch households: %v", err)
	}
	var reloaded types.Transaction
	if err := env.db.First(&reloaded, "id = ?", tr.ID).Error; err != nil {
		t.Fatalf("fetch transaction: %v", err)
	}
	if reloaded.HouseholdID == nil || *reloaded.HouseholdID != households[0].ID {
		t.Fatalf("transaction should be stamped with the household, got %+v", reloaded.HouseholdID)
	}
}

func TestRunGroupingExtendsExistingHousehold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPerson(t, "Alice", "Smith", "smith@example.com", "")
	env.seedPerson(t, "Bob", "Smith", "smith@example.com", "")
	if _, err := env.grouping.RunGrouping(ctx, env.institution.ID); err != nil {
		t.Fatalf("first run: %v", err)
	}

	carol := env.seedPerson(t, "Carol", "Smith", "smith@example.com", "")
	result, err := env.grouping.RunGrouping(ctx, env.institution.ID)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.HouseholdsCreated != 0 {
		t.Fatalf("no new household expected, got created=%d", result.HouseholdsCreated)
	}
	if result.PeopleGrouped != 1 {
		t.Fatalf("only carol should be grouped, got=%d", result.PeopleGrouped)
	}

	households, err := env.householdRepo.GetByInstitution(ctx, nil, env.institution.ID)
	if err != nil {
		t.Fatalf("fetch households: %v", err)
	}
	if len(households) != 1 {
		t.Fatalf("household rows: want=1 got=%d", len(households))
	}
	members, err := env.memberRepo.GetByHouseholdIDs(ctx, nil, []uuid.UUID{households[0].ID})
	if err != nil {
		t.Fatalf("fetch members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("members after extension: want=3 got=%d", len(members))
	}
	found := false
	for _, m := range members {
		if m.PersonID == carol.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("carol should have joined the existing household")
	}
}

func TestRunGroupingRespectsManualAssignments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedPerson(t, "Alice", "Smith", "smith@example.com", "")
	dave := env.seedPerson(t, "Dave", "Smith", "dave@example.com", "")
	env.seedPerson(t, "Bob", "Smith", "smith@example.com", "")

	manual := env.seedHousehold(t, "Smith Household", types.GroupedByManual)
	lockedMember := env.seedMember(t, manual, alice, true)
	env.seedMember(t, manual, dave, true)

	result, err := env.grouping.RunGrouping(ctx, env.institution.ID)
	if err != nil {
		t.Fatalf("RunGrouping: %v", err)
	}
	// Alice is locked, so bob is alone on the shared email and no cluster
	// forms.
	if result.HouseholdsCreated != 0 || result.PeopleGrouped != 0 {
		t.Fatalf("locked person must not cluster, got %+v", result)
	}

	members, err := env.memberRepo.GetByPersonIDs(ctx, nil, []uuid.UUID{alice.ID})
	if err != nil {
		t.Fatalf("fetch alice memberships: %v", err)
	}
	if len(members) != 1 || members[0].ID != lockedMember.ID || members[0].HouseholdID != manual.ID {
		t.Fatalf("manual membership must be untouched, got %+v", members)
	}
}

func TestRunGroupingTransitiveClosure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPerson(t, "Alice", "Smith", "smith@example.com", "555-0101")
	env.seedPerson(t, "Bob", "Smith", "smith@example.com", "555-0202")
	env.seedPerson(t, "Carol", "Smith", "carol@example.com", "555-0202")

	result, err := env.grouping.RunGrouping(ctx, env.institution.ID)
	if err != nil {
		t.Fatalf("RunGrouping: %v", err)
	}
	if result.HouseholdsCreated != 1 {
		t.Fatalf("households created: want=1 got=%d", result.HouseholdsCreated)
	}
	if result.PeopleGrouped != 3 {
		t.Fatalf("people grouped: want=3 got=%d", result.PeopleGrouped)
	}

	households, err := env.householdRepo.GetByInstitution(ctx, nil, env.institution.ID)
	if err != nil {
		t.Fatalf("fetch households: %v", err)
	}
	if len(households) != 1 {
		t.Fatalf("household rows: want=1 got=%d", len(households))
	}
	if households[0].ConfidenceReason != "matched on email and phone" {
		t.Fatalf("confidence reason: got=%q", households[0].ConfidenceReason)
	}
	members, err := env.memberRepo.GetByHouseholdIDs(ctx, nil, []uuid.UUID{households[0].ID})
	if err != nil {
		t.Fatalf("fetch members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("members: want=3 got=%d", len(members))
	}
}

func TestRunGroupingFoldsSmallerHouseholdIntoLarger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedPerson(t, "Alice", "Smith", "smith@example.com", "")
	bob := env.seedPerson(t, "Bob", "Smith", "smith@example.com", "")
	carol := env.seedPerson(t, "Carol", "Park", "park@example.com", "")
	dan := env.seedPerson(t, "Dan", "Park", "park@example.com", "")
	if _, err := env.grouping.RunGrouping(ctx, env.institution.ID); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if got := env.countRows(t, &types.Household{}); got != 2 {
		t.Fatalf("household rows after first run: want=2 got=%d", got)
	}

	// A shared phone now links the two clusters into one.
	for _, id := range []uuid.UUID{alice.ID, carol.ID} {
		if err := env.db.Model(&types.Person{}).Where("id = ?", id).Update("normalized_phone", "5550909").Error; err != nil {
			t.Fatalf("link phone: %v", err)
		}
	}

	if _, err := env.grouping.RunGrouping(ctx, env.institution.ID); err != nil {
		t.Fatalf("second run: %v", err)
	}
	households, err := env.householdRepo.GetByInstitution(ctx, nil, env.institution.ID)
	if err != nil {
		t.Fatalf("fetch households: %v", err)
	}
	if len(households) != 1 {
		t.Fatalf("clusters must collapse into one household, got=%d", len(households))
	}
	members, err := env.memberRepo.GetByHouseholdIDs(ctx, nil, []uuid.UUID{households[0].ID})
	if err != nil {
		t.Fatalf("fetch members: %v", err)
	}
	if len(members) != 4 {
		t.Fatalf("members: want=4 got=%d", len(members))
	}
	want := map[uuid.UUID]bool{alice.ID: true, bob.ID: true, carol.ID: true, dan.ID: true}
	for _, m := range members {
		delete(want, m.PersonID)
	}
	if len(want) != 0 {
		t.Fatalf("missing members: %v", want)
	}
}
