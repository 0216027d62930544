package services

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/normalization"
	"github.com/yungbote/kinship-backend/internal/repos"
	"github.com/yungbote/kinship-backend/internal/types"
)

// testEnv bundles an isolated in-memory database with the repos and services
// under test. Every test gets its own database keyed by the test name.
type testEnv struct {
	db          *gorm.DB
	institution *types.Institution

	personRepo      repos.PersonRepo
	householdRepo   repos.HouseholdRepo
	memberRepo      repos.HouseholdMemberRepo
	transactionRepo repos.TransactionRepo
	flagRepo        repos.PersonFlagRepo
	importJobRepo   repos.ImportJobRepo

	imports    ImportService
	grouping   GroupingService
	flags      FlagService
	people     PersonService
	households HouseholdService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Institution{},
		&types.Person{},
		&types.Household{},
		&types.HouseholdMember{},
		&types.Transaction{},
		&types.PersonFlag{},
		&types.ImportJob{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	institution := &types.Institution{Name: "Test Institution"}
	if err := db.Create(institution).Error; err != nil {
		t.Fatalf("create institution: %v", err)
	}

	env := &testEnv{
		db:              db,
		institution:     institution,
		personRepo:      repos.NewPersonRepo(db, log),
		householdRepo:   repos.NewHouseholdRepo(db, log),
		memberRepo:      repos.NewHouseholdMemberRepo(db, log),
		transactionRepo: repos.NewTransactionRepo(db, log),
		flagRepo:        repos.NewPersonFlagRepo(db, log),
		importJobRepo:   repos.NewImportJobRepo(db, log),
	}
	env.imports = NewImportService(db, log, env.personRepo, env.transactionRepo, env.importJobRepo)
	env.grouping = NewGroupingService(db, log, env.personRepo, env.householdRepo, env.memberRepo, env.transactionRepo, nil)
	env.flags = NewFlagService(db, log, env.flagRepo, env.personRepo, env.memberRepo, env.householdRepo, env.transactionRepo)
	env.people = NewPersonService(db, log, env.personRepo, env.memberRepo, env.householdRepo, env.transactionRepo)
	env.households = NewHouseholdService(db, log, env.householdRepo, env.memberRepo, env.personRepo, env.transactionRepo)
	return env
}

func (e *testEnv) seedPerson(t *testing.T, firstName, lastName, email, phone string) *types.Person {
	t.Helper()
	p := &types.Person{
		InstitutionID:   e.institution.ID,
		FirstName:       firstName,
		LastName:        lastName,
		Email:           email,
		Phone:           phone,
		NormalizedEmail: normalization.NormalizeEmail(email),
		NormalizedPhone: normalization.NormalizePhone(phone),
		CreatedSource:   types.CreatedSourceManual,
	}
	if err := e.db.Create(p).Error; err != nil {
		t.Fatalf("seed person: %v", err)
	}
	return p
}

func (e *testEnv) seedHousehold(t *testing.T, name, groupedBy string) *types.Household {
	t.Helper()
	h := &types.Household{
		InstitutionID: e.institution.ID,
		Name:          name,
		GroupedBy:     groupedBy,
	}
	if err := e.db.Create(h).Error; err != nil {
		t.Fatalf("seed household: %v", err)
	}
	return h
}

func (e *testEnv) seedMember(t *testing.T, h *types.Household, p *types.Person, manual bool) *types.HouseholdMember {
	t.Helper()
	groupedBy := types.GroupedByAuto
	if manual {
		groupedBy = types.GroupedByManual
	}
	m := &types.HouseholdMember{
		HouseholdID:      h.ID,
		PersonID:         p.ID,
		Role:             types.RoleUnknown,
		GroupedBy:        groupedBy,
		ManualAssignment: manual,
	}
	if err := e.db.Create(m).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func (e *testEnv) seedTransaction(t *testing.T, p *types.Person, h *types.Household, amount float64) *types.Transaction {
	t.Helper()
	tr := &types.Transaction{
		InstitutionID: e.institution.ID,
		PersonID:      p.ID,
		Type:          "Donation",
		Amount:        amount,
		OccurredAt:    p.CreatedAt,
		SourceSystem:  "seed",
	}
	if h != nil {
		tr.HouseholdID = &h.ID
	}
	if err := e.db.Create(tr).Error; err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return tr
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
