package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/types"
)

// Config is the explicit store target. The caller decides which database this
// process talks to; there is no process-global switch.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg Config, log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, sslMode)

	serviceLog.Info("Connecting to Postgres...", "host", cfg.Host, "port", cfg.Port, "db", cfg.Name)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Institution{},
		&types.Person{},
		&types.Household{},
		&types.HouseholdMember{},
		&types.Transaction{},
		&types.PersonFlag{},
		&types.ImportJob{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for name, ddl := range map[string]string{
		"fk_person_institution_id": `
			ALTER TABLE "person"
			ADD CONSTRAINT "fk_person_institution_id"
			FOREIGN KEY ("institution_id") REFERENCES "institution"("id")`,
		"fk_household_member_household_id": `
			ALTER TABLE "household_member"
			ADD CONSTRAINT "fk_household_member_household_id"
			FOREIGN KEY ("household_id") REFERENCES "household"("id")`,
		"fk_household_member_person_id": `
			ALTER TABLE "household_member"
			ADD CONSTRAINT "fk_household_member_person_id"
			FOREIGN KEY ("person_id") REFERENCES "person"("id")`,
		"fk_transaction_person_id": `
			ALTER TABLE "transaction"
			ADD CONSTRAINT "fk_transaction_person_id"
			FOREIGN KEY ("person_id") REFERENCES "person"("id")`,
	} {
		var count int64
		if err := s.db.Raw(
			`SELECT COUNT(*) FROM information_schema.table_constraints WHERE constraint_name = ?`, name,
		).Scan(&count).Error; err != nil {
			return fmt.Errorf("check constraint %s: %w", name, err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", name, err)
		}
	}

	// Deletions and household-id unlinking are done explicitly in services so
	// dissolution side effects run; no ON DELETE CASCADE anywhere.
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
