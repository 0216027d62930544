package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/services"
)

type Services struct {
	Institution services.InstitutionService
	Import      services.ImportService
	Grouping    services.GroupingService
	Flag        services.FlagService
	Person      services.PersonService
	Household   services.HouseholdService
}

func wireServices(db *gorm.DB, log *logger.Logger, r Repos) Services {
	scorer := services.NewExactKeyScorer()
	return Services{
		Institution: services.NewInstitutionService(db, log, r.Institution),
		Import:      services.NewImportService(db, log, r.Person, r.Transaction, r.ImportJob),
		Grouping:    services.NewGroupingService(db, log, r.Person, r.Household, r.HouseholdMember, r.Transaction, scorer),
		Flag:        services.NewFlagService(db, log, r.PersonFlag, r.Person, r.HouseholdMember, r.Household, r.Transaction),
		Person:      services.NewPersonService(db, log, r.Person, r.HouseholdMember, r.Household, r.Transaction),
		Household:   services.NewHouseholdService(db, log, r.Household, r.HouseholdMember, r.Person, r.Transaction),
	}
}
