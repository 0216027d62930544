package app

import (
	"github.com/yungbote/kinship-backend/internal/handlers"
)

type Handlers struct {
	Institution *handlers.InstitutionHandler
	Import      *handlers.ImportHandler
	Grouping    *handlers.GroupingHandler
	Flag        *handlers.FlagHandler
	Person      *handlers.PersonHandler
	Household   *handlers.HouseholdHandler
}

func wireHandlers(s Services) Handlers {
	return Handlers{
		Institution: handlers.NewInstitutionHandler(s.Institution),
		Import:      handlers.NewImportHandler(s.Import),
		Grouping:    handlers.NewGroupingHandler(s.Grouping),
		Flag:        handlers.NewFlagHandler(s.Flag),
		Person:      handlers.NewPersonHandler(s.Person, s.Flag),
		Household:   handlers.NewHouseholdHandler(s.Household),
	}
}
