package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/repos"
)

type Repos struct {
	Institution     repos.InstitutionRepo
	Person          repos.PersonRepo
	Household       repos.HouseholdRepo
	HouseholdMember repos.HouseholdMemberRepo
	Transaction     repos.TransactionRepo
	PersonFlag      repos.PersonFlagRepo
	ImportJob       repos.ImportJobRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Institution:     repos.NewInstitutionRepo(db, log),
		Person:          repos.NewPersonRepo(db, log),
		Household:       repos.NewHouseholdRepo(db, log),
		HouseholdMember: repos.NewHouseholdMemberRepo(db, log),
		Transaction:     repos.NewTransactionRepo(db, log),
		PersonFlag:      repos.NewPersonFlagRepo(db, log),
		ImportJob:       repos.NewImportJobRepo(db, log),
	}
}
