package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	pkgerrors "github.com/yungbote/kinship-backend/internal/pkg/errors"
	"github.com/yungbote/kinship-backend/internal/repos"
	"github.com/yungbote/kinship-backend/internal/types"
)

// InstitutionService only bootstraps the foreign-key scope; tenant management
// proper lives elsewhere.
type InstitutionService interface {
	Create(ctx context.Context, name string) (*types.Institution, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Institution, error)
}

type institutionService struct {
	db              *gorm.DB
	log             *logger.Logger
	institutionRepo repos.InstitutionRepo
}

func NewInstitutionService(db *gorm.DB, log *logger.Logger, institutionRepo repos.InstitutionRepo) InstitutionService {
	return &institutionService{
		db:              db,
		log:             log.With("service", "InstitutionService"),
		institutionRepo: institutionRepo,
	}
}

func (s *institutionService) Create(ctx context.Context, name string) (*types.Institution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("institution name is required: %w", pkgerrors.ErrInvalidArgument)
	}
	institution := &types.Institution{Name: name}
	if _, err := s.institutionRepo.Create(ctx, nil, []*types.Institution{institution}); err != nil {
		return nil, fmt.Errorf("create institution: %w", err)
	}
	return institution, nil
}

func (s *institutionService) Get(ctx context.Context, id uuid.UUID) (*types.Institution, error) {
	institutions, err := s.institutionRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("fetch institution: %w", err)
	}
	if len(institutions) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return institutions[0], nil
}
