package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/repos"
	"github.com/yungbote/kinship-backend/internal/types"
)

type GroupingService interface {
	// RunGrouping clusters persons sharing a normalized email or phone into
	// households. Re-running on unchanged data creates nothing. Concurrent
	// triggers for the same institution collapse into a single run.
	RunGrouping(ctx context.Context, institutionID uuid.UUID) (*types.GroupingResult, error)
}

type groupingService struct {
	db              *gorm.DB
	log             *logger.Logger
	personRepo      repos.PersonRepo
	householdRepo   repos.HouseholdRepo
	memberRepo      repos.HouseholdMemberRepo
	transactionRepo repos.TransactionRepo
	scorer          ConfidenceScorer
	runs            singleflight.Group
}

func NewGroupingService(db *gorm.DB, log *logger.Logger, personRepo repos.PersonRepo, householdRepo repos.HouseholdRepo, memberRepo repos.HouseholdMemberRepo, transactionRepo repos.TransactionRepo, scorer ConfidenceScorer) GroupingService {
	if scorer == nil {
		scorer = NewExactKeyScorer()
	}
	return &groupingService{
		db:              db,
		log:             log.With("service", "GroupingService"),
		personRepo:      personRepo,
		householdRepo:   householdRepo,
		memberRepo:      memberRepo,
		transactionRepo: transactionRepo,
		scorer:          scorer,
	}
}

func (s *groupingService) RunGrouping(ctx context.Context, institutionID uuid.UUID) (*types.GroupingResult, error) {
	out, err, _ := s.runs.Do(institutionID.String(), func() (interface{}, error) {
		return s.run(ctx, institutionID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*types.GroupingResult), nil
}

func (s *groupingService) run(ctx context.Context, institutionID uuid.UUID) (*types.GroupingResult, error) {
	runLog := s.log.With("institution_id", institutionID)
	result := &types.GroupingResult{}

	people, err := s.personRepo.GetByInstitution(ctx, nil, institutionID)
	if err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}
	households, err := s.householdRepo.GetByInstitution(ctx, nil, institutionID)
	if err != nil {
		return nil, fmt.Errorf("load households: %w", err)
	}
	householdIDs := make([]uuid.UUID, 0, len(households))
	householdByID := map[uuid.UUID]*types.Household{}
	for _, h := range households {
		householdIDs = append(householdIDs, h.ID)
		householdByID[h.ID] = h
	}
	members, err := s.memberRepo.GetByHouseholdIDs(ctx, nil, householdIDs)
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}

	personByID := map[uuid.UUID]*types.Person{}
	for _, p := range people {
		personByID[p.ID] = p
	}
	// Manual assignments are fixed points: those persons never enter the key
	// indices and their memberships are never touched here.
	locked := map[uuid.UUID]bool{}
	autoMembership := map[uuid.UUID]*types.HouseholdMember{}
	memberCount := map[uuid.UUID]int{}
	for _, m := range members {
		memberCount[m.HouseholdID]++
		if m.ManualAssignment {
			locked[m.PersonID] = true
			continue
		}
		if h, ok := householdByID[m.HouseholdID]; ok && h.GroupedBy == types.GroupedByAuto {
			autoMembership[m.PersonID] = m
		}
	}

	uf := newUnionFind()
	emailIndex := map[string][]uuid.UUID{}
	phoneIndex := map[string][]uuid.UUID{}
	for _, p := range people {
		if locked[p.ID] {
			continue
		}
		if p.NormalizedEmail != "" {
			emailIndex[p.NormalizedEmail] = append(emailIndex[p.NormalizedEmail], p.ID)
		}
		if p.NormalizedPhone != "" {
			phoneIndex[p.NormalizedPhone] = append(phoneIndex[p.NormalizedPhone], p.ID)
		}
	}
	for _, ids := range emailIndex {
		for i := 1; i < len(ids); i++ {
			uf.union(ids[0], ids[i])
		}
	}
	for _, ids := range phoneIndex {
		for i := 1; i < len(ids); i++ {
			uf.union(ids[0], ids[i])
		}
	}

	// Once every union is done roots are stable, so the matched fields per
	// cluster can be read straight off the key indices.
	emailRoots := map[uuid.UUID]bool{}
	phoneRoots := map[uuid.UUID]bool{}
	clustered := map[uuid.UUID]bool{}
	for _, ids := range emailIndex {
		if len(ids) < 2 {
			continue
		}
		emailRoots[uf.find(ids[0])] = true
		for _, id := range ids {
			clustered[id] = true
		}
	}
	for _, ids := range phoneIndex {
		if len(ids) < 2 {
			continue
		}
		phoneRoots[uf.find(ids[0])] = true
		for _, id := range ids {
			clustered[id] = true
		}
	}

	clusters := map[uuid.UUID][]uuid.UUID{}
	for id := range clustered {
		root := uf.find(id)
		clusters[root] = append(clusters[root], id)
	}

	roots := make([]uuid.UUID, 0, len(clusters))
	for root := range clusters {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].String() < roots[j].String() })

	for _, root := range roots {
		cluster := clusters[root]
		if len(cluster) < 2 {
			continue
		}
		sort.Slice(cluster, func(i, j int) bool {
			pi, pj := personByID[cluster[i]], personByID[cluster[j]]
			if !pi.CreatedAt.Equal(pj.CreatedAt) {
				return pi.CreatedAt.Before(pj.CreatedAt)
			}
			return cluster[i].String() < cluster[j].String()
		})

		var fields []string
		if emailRoots[root] {
			fields = append(fields, "email")
		}
		if phoneRoots[root] {
			fields = append(fields, "phone")
		}

		grouped, created, err := s.reconcileCluster(ctx, institutionID, cluster, fields, personByID, autoMembership, memberCount)
		if err != nil {
			// Remaining clusters stay unprocessed; the next run picks them up.
			runLog.Error("Cluster reconciliation failed, aborting run", "error", err)
			return result, fmt.Errorf("reconcile cluster: %w", err)
		}
		if created {
			result.HouseholdsCreated++
		}
		result.PeopleGrouped += grouped
	}

	runLog.Info("Grouping run finished", "households_created", result.HouseholdsCreated, "people_grouped", result.PeopleGrouped)
	return result, nil
}

// reconcileCluster lands one cluster in the store inside a single transaction
// so a failure can never leave a household with fewer than two members.
func (s *groupingService) reconcileCluster(ctx context.Context, institutionID uuid.UUID, cluster []uuid.UUID, matchedFields []string, personByID map[uuid.UUID]*types.Person, autoMembership map[uuid.UUID]*types.HouseholdMember, memberCount map[uuid.UUID]int) (grouped int, created bool, err error) {
	counts := map[uuid.UUID]int{}
	for _, id := range cluster {
		if m, ok := autoMembership[id]; ok {
			counts[m.HouseholdID]++
		}
	}
	// Already fully co-located: no membership changes. This is what makes a
	// second run on unchanged data a no-op. Transactions imported since the
	// last run still get the household stamp.
	for hhID, n := range counts {
		if n == len(cluster) {
			if err := s.transactionRepo.AssignHouseholdByPersons(ctx, nil, cluster, hhID); err != nil {
				return 0, false, fmt.Errorf("stamp transactions: %w", err)
			}
			return 0, false, nil
		}
	}

	var target uuid.UUID
	for hhID, n := range counts {
		if target == uuid.Nil {
			target = hhID
			continue
		}
		best := counts[target]
		switch {
		case n > best:
			target = hhID
		case n == best && memberCount[hhID] > memberCount[target]:
			target = hhID
		case n == best && memberCount[hhID] == memberCount[target] && hhID.String() < target.String():
			target = hhID
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		targetID := target
		if targetID == uuid.Nil {
			score, reason := s.scorer.Score(matchedFields)
			household := &types.Household{
				InstitutionID:    institutionID,
				Name:             householdName(cluster, personByID),
				ConfidenceScore:  score,
				ConfidenceReason: reason,
				GroupedBy:        types.GroupedByAuto,
			}
			if _, err := s.householdRepo.Create(ctx, tx, []*types.Household{household}); err != nil {
				return fmt.Errorf("create household: %w", err)
			}
			targetID = household.ID
			created = true
		}

		affected := map[uuid.UUID]bool{}
		newMembers := make([]*types.HouseholdMember, 0, len(cluster))
		for i, personID := range cluster {
			if m, ok := autoMembership[personID]; ok {
				if m.HouseholdID == targetID {
					continue
				}
				// Auto memberships may be moved; the old household is checked
				// for the two-member floor below.
				if err := s.memberRepo.DeleteByIDs(ctx, tx, []uuid.UUID{m.ID}); err != nil {
					return fmt.Errorf("remove superseded membership: %w", err)
				}
				affected[m.HouseholdID] = true
			}
			role := types.RoleUnknown
			if created && i == 0 {
				role = types.RoleHead
			}
			newMembers = append(newMembers, &types.HouseholdMember{
				HouseholdID: targetID,
				PersonID:    personID,
				Role:        role,
				GroupedBy:   types.GroupedByAuto,
			})
		}
		if _, err := s.memberRepo.Create(ctx, tx, newMembers); err != nil {
			return fmt.Errorf("create memberships: %w", err)
		}
		grouped = len(newMembers)

		if err := s.transactionRepo.AssignHouseholdByPersons(ctx, tx, cluster, targetID); err != nil {
			return fmt.Errorf("stamp transactions: %w", err)
		}

		for hhID := range affected {
			if hhID == targetID {
				continue
			}
			if _, err := dissolveIfBelowMinimum(ctx, tx, s.memberRepo, s.householdRepo, s.transactionRepo, hhID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return grouped, created, nil
}

// householdName derives a display name from the oldest member's last name.
func householdName(cluster []uuid.UUID, personByID map[uuid.UUID]*types.Person) string {
	for _, id := range cluster {
		if p, ok := personByID[id]; ok && p.LastName != "" {
			return p.LastName + " Household"
		}
	}
	return "Household"
}

type unionFind struct {
	parent map[uuid.UUID]uuid.UUID
}

func newUnionFind() *unionFind {
	return &unionFind{parent: map[uuid.UUID]uuid.UUID{}}
}

func (u *unionFind) find(id uuid.UUID) uuid.UUID {
	p, ok := u.parent[id]
	if !ok {
		u.parent[id] = id
		return id
	}
	if p == id {
		return id
	}
	root := u.find(p)
	u.parent[id] = root
	return root
}

func (u *unionFind) union(a, b uuid.UUID) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// Deterministic root keeps cluster iteration stable across runs.
	if ra.String() < rb.String() {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
