package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/normalization"
	pkgerrors "github.com/yungbote/kinship-backend/internal/pkg/errors"
	"github.com/yungbote/kinship-backend/internal/repos"
	"github.com/yungbote/kinship-backend/internal/types"
)

const (
	ImportModeAppend = "append"

	DataTypeDonation = "donation"
	DataTypeEvent    = "event"

	// maxImportErrors bounds the persisted error list; only the first N row
	// messages are kept while ErrorRows counts every failure.
	maxImportErrors = 10

	importSourceSystem = "import"
)

type ImportOptions struct {
	Mode     string `json:"mode"`
	DataType string `json:"data_type"`
}

type ImportService interface {
	// RunImport ingests one delimited file. Row failures are collected, never
	// fatal; the run itself only fails on malformed input or storage errors,
	// and rows committed before the failure stay committed.
	RunImport(ctx context.Context, institutionID uuid.UUID, content, fileName string, opts ImportOptions) (*types.ImportResult, error)
	GetJob(ctx context.Context, id uuid.UUID) (*types.ImportJob, error)
	ListJobs(ctx context.Context, institutionID uuid.UUID) ([]*types.ImportJob, error)
}

type importService struct {
	db              *gorm.DB
	log             *logger.Logger
	personRepo      repos.PersonRepo
	transactionRepo repos.TransactionRepo
	importJobRepo   repos.ImportJobRepo
}

func NewImportService(db *gorm.DB, log *logger.Logger, personRepo repos.PersonRepo, transactionRepo repos.TransactionRepo, importJobRepo repos.ImportJobRepo) ImportService {
	return &importService{
		db:              db,
		log:             log.With("service", "ImportService"),
		personRepo:      personRepo,
		transactionRepo: transactionRepo,
		importJobRepo:   importJobRepo,
	}
}

func (s *importService) RunImport(ctx context.Context, institutionID uuid.UUID, content, fileName string, opts ImportOptions) (*types.ImportResult, error) {
	if opts.Mode == "" {
		opts.Mode = ImportModeAppend
	}
	if opts.Mode != ImportModeAppend {
		s.log.Warn("Unknown import mode, falling back to append", "mode", opts.Mode)
		opts.Mode = ImportModeAppend
	}

	job := &types.ImportJob{
		InstitutionID: institutionID,
		FileName:      fileName,
		Status:        types.ImportJobProcessing,
		StartedAt:     time.Now().UTC(),
	}
	if _, err := s.importJobRepo.Create(ctx, nil, []*types.ImportJob{job}); err != nil {
		return nil, fmt.Errorf("create import job: %w", err)
	}
	runLog := s.log.With("import_job_id", job.ID, "file_name", fileName)
	runLog.Info("Import started")

	result, runErr := s.processRows(ctx, runLog, institutionID, content, opts)
	finished := time.Now().UTC()

	if runErr != nil {
		runLog.Error("Import failed", "error", runErr)
		updates := map[string]interface{}{
			"status":      types.ImportJobFailed,
			"finished_at": &finished,
			"error":       runErr.Error(),
		}
		if result != nil {
			updates["total_rows"] = result.TotalRows
			updates["success_rows"] = result.SuccessRows
			updates["error_rows"] = result.ErrorRows
		}
		if err := s.importJobRepo.UpdateFields(ctx, nil, job.ID, updates); err != nil {
			runLog.Error("Failed to mark import job failed", "error", err)
		}
		return nil, runErr
	}

	summary, err := json.Marshal(types.ImportSummary{
		CreatedPeople:       result.CreatedPeople,
		CreatedTransactions: result.CreatedTransactions,
		Errors:              result.Errors,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal import summary: %w", err)
	}
	if err := s.importJobRepo.UpdateFields(ctx, nil, job.ID, map[string]interface{}{
		"status":       types.ImportJobCompleted,
		"finished_at":  &finished,
		"total_rows":   result.TotalRows,
		"success_rows": result.SuccessRows,
		"error_rows":   result.ErrorRows,
		"summary":      summary,
	}); err != nil {
		return nil, fmt.Errorf("finalize import job: %w", err)
	}
	runLog.Info("Import completed", "total_rows", result.TotalRows, "success_rows", result.SuccessRows, "error_rows", result.ErrorRows)
	return result, nil
}

func (s *importService) processRows(ctx context.Context, runLog *logger.Logger, institutionID uuid.UUID, content string, opts ImportOptions) (*types.ImportResult, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	result := &types.ImportResult{Errors: []string{}}
	if len(records) == 0 {
		return result, nil
	}

	columns := map[string]int{}
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for i, record := range records[1:] {
		rowNum := i + 2 // 1-based, after the header row
		result.TotalRows++
		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		firstName := field("first_name")
		lastName := field("last_name")
		if firstName == "" || lastName == "" {
			s.recordRowError(result, fmt.Sprintf("row %d: missing first or last name", rowNum))
			continue
		}

		email := field("email")
		phone := field("phone")
		normEmail := normalization.NormalizeEmail(email)
		normPhone := normalization.NormalizePhone(phone)

		person, err := s.resolvePerson(ctx, institutionID, normEmail, normPhone)
		if err != nil {
			return result, fmt.Errorf("row %d: resolve person: %w", rowNum, err)
		}
		if person == nil {
			person = &types.Person{
				InstitutionID:   institutionID,
				FirstName:       firstName,
				LastName:        lastName,
				Email:           email,
				Phone:           phone,
				NormalizedEmail: normEmail,
				NormalizedPhone: normPhone,
				CreatedSource:   types.CreatedSourceImport,
			}
			if _, err := s.personRepo.Create(ctx, nil, []*types.Person{person}); err != nil {
				return result, fmt.Errorf("row %d: create person: %w", rowNum, err)
			}
			result.CreatedPeople++
		}

		amount, ok := parseAmount(field("amount"))
		if !ok {
			s.recordRowError(result, fmt.Sprintf("row %d: missing or invalid amount", rowNum))
			continue
		}

		txType := field("type")
		if txType == "" {
			txType = defaultTypeLabel(opts.DataType)
		}
		tr := &types.Transaction{
			InstitutionID: institutionID,
			PersonID:      person.ID,
			Type:          txType,
			Amount:        amount,
			OccurredAt:    time.Now().UTC(),
			SourceSystem:  importSourceSystem,
		}
		if _, err := s.transactionRepo.Create(ctx, nil, []*types.Transaction{tr}); err != nil {
			return result, fmt.Errorf("row %d: create transaction: %w", rowNum, err)
		}
		result.CreatedTransactions++
		result.SuccessRows++
	}
	return result, nil
}

// resolvePerson matches a row to an existing person, scoped to the
// institution; the first (oldest) match wins. A row that carries an email is
// resolved by email alone: falling through to phone there would collapse
// distinct people who merely share a phone, which is the grouping engine's
// signal, not the importer's. Phone lookup applies only to email-less rows.
// A nil person means the row is a new identity.
func (s *importService) resolvePerson(ctx context.Context, institutionID uuid.UUID, normEmail, normPhone string) (*types.Person, error) {
	if normEmail != "" {
		return s.personRepo.FirstByNormalizedEmail(ctx, nil, institutionID, normEmail)
	}
	if normPhone != "" {
		return s.personRepo.FirstByNormalizedPhone(ctx, nil, institutionID, normPhone)
	}
	return nil, nil
}

func (s *importService) recordRowError(result *types.ImportResult, msg string) {
	result.ErrorRows++
	if len(result.Errors) < maxImportErrors {
		result.Errors = append(result.Errors, msg)
	}
}

func parseAmount(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func defaultTypeLabel(dataType string) string {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case DataTypeEvent:
		return "Ticket"
	default:
		return "Donation"
	}
}

func (s *importService) GetJob(ctx context.Context, id uuid.UUID) (*types.ImportJob, error) {
	jobs, err := s.importJobRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("fetch import job: %w", err)
	}
	if len(jobs) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return jobs[0], nil
}

func (s *importService) ListJobs(ctx context.Context, institutionID uuid.UUID) ([]*types.ImportJob, error) {
	return s.importJobRepo.GetByInstitution(ctx, nil, institutionID)
}
