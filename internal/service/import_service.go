package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-campus-assets/internal/cache"
	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"
	"go-campus-assets/internal/ws"

	"github.com/google/uuid"
)

// Staged imports expire if not committed; the session store enforces the TTL.
const importSessionTTL = 30 * time.Minute

// ImportRow is one parsed spreadsheet row. File parsing happens upstream;
// rows arrive here already split into columns.
type ImportRow struct {
	DeviceName      string  `json:"device_name"`
	Quantity        int     `json:"quantity"`
	Description     string  `json:"description"`
	ProcurementDate string  `json:"procurement_date"`
	Location        string  `json:"location"`
	Cost            float64 `json:"cost"`
}

// StagedRow pairs a row with its validation errors. Rows with errors are
// kept in the session for preview but skipped at commit.
type StagedRow struct {
	Row    ImportRow `json:"row"`
	Errors []string  `json:"errors,omitempty"`
}

type ImportSession struct {
	ID          string      `json:"id"`
	Department  string      `json:"department"`
	Rows        []StagedRow `json:"rows"`
	ValidRows   int         `json:"valid_rows"`
	InvalidRows int         `json:"invalid_rows"`
	CreatedBy   string      `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
}

type ImportResult struct {
	Department string `json:"department"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped"`
}

type ImportService interface {
	Stage(ctx context.Context, department string, rows []ImportRow, actorID string) (*ImportSession, error)
	Preview(ctx context.Context, sessionID string) (*ImportSession, error)
	Commit(ctx context.Context, sessionID, actorID string) (*ImportResult, error)
	Discard(ctx context.Context, sessionID string) error
}

type importService struct {
	resourceRepo   repository.ResourceRepository
	departmentRepo repository.DepartmentRepository
	sessions       cache.SessionStore
	wsHub          *ws.Hub
}

func NewImportService(rRepo repository.ResourceRepository, dRepo repository.DepartmentRepository, sessions cache.SessionStore, hub *ws.Hub) ImportService {
	return &importService{
		resourceRepo:   rRepo,
		departmentRepo: dRepo,
		sessions:       sessions,
		wsHub:          hub,
	}
}

// dateLayouts are tried in order when parsing procurement dates from
// spreadsheet rows.
var dateLayouts = []string{"2006-01-02", "02-01-2006", "01/02/2006", "02/01/2006"}

func parseProcurementDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}

func validateRow(row ImportRow) []string {
	var errs []string
	if len(strings.TrimSpace(row.DeviceName)) < 2 {
		errs = append(errs, "device_name must be at least 2 characters")
	}
	if row.Quantity <= 0 {
		errs = append(errs, "quantity must be a positive integer")
	}
	if len(strings.TrimSpace(row.Location)) < 2 {
		errs = append(errs, "location must be at least 2 characters")
	}
	if row.Cost < 0 {
		errs = append(errs, "cost must be non-negative")
	}
	if _, err := parseProcurementDate(row.ProcurementDate); err != nil {
		errs = append(errs, err.Error())
	}
	return errs
}

func (s *importService) Stage(ctx context.Context, department string, rows []ImportRow, actorID string) (*ImportSession, error) {
	if len(strings.TrimSpace(department)) < 2 {
		return nil, fmt.Errorf("%w: department is required", ErrValidation)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows provided", ErrValidation)
	}

	session := &ImportSession{
		ID:         uuid.New().String(),
		Department: department,
		Rows:       make([]StagedRow, 0, len(rows)),
		CreatedBy:  actorID,
		CreatedAt:  time.Now(),
	}
	for _, row := range rows {
		staged := StagedRow{Row: row, Errors: validateRow(row)}
		if len(staged.Errors) == 0 {
			session.ValidRows++
		} else {
			session.InvalidRows++
		}
		session.Rows = append(session.Rows, staged)
	}

	if err := s.sessions.Put(ctx, session.ID, session, importSessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *importService) Preview(ctx context.Context, sessionID string) (*ImportSession, error) {
	var session ImportSession
	if err := s.sessions.Get(ctx, sessionID, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Commit inserts the session's valid rows and recomputes the target
// department's stats once, after the batch.
func (s *importService) Commit(ctx context.Context, sessionID, actorID string) (*ImportResult, error) {
	var session ImportSession
	if err := s.sessions.Get(ctx, sessionID, &session); err != nil {
		return nil, err
	}

	if _, err := s.departmentRepo.EnsureExists(session.Department, actorID); err != nil {
		return nil, err
	}

	serial, err := s.resourceRepo.NextSerialNo()
	if err != nil {
		return nil, err
	}

	resources := make([]*model.Resource, 0, session.ValidRows)
	locations := make(map[string]bool)
	for _, staged := range session.Rows {
		if len(staged.Errors) > 0 {
			continue
		}
		procured, _ := parseProcurementDate(staged.Row.ProcurementDate)
		resource := &model.Resource{
			SerialNo:        serial,
			DeviceName:      staged.Row.DeviceName,
			Quantity:        staged.Row.Quantity,
			Description:     staged.Row.Description,
			ProcurementDate: procured,
			Location:        staged.Row.Location,
			Cost:            staged.Row.Cost,
			Department:      session.Department,
		}
		resource.CreatedBy = actorID
		resource.UpdatedBy = actorID
		resources = append(resources, resource)
		locations[staged.Row.Location] = true
		serial++
	}

	if err := s.resourceRepo.CreateBatch(resources); err != nil {
		return nil, err
	}
	for location := range locations {
		if err := s.departmentRepo.AddLocation(session.Department, location); err != nil {
			return nil, err
		}
	}
	if err := recomputeDepartmentStats(s.resourceRepo, s.departmentRepo, session.Department, actorID); err != nil {
		log.Printf("Warning: failed to recompute stats for department %q: %v", session.Department, err)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		log.Printf("Warning: failed to drop import session %s: %v", sessionID, err)
	}

	result := &ImportResult{
		Department: session.Department,
		Imported:   len(resources),
		Skipped:    session.InvalidRows,
	}
	if s.wsHub != nil {
		s.wsHub.Publish(ws.Event{
			Type:    "resource_update",
			Action:  "import_committed",
			Payload: result,
			Actor:   actorID,
			Message: fmt.Sprintf("Imported %d resource(s) into %s", result.Imported, result.Department),
		})
	}
	return result, nil
}

func (s *importService) Discard(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
