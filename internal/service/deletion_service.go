package service

import (
	"fmt"
	"log"
	"time"

	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"
	"go-campus-assets/internal/ws"
	"go-campus-assets/pkg/validator"
)

// ExecuteOutcome classifies the result of an Execute call. NotFound and
// Ambiguous are expected branches of normal operation, not errors.
type ExecuteOutcome string

const (
	OutcomeDeleted   ExecuteOutcome = "deleted"
	OutcomeNotFound  ExecuteOutcome = "not_found"
	OutcomeAmbiguous ExecuteOutcome = "ambiguous"
)

// ResourcePreview is the display shape of a candidate or deleted record.
type ResourcePreview struct {
	ID              string    `json:"id"`
	SlNo            int64     `json:"sl_no"`
	DeviceName      string    `json:"device_name"`
	Quantity        int       `json:"quantity"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	Department      string    `json:"department"`
	Cost            float64   `json:"cost"`
	ProcurementDate time.Time `json:"procurement_date"`
	TotalValue      float64   `json:"total_value"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toPreview(resource model.Resource) ResourcePreview {
	return ResourcePreview{
		ID:              resource.ID.String(),
		SlNo:            resource.SerialNo,
		DeviceName:      resource.DeviceName,
		Quantity:        resource.Quantity,
		Description:     resource.Description,
		Location:        resource.Location,
		Department:      resource.Department,
		Cost:            resource.Cost,
		ProcurementDate: resource.ProcurementDate,
		TotalValue:      resource.TotalValue(),
		CreatedAt:       resource.CreatedAt,
		UpdatedAt:       resource.UpdatedAt,
	}
}

// DeletionSummary aggregates a preview's candidate set.
type DeletionSummary struct {
	TotalResources            int     `json:"total_resources"`
	TotalQuantity             int64   `json:"total_quantity"`
	TotalValue                float64 `json:"total_value"`
	RequiresQuantitySelection bool    `json:"requires_quantity_selection"`
}

// PreviewResult never mutates state; the caller holds the criteria between
// preview and execute.
type PreviewResult struct {
	Found         bool                        `json:"found"`
	Message       string                      `json:"message"`
	Criteria      repository.DeletionCriteria `json:"search_criteria"`
	Matches       []ResourcePreview           `json:"matches"`
	Summary       DeletionSummary             `json:"summary"`
	DeletionReady bool                        `json:"deletion_ready"`
	NextStep      string                      `json:"next_step"`
}

// ExecuteResult reports what Execute did. On an ambiguous outcome Candidates
// carries the full list so the caller can re-invoke with a quantity.
type ExecuteResult struct {
	Outcome         ExecuteOutcome              `json:"outcome"`
	Message         string                      `json:"message"`
	Criteria        repository.DeletionCriteria `json:"deletion_criteria"`
	DeletedResource *ResourcePreview            `json:"deleted_resource,omitempty"`
	Candidates      []ResourcePreview           `json:"matching_resources,omitempty"`
	DeletedBy       string                      `json:"deleted_by,omitempty"`
}

type DeletionService interface {
	Preview(criteria repository.DeletionCriteria) (*PreviewResult, error)
	Execute(criteria repository.DeletionCriteria, actorID string) (*ExecuteResult, error)
}

type deletionService struct {
	resourceRepo   repository.ResourceRepository
	departmentRepo repository.DepartmentRepository
	wsHub          *ws.Hub
}

func NewDeletionService(rRepo repository.ResourceRepository, dRepo repository.DepartmentRepository, hub *ws.Hub) DeletionService {
	return &deletionService{
		resourceRepo:   rRepo,
		departmentRepo: dRepo,
		wsHub:          hub,
	}
}

// resolve maps the criteria tuple to its candidate set, ordered by serial
// number. Classification is left to the callers: zero matches is NotFound,
// one is resolved, several without a quantity need disambiguation, and
// several with a quantity fall back to first-in-order (same-quantity
// duplicates are treated as interchangeable).
func (s *deletionService) resolve(criteria repository.DeletionCriteria) ([]model.Resource, error) {
	if errs := validator.ValidateStruct(&criteria); len(errs) > 0 {
		return nil, validationError(errs)
	}
	return s.resourceRepo.FindByCriteria(criteria)
}

func (s *deletionService) Preview(criteria repository.DeletionCriteria) (*PreviewResult, error) {
	matches, err := s.resolve(criteria)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return &PreviewResult{
			Found:    false,
			Message:  "No resources found matching the criteria",
			Criteria: criteria,
			Matches:  []ResourcePreview{},
		}, nil
	}

	previews := make([]ResourcePreview, 0, len(matches))
	summary := DeletionSummary{TotalResources: len(matches)}
	for _, resource := range matches {
		previews = append(previews, toPreview(resource))
		summary.TotalQuantity += int64(resource.Quantity)
		summary.TotalValue += resource.TotalValue()
	}
	summary.RequiresQuantitySelection = len(matches) > 1 && criteria.Quantity == nil

	nextStep := "Ready for deletion"
	if summary.RequiresQuantitySelection {
		nextStep = "Specify quantity to identify exact resource"
	}

	return &PreviewResult{
		Found:         true,
		Message:       fmt.Sprintf("Found %d matching resource(s)", len(matches)),
		Criteria:      criteria,
		Matches:       previews,
		Summary:       summary,
		DeletionReady: !summary.RequiresQuantitySelection,
		NextStep:      nextStep,
	}, nil
}

// Execute re-runs the resolution from scratch (no state carried from a
// preview) and deletes by the resolved store id, so a concurrent insert of
// another matching record cannot redirect the delete. At most one record is
// removed per call.
func (s *deletionService) Execute(criteria repository.DeletionCriteria, actorID string) (*ExecuteResult, error) {
	matches, err := s.resolve(criteria)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return &ExecuteResult{
			Outcome:  OutcomeNotFound,
			Message:  "No resources found matching the specified criteria",
			Criteria: criteria,
		}, nil
	}

	if len(matches) > 1 && criteria.Quantity == nil {
		candidates := make([]ResourcePreview, 0, len(matches))
		for _, resource := range matches {
			candidates = append(candidates, toPreview(resource))
		}
		return &ExecuteResult{
			Outcome:    OutcomeAmbiguous,
			Message:    "Multiple resources found. Please specify quantity to identify exact resource.",
			Criteria:   criteria,
			Candidates: candidates,
		}, nil
	}

	target := matches[0]
	affected, err := s.resourceRepo.DeleteByID(target.ID, actorID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost a race with a concurrent delete of the resolved record.
		return &ExecuteResult{
			Outcome:  OutcomeNotFound,
			Message:  "Resource was already deleted",
			Criteria: criteria,
		}, nil
	}

	if err := recomputeDepartmentStats(s.resourceRepo, s.departmentRepo, criteria.Department, actorID); err != nil {
		log.Printf("Warning: failed to recompute stats for department %q: %v", criteria.Department, err)
	}

	deleted := toPreview(target)
	if s.wsHub != nil {
		s.wsHub.Publish(ws.Event{
			Type:    "resource_update",
			Action:  "resource_deleted",
			Payload: deleted,
			Actor:   actorID,
			Message: fmt.Sprintf("Deleted '%s' from %s / %s", target.DeviceName, target.Department, target.Location),
		})
	}

	return &ExecuteResult{
		Outcome:         OutcomeDeleted,
		Message:         "Resource deleted successfully using hierarchical selection",
		Criteria:        criteria,
		DeletedResource: &deleted,
		DeletedBy:       actorID,
	}, nil
}
