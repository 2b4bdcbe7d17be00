package service

import (
	"fmt"
	"log"
	"time"

	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"
	"go-campus-assets/internal/ws"
	"go-campus-assets/pkg/validator"

	"github.com/google/uuid"
)

// UpdateResourceRequest carries a partial update: only non-nil fields are
// applied.
type UpdateResourceRequest struct {
	DeviceName      *string    `json:"device_name,omitempty" validate:"omitempty,min=2,max=200"`
	Quantity        *int       `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	Location        *string    `json:"location,omitempty" validate:"omitempty,min=2"`
	Cost            *float64   `json:"cost,omitempty" validate:"omitempty,gte=0"`
	Department      *string    `json:"department,omitempty" validate:"omitempty,min=2"`
	ProcurementDate *time.Time `json:"procurement_date,omitempty"`
}

type ResourceService interface {
	Create(resource *model.Resource, actorID string) error
	Update(id uuid.UUID, req *UpdateResourceRequest, actorID string) (*model.Resource, error)
	Delete(id uuid.UUID, actorID string) (*ResourcePreview, error)
	Get(id uuid.UUID) (*model.Resource, error)
}

type resourceService struct {
	resourceRepo   repository.ResourceRepository
	departmentRepo repository.DepartmentRepository
	wsHub          *ws.Hub
}

func NewResourceService(rRepo repository.ResourceRepository, dRepo repository.DepartmentRepository, hub *ws.Hub) ResourceService {
	return &resourceService{
		resourceRepo:   rRepo,
		departmentRepo: dRepo,
		wsHub:          hub,
	}
}

func (s *resourceService) publish(action, actorID, message string, payload interface{}) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.Publish(ws.Event{
		Type:    "resource_update",
		Action:  action,
		Payload: payload,
		Actor:   actorID,
		Message: message,
	})
}

func (s *resourceService) Create(resource *model.Resource, actorID string) error {
	if errs := validator.ValidateStruct(resource); len(errs) > 0 {
		return validationError(errs)
	}

	// Departments are upserted on first reference; the resource write is
	// the event that makes a department known to the system.
	if _, err := s.departmentRepo.EnsureExists(resource.Department, actorID); err != nil {
		return err
	}
	if err := s.departmentRepo.AddLocation(resource.Department, resource.Location); err != nil {
		return err
	}

	if resource.SerialNo == 0 {
		serial, err := s.resourceRepo.NextSerialNo()
		if err != nil {
			return err
		}
		resource.SerialNo = serial
	}
	if resource.ProcurementDate.IsZero() {
		resource.ProcurementDate = time.Now()
	}
	resource.CreatedBy = actorID
	resource.UpdatedBy = actorID

	if err := s.resourceRepo.Create(resource); err != nil {
		return err
	}

	if err := recomputeDepartmentStats(s.resourceRepo, s.departmentRepo, resource.Department, actorID); err != nil {
		log.Printf("Warning: failed to recompute stats for department %q: %v", resource.Department, err)
	}

	s.publish("resource_created", actorID,
		fmt.Sprintf("Added '%s' to %s / %s", resource.DeviceName, resource.Department, resource.Location),
		toPreview(*resource))
	return nil
}

func (s *resourceService) Update(id uuid.UUID, req *UpdateResourceRequest, actorID string) (*model.Resource, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	existing, err := s.resourceRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	oldDepartment := existing.Department

	if req.DeviceName != nil {
		existing.DeviceName = *req.DeviceName
	}
	if req.Quantity != nil {
		existing.Quantity = *req.Quantity
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Location != nil {
		existing.Location = *req.Location
	}
	if req.Cost != nil {
		existing.Cost = *req.Cost
	}
	if req.Department != nil {
		existing.Department = *req.Department
	}
	if req.ProcurementDate != nil {
		existing.ProcurementDate = *req.ProcurementDate
	}
	existing.UpdatedBy = actorID

	if req.Department != nil {
		if _, err := s.departmentRepo.EnsureExists(existing.Department, actorID); err != nil {
			return nil, err
		}
	}
	if req.Department != nil || req.Location != nil {
		if err := s.departmentRepo.AddLocation(existing.Department, existing.Location); err != nil {
			return nil, err
		}
	}

	if err := s.resourceRepo.Save(existing); err != nil {
		return nil, err
	}

	// The old department's cache must shrink when a record moves out of it.
	if err := recomputeDepartmentStats(s.resourceRepo, s.departmentRepo, oldDepartment, actorID); err != nil {
		log.Printf("Warning: failed to recompute stats for department %q: %v", oldDepartment, err)
	}
	if existing.Department != oldDepartment {
		if err := recomputeDepartmentStats(s.resourceRepo, s.departmentRepo, existing.Department, actorID); err != nil {
			log.Printf("Warning: failed to recompute stats for department %q: %v", existing.Department, err)
		}
	}

	s.publish("resource_updated", actorID,
		fmt.Sprintf("Updated '%s' in %s / %s", existing.DeviceName, existing.Department, existing.Location),
		toPreview(*existing))
	return existing, nil
}

func (s *resourceService) Delete(id uuid.UUID, actorID string) (*ResourcePreview, error) {
	existing, err := s.resourceRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if _, err := s.resourceRepo.DeleteByID(id, actorID); err != nil {
		return nil, err
	}

	if err := recomputeDepartmentStats(s.resourceRepo, s.departmentRepo, existing.Department, actorID); err != nil {
		log.Printf("Warning: failed to recompute stats for department %q: %v", existing.Department, err)
	}

	deleted := toPreview(*existing)
	s.publish("resource_deleted", actorID,
		fmt.Sprintf("Deleted '%s' from %s / %s", existing.DeviceName, existing.Department, existing.Location),
		deleted)
	return &deleted, nil
}

func (s *resourceService) Get(id uuid.UUID) (*model.Resource, error) {
	return s.resourceRepo.FindByID(id)
}
