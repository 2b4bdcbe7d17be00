package repository

import (
	"errors"

	"go-campus-assets/internal/model"

	"gorm.io/gorm"
)

type DepartmentRepository interface {
	FindAll() ([]model.Department, error)
	FindByName(name string) (*model.Department, error)
	Create(department *model.Department) error
	// EnsureExists returns the department, creating it on first reference.
	EnsureExists(name, actor string) (*model.Department, error)
	AddLocation(name, location string) error
	// UpsertStats replaces the cached aggregates with freshly recomputed
	// values (recompute-from-source, never incremental).
	UpsertStats(name string, agg DepartmentAggregate, actor string) error
}

type departmentRepo struct {
	db *gorm.DB
}

func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db}
}

func (r *departmentRepo) FindAll() ([]model.Department, error) {
	var departments []model.Department
	err := r.db.Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *departmentRepo) FindByName(name string) (*model.Department, error) {
	var department model.Department
	if err := r.db.First(&department, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepo) Create(department *model.Department) error {
	return r.db.Create(department).Error
}

func (r *departmentRepo) EnsureExists(name, actor string) (*model.Department, error) {
	existing, err := r.FindByName(name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	department := &model.Department{
		Name:      name,
		Locations: []string{},
	}
	department.CreatedBy = actor
	department.UpdatedBy = actor
	if err := r.db.Create(department).Error; err != nil {
		return nil, err
	}
	return department, nil
}

func (r *departmentRepo) AddLocation(name, location string) error {
	department, err := r.FindByName(name)
	if err != nil {
		return err
	}
	if department.HasLocation(location) {
		return nil
	}
	department.Locations = append(department.Locations, location)
	return r.db.Model(department).Update("locations", department.Locations).Error
}

func (r *departmentRepo) UpsertStats(name string, agg DepartmentAggregate, actor string) error {
	updates := map[string]interface{}{
		"resource_count":         agg.ResourceCount,
		"total_cost":             agg.TotalCost,
		"unique_devices_count":   agg.UniqueDevicesCount,
		"unique_locations_count": agg.UniqueLocationsCount,
		"updated_by":             actor,
	}

	res := r.db.Model(&model.Department{}).Where("name = ?", name).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	department := &model.Department{
		Name:                 name,
		Locations:            []string{},
		ResourceCount:        agg.ResourceCount,
		TotalCost:            agg.TotalCost,
		UniqueDevicesCount:   agg.UniqueDevicesCount,
		UniqueLocationsCount: agg.UniqueLocationsCount,
	}
	department.CreatedBy = actor
	department.UpdatedBy = actor
	return r.db.Create(department).Error
}
