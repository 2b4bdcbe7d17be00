package repository

import (
	"strings"
	"time"

	"go-campus-assets/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeletionCriteria is the tuple a caller uses to identify a deletion target.
// Department, location, and device name are matched exactly (case-sensitive);
// quantity is an optional extra key for disambiguation.
type DeletionCriteria struct {
	Department string `json:"department" validate:"required"`
	Location   string `json:"location" validate:"required"`
	DeviceName string `json:"device_name" validate:"required"`
	Quantity   *int   `json:"quantity,omitempty" validate:"omitempty,gt=0"`
}

// CostRange / QuantityRange / DateRange are inclusive bounds; either end may
// be left open.
type CostRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type QuantityRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// SearchFilter is the multi-predicate query for the advanced search engine.
// Query terms are whitespace-separated, AND-combined, each term OR-matched
// case-insensitively against device_name, description, location, department.
type SearchFilter struct {
	Query         string        `json:"query"`
	Department    string        `json:"department"`
	Location      string        `json:"location"`
	DeviceType    string        `json:"device_type"`
	CostRange     CostRange     `json:"cost_range"`
	QuantityRange QuantityRange `json:"quantity_range"`
	DateRange     DateRange     `json:"date_range"`

	Page      int    `json:"page"`
	PerPage   int    `json:"per_page"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// Terms splits the free-text query into non-empty search terms.
func (f SearchFilter) Terms() []string {
	return strings.Fields(f.Query)
}

// Grouping rows produced by the hierarchy aggregations.
type DepartmentGroup struct {
	Name                 string  `json:"name"`
	ResourceCount        int64   `json:"resource_count"`
	TotalCost            float64 `json:"total_cost"`
	UniqueDevicesCount   int64   `json:"unique_devices_count"`
	UniqueLocationsCount int64   `json:"unique_locations_count"`
}

type LocationGroup struct {
	Name             string  `json:"name"`
	ResourceCount    int64   `json:"resource_count"`
	TotalCost        float64 `json:"total_cost"`
	DeviceTypesCount int64   `json:"device_types_count"`
	ResourceEntries  int64   `json:"resource_entries"`
}

type DeviceGroup struct {
	DeviceName      string  `json:"device_name"`
	TotalQuantity   int64   `json:"total_quantity"`
	TotalCost       float64 `json:"total_cost"`
	AverageCost     float64 `json:"average_cost"`
	ResourceEntries int64   `json:"resource_entries"`
}

// DepartmentAggregate backs the recompute-from-source stats cache.
type DepartmentAggregate struct {
	ResourceCount        int64   `json:"resource_count"`
	TotalCost            float64 `json:"total_cost"`
	UniqueDevicesCount   int64   `json:"unique_devices_count"`
	UniqueLocationsCount int64   `json:"unique_locations_count"`
}

// SearchSummary aggregates the entire matched set of a search, not just the
// requested page.
type SearchSummary struct {
	TotalCost        float64 `json:"total_cost"`
	TotalQuantity    int64   `json:"total_quantity"`
	AverageCost      float64 `json:"average_cost"`
	DepartmentsCount int64   `json:"departments_count"`
	LocationsCount   int64   `json:"locations_count"`
	DeviceTypesCount int64   `json:"device_types_count"`
}

// TopGroup is one row of the quick-filter top-N listings.
type TopGroup struct {
	Name          string  `json:"name"`
	ResourceCount int64   `json:"resource_count"`
	TotalCost     float64 `json:"total_cost"`
}

// OverviewTotals backs the dashboard overview.
type OverviewTotals struct {
	TotalEntries  int64   `json:"total_entries"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
}

type ResourceRepository interface {
	Create(resource *model.Resource) error
	CreateBatch(resources []*model.Resource) error
	FindByID(id uuid.UUID) (*model.Resource, error)
	Save(resource *model.Resource) error
	// DeleteByID removes a single record and reports the number of rows
	// affected. Zero rows is a valid outcome, not an error.
	DeleteByID(id uuid.UUID, deletedBy string) (int64, error)

	// FindByCriteria returns all records matching the deletion tuple,
	// ordered by serial number.
	FindByCriteria(criteria DeletionCriteria) ([]model.Resource, error)

	Search(filter SearchFilter) ([]model.Resource, int64, error)
	Summarize(filter SearchFilter) (*SearchSummary, error)

	GroupByDepartment() ([]DepartmentGroup, error)
	GroupByLocation(department string) ([]LocationGroup, error)
	GroupByDevice(department, location string) ([]DeviceGroup, error)
	DepartmentAggregate(department string) (*DepartmentAggregate, error)
	DistinctLocations(department string) ([]string, error)
	DistinctDeviceNames(department string) ([]string, error)

	TopDepartments(limit int) ([]TopGroup, error)
	TopLocations(limit int) ([]TopGroup, error)
	TopDevices(limit int) ([]TopGroup, error)
	Totals() (*OverviewTotals, error)
	CountCreatedSince(since time.Time) (int64, error)

	NextSerialNo() (int64, error)
}

// sortColumns whitelists the fields a caller may sort by.
var sortColumns = map[string]string{
	"sl_no":            "serial_no",
	"serial_no":        "serial_no",
	"device_name":      "device_name",
	"location":         "location",
	"department":       "department",
	"quantity":         "quantity",
	"cost":             "cost",
	"description":      "description",
	"procurement_date": "procurement_date",
	"created_at":       "created_at",
	"updated_at":       "updated_at",
}

// SortColumn resolves a requested sort field to a storage column, falling
// back to serial number order for unknown fields.
func SortColumn(field string) string {
	if col, ok := sortColumns[field]; ok {
		return col
	}
	return "serial_no"
}

type resourceRepo struct {
	db *gorm.DB
}

func NewResourceRepo(db *gorm.DB) ResourceRepository {
	return &resourceRepo{db}
}

func (r *resourceRepo) Create(resource *model.Resource) error {
	return r.db.Create(resource).Error
}

func (r *resourceRepo) CreateBatch(resources []*model.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	return r.db.Create(resources).Error
}

func (r *resourceRepo) FindByID(id uuid.UUID) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.First(&resource, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepo) Save(resource *model.Resource) error {
	return r.db.Save(resource).Error
}

func (r *resourceRepo) DeleteByID(id uuid.UUID, deletedBy string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Resource{}).Where("id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Resource{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

func (r *resourceRepo) FindByCriteria(criteria DeletionCriteria) ([]model.Resource, error) {
	q := r.db.Where("department = ? AND location = ? AND device_name = ?",
		criteria.Department, criteria.Location, criteria.DeviceName)
	if criteria.Quantity != nil {
		q = q.Where("quantity = ?", *criteria.Quantity)
	}
	var resources []model.Resource
	err := q.Order("serial_no ASC").Find(&resources).Error
	return resources, err
}

// applyFilter translates a SearchFilter into WHERE clauses. Each free-text
// term expands to an OR across the four searchable fields; terms and the
// categorical/range predicates are AND-combined.
func (r *resourceRepo) applyFilter(q *gorm.DB, f SearchFilter) *gorm.DB {
	for _, term := range f.Terms() {
		pattern := "%" + term + "%"
		q = q.Where("device_name ILIKE ? OR description ILIKE ? OR location ILIKE ? OR department ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.DeviceType != "" {
		q = q.Where("device_name ILIKE ?", "%"+f.DeviceType+"%")
	}
	if f.CostRange.Min != nil {
		q = q.Where("cost >= ?", *f.CostRange.Min)
	}
	if f.CostRange.Max != nil {
		q = q.Where("cost <= ?", *f.CostRange.Max)
	}
	if f.QuantityRange.Min != nil {
		q = q.Where("quantity >= ?", *f.QuantityRange.Min)
	}
	if f.QuantityRange.Max != nil {
		q = q.Where("quantity <= ?", *f.QuantityRange.Max)
	}
	if f.DateRange.Start != nil {
		q = q.Where("procurement_date >= ?", *f.DateRange.Start)
	}
	if f.DateRange.End != nil {
		q = q.Where("procurement_date <= ?", *f.DateRange.End)
	}
	return q
}

func (r *resourceRepo) Search(filter SearchFilter) ([]model.Resource, int64, error) {
	base := r.applyFilter(r.db.Model(&model.Resource{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := SortColumn(filter.SortBy)
	if filter.SortOrder == "desc" {
		order += " DESC"
	} else {
		order += " ASC"
	}

	offset := (filter.Page - 1) * filter.PerPage
	var resources []model.Resource
	err := r.applyFilter(r.db.Model(&model.Resource{}), filter).
		Order(order).
		Offset(offset).
		Limit(filter.PerPage).
		Find(&resources).Error
	return resources, total, err
}

func (r *resourceRepo) Summarize(filter SearchFilter) (*SearchSummary, error) {
	var summary SearchSummary
	row := r.applyFilter(r.db.Model(&model.Resource{}), filter).
		Select(`
			COALESCE(SUM(cost * quantity), 0) as total_cost,
			COALESCE(SUM(quantity), 0) as total_quantity,
			COALESCE(AVG(cost), 0) as average_cost,
			COUNT(DISTINCT department) as departments_count,
			COUNT(DISTINCT location) as locations_count,
			COUNT(DISTINCT device_name) as device_types_count
		`).Row()
	if err := row.Scan(&summary.TotalCost, &summary.TotalQuantity, &summary.AverageCost,
		&summary.DepartmentsCount, &summary.LocationsCount, &summary.DeviceTypesCount); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *resourceRepo) GroupByDepartment() ([]DepartmentGroup, error) {
	var groups []DepartmentGroup
	rows, err := r.db.Model(&model.Resource{}).
		Select(`
			department as name,
			COALESCE(SUM(quantity), 0) as resource_count,
			COALESCE(SUM(cost * quantity), 0) as total_cost,
			COUNT(DISTINCT device_name) as unique_devices_count,
			COUNT(DISTINCT location) as unique_locations_count
		`).
		Group("department").
		Order("department ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var g DepartmentGroup
		if err := rows.Scan(&g.Name, &g.ResourceCount, &g.TotalCost,
			&g.UniqueDevicesCount, &g.UniqueLocationsCount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *resourceRepo) GroupByLocation(department string) ([]LocationGroup, error) {
	var groups []LocationGroup
	rows, err := r.db.Model(&model.Resource{}).
		Select(`
			location as name,
			COALESCE(SUM(quantity), 0) as resource_count,
			COALESCE(SUM(cost * quantity), 0) as total_cost,
			COUNT(DISTINCT device_name) as device_types_count,
			COUNT(*) as resource_entries
		`).
		Where("department = ?", department).
		Group("location").
		Order("location ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var g LocationGroup
		if err := rows.Scan(&g.Name, &g.ResourceCount, &g.TotalCost,
			&g.DeviceTypesCount, &g.ResourceEntries); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *resourceRepo) GroupByDevice(department, location string) ([]DeviceGroup, error) {
	var groups []DeviceGroup
	rows, err := r.db.Model(&model.Resource{}).
		Select(`
			device_name,
			COALESCE(SUM(quantity), 0) as total_quantity,
			COALESCE(SUM(cost * quantity), 0) as total_cost,
			COALESCE(AVG(cost), 0) as average_cost,
			COUNT(*) as resource_entries
		`).
		Where("department = ? AND location = ?", department, location).
		Group("device_name").
		Order("device_name ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var g DeviceGroup
		if err := rows.Scan(&g.DeviceName, &g.TotalQuantity, &g.TotalCost,
			&g.AverageCost, &g.ResourceEntries); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *resourceRepo) DepartmentAggregate(department string) (*DepartmentAggregate, error) {
	var agg DepartmentAggregate
	row := r.db.Model(&model.Resource{}).
		Select(`
			COALESCE(SUM(quantity), 0) as resource_count,
			COALESCE(SUM(cost * quantity), 0) as total_cost,
			COUNT(DISTINCT device_name) as unique_devices_count,
			COUNT(DISTINCT location) as unique_locations_count
		`).
		Where("department = ?", department).
		Row()
	if err := row.Scan(&agg.ResourceCount, &agg.TotalCost,
		&agg.UniqueDevicesCount, &agg.UniqueLocationsCount); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *resourceRepo) DistinctLocations(department string) ([]string, error) {
	var locations []string
	err := r.db.Model(&model.Resource{}).
		Where("department = ?", department).
		Distinct("location").
		Order("location ASC").
		Pluck("location", &locations).Error
	return locations, err
}

func (r *resourceRepo) DistinctDeviceNames(department string) ([]string, error) {
	var devices []string
	err := r.db.Model(&model.Resource{}).
		Where("department = ?", department).
		Distinct("device_name").
		Order("device_name ASC").
		Pluck("device_name", &devices).Error
	return devices, err
}

func (r *resourceRepo) topBy(column string, limit int) ([]TopGroup, error) {
	var groups []TopGroup
	rows, err := r.db.Model(&model.Resource{}).
		Select(column + ` as name,
			COALESCE(SUM(quantity), 0) as resource_count,
			COALESCE(SUM(cost * quantity), 0) as total_cost`).
		Group(column).
		Order("resource_count DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var g TopGroup
		if err := rows.Scan(&g.Name, &g.ResourceCount, &g.TotalCost); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *resourceRepo) TopDepartments(limit int) ([]TopGroup, error) {
	return r.topBy("department", limit)
}

func (r *resourceRepo) TopLocations(limit int) ([]TopGroup, error) {
	return r.topBy("location", limit)
}

func (r *resourceRepo) TopDevices(limit int) ([]TopGroup, error) {
	return r.topBy("device_name", limit)
}

func (r *resourceRepo) Totals() (*OverviewTotals, error) {
	var totals OverviewTotals
	row := r.db.Model(&model.Resource{}).
		Select(`
			COUNT(*) as total_entries,
			COALESCE(SUM(quantity), 0) as total_quantity,
			COALESCE(SUM(cost * quantity), 0) as total_value
		`).Row()
	if err := row.Scan(&totals.TotalEntries, &totals.TotalQuantity, &totals.TotalValue); err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *resourceRepo) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Resource{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// NextSerialNo assigns the global counter: max existing serial + 1.
// Soft-deleted rows keep their serial, so the scan is unscoped.
func (r *resourceRepo) NextSerialNo() (int64, error) {
	var max int64
	err := r.db.Unscoped().Model(&model.Resource{}).
		Select("COALESCE(MAX(serial_no), 0)").
		Scan(&max).Error
	return max + 1, err
}
