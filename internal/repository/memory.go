package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go-campus-assets/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemoryResourceRepo is an in-memory ResourceRepository with the same
// observable semantics as the Postgres implementation. It backs the service
// tests and is usable as a throwaway store for local experiments.
type MemoryResourceRepo struct {
	mu        sync.RWMutex
	resources map[uuid.UUID]model.Resource
	deleted   map[uuid.UUID]model.Resource
	maxSerial int64
}

func NewMemoryResourceRepo() *MemoryResourceRepo {
	return &MemoryResourceRepo{
		resources: make(map[uuid.UUID]model.Resource),
		deleted:   make(map[uuid.UUID]model.Resource),
	}
}

func (r *MemoryResourceRepo) Create(resource *model.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(resource)
}

func (r *MemoryResourceRepo) CreateBatch(resources []*model.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resource := range resources {
		if err := r.insertLocked(resource); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryResourceRepo) insertLocked(resource *model.Resource) error {
	if resource.ID == uuid.Nil {
		resource.ID = uuid.New()
	}
	now := time.Now()
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = now
	}
	resource.UpdatedAt = now
	r.resources[resource.ID] = *resource
	if resource.SerialNo > r.maxSerial {
		r.maxSerial = resource.SerialNo
	}
	return nil
}

func (r *MemoryResourceRepo) FindByID(id uuid.UUID) (*model.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resource, ok := r.resources[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &resource, nil
}

func (r *MemoryResourceRepo) Save(resource *model.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resource.UpdatedAt = time.Now()
	r.resources[resource.ID] = *resource
	return nil
}

// DeleteByID mirrors the soft-delete contract: the record is stamped with the
// deleting actor, leaves the live set, and keeps its serial reserved.
func (r *MemoryResourceRepo) DeleteByID(id uuid.UUID, deletedBy string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resource, ok := r.resources[id]
	if !ok {
		return 0, nil
	}
	resource.DeletedBy = deletedBy
	resource.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.deleted[id] = resource
	delete(r.resources, id)
	return 1, nil
}

func (r *MemoryResourceRepo) FindByCriteria(criteria DeletionCriteria) ([]model.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []model.Resource
	for _, resource := range r.resources {
		if resource.Department != criteria.Department ||
			resource.Location != criteria.Location ||
			resource.DeviceName != criteria.DeviceName {
			continue
		}
		if criteria.Quantity != nil && resource.Quantity != *criteria.Quantity {
			continue
		}
		matches = append(matches, resource)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].SerialNo < matches[j].SerialNo })
	return matches, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesFilter(resource model.Resource, f SearchFilter) bool {
	for _, term := range f.Terms() {
		if !containsFold(resource.DeviceName, term) &&
			!containsFold(resource.Description, term) &&
			!containsFold(resource.Location, term) &&
			!containsFold(resource.Department, term) {
			return false
		}
	}
	if f.Department != "" && resource.Department != f.Department {
		return false
	}
	if f.Location != "" && resource.Location != f.Location {
		return false
	}
	if f.DeviceType != "" && !containsFold(resource.DeviceName, f.DeviceType) {
		return false
	}
	if f.CostRange.Min != nil && resource.Cost < *f.CostRange.Min {
		return false
	}
	if f.CostRange.Max != nil && resource.Cost > *f.CostRange.Max {
		return false
	}
	if f.QuantityRange.Min != nil && resource.Quantity < *f.QuantityRange.Min {
		return false
	}
	if f.QuantityRange.Max != nil && resource.Quantity > *f.QuantityRange.Max {
		return false
	}
	if f.DateRange.Start != nil && resource.ProcurementDate.Before(*f.DateRange.Start) {
		return false
	}
	if f.DateRange.End != nil && resource.ProcurementDate.After(*f.DateRange.End) {
		return false
	}
	return true
}

func (r *MemoryResourceRepo) matched(f SearchFilter) []model.Resource {
	var matches []model.Resource
	for _, resource := range r.resources {
		if matchesFilter(resource, f) {
			matches = append(matches, resource)
		}
	}
	return matches
}

func sortResources(resources []model.Resource, field string, desc bool) {
	less := func(a, b model.Resource) bool {
		switch SortColumn(field) {
		case "device_name":
			return a.DeviceName < b.DeviceName
		case "location":
			return a.Location < b.Location
		case "department":
			return a.Department < b.Department
		case "quantity":
			return a.Quantity < b.Quantity
		case "cost":
			return a.Cost < b.Cost
		case "description":
			return a.Description < b.Description
		case "procurement_date":
			return a.ProcurementDate.Before(b.ProcurementDate)
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.SerialNo < b.SerialNo
		}
	}
	sort.SliceStable(resources, func(i, j int) bool {
		if desc {
			return less(resources[j], resources[i])
		}
		return less(resources[i], resources[j])
	})
}

func (r *MemoryResourceRepo) Search(filter SearchFilter) ([]model.Resource, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.matched(filter)
	total := int64(len(matches))
	sortResources(matches, filter.SortBy, filter.SortOrder == "desc")

	offset := (filter.Page - 1) * filter.PerPage
	if offset >= len(matches) {
		return []model.Resource{}, total, nil
	}
	end := offset + filter.PerPage
	if end > len(matches) {
		end = len(matches)
	}
	page := make([]model.Resource, end-offset)
	copy(page, matches[offset:end])
	return page, total, nil
}

func (r *MemoryResourceRepo) Summarize(filter SearchFilter) (*SearchSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.matched(filter)
	summary := &SearchSummary{}
	departments := map[string]struct{}{}
	locations := map[string]struct{}{}
	devices := map[string]struct{}{}

	var costSum float64
	for _, resource := range matches {
		summary.TotalCost += resource.Cost * float64(resource.Quantity)
		summary.TotalQuantity += int64(resource.Quantity)
		costSum += resource.Cost
		departments[resource.Department] = struct{}{}
		locations[resource.Location] = struct{}{}
		devices[resource.DeviceName] = struct{}{}
	}
	if len(matches) > 0 {
		summary.AverageCost = costSum / float64(len(matches))
	}
	summary.DepartmentsCount = int64(len(departments))
	summary.LocationsCount = int64(len(locations))
	summary.DeviceTypesCount = int64(len(devices))
	return summary, nil
}

func (r *MemoryResourceRepo) GroupByDepartment() ([]DepartmentGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type acc struct {
		quantity  int64
		cost      float64
		devices   map[string]struct{}
		locations map[string]struct{}
	}
	byName := map[string]*acc{}
	for _, resource := range r.resources {
		a, ok := byName[resource.Department]
		if !ok {
			a = &acc{devices: map[string]struct{}{}, locations: map[string]struct{}{}}
			byName[resource.Department] = a
		}
		a.quantity += int64(resource.Quantity)
		a.cost += resource.Cost * float64(resource.Quantity)
		a.devices[resource.DeviceName] = struct{}{}
		a.locations[resource.Location] = struct{}{}
	}

	groups := make([]DepartmentGroup, 0, len(byName))
	for name, a := range byName {
		groups = append(groups, DepartmentGroup{
			Name:                 name,
			ResourceCount:        a.quantity,
			TotalCost:            a.cost,
			UniqueDevicesCount:   int64(len(a.devices)),
			UniqueLocationsCount: int64(len(a.locations)),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (r *MemoryResourceRepo) GroupByLocation(department string) ([]LocationGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type acc struct {
		quantity int64
		cost     float64
		devices  map[string]struct{}
		entries  int64
	}
	byName := map[string]*acc{}
	for _, resource := range r.resources {
		if resource.Department != department {
			continue
		}
		a, ok := byName[resource.Location]
		if !ok {
			a = &acc{devices: map[string]struct{}{}}
			byName[resource.Location] = a
		}
		a.quantity += int64(resource.Quantity)
		a.cost += resource.Cost * float64(resource.Quantity)
		a.devices[resource.DeviceName] = struct{}{}
		a.entries++
	}

	groups := make([]LocationGroup, 0, len(byName))
	for name, a := range byName {
		groups = append(groups, LocationGroup{
			Name:             name,
			ResourceCount:    a.quantity,
			TotalCost:        a.cost,
			DeviceTypesCount: int64(len(a.devices)),
			ResourceEntries:  a.entries,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (r *MemoryResourceRepo) GroupByDevice(department, location string) ([]DeviceGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type acc struct {
		quantity int64
		cost     float64
		costSum  float64
		entries  int64
	}
	byName := map[string]*acc{}
	for _, resource := range r.resources {
		if resource.Department != department || resource.Location != location {
			continue
		}
		a, ok := byName[resource.DeviceName]
		if !ok {
			a = &acc{}
			byName[resource.DeviceName] = a
		}
		a.quantity += int64(resource.Quantity)
		a.cost += resource.Cost * float64(resource.Quantity)
		a.costSum += resource.Cost
		a.entries++
	}

	groups := make([]DeviceGroup, 0, len(byName))
	for name, a := range byName {
		groups = append(groups, DeviceGroup{
			DeviceName:      name,
			TotalQuantity:   a.quantity,
			TotalCost:       a.cost,
			AverageCost:     a.costSum / float64(a.entries),
			ResourceEntries: a.entries,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].DeviceName < groups[j].DeviceName })
	return groups, nil
}

func (r *MemoryResourceRepo) DepartmentAggregate(department string) (*DepartmentAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agg := &DepartmentAggregate{}
	devices := map[string]struct{}{}
	locations := map[string]struct{}{}
	for _, resource := range r.resources {
		if resource.Department != department {
			continue
		}
		agg.ResourceCount += int64(resource.Quantity)
		agg.TotalCost += resource.Cost * float64(resource.Quantity)
		devices[resource.DeviceName] = struct{}{}
		locations[resource.Location] = struct{}{}
	}
	agg.UniqueDevicesCount = int64(len(devices))
	agg.UniqueLocationsCount = int64(len(locations))
	return agg, nil
}

func (r *MemoryResourceRepo) distinct(department string, key func(model.Resource) string) []string {
	set := map[string]struct{}{}
	for _, resource := range r.resources {
		if resource.Department == department {
			set[key(resource)] = struct{}{}
		}
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func (r *MemoryResourceRepo) DistinctLocations(department string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.distinct(department, func(res model.Resource) string { return res.Location }), nil
}

func (r *MemoryResourceRepo) DistinctDeviceNames(department string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.distinct(department, func(res model.Resource) string { return res.DeviceName }), nil
}

func (r *MemoryResourceRepo) topBy(key func(model.Resource) string, limit int) []TopGroup {
	type acc struct {
		quantity int64
		cost     float64
	}
	byName := map[string]*acc{}
	for _, resource := range r.resources {
		name := key(resource)
		a, ok := byName[name]
		if !ok {
			a = &acc{}
			byName[name] = a
		}
		a.quantity += int64(resource.Quantity)
		a.cost += resource.Cost * float64(resource.Quantity)
	}

	groups := make([]TopGroup, 0, len(byName))
	for name, a := range byName {
		groups = append(groups, TopGroup{Name: name, ResourceCount: a.quantity, TotalCost: a.cost})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].ResourceCount != groups[j].ResourceCount {
			return groups[i].ResourceCount > groups[j].ResourceCount
		}
		return groups[i].Name < groups[j].Name
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

func (r *MemoryResourceRepo) TopDepartments(limit int) ([]TopGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.topBy(func(res model.Resource) string { return res.Department }, limit), nil
}

func (r *MemoryResourceRepo) TopLocations(limit int) ([]TopGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.topBy(func(res model.Resource) string { return res.Location }, limit), nil
}

func (r *MemoryResourceRepo) TopDevices(limit int) ([]TopGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.topBy(func(res model.Resource) string { return res.DeviceName }, limit), nil
}

func (r *MemoryResourceRepo) Totals() (*OverviewTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	totals := &OverviewTotals{}
	for _, resource := range r.resources {
		totals.TotalEntries++
		totals.TotalQuantity += int64(resource.Quantity)
		totals.TotalValue += resource.Cost * float64(resource.Quantity)
	}
	return totals, nil
}

func (r *MemoryResourceRepo) CountCreatedSince(since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, resource := range r.resources {
		if !resource.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryResourceRepo) NextSerialNo() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxSerial + 1, nil
}

// MemoryDepartmentRepo is the in-memory DepartmentRepository counterpart.
type MemoryDepartmentRepo struct {
	mu          sync.RWMutex
	departments map[string]model.Department
}

func NewMemoryDepartmentRepo() *MemoryDepartmentRepo {
	return &MemoryDepartmentRepo{departments: make(map[string]model.Department)}
}

func (r *MemoryDepartmentRepo) FindAll() ([]model.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	departments := make([]model.Department, 0, len(r.departments))
	for _, d := range r.departments {
		departments = append(departments, d)
	}
	sort.Slice(departments, func(i, j int) bool { return departments[i].Name < departments[j].Name })
	return departments, nil
}

func (r *MemoryDepartmentRepo) FindByName(name string) (*model.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	department, ok := r.departments[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &department, nil
}

func (r *MemoryDepartmentRepo) Create(department *model.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}
	r.departments[department.Name] = *department
	return nil
}

func (r *MemoryDepartmentRepo) EnsureExists(name, actor string) (*model.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if department, ok := r.departments[name]; ok {
		return &department, nil
	}
	department := model.Department{Name: name, Locations: []string{}}
	department.ID = uuid.New()
	department.CreatedBy = actor
	department.UpdatedBy = actor
	r.departments[name] = department
	return &department, nil
}

func (r *MemoryDepartmentRepo) AddLocation(name, location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	department, ok := r.departments[name]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !department.HasLocation(location) {
		department.Locations = append(department.Locations, location)
		r.departments[name] = department
	}
	return nil
}

func (r *MemoryDepartmentRepo) UpsertStats(name string, agg DepartmentAggregate, actor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	department, ok := r.departments[name]
	if !ok {
		department = model.Department{Name: name, Locations: []string{}}
		department.ID = uuid.New()
		department.CreatedBy = actor
	}
	department.ResourceCount = agg.ResourceCount
	department.TotalCost = agg.TotalCost
	department.UniqueDevicesCount = agg.UniqueDevicesCount
	department.UniqueLocationsCount = agg.UniqueLocationsCount
	department.UpdatedBy = actor
	r.departments[name] = department
	return nil
}

// MemoryUserRepo is the in-memory UserRepository counterpart.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[uuid.UUID]model.User)}
}

func (r *MemoryUserRepo) FindByEmail(email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepo) Update(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = hashedPassword
	r.users[userID] = user
	return nil
}
