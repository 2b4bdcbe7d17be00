package service

import (
	"time"

	"go-campus-assets/internal/repository"
)

// DeviceNode is a device tier entry plus the per-record breakdown, since a
// device name may be backed by more than one record.
type DeviceNode struct {
	repository.DeviceGroup
	Resources []ResourcePreview `json:"resources"`
}

// DepartmentOption is one department in the filter-options structure:
// the distinct location and device sets plus live aggregates.
type DepartmentOption struct {
	Name        string                `json:"name"`
	Locations   []string              `json:"locations"`
	DeviceTypes []string              `json:"device_types"`
	Stats       DepartmentOptionStats `json:"stats"`
}

type DepartmentOptionStats struct {
	TotalResources int64   `json:"total_resources"`
	TotalCost      float64 `json:"total_cost"`
	UniqueDevices  int64   `json:"unique_devices"`
	LocationsCount int64   `json:"locations_count"`
}

type FilterOptions struct {
	Departments []DepartmentOption `json:"departments"`
	Summary     FilterSummary      `json:"summary"`
}

type FilterSummary struct {
	TotalDepartments int `json:"total_departments"`
	TotalLocations   int `json:"total_locations"`
	TotalDeviceTypes int `json:"total_device_types"`
}

type QuickFilters struct {
	TopDepartments  []repository.TopGroup `json:"top_departments"`
	TopLocations    []repository.TopGroup `json:"top_locations"`
	TopDevices      []repository.TopGroup `json:"top_devices"`
	RecentAdditions int64                 `json:"recent_additions"`
}

// HierarchyService builds the three-tier department -> location -> device
// navigation structure on demand. Nothing is cached across requests: every
// call re-aggregates the flat record set, trading a query per read for a
// structure that can never go stale.
type HierarchyService interface {
	DepartmentTier() ([]repository.DepartmentGroup, error)
	LocationTier(department string) ([]repository.LocationGroup, error)
	DeviceTier(department, location string) ([]DeviceNode, error)
	FilterOptions() (*FilterOptions, error)
	QuickFilters() (*QuickFilters, error)
}

type hierarchyService struct {
	resourceRepo   repository.ResourceRepository
	departmentRepo repository.DepartmentRepository
}

func NewHierarchyService(rRepo repository.ResourceRepository, dRepo repository.DepartmentRepository) HierarchyService {
	return &hierarchyService{resourceRepo: rRepo, departmentRepo: dRepo}
}

// DepartmentTier returns one node per department that owns at least one
// resource record, sorted by name. The resource collection is the source of
// truth here; the registered department list is not consulted.
func (s *hierarchyService) DepartmentTier() ([]repository.DepartmentGroup, error) {
	groups, err := s.resourceRepo.GroupByDepartment()
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []repository.DepartmentGroup{}
	}
	return groups, nil
}

// LocationTier groups a department's resources by location. An unknown or
// empty department yields an empty list, not an error; callers that need to
// distinguish "no data" from "no such department" check the department
// registry separately.
func (s *hierarchyService) LocationTier(department string) ([]repository.LocationGroup, error) {
	groups, err := s.resourceRepo.GroupByLocation(department)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []repository.LocationGroup{}
	}
	return groups, nil
}

// DeviceTier groups the (department, location) slice by device name and
// attaches the underlying records, which may number more than one per name.
func (s *hierarchyService) DeviceTier(department, location string) ([]DeviceNode, error) {
	groups, err := s.resourceRepo.GroupByDevice(department, location)
	if err != nil {
		return nil, err
	}

	nodes := make([]DeviceNode, 0, len(groups))
	for _, group := range groups {
		records, err := s.resourceRepo.FindByCriteria(repository.DeletionCriteria{
			Department: department,
			Location:   location,
			DeviceName: group.DeviceName,
		})
		if err != nil {
			return nil, err
		}
		previews := make([]ResourcePreview, 0, len(records))
		for _, record := range records {
			previews = append(previews, toPreview(record))
		}
		nodes = append(nodes, DeviceNode{DeviceGroup: group, Resources: previews})
	}
	return nodes, nil
}

// FilterOptions lists every known department with its distinct locations,
// device types, and live stats. Departments registered without resources
// appear with empty sets; departments that only exist as resource rows are
// included as well, since resources are the source of truth for data.
func (s *hierarchyService) FilterOptions() (*FilterOptions, error) {
	registered, err := s.departmentRepo.FindAll()
	if err != nil {
		return nil, err
	}
	groups, err := s.resourceRepo.GroupByDepartment()
	if err != nil {
		return nil, err
	}

	statsByName := make(map[string]repository.DepartmentGroup, len(groups))
	names := make([]string, 0, len(registered)+len(groups))
	seen := make(map[string]bool)
	for _, department := range registered {
		names = append(names, department.Name)
		seen[department.Name] = true
	}
	for _, group := range groups {
		statsByName[group.Name] = group
		if !seen[group.Name] {
			names = append(names, group.Name)
			seen[group.Name] = true
		}
	}

	options := make([]DepartmentOption, 0, len(names))
	deviceSet := make(map[string]bool)
	totalLocations := 0
	for _, name := range names {
		locations, err := s.resourceRepo.DistinctLocations(name)
		if err != nil {
			return nil, err
		}
		devices, err := s.resourceRepo.DistinctDeviceNames(name)
		if err != nil {
			return nil, err
		}

		group := statsByName[name]
		options = append(options, DepartmentOption{
			Name:        name,
			Locations:   locations,
			DeviceTypes: devices,
			Stats: DepartmentOptionStats{
				TotalResources: group.ResourceCount,
				TotalCost:      group.TotalCost,
				UniqueDevices:  group.UniqueDevicesCount,
				LocationsCount: int64(len(locations)),
			},
		})
		totalLocations += len(locations)
		for _, device := range devices {
			deviceSet[device] = true
		}
	}

	return &FilterOptions{
		Departments: options,
		Summary: FilterSummary{
			TotalDepartments: len(options),
			TotalLocations:   totalLocations,
			TotalDeviceTypes: len(deviceSet),
		},
	}, nil
}

func (s *hierarchyService) QuickFilters() (*QuickFilters, error) {
	topDepartments, err := s.resourceRepo.TopDepartments(5)
	if err != nil {
		return nil, err
	}
	topLocations, err := s.resourceRepo.TopLocations(10)
	if err != nil {
		return nil, err
	}
	topDevices, err := s.resourceRepo.TopDevices(10)
	if err != nil {
		return nil, err
	}
	recent, err := s.resourceRepo.CountCreatedSince(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &QuickFilters{
		TopDepartments:  topDepartments,
		TopLocations:    topLocations,
		TopDevices:      topDevices,
		RecentAdditions: recent,
	}, nil
}
