package service

import (
	"testing"
	"time"

	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHierarchyFixture(t *testing.T) (HierarchyService, *repository.MemoryResourceRepo, *repository.MemoryDepartmentRepo) {
	t.Helper()
	resources := repository.NewMemoryResourceRepo()
	departments := repository.NewMemoryDepartmentRepo()
	return NewHierarchyService(resources, departments), resources, departments
}

func TestDepartmentTierAggregates(t *testing.T) {
	svc, resources, _ := newHierarchyFixture(t)
	seedLabInventory(t, resources)

	groups, err := svc.DepartmentTier()
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Sorted by name.
	assert.Equal(t, "Computer Science", groups[0].Name)
	assert.Equal(t, "Electronics", groups[1].Name)

	cs := groups[0]
	// 5+10+5+2+3 units across the seeded Computer Science records.
	assert.Equal(t, int64(25), cs.ResourceCount)
	assert.Equal(t, 5*45000.0+10*45000.0+5*47000.0+2*30000.0+3*45000.0, cs.TotalCost)
	assert.Equal(t, int64(2), cs.UniqueDevicesCount)
	assert.Equal(t, int64(2), cs.UniqueLocationsCount)
}

func TestDepartmentTierEmptyStore(t *testing.T) {
	svc, _, _ := newHierarchyFixture(t)

	groups, err := svc.DepartmentTier()
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestLocationTierAggregates(t *testing.T) {
	svc, resources, _ := newHierarchyFixture(t)
	seedLabInventory(t, resources)

	groups, err := svc.LocationTier("Computer Science")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	labA := groups[0]
	assert.Equal(t, "Lab A", labA.Name)
	assert.Equal(t, int64(22), labA.ResourceCount)
	assert.Equal(t, int64(2), labA.DeviceTypesCount)
	assert.Equal(t, int64(4), labA.ResourceEntries)

	labB := groups[1]
	assert.Equal(t, "Lab B", labB.Name)
	assert.Equal(t, int64(3), labB.ResourceCount)
}

func TestLocationTierUnknownDepartment(t *testing.T) {
	svc, resources, _ := newHierarchyFixture(t)
	seedLabInventory(t, resources)

	groups, err := svc.LocationTier("Philosophy")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDeviceTierIncludesRecordBreakdown(t *testing.T) {
	svc, resources, _ := newHierarchyFixture(t)
	seedLabInventory(t, resources)

	nodes, err := svc.DeviceTier("Computer Science", "Lab A")
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	// Sorted by device name.
	dell := nodes[0]
	assert.Equal(t, "Dell Latitude 5520", dell.DeviceName)
	assert.Equal(t, int64(20), dell.TotalQuantity)
	assert.Equal(t, int64(3), dell.ResourceEntries)
	assert.InDelta(t, (45000.0+45000.0+47000.0)/3, dell.AverageCost, 0.001)
	require.Len(t, dell.Resources, 3)
	assert.Equal(t, int64(1), dell.Resources[0].SlNo)

	hp := nodes[1]
	assert.Equal(t, "HP LaserJet Pro", hp.DeviceName)
	require.Len(t, hp.Resources, 1)
}

func TestFilterOptionsIncludesRegisteredEmptyDepartment(t *testing.T) {
	svc, resources, departments := newHierarchyFixture(t)
	seedLabInventory(t, resources)
	require.NoError(t, departments.Create(&model.Department{Name: "Mathematics", Locations: []string{}}))

	options, err := svc.FilterOptions()
	require.NoError(t, err)
	require.Len(t, options.Departments, 3)
	assert.Equal(t, 3, options.Summary.TotalDepartments)

	byName := map[string]DepartmentOption{}
	for _, option := range options.Departments {
		byName[option.Name] = option
	}

	math, ok := byName["Mathematics"]
	require.True(t, ok)
	assert.Empty(t, math.Locations)
	assert.Empty(t, math.DeviceTypes)
	assert.Zero(t, math.Stats.TotalResources)

	cs, ok := byName["Computer Science"]
	require.True(t, ok)
	assert.Equal(t, []string{"Lab A", "Lab B"}, cs.Locations)
	assert.Equal(t, []string{"Dell Latitude 5520", "HP LaserJet Pro"}, cs.DeviceTypes)
	assert.Equal(t, int64(25), cs.Stats.TotalResources)

	assert.Equal(t, 3, options.Summary.TotalLocations)
	assert.Equal(t, 3, options.Summary.TotalDeviceTypes)
}

func TestQuickFilters(t *testing.T) {
	svc, resources, _ := newHierarchyFixture(t)
	seedLabInventory(t, resources)

	old := model.Resource{
		SerialNo:        100,
		DeviceName:      "Legacy Router",
		Quantity:        1,
		ProcurementDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Location:        "Store Room",
		Cost:            5000,
		Department:      "Electronics",
	}
	old.CreatedAt = time.Now().AddDate(0, 0, -90)
	require.NoError(t, resources.Create(&old))

	filters, err := svc.QuickFilters()
	require.NoError(t, err)

	require.NotEmpty(t, filters.TopDepartments)
	assert.Equal(t, "Computer Science", filters.TopDepartments[0].Name)
	assert.Equal(t, int64(25), filters.TopDepartments[0].ResourceCount)
	// Six seeded records are fresh; the backdated router is not.
	assert.Equal(t, int64(6), filters.RecentAdditions)
}
