package service

import (
	"testing"

	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResourceFixture(t *testing.T) (ResourceService, *repository.MemoryResourceRepo, *repository.MemoryDepartmentRepo) {
	t.Helper()
	resources := repository.NewMemoryResourceRepo()
	departments := repository.NewMemoryDepartmentRepo()
	return NewResourceService(resources, departments, nil), resources, departments
}

func TestCreateAssignsSerialAndRegistersDepartment(t *testing.T) {
	svc, resources, departments := newResourceFixture(t)
	seedResource(t, resources, 41, "Existing Scanner", 1, "Office", "Administration", 12000)

	resource := &model.Resource{
		DeviceName: "3D Printer",
		Quantity:   2,
		Location:   "Maker Lab",
		Cost:       80000,
		Department: "Mechanical",
	}
	require.NoError(t, svc.Create(resource, "admin-1"))

	// Serial continues past the global maximum, audit fields are stamped, and
	// a missing procurement date defaults instead of failing.
	assert.Equal(t, int64(42), resource.SerialNo)
	assert.Equal(t, "admin-1", resource.CreatedBy)
	assert.False(t, resource.ProcurementDate.IsZero())

	department, err := departments.FindByName("Mechanical")
	require.NoError(t, err)
	assert.True(t, department.HasLocation("Maker Lab"))
	assert.Equal(t, int64(2), department.ResourceCount)
	assert.Equal(t, 160000.0, department.TotalCost)
}

func TestCreateRejectsInvalidResource(t *testing.T) {
	svc, resources, _ := newResourceFixture(t)

	err := svc.Create(&model.Resource{
		DeviceName: "X",
		Quantity:   0,
		Location:   "Lab",
		Department: "Physics",
	}, "admin-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	totals, err := resources.Totals()
	require.NoError(t, err)
	assert.Zero(t, totals.TotalEntries)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, resources, departments := newResourceFixture(t)
	seeded := seedResource(t, resources, 1, "Router R1", 4, "Rack Room", "Networking", 9000)
	_, err := departments.EnsureExists("Networking", "system")
	require.NoError(t, err)

	updated, err := svc.Update(seeded.ID, &UpdateResourceRequest{
		Quantity: intPtr(6),
		Cost:     floatPtr(9500),
	}, "admin-2")
	require.NoError(t, err)

	assert.Equal(t, 6, updated.Quantity)
	assert.Equal(t, 9500.0, updated.Cost)
	assert.Equal(t, "Router R1", updated.DeviceName)
	assert.Equal(t, "admin-2", updated.UpdatedBy)

	department, err := departments.FindByName("Networking")
	require.NoError(t, err)
	assert.Equal(t, int64(6), department.ResourceCount)
}

func TestUpdateMovingDepartmentRecomputesBoth(t *testing.T) {
	svc, resources, departments := newResourceFixture(t)
	seeded := seedResource(t, resources, 1, "Spectrometer", 1, "Lab 3", "Chemistry", 150000)
	seedResource(t, resources, 2, "Centrifuge", 1, "Lab 3", "Chemistry", 60000)
	_, err := departments.EnsureExists("Chemistry", "system")
	require.NoError(t, err)

	_, err = svc.Update(seeded.ID, &UpdateResourceRequest{
		Department: strPtr("Biotech"),
		Location:   strPtr("Lab 7"),
	}, "admin-1")
	require.NoError(t, err)

	chemistry, err := departments.FindByName("Chemistry")
	require.NoError(t, err)
	assert.Equal(t, int64(1), chemistry.ResourceCount)
	assert.Equal(t, 60000.0, chemistry.TotalCost)

	biotech, err := departments.FindByName("Biotech")
	require.NoError(t, err)
	assert.True(t, biotech.HasLocation("Lab 7"))
	assert.Equal(t, int64(1), biotech.ResourceCount)
	assert.Equal(t, 150000.0, biotech.TotalCost)
}

func TestDeleteRemovesAndRecomputes(t *testing.T) {
	svc, resources, departments := newResourceFixture(t)
	seeded := seedResource(t, resources, 1, "Workstation", 3, "Lab 1", "Design", 55000)
	seedResource(t, resources, 2, "Plotter", 1, "Lab 1", "Design", 40000)
	_, err := departments.EnsureExists("Design", "system")
	require.NoError(t, err)

	deleted, err := svc.Delete(seeded.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "Workstation", deleted.DeviceName)
	assert.Equal(t, 165000.0, deleted.TotalValue)

	totals, err := resources.Totals()
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.TotalEntries)

	department, err := departments.FindByName("Design")
	require.NoError(t, err)
	assert.Equal(t, int64(1), department.ResourceCount)
	assert.Equal(t, 40000.0, department.TotalCost)
}
