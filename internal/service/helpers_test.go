package service

import (
	"testing"
	"time"

	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"

	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func seedResource(t *testing.T, repo *repository.MemoryResourceRepo, serial int64, device string, qty int, location, department string, cost float64) model.Resource {
	t.Helper()
	resource := model.Resource{
		SerialNo:        serial,
		DeviceName:      device,
		Quantity:        qty,
		Description:     device + " unit",
		ProcurementDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Location:        location,
		Cost:            cost,
		Department:      department,
	}
	require.NoError(t, repo.Create(&resource))
	return resource
}

// seedLabInventory builds the canonical three-record ambiguity case: three
// Dell Latitude entries in the same department and location, two of them
// sharing the same quantity.
func seedLabInventory(t *testing.T, repo *repository.MemoryResourceRepo) {
	t.Helper()
	seedResource(t, repo, 1, "Dell Latitude 5520", 5, "Lab A", "Computer Science", 45000)
	seedResource(t, repo, 2, "Dell Latitude 5520", 10, "Lab A", "Computer Science", 45000)
	seedResource(t, repo, 3, "Dell Latitude 5520", 5, "Lab A", "Computer Science", 47000)
	seedResource(t, repo, 4, "HP LaserJet Pro", 2, "Lab A", "Computer Science", 30000)
	seedResource(t, repo, 5, "Dell Latitude 5520", 3, "Lab B", "Computer Science", 45000)
	seedResource(t, repo, 6, "Oscilloscope DS1054Z", 4, "Lab A", "Electronics", 28000)
}
