package service

import (
	"fmt"
	"testing"
	"time"

	"go-campus-assets/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchFixture(t *testing.T) (SearchService, *repository.MemoryResourceRepo) {
	t.Helper()
	resources := repository.NewMemoryResourceRepo()
	return NewSearchService(resources), resources
}

func newSearchFixtureWithLab(t *testing.T) (SearchService, *repository.MemoryResourceRepo) {
	t.Helper()
	svc, resources := newSearchFixture(t)
	seedLabInventory(t, resources)
	return svc, resources
}

func TestAdvancedSearchTermsAreANDCombined(t *testing.T) {
	svc, _ := newSearchFixtureWithLab(t)

	// "dell lab" requires both terms; every Dell record sits in a Lab, so all
	// four match, while the printer and the oscilloscope drop out.
	result, err := svc.AdvancedSearch(repository.SearchFilter{Query: "dell lab"})
	require.NoError(t, err)
	require.Len(t, result.Resources, 4)
	for _, resource := range result.Resources {
		assert.Equal(t, "Dell Latitude 5520", resource.DeviceName)
	}

	// A term no field carries eliminates everything.
	result, err = svc.AdvancedSearch(repository.SearchFilter{Query: "dell warehouse"})
	require.NoError(t, err)
	assert.Empty(t, result.Resources)
	assert.Equal(t, int64(0), result.Pagination.TotalCount)
}

func TestAdvancedSearchIsCaseInsensitive(t *testing.T) {
	svc, _ := newSearchFixtureWithLab(t)

	result, err := svc.AdvancedSearch(repository.SearchFilter{Query: "LASERJET"})
	require.NoError(t, err)
	require.Len(t, result.Resources, 1)
	assert.Equal(t, "HP LaserJet Pro", result.Resources[0].DeviceName)
}

func TestAdvancedSearchTermMatchesAnyField(t *testing.T) {
	svc, _ := newSearchFixtureWithLab(t)

	// "electronics" only appears in the department field.
	result, err := svc.AdvancedSearch(repository.SearchFilter{Query: "electronics"})
	require.NoError(t, err)
	require.Len(t, result.Resources, 1)
	assert.Equal(t, "Oscilloscope DS1054Z", result.Resources[0].DeviceName)
}

func TestAdvancedSearchRangesAreInclusive(t *testing.T) {
	svc, _ := newSearchFixtureWithLab(t)

	result, err := svc.AdvancedSearch(repository.SearchFilter{
		CostRange: repository.CostRange{Min: floatPtr(45000), Max: floatPtr(47000)},
	})
	require.NoError(t, err)
	// Both bounds are included: the three 45000 records and the 47000 one.
	assert.Len(t, result.Resources, 4)

	result, err = svc.AdvancedSearch(repository.SearchFilter{
		QuantityRange: repository.QuantityRange{Min: intPtr(5), Max: intPtr(5)},
	})
	require.NoError(t, err)
	assert.Len(t, result.Resources, 2)

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	result, err = svc.AdvancedSearch(repository.SearchFilter{
		DateRange: repository.DateRange{Start: timePtr(day), End: timePtr(day)},
	})
	require.NoError(t, err)
	assert.Len(t, result.Resources, 6)
}

func TestAdvancedSearchStructuredFilters(t *testing.T) {
	svc, _ := newSearchFixtureWithLab(t)

	result, err := svc.AdvancedSearch(repository.SearchFilter{
		Department: "Computer Science",
		Location:   "Lab B",
	})
	require.NoError(t, err)
	require.Len(t, result.Resources, 1)
	assert.Equal(t, int64(5), result.Resources[0].SerialNo)
}

func TestAdvancedSearchPaginationCoversEveryRecordOnce(t *testing.T) {
	svc, resources := newSearchFixture(t)
	for i := 1; i <= 25; i++ {
		seedResource(t, resources, int64(i), fmt.Sprintf("Switch %02d", i), 1, "Rack Room", "Networking", 1000)
	}

	seen := map[int64]bool{}
	page := 1
	for {
		result, err := svc.AdvancedSearch(repository.SearchFilter{Page: page, PerPage: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(25), result.Pagination.TotalCount)
		assert.Equal(t, 3, result.Pagination.TotalPages)
		assert.Equal(t, page > 1, result.Pagination.HasPrev)

		for _, resource := range result.Resources {
			require.False(t, seen[resource.SerialNo], "serial %d returned twice", resource.SerialNo)
			seen[resource.SerialNo] = true
		}
		if !result.Pagination.HasNext {
			break
		}
		page++
	}
	assert.Len(t, seen, 25)
}

func TestAdvancedSearchPageBeyondEnd(t *testing.T) {
	svc, _ := newSearchFixtureWithLab(t)

	result, err := svc.AdvancedSearch(repository.SearchFilter{Page: 99, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Resources)
	assert.Equal(t, int64(6), result.Pagination.TotalCount)
	assert.False(t, result.Pagination.HasNext)
	assert.True(t, result.Pagination.HasPrev)
}

func TestAdvancedSearchNormalizesPagination(t *testing.T) {
	svc, _ := newSearchFixtureWithLab(t)

	result, err := svc.AdvancedSearch(repository.SearchFilter{Page: 0, PerPage: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 20, result.Pagination.PerPage)

	result, err = svc.AdvancedSearch(repository.SearchFilter{PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Pagination.PerPage)
}

func TestAdvancedSearchSortAndFallback(t *testing.T) {
	svc, _ := newSearchFixtureWithLab(t)

	result, err := svc.AdvancedSearch(repository.SearchFilter{SortBy: "cost", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, result.Resources, 6)
	assert.Equal(t, 47000.0, result.Resources[0].Cost)

	// An unknown sort field falls back to serial order instead of erroring.
	result, err = svc.AdvancedSearch(repository.SearchFilter{SortBy: "evil_column"})
	require.NoError(t, err)
	require.Len(t, result.Resources, 6)
	assert.Equal(t, int64(1), result.Resources[0].SerialNo)
	assert.Equal(t, "asc", result.FiltersApplied.SortOrder)
}

func TestAdvancedSearchSummaryCoversWholeMatchedSet(t *testing.T) {
	svc, resources := newSearchFixture(t)
	for i := 1; i <= 12; i++ {
		seedResource(t, resources, int64(i), fmt.Sprintf("Camera %02d", i), 2, "Studio", "Media", 100)
	}

	result, err := svc.AdvancedSearch(repository.SearchFilter{Page: 2, PerPage: 5})
	require.NoError(t, err)
	assert.Len(t, result.Resources, 5)

	// 12 records x 2 units x 100 each, regardless of the page requested.
	assert.Equal(t, int64(24), result.Summary.TotalQuantity)
	assert.Equal(t, 2400.0, result.Summary.TotalCost)
	assert.Equal(t, 100.0, result.Summary.AverageCost)
	assert.Equal(t, int64(1), result.Summary.DepartmentsCount)
	assert.Equal(t, int64(12), result.Summary.DeviceTypesCount)
}
