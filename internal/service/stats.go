package service

import (
	"go-campus-assets/internal/repository"
)

// recomputeDepartmentStats re-runs the defining aggregation over the resource
// collection and replaces the department's cached stats with the result.
// Recomputation is idempotent and self-correcting, which is why it is used
// instead of incremental counters.
func recomputeDepartmentStats(resources repository.ResourceRepository, departments repository.DepartmentRepository, department, actor string) error {
	agg, err := resources.DepartmentAggregate(department)
	if err != nil {
		return err
	}
	return departments.UpsertStats(department, *agg, actor)
}
