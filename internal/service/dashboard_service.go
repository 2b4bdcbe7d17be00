package service

import (
	"time"

	"go-campus-assets/internal/repository"
)

type DashboardOverview struct {
	TotalEntries     int64   `json:"total_entries"`
	TotalQuantity    int64   `json:"total_quantity"`
	TotalValue       float64 `json:"total_value"`
	DepartmentsCount int     `json:"departments_count"`
	RecentAdditions  int64   `json:"recent_additions"`
}

type DashboardService interface {
	Overview() (*DashboardOverview, error)
}

type dashboardService struct {
	resourceRepo   repository.ResourceRepository
	departmentRepo repository.DepartmentRepository
}

func NewDashboardService(rRepo repository.ResourceRepository, dRepo repository.DepartmentRepository) DashboardService {
	return &dashboardService{resourceRepo: rRepo, departmentRepo: dRepo}
}

func (s *dashboardService) Overview() (*DashboardOverview, error) {
	totals, err := s.resourceRepo.Totals()
	if err != nil {
		return nil, err
	}
	departments, err := s.departmentRepo.FindAll()
	if err != nil {
		return nil, err
	}
	recent, err := s.resourceRepo.CountCreatedSince(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &DashboardOverview{
		TotalEntries:     totals.TotalEntries,
		TotalQuantity:    totals.TotalQuantity,
		TotalValue:       totals.TotalValue,
		DepartmentsCount: len(departments),
		RecentAdditions:  recent,
	}, nil
}
