package service

import (
	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type SearchResult struct {
	Resources      []model.Resource         `json:"resources"`
	Pagination     Pagination               `json:"pagination"`
	FiltersApplied repository.SearchFilter  `json:"filters_applied"`
	Summary        repository.SearchSummary `json:"search_summary"`
}

// SearchService is the general multi-predicate query engine, independent of
// the deletion hierarchy.
type SearchService interface {
	AdvancedSearch(filter repository.SearchFilter) (*SearchResult, error)
}

type searchService struct {
	resourceRepo repository.ResourceRepository
}

func NewSearchService(rRepo repository.ResourceRepository) SearchService {
	return &searchService{resourceRepo: rRepo}
}

// normalize bounds pagination and pins the sort to a known column. PerPage
// is capped to keep response sizes bounded.
func normalize(filter repository.SearchFilter) repository.SearchFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}
	if filter.SortBy == "" {
		filter.SortBy = "sl_no"
	}
	if filter.SortOrder != "desc" {
		filter.SortOrder = "asc"
	}
	return filter
}

// AdvancedSearch runs the paginated fetch and a second aggregation pass with
// the same predicate, so the summary covers the entire matched set rather
// than the returned page.
func (s *searchService) AdvancedSearch(filter repository.SearchFilter) (*SearchResult, error) {
	filter = normalize(filter)

	resources, total, err := s.resourceRepo.Search(filter)
	if err != nil {
		return nil, err
	}
	summary, err := s.resourceRepo.Summarize(filter)
	if err != nil {
		return nil, err
	}

	if resources == nil {
		resources = []model.Resource{}
	}

	totalPages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))
	return &SearchResult{
		Resources: resources,
		Pagination: Pagination{
			Page:       filter.Page,
			PerPage:    filter.PerPage,
			TotalCount: total,
			TotalPages: totalPages,
			HasNext:    filter.Page < totalPages,
			HasPrev:    filter.Page > 1,
		},
		FiltersApplied: filter,
		Summary:        *summary,
	}, nil
}
