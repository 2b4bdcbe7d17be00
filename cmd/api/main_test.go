package main

import (
	"net/http/httptest"
	"testing"

	"go-campus-assets/internal/handler"
	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"
	"go-campus-assets/internal/service"
	"go-campus-assets/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	resourceRepo := repository.NewMemoryResourceRepo()
	departmentRepo := repository.NewMemoryDepartmentRepo()
	userRepo := repository.NewMemoryUserRepo()

	admin := &model.User{
		Email:    "admin@campus.edu",
		FullName: "Campus Admin",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, admin.SetPassword("admin-password"))
	require.NoError(t, userRepo.Create(admin))
	token, err := jwt.GenerateToken(admin.ID, admin.Email, admin.FullName, admin.Role)
	require.NoError(t, err)

	resourceService := service.NewResourceService(resourceRepo, departmentRepo, nil)
	deletionService := service.NewDeletionService(resourceRepo, departmentRepo, nil)
	hierarchyService := service.NewHierarchyService(resourceRepo, departmentRepo)
	searchService := service.NewSearchService(resourceRepo)
	importService := service.NewImportService(resourceRepo, departmentRepo, nil, nil)
	dashboardService := service.NewDashboardService(resourceRepo, departmentRepo)
	authService := service.NewAuthService(userRepo)

	handlers := apiHandlers{
		resources:   handler.NewResourceHandler(resourceService, searchService),
		deletion:    handler.NewDeletionHandler(hierarchyService, deletionService),
		search:      handler.NewSearchHandler(searchService, hierarchyService),
		departments: handler.NewDepartmentHandler(departmentRepo, resourceRepo),
		imports:     handler.NewImportHandler(importService),
		dashboard:   handler.NewDashboardHandler(dashboardService),
		auth:        handler.NewAuthHandler(authService),
	}

	app := fiber.New()
	setupRoutes(app, handlers, userRepo)
	return app, token
}

func get(t *testing.T, app *fiber.App, token, path string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

// The static /resources/... paths must not be captured by the /resources/:id
// parameter route, which would turn them into "Invalid resource ID" 400s.
func TestStaticResourceRoutesNotShadowedByIDParam(t *testing.T) {
	app, token := newTestApp(t)

	assert.Equal(t, 200, get(t, app, token, "/api/v1/resources/filter-options"))
	assert.Equal(t, 200, get(t, app, token, "/api/v1/resources/quick-filters"))
	assert.Equal(t, 200, get(t, app, token, "/api/v1/resources/deletion/departments"))
	assert.Equal(t, 200, get(t, app, token, "/api/v1/resources/deletion/locations/Physics"))
}

func TestResourceByIDRouteStillMatches(t *testing.T) {
	app, token := newTestApp(t)

	// An unknown uuid reaches the handler and gets its 404, proving the
	// parameter route still matches after the static ones.
	assert.Equal(t, 404, get(t, app, token, "/api/v1/resources/"+uuid.NewString()))
	// A non-uuid single segment that is not a registered static path is the
	// handler's 400, not a router error.
	assert.Equal(t, 400, get(t, app, token, "/api/v1/resources/not-a-uuid"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/resources/filter-options", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
