package definition

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/scope"
	"github.com/gin-gonic/gin"
)

// Service lists the versions and tenants a report may select for a definition.
type Service struct {
	resolver *scope.Resolver
}

// NewService creates a definition listing service.
func NewService(resolver *scope.Resolver) *Service {
	if resolver == nil {
		panic("definition: resolver must not be nil")
	}
	return &Service{resolver: resolver}
}

// VersionsResponse lists the selectable versions of one definition, newest first.
type VersionsResponse struct {
	DefinitionType report.DefinitionType `json:"definitionType"`
	DefinitionKey  string                `json:"definitionKey"`
	Versions       []string              `json:"versions"`
}

// TenantsResponse lists the tenants owning the requested versions. Unassigned is null.
type TenantsResponse struct {
	DefinitionType report.DefinitionType `json:"definitionType"`
	DefinitionKey  string                `json:"definitionKey"`
	Versions       []string              `json:"versions"`
	TenantIDs      report.Tenants        `json:"tenantIds"`
}

// Versions returns every non-deleted version visible from the collection.
func (s *Service) Versions(ctx context.Context, defType report.DefinitionType, key, collectionID string) (*VersionsResponse, error) {
	sc, err := s.resolver.LoadScope(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	versions, err := s.resolver.ResolveVersions(ctx, defType, key, []string{report.AllVersions}, sc)
	if err != nil {
		return nil, err
	}
	return &VersionsResponse{DefinitionType: defType, DefinitionKey: key, Versions: versions}, nil
}

// Tenants resolves the version selectors and returns the tenants in scope for them.
func (s *Service) Tenants(ctx context.Context, defType report.DefinitionType, key string, selectors []string, collectionID string) (*TenantsResponse, error) {
	if len(selectors) == 0 {
		selectors = []string{report.AllVersions}
	}
	sc, err := s.resolver.LoadScope(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	versions, err := s.resolver.ResolveVersions(ctx, defType, key, selectors, sc)
	if err != nil {
		return nil, err
	}
	tenants, err := s.resolver.ResolveTenants(ctx, defType, key, versions, nil, sc)
	if err != nil {
		return nil, err
	}
	return &TenantsResponse{
		DefinitionType: defType,
		DefinitionKey:  key,
		Versions:       versions,
		TenantIDs:      report.Tenants(tenants),
	}, nil
}

// RegisterRoutes registers the definition listing routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/definition/:type/:key/versions", s.HandleVersions)
	r.GET("/api/definition/:type/:key/tenants", s.HandleTenants)
}

// HandleVersions handles GET /api/definition/:type/:key/versions.
// Query parameters: collectionId
func (s *Service) HandleVersions(c *gin.Context) {
	defType, ok := bindType(c)
	if !ok {
		return
	}
	resp, err := s.Versions(c.Request.Context(), defType, c.Param("key"), c.Query("collectionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTenants handles GET /api/definition/:type/:key/tenants.
// Query parameters: versions (comma separated or repeated, default all), collectionId
func (s *Service) HandleTenants(c *gin.Context) {
	defType, ok := bindType(c)
	if !ok {
		return
	}
	resp, err := s.Tenants(c.Request.Context(), defType, c.Param("key"), splitSelectors(c.QueryArray("versions")), c.Query("collectionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func bindType(c *gin.Context) (report.DefinitionType, bool) {
	defType, err := report.ParseDefinitionType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "Invalid definition type",
			Details:   err.Error(),
		})
		return "", false
	}
	return defType, true
}

func respondError(c *gin.Context, err error) {
	status, body := httperr.Classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("[Definition] Listing failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, body)
}

func splitSelectors(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
