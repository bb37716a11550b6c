package evaluation

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/timezone"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the report evaluation routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/report/evaluate", s.HandleEvaluateInline)
	r.POST("/api/report/:id/evaluate", s.HandleEvaluatePersisted)
	r.GET("/api/report/:id/evaluate", s.HandleEvaluatePersisted)
}

// HandleEvaluateInline handles POST /api/report/evaluate.
// The body is a single or combined report definition.
// Query parameters: offset, limit
func (s *Service) HandleEvaluateInline(c *gin.Context) {
	page, ok := bindPagination(c)
	if !ok {
		return
	}
	body, ok := s.readBody(c)
	if !ok {
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Report definition is required",
		})
		return
	}

	stored, err := report.DecodeStoredReport(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid report definition",
			Details:   err.Error(),
		})
		return
	}

	s.respond(c, Request{
		Inline:     stored,
		Pagination: page,
		Timezone:   c.GetHeader(timezone.ClientTimezoneHeader),
	})
}

// HandleEvaluatePersisted handles GET|POST /api/report/:id/evaluate.
// An optional body {"filter": [...]} adds filters to the stored ones.
// Query parameters: offset, limit
func (s *Service) HandleEvaluatePersisted(c *gin.Context) {
	page, ok := bindPagination(c)
	if !ok {
		return
	}
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	var extra struct {
		Filter report.Filters `json:"filter"`
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &extra); err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidJsonError,
				Message:   "Invalid filter body",
				Details:   err.Error(),
			})
			return
		}
	}

	s.respond(c, Request{
		ReportID:          c.Param("id"),
		AdditionalFilters: extra.Filter,
		Pagination:        page,
		Timezone:          c.GetHeader(timezone.ClientTimezoneHeader),
	})
}

func (s *Service) respond(c *gin.Context, req Request) {
	resp, err := s.Evaluate(c.Request.Context(), req)
	if err != nil {
		status, body := httperr.Classify(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bindPagination reads offset and limit. Pagination is nil when neither is given.
func bindPagination(c *gin.Context) (*Pagination, bool) {
	var query struct {
		Offset *int `form:"offset"`
		Limit  *int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return nil, false
	}
	if query.Offset == nil && query.Limit == nil {
		return nil, true
	}
	page := &Pagination{}
	if query.Offset != nil {
		page.Offset = *query.Offset
	}
	if query.Limit != nil {
		page.Limit = *query.Limit
	}
	return page, true
}

// readBody reads at most maxBodySizeBytes of the request body.
func (s *Service) readBody(c *gin.Context) ([]byte, bool) {
	if c.Request.Body == nil {
		return nil, true
	}
	maxBytes := int64(s.maxBodySizeBytes)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1)) // +1 to detect oversized requests
	if err != nil {
		slog.Error("[Evaluation] Failed to read request body", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to read request body",
		})
		return nil, false
	}
	if int64(len(body)) > maxBytes {
		slog.Warn("[Evaluation] Request body exceeds maximum size", "size", len(body), "max", maxBytes)
		c.JSON(http.StatusRequestEntityTooLarge, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Request body exceeds maximum allowed size",
			Details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		})
		return nil, false
	}
	return body, true
}
