package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgEmptyBatch     = "Batch must contain at least one record"
	msgPersistFailed  = "Failed to persist records"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestDefinitionsHandler handles POST /api/ingest/definitions.
// The body is a JSON array of definitions; existing (type, key, version, tenant) rows are replaced.
func (s *Service) IngestDefinitionsHandler(c *gin.Context) {
	var defs []report.Definition
	if err := s.parseBatch(c, &defs); err != nil {
		writeError(c, err)
		return
	}
	if len(defs) == 0 {
		writeError(c, &ingestionError{statusCode: http.StatusBadRequest, errorType: httperr.HttpValidationError, message: msgEmptyBatch})
		return
	}

	for i := range defs {
		if err := defs[i].Validate(); err != nil {
			slog.Warn("[Ingestion] Definition rejected", "index", i, "key", defs[i].Key, "error", err)
			writeError(c, invalidRecord(i, err))
			return
		}
	}

	persisted, err := persistAll(c.Request.Context(), len(defs), func(ctx context.Context, i int) error {
		return s.definitions.SaveDefinition(ctx, &defs[i])
	})
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("[Ingestion] Definitions imported", "count", persisted)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "count": persisted})
}

// IngestInstancesHandler handles POST /api/ingest/instances.
// The body is a JSON array of instances. Missing instance and user task ids are generated.
func (s *Service) IngestInstancesHandler(c *gin.Context) {
	var instances []report.Instance
	if err := s.parseBatch(c, &instances); err != nil {
		writeError(c, err)
		return
	}
	if len(instances) == 0 {
		writeError(c, &ingestionError{statusCode: http.StatusBadRequest, errorType: httperr.HttpValidationError, message: msgEmptyBatch})
		return
	}

	ids := make([]string, len(instances))
	for i := range instances {
		s.assignIDs(&instances[i])
		if err := instances[i].Validate(); err != nil {
			slog.Warn("[Ingestion] Instance rejected", "index", i, "instance_id", instances[i].ID, "error", err)
			writeError(c, invalidRecord(i, err))
			return
		}
		ids[i] = instances[i].ID
	}

	persisted, err := persistAll(c.Request.Context(), len(instances), func(ctx context.Context, i int) error {
		return s.instances.SaveInstance(ctx, &instances[i])
	})
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("[Ingestion] Instances imported", "count", persisted)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "count": persisted, "ids": ids})
}

func (s *Service) assignIDs(inst *report.Instance) {
	if inst.ID == "" {
		inst.ID = s.newID()
	}
	for i := range inst.UserTasks {
		if inst.UserTasks[i].ID == "" {
			inst.UserTasks[i].ID = s.newID()
		}
	}
}

// parseBatch reads the raw request body and decodes it into out.
func (s *Service) parseBatch(c *gin.Context, out interface{}) *ingestionError {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
			details:    err.Error(),
		}
	}
	return nil
}

// persistAll saves records in order and stops at the first failure.
func persistAll(ctx context.Context, n int, save func(ctx context.Context, i int) error) (int, *ingestionError) {
	for i := 0; i < n; i++ {
		if err := save(ctx, i); err != nil {
			slog.Error("[Ingestion] Failed to persist record", "index", i, "persisted", i, "error", err)
			return i, &ingestionError{
				statusCode: http.StatusInternalServerError,
				errorType:  httperr.HttpInternalError,
				message:    msgPersistFailed,
				details:    map[string]interface{}{"persisted": i},
			}
		}
	}
	return n, nil
}

func invalidRecord(index int, err error) *ingestionError {
	return &ingestionError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpValidationError,
		message:    fmt.Sprintf("record %d: %s", index, err),
		details:    map[string]interface{}{"index": index},
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
