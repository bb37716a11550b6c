package ingestion

import (
	"github.com/aevon-lab/insight/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Service struct {
	definitions      storage.DefinitionStore
	instances        storage.InstanceStore
	maxBodySizeBytes int
	newID            func() string
}

func NewService(definitions storage.DefinitionStore, instances storage.InstanceStore, maxBodySizeMB int) *Service {
	if definitions == nil {
		panic("ingestion: definition store must not be nil")
	}
	if instances == nil {
		panic("ingestion: instance store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		definitions:      definitions,
		instances:        instances,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		newID:            uuid.NewString,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/ingest/definitions", s.IngestDefinitionsHandler)
	r.POST("/api/ingest/instances", s.IngestInstancesHandler)
}
