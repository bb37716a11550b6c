package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage"
	"gopkg.in/yaml.v3"
)

const (
	reportsDir     = "reports"
	collectionsDir = "collections"
)

// collectionFile is the on-disk shape of a collection.
type collectionFile struct {
	ID    string                        `json:"id"`
	Name  string                        `json:"name"`
	Scope []report.CollectionScopeEntry `json:"scope"`
}

// ReportRepository implements storage.ReportRepository over YAML or JSON files.
// It expects root/reports/*.yaml and root/collections/*.yaml. Files are loaded
// once at startup; there is no hot reload.
type ReportRepository struct {
	rootDir     string
	reports     map[string]report.StoredReport
	collections map[string][]report.CollectionScopeEntry
}

var _ storage.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository eagerly loads every report and collection under rootDir.
// Returns an error if any file is malformed or two files share an id.
func NewReportRepository(rootDir string) (*ReportRepository, error) {
	repo := &ReportRepository{
		rootDir:     rootDir,
		reports:     make(map[string]report.StoredReport),
		collections: make(map[string][]report.CollectionScopeEntry),
	}
	if err := repo.loadReports(); err != nil {
		return nil, err
	}
	if err := repo.loadCollections(); err != nil {
		return nil, err
	}
	slog.Info("[Filesystem] Report repository loaded",
		"root", rootDir,
		"reports", len(repo.reports),
		"collections", len(repo.collections))
	return repo, nil
}

func (r *ReportRepository) GetReport(_ context.Context, id string) (*report.StoredReport, error) {
	stored, ok := r.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &stored, nil
}

func (r *ReportRepository) GetCollectionScope(_ context.Context, collectionID string) ([]report.CollectionScopeEntry, error) {
	entries, ok := r.collections[collectionID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]report.CollectionScopeEntry{}, entries...), nil
}

func (r *ReportRepository) loadReports() error {
	return r.eachFile(reportsDir, func(path string, data []byte) error {
		stored, err := DecodeReport(data)
		if err != nil {
			return fmt.Errorf("parsing report file %s: %w", path, err)
		}
		id := stored.ID()
		if id == "" {
			return fmt.Errorf("report file %s: id must not be empty", path)
		}
		if _, exists := r.reports[id]; exists {
			return fmt.Errorf("report %q: duplicate id (check multiple files)", id)
		}
		r.reports[id] = *stored
		return nil
	})
}

func (r *ReportRepository) loadCollections() error {
	return r.eachFile(collectionsDir, func(path string, data []byte) error {
		raw, err := yamlToJSON(data)
		if err != nil {
			return fmt.Errorf("parsing collection file %s: %w", path, err)
		}
		var col collectionFile
		if err := json.Unmarshal(raw, &col); err != nil {
			return fmt.Errorf("parsing collection file %s: %w", path, err)
		}
		if col.ID == "" {
			return fmt.Errorf("collection file %s: id must not be empty", path)
		}
		if _, exists := r.collections[col.ID]; exists {
			return fmt.Errorf("collection %q: duplicate id (check multiple files)", col.ID)
		}
		for _, entry := range col.Scope {
			if !entry.DefinitionType.Valid() || entry.DefinitionKey == "" {
				return fmt.Errorf("collection %q: invalid scope entry %q", col.ID, entry.ID())
			}
		}
		r.collections[col.ID] = col.Scope
		return nil
	})
}

// eachFile calls fn for every .yaml, .yml or .json file in root/sub.
// A missing directory is valid (nothing configured).
func (r *ReportRepository) eachFile(sub string, fn func(path string, data []byte) error) error {
	dir := filepath.Join(r.rootDir, sub)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s dir: %w", sub, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s path %q is not a directory", sub, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s dir: %w", sub, err)
	}
	for _, e := range entries {
		if e.IsDir() || !isDocument(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			continue // skip empty files
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}
	return nil
}

// ReadReportFile loads one report document (YAML or JSON) from disk.
func ReadReportFile(path string) (*report.StoredReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	return DecodeReport(data)
}

// DecodeReport decodes a YAML or JSON report document. YAML is normalized to
// JSON first so both formats share the report wire codec.
func DecodeReport(data []byte) (*report.StoredReport, error) {
	raw, err := yamlToJSON(data)
	if err != nil {
		return nil, err
	}
	return report.DecodeStoredReport(raw)
}

func isDocument(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".json")
}

// yamlToJSON converts a YAML document to JSON. Timestamps stay strings so that
// offset-less dates keep their meaning.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	value, err := nodeValue(&doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(value)
}

func nodeValue(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool", "!!int", "!!float":
			var v interface{}
			if err := n.Decode(&v); err != nil {
				return nil, err
			}
			return v, nil
		default:
			return n.Value, nil
		}
	}
	return nil, fmt.Errorf("unsupported yaml node at line %d", n.Line)
}
