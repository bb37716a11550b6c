package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage"
	"github.com/aevon-lab/insight/internal/core/timezone"
	"github.com/aevon-lab/insight/internal/filter"
	"github.com/aevon-lab/insight/internal/scope"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const defaultCombinedConcurrency = 4

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	// ServerLocation is used when a request names no valid client zone.
	ServerLocation      *time.Location
	CombinedConcurrency int
	MaxBodySizeMB       int
}

// Service runs the evaluation pipeline: scope resolution, filter
// normalization, evaluation and assembly.
type Service struct {
	reports          storage.ReportRepository
	resolver         *scope.Resolver
	evaluator        *Evaluator
	server           *time.Location
	concurrency      int
	maxBodySizeBytes int
	metrics          *metrics
	nowFn            func() time.Time
}

// NewService creates a new evaluation service.
func NewService(
	reports storage.ReportRepository,
	resolver *scope.Resolver,
	evaluator *Evaluator,
	opts Options,
) *Service {
	if reports == nil {
		panic("evaluation: report repository must not be nil")
	}
	if opts.ServerLocation == nil {
		opts.ServerLocation = time.UTC
	}
	if opts.CombinedConcurrency <= 0 {
		opts.CombinedConcurrency = defaultCombinedConcurrency
	}
	if opts.MaxBodySizeMB <= 0 {
		opts.MaxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		reports:          reports,
		resolver:         resolver,
		evaluator:        evaluator,
		server:           opts.ServerLocation,
		concurrency:      opts.CombinedConcurrency,
		maxBodySizeBytes: opts.MaxBodySizeMB * 1024 * 1024,
		metrics:          newMetrics(prometheus.DefaultRegisterer),
		nowFn:            time.Now,
	}
}

// Evaluate evaluates a persisted or inline report.
func (s *Service) Evaluate(ctx context.Context, req Request) (*EvaluationResponse, error) {
	started := time.Now()
	resp, err := s.evaluate(ctx, req)

	var resultType ResultType
	if resp != nil {
		resultType = resp.Result.Type
	}
	s.metrics.observe(resultType, err, time.Since(started))

	switch {
	case err == nil:
		slog.Debug("[Evaluation] Report evaluated",
			"report", reportLabel(req),
			"type", resultType,
			"instances", resp.Result.InstanceCount,
			"duration", time.Since(started))
	case errors.Is(err, httperr.ErrValidation), errors.Is(err, httperr.ErrNotFound):
		slog.Debug("[Evaluation] Report rejected", "report", reportLabel(req), "error", err)
	default:
		slog.Error("[Evaluation] Report evaluation failed", "report", reportLabel(req), "error", err)
	}
	return resp, err
}

func (s *Service) evaluate(ctx context.Context, req Request) (*EvaluationResponse, error) {
	tz := timezone.New(s.server, req.Timezone)
	now := s.nowFn()

	stored := req.Inline
	if stored == nil {
		if req.ReportID == "" {
			return nil, httperr.Validationf("report id is required")
		}
		var err error
		if stored, err = s.loadReport(ctx, req.ReportID); err != nil {
			return nil, err
		}
	}

	switch {
	case stored.Combined != nil:
		return s.evaluateCombined(ctx, stored.Combined, req, tz, now)
	case stored.Single != nil:
		return s.evaluateSingle(ctx, stored.Single, req.AdditionalFilters, req.Pagination, tz, now)
	}
	return nil, httperr.Validationf("report definition is empty")
}

func (s *Service) loadReport(ctx context.Context, id string) (*report.StoredReport, error) {
	stored, err := s.reports.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, httperr.NotFoundf("report %q does not exist", id)
		}
		return nil, httperr.Evaluationf(err, "load report %q", id)
	}
	return stored, nil
}

func (s *Service) evaluateSingle(
	ctx context.Context,
	r *report.ReportDefinition,
	additional report.Filters,
	page *Pagination,
	tz timezone.Context,
	now time.Time,
) (*EvaluationResponse, error) {
	if !r.ReportType.Valid() {
		return nil, httperr.Validationf("report %q has unknown report type %q", r.ID, r.ReportType)
	}
	if _, err := s.evaluator.Check(r, page); err != nil {
		return nil, err
	}

	sc, err := s.resolver.LoadScope(ctx, r.CollectionID)
	if err != nil {
		return nil, err
	}

	resolved := make([]scope.Resolved, len(r.Data.Definitions))
	var variables []report.VariableDescriptor
	lookupVariables := r.ReportType == report.DefinitionProcess && hasVariableFilter(additional)
	for i, sel := range r.Data.Definitions {
		if resolved[i], err = s.resolver.Resolve(ctx, r.ReportType, sel, sc); err != nil {
			return nil, err
		}
		if !lookupVariables {
			continue
		}
		declared, err := s.resolver.Variables(ctx, r.ReportType, resolved[i])
		if err != nil {
			return nil, err
		}
		variables = append(variables, declared...)
	}

	filters, err := filter.Normalize(r.Data.Filters, additional, len(r.Data.Definitions), r.ReportType, filter.NewVariableSet(variables))
	if err != nil {
		return nil, err
	}

	agg, err := s.evaluator.Evaluate(ctx, Input{
		Report:      r,
		Definitions: resolved,
		Filters:     filters,
		TZ:          tz,
		Now:         now,
		Pagination:  page,
	})
	if err != nil {
		return nil, err
	}

	return &EvaluationResponse{ReportDefinition: r, Result: Assemble(agg, tz)}, nil
}

// evaluateCombined evaluates every constituent independently and joins the
// results in constituent order. Any failure fails the whole report.
func (s *Service) evaluateCombined(
	ctx context.Context,
	c *report.CombinedReportDefinition,
	req Request,
	tz timezone.Context,
	now time.Time,
) (*EvaluationResponse, error) {
	if req.Pagination != nil {
		return nil, httperr.Validationf("pagination is only supported for raw data reports, report %q is combined", c.ID)
	}

	seen := make(map[string]struct{}, len(c.Reports))
	for _, id := range c.Reports {
		if _, dup := seen[id]; dup {
			return nil, httperr.Validationf("combined report %q lists report %q more than once", c.ID, id)
		}
		seen[id] = struct{}{}
	}

	constituents := make([]*report.ReportDefinition, len(c.Reports))
	for i, id := range c.Reports {
		stored, err := s.loadReport(ctx, id)
		if err != nil {
			return nil, err
		}
		if stored.Single == nil {
			return nil, httperr.Validationf("combined report %q contains combined report %q", c.ID, id)
		}
		constituents[i] = stored.Single
	}

	results := make([]*EvaluationResponse, len(constituents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, r := range constituents {
		g.Go(func() error {
			res, err := s.evaluateSingle(gctx, r, req.AdditionalFilters, nil, tz, now)
			if err != nil {
				return fmt.Errorf("report %q: %w", r.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := ResultResponse{Type: ResultCombined, Measures: []MeasureResponse{}, Data: CombinedData{}}
	for i, res := range results {
		out.InstanceCount += res.Result.InstanceCount
		out.InstanceCountWithoutFilters += res.Result.InstanceCountWithoutFilters
		out.Data = append(out.Data, CombinedEntry{ReportID: c.Reports[i], Result: *res})
	}
	return &EvaluationResponse{ReportDefinition: c, Result: out}, nil
}

func hasVariableFilter(filters report.Filters) bool {
	for _, f := range filters {
		if _, ok := f.(report.VariableFilter); ok {
			return true
		}
	}
	return false
}

func reportLabel(req Request) string {
	if req.ReportID != "" {
		return req.ReportID
	}
	if req.Inline != nil && req.Inline.ID() != "" {
		return req.Inline.ID()
	}
	return "inline"
}
