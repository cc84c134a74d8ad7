package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/deck-conformance/internal/domain"
	"github.com/couchcryptid/deck-conformance/internal/ingest"
	"github.com/couchcryptid/deck-conformance/internal/observability"
)

// ReportTransformer implements Transformer: survey request in, serialized
// conformance report out, with optional location enrichment.
type ReportTransformer struct {
	analyzer *domain.Analyzer
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates a ReportTransformer. Pass a nil geocoder to disable
// location enrichment.
func NewTransformer(analyzer *domain.Analyzer, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *ReportTransformer {
	if analyzer == nil {
		analyzer = domain.NewAnalyzer()
	}
	return &ReportTransformer{
		analyzer: analyzer,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

// Build decodes a survey request and produces its enriched report. It is shared
// by the Kafka pipeline and the synchronous HTTP endpoint.
func (t *ReportTransformer) Build(ctx context.Context, data []byte) (domain.ConformanceReport, error) {
	req, err := ingest.ParseSurveyRequest(data)
	if err != nil {
		return domain.ConformanceReport{}, err
	}

	start := time.Now()
	deckA, deckB, err := ingest.BuildDecks(req)
	if err != nil {
		return domain.ConformanceReport{}, err
	}
	report, err := t.analyzer.Analyze(deckA, deckB)
	if err != nil {
		return domain.ConformanceReport{}, err
	}
	t.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	report.RequestID = req.ID
	report = domain.EnrichWithLocation(ctx, report, t.geocoder, t.logger)

	t.metrics.ReportsGenerated.WithLabelValues(strconv.FormatBool(report.IsConformant)).Inc()
	t.metrics.NonConformities.Add(float64(report.TotalNonConformities))
	t.metrics.ApproximationWarns.Add(float64(len(report.Warnings)))

	if !report.IsConformant {
		t.logger.Info("non-conformant deck survey",
			"report_id", report.ID,
			"request_id", report.RequestID,
			"non_conformities", report.TotalNonConformities,
		)
	}
	return report, nil
}

// Transform implements Transformer.
func (t *ReportTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	report, err := t.Build(ctx, raw.Value)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	if report.RequestID == "" && len(raw.Key) > 0 {
		report.RequestID = string(raw.Key)
	}
	return domain.SerializeReport(report)
}
