package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"

	"stockig/internal/dataset"
	"stockig/internal/entropy"
	"stockig/internal/infrastructure"
)

// TracerName identifies analyzer spans
const TracerName = "stockig/analysis"

// Binning describes how one feature was discretized
type Binning struct {
	Strategy entropy.Strategy `json:"strategy"`
	Bins     int              `json:"bins"`
	Groups   int              `json:"groups"`
	Edges    []float64        `json:"edges"`
	Labels   []string         `json:"labels"`
}

// FeatureScore is the information gain of one feature against PerformanceLabel
type FeatureScore struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
	Binning Binning `json:"binning"`
}

// Result is the analysis of one company. Scores follow dataset.Features order.
type Result struct {
	Company     string         `json:"company"`
	Scores      []FeatureScore `json:"scores"`
	Mean        float64        `json:"mean"`
	BestFeature string         `json:"best_feature"`
	BestScore   float64        `json:"best_score"`
	TotalRows   int            `json:"total_rows"`
	UsedRows    int            `json:"used_rows"`
	DroppedRows int            `json:"dropped_rows"`
}

// ScoreMap returns feature → score
func (r *Result) ScoreMap() map[string]float64 {
	m := make(map[string]float64, len(r.Scores))
	for _, s := range r.Scores {
		m[s.Feature] = s.Score
	}
	return m
}

// Fallbacks returns the features that were binned equal-width
func (r *Result) Fallbacks() []string {
	var out []string
	for _, s := range r.Scores {
		if s.Binning.Strategy == entropy.StrategyEqualWidth {
			out = append(out, s.Feature)
		}
	}
	return out
}

// Analyzer scores the features of a company's rows
type Analyzer struct {
	bins   int
	logger *slog.Logger
	tracer trace.Tracer
}

// NewAnalyzer creates an analyzer with the given bin count; bins < 1 uses
// entropy.DefaultBins
func NewAnalyzer(bins int, logger *slog.Logger) *Analyzer {
	if bins < 1 {
		bins = entropy.DefaultBins
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Analyzer{
		bins:   bins,
		logger: logger.With(slog.String("component", "analyzer")),
		tracer: otel.Tracer(TracerName),
	}
}

// Bins returns the configured bin count
func (a *Analyzer) Bins() int {
	return a.bins
}

// Analyze filters ds to company, drops rows with a missing feature or label,
// discretizes each feature and scores it against PerformanceLabel.
func (a *Analyzer) Analyze(ctx context.Context, ds *dataset.Dataset, company string) (*Result, error) {
	ctx, span := a.tracer.Start(ctx, "analysis.analyze",
		trace.WithAttributes(attribute.String("company", company), attribute.Int("bins", a.bins)))
	defer span.End()

	start := time.Now()

	rows := ds.Filter(company)
	if len(rows) == 0 {
		err := &PreconditionError{Company: company, Err: ErrUnknownCompany}
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	clean := make([]dataset.Record, 0, len(rows))
	for _, r := range rows {
		if r.Complete() {
			clean = append(clean, r)
		}
	}
	dropped := len(rows) - len(clean)
	span.SetAttributes(attribute.Int("rows", len(rows)), attribute.Int("dropped", dropped))

	if len(clean) == 0 {
		err := &PreconditionError{Company: company, Rows: len(rows), Dropped: dropped, Err: ErrEmptySubset}
		infrastructure.RecordError(ctx, err)
		a.logger.WarnContext(ctx, "company has no usable rows",
			slog.String("company", company),
			slog.Int("rows", len(rows)))
		return nil, err
	}

	a.logger.DebugContext(ctx, "analysis started",
		slog.String("company", company),
		slog.Int("rows", len(clean)))

	target := make([]float64, len(clean))
	columns := make(map[string][]float64, len(dataset.Features))
	for _, f := range dataset.Features {
		columns[f] = make([]float64, len(clean))
	}
	for i, r := range clean {
		target[i] = r.PerformanceLabel
		for _, f := range dataset.Features {
			columns[f][i], _ = r.Value(f)
		}
	}

	binned, err := entropy.DiscretizeFeatures(columns, dataset.Features, a.bins)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("%s: %w", company, err)
	}

	result := &Result{
		Company:     company,
		Scores:      make([]FeatureScore, 0, len(dataset.Features)),
		TotalRows:   len(rows),
		UsedRows:    len(clean),
		DroppedRows: dropped,
	}

	values := make([]float64, 0, len(dataset.Features))
	for _, f := range dataset.Features {
		d := binned[f]
		ig, err := entropy.InformationGain(d.Assignments, target)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			return nil, fmt.Errorf("%s/%s: %w", company, f, err)
		}

		result.Scores = append(result.Scores, FeatureScore{
			Feature: f,
			Score:   ig,
			Binning: Binning{
				Strategy: d.Strategy,
				Bins:     d.Bins,
				Groups:   d.Groups(),
				Edges:    d.Edges,
				Labels:   d.Labels(),
			},
		})
		values = append(values, ig)

		if ig > result.BestScore || result.BestFeature == "" {
			result.BestFeature, result.BestScore = f, ig
		}
	}
	result.Mean = stat.Mean(values, nil)

	if fallbacks := result.Fallbacks(); len(fallbacks) > 0 {
		a.logger.WarnContext(ctx, "quantile edges collapsed, used equal-width bins",
			slog.String("company", company),
			slog.Any("features", fallbacks))
	}
	if dropped > 0 {
		a.logger.WarnContext(ctx, "rows dropped during cleaning",
			slog.String("company", company),
			slog.Int("dropped", dropped),
			slog.Int("rows", len(rows)))
	}

	a.logger.InfoContext(ctx, "analysis completed",
		slog.String("company", company),
		slog.Int("rows", len(clean)),
		slog.Int("dropped", dropped),
		slog.String("best_feature", result.BestFeature),
		slog.Float64("mean", result.Mean),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}
