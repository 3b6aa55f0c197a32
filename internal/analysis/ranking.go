package analysis

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"stockig/internal/dataset"
)

// SkippedCompany is a company left out of a ranking and why
type SkippedCompany struct {
	Company string `json:"company"`
	Reason  string `json:"reason"`
	Dropped int    `json:"dropped_rows"`
}

// Ranking is the cross-company comparison of mean information gain
type Ranking struct {
	Results []*Result        `json:"results"`
	Best    *Result          `json:"best"`
	Skipped []SkippedCompany `json:"skipped"`
}

// Rank analyzes every company in first-appearance order. Companies that fail a
// precondition are listed in Skipped; the best is the highest mean, first wins
// ties.
func (a *Analyzer) Rank(ctx context.Context, ds *dataset.Dataset) (*Ranking, error) {
	ctx, span := a.tracer.Start(ctx, "analysis.rank")
	defer span.End()

	ranking := &Ranking{}

	for _, company := range ds.Companies() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := a.Analyze(ctx, ds, company)
		if err != nil {
			var pe *PreconditionError
			if errors.As(err, &pe) {
				ranking.Skipped = append(ranking.Skipped, SkippedCompany{
					Company: company,
					Reason:  pe.Err.Error(),
					Dropped: pe.Dropped,
				})
				continue
			}
			return nil, err
		}

		ranking.Results = append(ranking.Results, result)
		if ranking.Best == nil || result.Mean > ranking.Best.Mean {
			ranking.Best = result
		}
	}

	span.SetAttributes(
		attribute.Int("ranked", len(ranking.Results)),
		attribute.Int("skipped", len(ranking.Skipped)))

	if ranking.Best == nil {
		return ranking, ErrNothingToRank
	}

	a.logger.InfoContext(ctx, "ranking completed",
		slog.Int("ranked", len(ranking.Results)),
		slog.Int("skipped", len(ranking.Skipped)),
		slog.String("best", ranking.Best.Company))

	return ranking, nil
}
