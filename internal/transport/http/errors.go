package http

import (
	"errors"
	"net/http"

	"stockig/internal/analysis"
	"stockig/internal/dataset"
	apierrors "stockig/internal/errors"
	"stockig/internal/services"
)

// mapServiceError translates service and domain errors into API errors.
// Errors it does not recognize are returned unchanged.
func mapServiceError(err error, company string) error {
	var pe *analysis.PreconditionError
	switch {
	case errors.Is(err, services.ErrInvalidCompany):
		return apierrors.ErrValidation("company", "Company must be 1 to 64 characters")
	case errors.Is(err, analysis.ErrUnknownCompany):
		return apierrors.CompanyNotFoundError(company)
	case errors.As(err, &pe) && errors.Is(err, analysis.ErrEmptySubset):
		return apierrors.EmptySubsetError(pe.Company, pe.Dropped)
	case errors.Is(err, analysis.ErrNothingToRank):
		return apierrors.New(http.StatusUnprocessableEntity, "NOTHING_TO_RANK",
			"No company has usable rows after cleaning")
	case errors.Is(err, dataset.ErrMissingColumn), errors.Is(err, dataset.ErrEmptyFile):
		return apierrors.NewParsingError("dataset file is malformed", err)
	case errors.Is(err, services.ErrDatasetUnavailable):
		return apierrors.DatasetUnavailableError(err)
	}
	return err
}

// statusOf returns the HTTP status a mapped error is reported with
func statusOf(err error) int {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var appErr *apierrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apierrors.ErrTypeParsing {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
