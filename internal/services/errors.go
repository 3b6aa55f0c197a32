package services

import "errors"

var (
	// Dataset errors
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// Input errors
	ErrInvalidCompany = errors.New("invalid company")
)
