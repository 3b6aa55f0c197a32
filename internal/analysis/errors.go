package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCompany means the dataset has no rows for the company
	ErrUnknownCompany = errors.New("unknown company")
	// ErrEmptySubset means every row of the company was dropped during cleaning
	ErrEmptySubset = errors.New("no usable rows after cleaning")
	// ErrNothingToRank means no company passed the analysis preconditions
	ErrNothingToRank = errors.New("no company could be ranked")
)

// PreconditionError reports a company whose rows cannot be scored.
// It unwraps to ErrUnknownCompany or ErrEmptySubset.
type PreconditionError struct {
	Company string
	Rows    int
	Dropped int
	Err     error
}

func (e *PreconditionError) Error() string {
	if errors.Is(e.Err, ErrEmptySubset) {
		return fmt.Sprintf("%s: %v (%d of %d rows dropped)", e.Company, e.Err, e.Dropped, e.Rows)
	}
	return fmt.Sprintf("%s: %v", e.Company, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
