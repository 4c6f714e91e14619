package series

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aouyang1/go-sales-forecaster/ledger"
)

var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria selects the ledger records that make up a series. Years are inclusive and the
// category must match exactly, case included.
type Criteria struct {
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	Category  string `json:"category"`
}

func (c Criteria) Validate() error {
	if c.StartYear > c.EndYear {
		return fmt.Errorf("start year %d after end year %d, %w, %w", c.StartYear, c.EndYear, ErrInvalidCriteria, ledger.ErrMalformedInput)
	}
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("empty category, %w, %w", ErrInvalidCriteria, ledger.ErrMalformedInput)
	}
	return nil
}

func (c Criteria) matches(year int, category string) bool {
	return year >= c.StartYear && year <= c.EndYear && category == c.Category
}
