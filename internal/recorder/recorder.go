// Package recorder keeps a history of marketplace searches for later
// analysis. Recording is best effort: callers log failures and move on.
package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/iwvelando/lender-marketplace/internal/marketplace"
	"github.com/iwvelando/lender-marketplace/pkg/constants"
)

// Decision sources.
const (
	SourceSearch = "search"
	SourceQuote  = "quote"
	SourceCLI    = "cli"
)

// Decision is one completed search.
type Decision struct {
	ID           uuid.UUID
	RecordedAt   time.Time
	Source       string
	ModelVersion string // set when pd came from the scoring service
	Application  marketplace.Application
	PD           float64
	Result       marketplace.Result
}

// NewDecision stamps a search result with a fresh id and the current time.
func NewDecision(source string, app marketplace.Application, pd float64, result marketplace.Result) Decision {
	return Decision{
		ID:          uuid.New(),
		RecordedAt:  time.Now().UTC(),
		Source:      source,
		Application: app,
		PD:          pd,
		Result:      result,
	}
}

// Recorder persists decisions.
type Recorder interface {
	RecordSearch(ctx context.Context, d Decision) error
	Close() error
}

// Open returns the recorder selected by driver.
func Open(logger *zap.Logger, driver, path string) (Recorder, error) {
	switch driver {
	case "", constants.RecorderDriverNoop:
		return NoopRecorder{}, nil
	case constants.RecorderDriverSQLite:
		return NewSQLiteRecorder(logger, path)
	default:
		return nil, eris.Errorf("unknown recorder driver %q", driver)
	}
}
