package config

import (
	"fmt"
	"net/url"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"

	"github.com/iwvelando/lender-marketplace/pkg/constants"
	"github.com/iwvelando/lender-marketplace/pkg/validation"
)

// Validate returns an error for configuration that cannot work.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return eris.Wrap(err, "output")
	}
	if err := validation.ValidateLogLevel(c.Logging.Level); err != nil {
		return eris.Wrap(err, "logging")
	}
	if _, err := validation.ParseSize(c.Server.MaxBodySize); err != nil {
		return eris.Wrap(err, "server.maxBodySize")
	}
	if c.Catalog.Path == "" {
		return eris.New("catalog.path is required")
	}
	if c.Catalog.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.Catalog.RefreshSchedule); err != nil {
			return eris.Wrapf(err, "catalog.refreshSchedule %q", c.Catalog.RefreshSchedule)
		}
	}
	if c.Scoring.URL != "" {
		u, err := url.Parse(c.Scoring.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return eris.Errorf("scoring.url %q is not an absolute URL", c.Scoring.URL)
		}
	}
	switch c.Recorder.Driver {
	case "", constants.RecorderDriverNoop:
	case constants.RecorderDriverSQLite:
		if c.Recorder.Path == "" {
			return eris.New("recorder.path is required for the sqlite driver")
		}
	default:
		return eris.Errorf("unknown recorder driver %q", c.Recorder.Driver)
	}
	return nil
}

// ValidateConfiguration returns warnings for configuration that works but is
// probably not what was intended.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Scoring.URL == "" {
		warnings = append(warnings, "scoring.url is not set; /offers/quote is disabled and callers must supply pd")
	} else {
		if c.Scoring.TimeoutSeconds <= 0 {
			warnings = append(warnings, fmt.Sprintf("scoring.timeoutSeconds %d is not positive; using %d",
				c.Scoring.TimeoutSeconds, constants.DefaultScoringTimeoutSeconds))
		}
		if c.Scoring.MaxAttempts <= 0 {
			warnings = append(warnings, fmt.Sprintf("scoring.maxAttempts %d is not positive; using %d",
				c.Scoring.MaxAttempts, constants.DefaultScoringMaxAttempts))
		}
	}

	if !c.Catalog.Watch && c.Catalog.RefreshSchedule == "" {
		warnings = append(warnings, "catalog reloading is disabled; restart to pick up lender changes")
	}

	if c.Server.Version == constants.DefaultVersion {
		warnings = append(warnings, "server.version is not set")
	}

	return warnings
}
