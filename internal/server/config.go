package server

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/iwvelando/lender-marketplace/internal/config"
	"github.com/iwvelando/lender-marketplace/pkg/constants"
	"github.com/iwvelando/lender-marketplace/pkg/validation"
)

// Options are the runtime parameters of the HTTP handler.
type Options struct {
	MaxBodySize int64
	Version     string
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
}

// OptionsFromConfig converts the server section of the configuration.
func OptionsFromConfig(cfg config.ServerConfig) (Options, error) {
	size, err := validation.ParseSize(cfg.MaxBodySize)
	if err != nil {
		return Options{}, eris.Wrap(err, "invalid server.maxBodySize")
	}
	opts := Options{MaxBodySize: size, Version: cfg.Version, AllowedOrigins: cfg.AllowedOrigins}
	opts.normalize()
	return opts, nil
}

func (o *Options) normalize() {
	if o.MaxBodySize <= 0 {
		o.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}
	o.Version = strings.TrimSpace(o.Version)
	if o.Version == "" {
		o.Version = constants.DefaultVersion
	}
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"*"}
	}
}
