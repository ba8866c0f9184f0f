package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iwvelando/lender-marketplace/internal/catalog"
	"github.com/iwvelando/lender-marketplace/internal/config"
	"github.com/iwvelando/lender-marketplace/pkg/constants"
)

// cli holds state shared by every subcommand once the root pre-run has
// loaded configuration.
type cli struct {
	configPath string
	logLevel   string

	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "lender-marketplace",
		Short:         "Match vehicle loan applications to lenders and price their offers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(c),
		newQuoteCmd(c),
		newLendersCmd(c),
	)
	return root
}

func (c *cli) init() error {
	conf, err := config.LoadConfiguration(c.configPath)
	if err != nil {
		return eris.Wrapf(err, "failed to load configuration at %s", c.configPath)
	}
	if c.logLevel != "" {
		conf.Logging.Level = c.logLevel
	}
	if err := conf.Validate(); err != nil {
		return eris.Wrap(err, "invalid configuration")
	}

	logger, err := config.NewLogger(conf.Logging, c.logLevel)
	if err != nil {
		return eris.Wrap(err, "failed to initialize logger")
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	c.conf = conf
	c.logger = logger
	return nil
}

// loadCatalog reads the configured catalog into a new store.
func (c *cli) loadCatalog() (*catalog.Store, error) {
	cat, err := catalog.LoadFile(c.conf.Catalog.Path)
	if err != nil {
		return nil, err
	}
	c.logger.Info("lender catalog loaded",
		zap.String("op", "main"),
		zap.String("path", c.conf.Catalog.Path),
		zap.Int("lenders", cat.Len()),
	)
	return catalog.NewStore(cat), nil
}
