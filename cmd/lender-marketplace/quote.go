package main

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iwvelando/lender-marketplace/internal/marketplace"
	"github.com/iwvelando/lender-marketplace/internal/recorder"
	"github.com/iwvelando/lender-marketplace/internal/scoring"
	"github.com/iwvelando/lender-marketplace/pkg/output"
	"github.com/iwvelando/lender-marketplace/pkg/validation"
)

func newQuoteCmd(c *cli) *cobra.Command {
	var (
		applicationPath string
		pd              float64
		outputFormat    string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Search offers for one application file",
		Long: "Search offers for an application read from a YAML or JSON file. " +
			"Without --pd the configured scoring service supplies the probability of default.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pd") {
				pd = math.NaN()
			}
			return c.quote(cmd, applicationPath, pd, outputFormat)
		},
	}
	cmd.Flags().StringVar(&applicationPath, "application", "", "path to the application file (required)")
	cmd.Flags().Float64Var(&pd, "pd", 0, "probability of default")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	_ = cmd.MarkFlagRequired("application")
	return cmd
}

func (c *cli) quote(cmd *cobra.Command, applicationPath string, pd float64, outputFormat string) error {
	// CLI override takes precedence over config
	if outputFormat == "" {
		outputFormat = c.conf.Output.Format
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	app, err := marketplace.LoadApplication(applicationPath)
	if err != nil {
		return err
	}

	store, err := c.loadCatalog()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var modelVersion string
	if math.IsNaN(pd) {
		if c.conf.Scoring.URL == "" {
			return eris.New("--pd is required when scoring.url is not configured")
		}
		score, err := c.newScoringClient().Score(ctx, scoring.NewFeatures(app, marketplace.ComputeMetrics(app)))
		if err != nil {
			return err
		}
		pd, modelVersion = score.PD, score.ModelVersion
		if app.APRRecommended == nil || *app.APRRecommended == 0 {
			apr := score.RecommendedAPRPercent()
			app.APRRecommended = &apr
		}
	}

	result, err := marketplace.NewEngine(c.logger, store).Search(marketplace.Request{Application: &app, PD: pd})
	if err != nil {
		return err
	}

	rec, err := recorder.Open(c.logger, c.conf.Recorder.Driver, c.conf.Recorder.Path)
	if err != nil {
		return eris.Wrap(err, "failed to open decision recorder")
	}
	decision := recorder.NewDecision(recorder.SourceCLI, app, pd, result)
	decision.ModelVersion = modelVersion
	if err := rec.RecordSearch(ctx, decision); err != nil {
		c.logger.Warn("failed to record decision", zap.String("op", "main.quote"), zap.Error(err))
	}
	if err := rec.Close(); err != nil {
		c.logger.Warn("failed to close decision recorder", zap.String("op", "main.quote"), zap.Error(err))
	}

	return output.Write(cmd.OutOrStdout(), outputFormat, result)
}
