package main

import (
	"github.com/spf13/cobra"

	"github.com/iwvelando/lender-marketplace/pkg/output"
)

func newLendersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "lenders",
		Short: "List the lenders in the configured catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadCatalog()
			if err != nil {
				return err
			}
			return output.PrettyLenders(cmd.OutOrStdout(), store.Snapshot().Products())
		},
	}
}
