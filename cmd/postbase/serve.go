package main

import (
	"github.com/spf13/cobra"

	"github.com/Salehmangrio/postbase/internal/service/api"
)

func cmdServe() *cobra.Command {
	var noBanner bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development REST server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !noBanner {
				banner()
			}
			return api.Serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "Don't show banner")

	return cmd
}
