package main

import (
	"github.com/spf13/cobra"

	"github.com/Salehmangrio/postbase/internal/configschema"
)

func cmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(cmdConfigSchema())
	cmd.AddCommand(cmdConfigValidate())

	return cmd
}

func cmdConfigSchema() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [block...]",
		Short: "Print JSON schemas of configuration blocks, e.g. database.sqlite",
		// No config file needed to describe one.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return configschema.Generate(cmd.OutOrStdout(), args...)
		},
	}
}

func cmdConfigValidate() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and report whether it is valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			// loadConfig already ran the schema and semantic validation.
			statusOk(cmd, "%s is valid", cfgFile)
			return nil
		},
	}
}
