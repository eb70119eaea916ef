// Package cli wires configuration, storage and the HTTP server into the
// homepage command.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kerhoff/homepage/internal/config"
	"github.com/Kerhoff/homepage/pkg/logger"
)

// NewRootCommand creates the homepage command. Without a subcommand it
// behaves like "serve".
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "homepage",
		Short:         "Personal site backend",
		Long:          "Serves the résumé, the gift wishlist and blog posts over a JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())

	return cmd
}

// setup loads the configuration and builds the logger every command shares
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogLevel, cfg.LogFormat), nil
}
