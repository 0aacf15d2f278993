package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/onekit-js/onekit-site/internal/config"
	"github.com/onekit-js/onekit-site/internal/server"
	"github.com/onekit-js/onekit-site/pkg/logging"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "onekit-site",
		Short: "The OneKit JS documentation site",
		Long: `onekit-site serves the OneKit JS marketing and documentation site with
live, server-rendered pages. It can also export the whole site as static
HTML and Markdown, or print a single page to the terminal.

Configuration is read from --config, or from the XDG default
` + config.DefaultPath() + ` when present, and ONEKIT_* environment
variables override both.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: json or console")

	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewExportCmd(opts))
	cmd.AddCommand(NewShowCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// load reads the configuration and applies the logging flags.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	return cfg, nil
}

func configureLogging(cmd *cobra.Command, cfg *config.Config) {
	logging.Configure(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
		Service: server.ServiceName,
		Version: getVersion(),
	})
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
