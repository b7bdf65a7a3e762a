// Command oxy-resolve resolves scene documents against a project's asset backend and
// serves projects over the HTTP asset API and the websocket native bridge.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	cfg        config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "oxy-resolve",
		Short:        "Resolve scene asset references against a project backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")

	cmd.AddCommand(newResolveCommand(opts), newServeCommand(opts))
	return cmd
}

// load reads the config file, applies flag overrides and builds the logger.
func (o *rootOptions) load() error {
	o.cfg = config.Default()
	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}
	if o.logLevel != "" {
		o.cfg.LogLevel = o.logLevel
	}
	level, err := o.cfg.Level()
	if err != nil {
		return err
	}
	o.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(o.logger)
	return nil
}

// fsPath converts a host path to a path in the hackpadfs os filesystem, which is rooted
// at "/" and takes slash-separated names without a leading slash.
func fsPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", p, err)
	}
	abs = filepath.ToSlash(abs)
	if vol := filepath.VolumeName(abs); vol != "" {
		abs = strings.TrimPrefix(abs, vol)
	}
	return strings.TrimPrefix(abs, "/"), nil
}
