// Package commands wires the backoffice CLI: the web console, a one-shot
// table printer and the terminal browser all run on the same table service.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/backoffice/internal/buildinfo"
	"github.com/JonMunkholm/backoffice/internal/config"
	"github.com/JonMunkholm/backoffice/internal/logging"
)

// globals is state resolved once in the root's PersistentPreRunE.
type globals struct {
	envFiles []string
	cfg      *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "backoffice",
		Short:   "Back-office console for payments operations",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load()
		},
	}

	rootCmd.PersistentFlags().StringSliceVar(&g.envFiles, "env-file", []string{".env"}, "env files to load, later files win")

	rootCmd.AddCommand(
		newServeCommand(g),
		newTablesCommand(),
		newTableCommand(g),
		newBrowseCommand(g),
		newResetCommand(g),
	)

	return rootCmd
}

// load reads env files, then configuration, then sets up logging.
func (g *globals) load() error {
	loaded, err := config.LoadEnvFiles(g.envFiles...)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	g.cfg = cfg

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if len(loaded) > 0 {
		slog.Debug("loaded env files", "files", loaded)
	}
	return nil
}
