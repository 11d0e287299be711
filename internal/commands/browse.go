package commands

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/backoffice/internal/logging"
	"github.com/JonMunkholm/backoffice/internal/navigation"
	"github.com/JonMunkholm/backoffice/internal/tui"
)

func newBrowseCommand(g *globals) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse tables in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the UI; logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logging.SetupWriter(w, g.cfg.Logging.Level, g.cfg.Logging.Format)

			a, err := newApp(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer a.close()

			model := tui.New(cmd.Context(), a.service, navigation.FromRegistry(consoleTitle))
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the UI runs")

	return cmd
}
