package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/astrodaily/internal/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse entries interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	progress := make(chan tui.FetchProgressMsg, 64)

	a, err := newApp(cmd, opts, tui.NewChannelObserver(progress))
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewModel(tui.Services{
		Resolver: a.resolver,
		Images:   a.images,
		Cache:    a.store,
		Opener:   a.launcher,
		Progress: progress,
		Logger:   a.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
