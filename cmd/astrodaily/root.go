package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// rootOptions holds flags shared by every subcommand
type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "astrodaily",
		Short: "Browse the astronomy picture of the day",
		Long: "astrodaily shows the astronomy picture of the day. Dates without an entry\n" +
			"fall back to the nearest earlier day, and the last record is kept on disk\n" +
			"for offline use.",
		Version:       Version,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Interactive viewer on a terminal, plain output otherwise
			if isInteractive() {
				return runTUI(cmd, opts)
			}
			return runShow(cmd, opts, showOptions{})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Config file path (default ~/.config/astrodaily/config.yaml)")
	pf.String("log-level", "", "Logging level: debug|info|warn|error")
	pf.String("source-url", "", "Base URL of the content API")
	pf.String("cache-dir", "", "Cache directory")

	cmd.AddCommand(
		newShowCmd(opts),
		newTUICmd(opts),
		newOpenCmd(opts),
		newServeCmd(opts),
		newCacheCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("astrodaily %s\n", Version)
		},
	}
}
