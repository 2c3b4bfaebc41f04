package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/astrodaily/internal/media"
)

func newOpenCmd(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open the entry's media in a player or browser",
		Long: "Open the entry's media. Direct video files go to the configured or detected\n" +
			"player, hosted players and images go to the system URL handler.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			_, result, err := resolveFlagDate(cmd.Context(), a, date)
			if err != nil {
				return err
			}

			url, classification := media.OpenTarget(result.Record)
			if err := a.launcher.Open(url, classification); err != nil {
				return fmt.Errorf("failed to open %s: %w", url, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s (%s, %s)\n", url, classification.Kind, classification.Reason)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD or a shortcut like yesterday (default today)")
	return cmd
}
