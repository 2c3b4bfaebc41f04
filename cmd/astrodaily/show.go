package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/astrodaily/internal/domain"
	"github.com/mmcdole/astrodaily/internal/httpapi"
	"github.com/mmcdole/astrodaily/internal/quickdate"
	"github.com/mmcdole/astrodaily/internal/tui"
)

type showOptions struct {
	date string
	json bool
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var so showOptions
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the entry for a date",
		Example: "  astrodaily show\n" +
			"  astrodaily show --date 2024-01-15\n" +
			"  astrodaily show --date \"2 weeks ago\" --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, so)
		},
	}
	cmd.Flags().StringVarP(&so.date, "date", "d", "", "Date as YYYY-MM-DD or a shortcut like yesterday (default today)")
	cmd.Flags().BoolVar(&so.json, "json", false, "Print JSON")
	return cmd
}

func runShow(cmd *cobra.Command, opts *rootOptions, so showOptions) error {
	a, err := newApp(cmd, opts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	requested, result, err := resolveFlagDate(cmd.Context(), a, so.date)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if so.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(httpapi.NewContentResponse(requested, result))
	}
	printResult(out, requested, result)
	return nil
}

// resolveFlagDate parses a --date value (empty means today) and resolves it
func resolveFlagDate(ctx context.Context, a *app, raw string) (time.Time, domain.ResolutionResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	requested := a.resolver.Today()
	if raw != "" {
		d, err := quickdate.Parse(raw, requested)
		if err != nil {
			return time.Time{}, domain.ResolutionResult{}, err
		}
		requested = d
	}

	result, err := a.resolver.Resolve(ctx, requested)
	if err != nil {
		return requested, domain.ResolutionResult{}, err
	}
	return requested, result, nil
}

func printResult(w io.Writer, requested time.Time, r domain.ResolutionResult) {
	rec := r.Record
	fmt.Fprintln(w, rec.Title)

	line := rec.ID + " · " + rec.MediaKind.DisplayName()
	if rec.Attribution != "" {
		line += " · © " + rec.Attribution
	}
	fmt.Fprintln(w, line)

	if banner := tui.RenderBanner(requested, r); banner != "" {
		fmt.Fprintln(w, banner)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rec.Explanation)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rec.BestImageURL())
}
