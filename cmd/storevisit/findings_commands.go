package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storevisit/internal/fileutil"
	"storevisit/internal/findings"
	"storevisit/internal/services"
)

const timeLayout = "2006-01-02 15:04:05"

func newFindingsCommand(ctx *commandContext) *cobra.Command {
	var (
		category string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "findings",
		Short: "List recorded findings by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, readSession, false, func(deps sessionDeps) error {
				category = strings.TrimSpace(category)
				if category != "" && !deps.tax.Contains(category) {
					return services.Wrap(services.ErrValidation, "findings", "", fmt.Sprintf("unknown category %q", category), nil)
				}
				snap := deps.session.Snapshot()
				records := make([]findings.Record, 0, len(snap.Records))
				for _, rec := range snap.Records {
					if category == "" || rec.Category == category {
						records = append(records, rec)
					}
				}
				if asJSON {
					return writeJSON(cmd, records)
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No findings recorded")
					return nil
				}
				fmt.Fprintln(out, renderRecordTable(records, true, 60))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only show findings in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print findings as JSON")
	return cmd
}

func newTranscriptCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Show the session transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, readSession, false, func(deps sessionDeps) error {
				snap := deps.session.Snapshot()
				if asJSON {
					return writeJSON(cmd, snap.Entries)
				}
				out := cmd.OutOrStdout()
				if len(snap.Entries) == 0 {
					fmt.Fprintln(out, "Transcript is empty")
					return nil
				}
				for _, entry := range snap.Entries {
					fmt.Fprintf(out, "[%s] %s\n", entry.RecordedAt.Local().Format(timeLayout), entry.Text)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of the session for reporting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, readSession, false, func(deps sessionDeps) error {
				snap := deps.session.Snapshot()
				snap.TakenAt = time.Now().UTC()
				if strings.TrimSpace(outputPath) == "" {
					return writeJSON(cmd, snap)
				}
				err := fileutil.WriteAtomic(outputPath, 0o644, func(w io.Writer) error {
					return encodeJSON(w, snap)
				})
				if err != nil {
					return fmt.Errorf("write %s: %w", outputPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote snapshot of session %s to %s\n", snap.SessionID, outputPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
