package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "List inspection sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			defer ctx.close()
			db, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			list, err := db.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				if list == nil {
					return writeJSON(cmd, []any{})
				}
				return writeJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No sessions yet")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for i, info := range list {
				marker := ""
				if i == 0 {
					marker = "*"
				}
				rows = append(rows, []string{
					marker,
					info.ID,
					info.CreatedAt.Local().Format(timeLayout),
					info.UpdatedAt.Local().Format(timeLayout),
					strconv.Itoa(info.Records),
					strconv.Itoa(info.Entries),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"", "ID", "Created", "Updated", "Records", "Transcript"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				0,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print sessions as JSON")
	cmd.AddCommand(newSessionsNewCommand(ctx))
	return cmd
}

func newSessionsNewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new empty session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, newSession, false, func(deps sessionDeps) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Started session %s\n", deps.session.ID())
				return nil
			})
		},
	}
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every finding and transcript entry from the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, writeSession, false, func(deps sessionDeps) error {
				records, entries := deps.session.Len()
				if err := deps.session.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d findings and %d transcript entries from session %s\n",
					records, entries, deps.session.ID())
				return nil
			})
		},
	}
}
