package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"storevisit/internal/logging"
	"storevisit/internal/logs"
	"storevisit/internal/services"
)

const followWait = time.Second

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the JSON log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.LogPath()
			if path == "" {
				return services.Wrap(services.ErrConfiguration, "cli", "logs", "paths.log_dir is not set", nil)
			}

			var match string
			if id := ctx.sessionID(); id != "" {
				match = strconv.Quote(logging.FieldSessionID) + ":" + strconv.Quote(id)
			}

			opts := logs.Options{Offset: -1, Limit: max(lines, 0), Match: match}
			if lines <= 0 {
				opts.Offset = 0
			}
			out := cmd.OutOrStdout()
			printed := false
			for {
				result, err := logs.Tail(cmd.Context(), path, opts)
				if err != nil {
					if errors.Is(err, cmd.Context().Err()) {
						return nil
					}
					return fmt.Errorf("tail logs: %w", err)
				}
				for _, line := range result.Lines {
					fmt.Fprintln(out, line)
					printed = true
				}
				if !follow {
					if !printed {
						fmt.Fprintln(out, "No log entries available")
					}
					return nil
				}
				opts = logs.Options{Offset: result.Offset, Match: match, Follow: true, Wait: followWait}
				if cmd.Context().Err() != nil {
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "Number of lines to show (0 for all)")
	return cmd
}
