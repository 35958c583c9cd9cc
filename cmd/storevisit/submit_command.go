package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storevisit/internal/pipeline"
	"storevisit/internal/services"
)

var audioMIMETypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var (
		audioPath string
		mimeType  string
		raw       bool
		startNew  bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "submit [text...]",
		Short: "Classify one observation and add it to the session",
		Long: `Classify one observation and add it to the session.

Text is taken from the arguments, or from stdin when the only argument is "-".
With --audio the clip is sent to the configured model for transcription.
With --raw the input is treated as a model response and classified directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := readObservation(cmd, args, audioPath, mimeType)
			if err != nil {
				return err
			}
			if raw && obs.HasAudio() {
				return services.Wrap(services.ErrValidation, "submit", "", "--raw cannot be combined with --audio", nil)
			}
			mode := writeSession
			if startNew {
				mode = newSession
			}
			return ctx.withSession(cmd, mode, !raw, func(deps sessionDeps) error {
				var (
					result pipeline.Result
					subErr error
				)
				if raw {
					result, subErr = deps.session.Submit(cmd.Context(), obs.Text)
				} else {
					result, subErr = deps.session.Observe(cmd.Context(), obs)
				}
				if asJSON {
					if err := writeJSON(cmd, submitPayload{SessionID: deps.session.ID(), Result: result, Error: errorText(subErr)}); err != nil {
						return err
					}
					return subErr
				}
				printSubmitResult(cmd.OutOrStdout(), deps.session.ID(), result, subErr)
				return subErr
			})
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "Audio clip to transcribe and classify")
	cmd.Flags().StringVar(&mimeType, "mime", "", "MIME type of the audio clip (guessed from the extension when empty)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Treat the input as a raw model response")
	cmd.Flags().BoolVar(&startNew, "new", false, "Start a new session for this observation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

type submitPayload struct {
	SessionID string          `json:"session_id"`
	Result    pipeline.Result `json:"result"`
	Error     string          `json:"error,omitempty"`
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func readObservation(cmd *cobra.Command, args []string, audioPath, mimeType string) (services.Observation, error) {
	if audioPath = strings.TrimSpace(audioPath); audioPath != "" {
		if len(args) > 0 {
			return services.Observation{}, services.Wrap(services.ErrValidation, "submit", "", "pass either text or --audio, not both", nil)
		}
		data, err := os.ReadFile(audioPath)
		if err != nil {
			return services.Observation{}, services.Wrap(services.ErrValidation, "submit", "read audio", audioPath, err)
		}
		if len(data) == 0 {
			return services.Observation{}, services.Wrap(services.ErrValidation, "submit", "read audio", audioPath+" is empty", nil)
		}
		if mimeType = strings.TrimSpace(mimeType); mimeType == "" {
			mimeType = audioMIMETypes[strings.ToLower(filepath.Ext(audioPath))]
		}
		if mimeType == "" {
			return services.Observation{}, services.Wrap(services.ErrValidation, "submit", "", "cannot guess audio type of "+audioPath+"; pass --mime", nil)
		}
		return services.Observation{Audio: data, MIMEType: mimeType}, nil
	}

	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return services.Observation{}, fmt.Errorf("read stdin: %w", err)
		}
		return services.Observation{Text: string(data)}, nil
	}
	return services.Observation{Text: strings.Join(args, " ")}, nil
}

func printSubmitResult(w io.Writer, sessionID string, result pipeline.Result, err error) {
	colorize := shouldColorize(w)
	printLines(w, renderSessionHeader("Observation", sessionID, colorize)...)
	if err != nil {
		printLines(w, renderStatusLine("Result", statusError, "not recorded", colorize))
		return
	}
	pathKind := statusOK
	if result.Path == pipeline.PathFallback {
		pathKind = statusWarn
	}
	printLines(w,
		renderStatusLine("Path", pathKind, result.Path.String(), colorize),
		renderStatusLine("Transcript", statusInfo, result.Transcript, colorize),
		renderStatusLine("Records", recordsKind(result.NewRecords), strconv.Itoa(len(result.NewRecords)), colorize),
	)
	if len(result.Dropped) > 0 {
		printLines(w, renderStatusLine("Dropped", statusWarn, fmt.Sprintf("%d with unknown category", len(result.Dropped)), colorize))
	}
	if len(result.NewRecords) == 0 {
		return
	}
	fmt.Fprintln(w, renderRecordTable(result.NewRecords, false, 60))
}

func formatConfidence(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
