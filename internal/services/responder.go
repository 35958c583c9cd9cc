package services

import (
	"context"
	"fmt"
	"strings"
)

// Observation is one inspector submission before classification. Exactly one
// of Text or Audio is expected to be set.
type Observation struct {
	Text     string
	Audio    []byte
	MIMEType string
}

// HasAudio reports whether the observation carries an audio clip.
func (o Observation) HasAudio() bool {
	return len(o.Audio) > 0
}

// Responder turns an observation into the raw text the pipeline classifies.
// Implementations call an external model; the returned text may or may not
// contain a structured payload.
type Responder interface {
	Respond(ctx context.Context, obs Observation) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, obs Observation) (string, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, obs Observation) (string, error) {
	return f(ctx, obs)
}

// Passthrough returns typed text unchanged so it goes straight to the keyword
// path. Audio cannot be passed through.
type Passthrough struct{}

// Respond implements Responder.
func (Passthrough) Respond(ctx context.Context, obs Observation) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", Wrap(ErrUpstreamModel, "passthrough", "respond", "context done", err)
	}
	if obs.HasAudio() {
		return "", Wrap(ErrConfiguration, "passthrough", "respond", "audio requires a model provider", nil)
	}
	return obs.Text, nil
}

// Describe returns a short label for logs.
func Describe(obs Observation) string {
	if obs.HasAudio() {
		mime := strings.TrimSpace(obs.MIMEType)
		if mime == "" {
			mime = "application/octet-stream"
		}
		return fmt.Sprintf("audio(%s, %d bytes)", mime, len(obs.Audio))
	}
	return fmt.Sprintf("text(%d runes)", len([]rune(obs.Text)))
}
