// Package services defines shared utilities consumed by the session and the
// external model integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session and invocation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     upstream model failures from store write failures.
//   - The Responder contract every model collaborator implements, the shared
//     observation prompt, and Passthrough for typed text.
//
// Use these helpers when wiring a new model backend so error handling and
// observability stay uniform across providers.
package services
