package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"storevisit/internal/findings"
	"storevisit/internal/logging"
	"storevisit/internal/pipeline"
	"storevisit/internal/services"
)

const componentName = "session"

// Persister durably stores what a Session commits.
type Persister interface {
	Commit(ctx context.Context, sessionID, invocationID string, records []findings.Record, entry findings.Entry) error
	Reset(ctx context.Context, sessionID string, at time.Time) error
}

// Session owns the findings store and transcript log of one inspection. It
// runs at most one submission at a time.
type Session struct {
	id        string
	pipeline  *pipeline.Pipeline
	store     *findings.Store
	log       *findings.TranscriptLog
	responder services.Responder
	persister Persister
	now       func() time.Time
	logger    *slog.Logger

	gate *semaphore.Weighted
	// mu guards the store and log as a pair so readers never see records
	// without their transcript entry.
	mu sync.RWMutex
}

// Option customizes a Session.
type Option func(*Session)

// WithID sets the session identifier. Blank keeps the generated one.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithResponder sets the model used by Observe.
func WithResponder(r services.Responder) Option {
	return func(s *Session) {
		if r != nil {
			s.responder = r
		}
	}
}

// WithPersister writes every commit through p before it becomes visible.
func WithPersister(p Persister) Option {
	return func(s *Session) {
		s.persister = p
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCapacity caps the store and the transcript log. Zero means unlimited.
func WithCapacity(maxRecords, maxEntries int) Option {
	return func(s *Session) {
		s.store = findings.NewStore(s.pipeline.Taxonomy(), findings.WithMaxRecords(maxRecords))
		s.log = findings.NewTranscriptLog(maxEntries)
	}
}

// New creates an empty session classifying through p. Without WithResponder,
// Observe passes typed text straight to the pipeline.
func New(p *pipeline.Pipeline, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		pipeline:  p,
		store:     findings.NewStore(p.Taxonomy()),
		log:       findings.NewTranscriptLog(0),
		responder: services.Passthrough{},
		now:       time.Now,
		logger:    logging.NewNop(),
		gate:      semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, componentName).With(logging.String(logging.FieldSessionID, s.id))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Submit classifies a raw model response and commits the outcome. The
// returned Result is always well formed; on error it is the failure result
// and nothing was committed.
func (s *Session) Submit(ctx context.Context, raw string) (pipeline.Result, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return s.pipeline.FailureResult(), services.Wrap(services.ErrTransient, componentName, "submit", "wait for in-flight submission", err)
	}
	defer s.gate.Release(1)
	return s.commit(ctx, raw)
}

// Observe asks the responder about obs and commits the reply. A responder
// failure mutates nothing and logs no transcript entry.
func (s *Session) Observe(ctx context.Context, obs services.Observation) (pipeline.Result, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return s.pipeline.FailureResult(), services.Wrap(services.ErrTransient, componentName, "observe", "wait for in-flight submission", err)
	}
	defer s.gate.Release(1)

	start := time.Now()
	raw, err := s.responder.Respond(ctx, obs)
	if err != nil {
		logging.WarnWithContext(s.logger, "model call failed", "upstream_failure",
			logging.String("observation", services.Describe(obs)),
			logging.Duration("elapsed", time.Since(start)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check model provider settings and retry"),
			logging.String(logging.FieldImpact, "observation not recorded"),
		)
		return s.pipeline.FailureResult(), upstreamError(err)
	}
	s.logger.Debug("model responded",
		logging.String("observation", services.Describe(obs)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return s.commit(ctx, raw)
}

func upstreamError(err error) error {
	switch {
	case errors.Is(err, services.ErrUpstreamModel),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrConfiguration):
		return err
	default:
		return services.Wrap(services.ErrUpstreamModel, componentName, "observe", "model call failed", err)
	}
}

// commit runs with the gate held. Once a raw response exists nothing waits on
// ctx: cancellation cannot split a batch.
func (s *Session) commit(ctx context.Context, raw string) (pipeline.Result, error) {
	invocationID := uuid.NewString()
	ctx = services.WithInvocationID(services.WithSessionID(context.WithoutCancel(ctx), s.id), invocationID)
	now := s.now()

	result := s.pipeline.Process(ctx, raw, now)
	entry := findings.Entry{Text: result.Transcript, RecordedAt: now}

	if !s.store.Fits(len(result.NewRecords)) || !s.log.Fits(1) {
		err := services.Wrap(services.ErrStoreWrite, componentName, "commit", "capacity exhausted", findings.ErrCapacity)
		s.logCommitFailure(ctx, err)
		return s.pipeline.FailureResult(), err
	}
	if s.persister != nil {
		if err := s.persister.Commit(ctx, s.id, invocationID, result.NewRecords, entry); err != nil {
			err = services.Wrap(services.ErrStoreWrite, componentName, "commit", "persist", err)
			s.logCommitFailure(ctx, err)
			return s.pipeline.FailureResult(), err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Append(result.NewRecords...); err != nil {
		err = services.Wrap(services.ErrStoreWrite, componentName, "commit", "append records", err)
		s.logCommitFailure(ctx, err)
		return s.pipeline.FailureResult(), err
	}
	if err := s.log.Append(entry); err != nil {
		err = services.Wrap(services.ErrStoreWrite, componentName, "commit", "append transcript", err)
		s.logCommitFailure(ctx, err)
		return s.pipeline.FailureResult(), err
	}
	return result, nil
}

func (s *Session) logCommitFailure(ctx context.Context, err error) {
	logging.ErrorWithContext(logging.WithContext(ctx, s.logger), "commit failed", "store_write_failure",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "raise store limits or reset the session"),
		logging.String(logging.FieldImpact, "observation not recorded"),
	)
}

// Reset clears every record and transcript entry. The session keeps its ID.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return services.Wrap(services.ErrTransient, componentName, "reset", "wait for in-flight submission", err)
	}
	defer s.gate.Release(1)

	if s.persister != nil {
		if err := s.persister.Reset(context.WithoutCancel(ctx), s.id, s.now()); err != nil {
			return services.Wrap(services.ErrStoreWrite, componentName, "reset", "persist", err)
		}
	}
	s.mu.Lock()
	s.store.Reset()
	s.log.Reset()
	s.mu.Unlock()
	s.logger.Info("session reset")
	return nil
}
