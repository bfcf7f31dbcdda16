package core

import (
	"context"
	"time"
)

// Service wraps a persistent store with observability and optional archival
// of applied mutation-log segments. All store access by higher layers goes
// through Apply and Query so every operation is observed uniformly.
type Service struct {
	store    Store
	logger   Logger
	metrics  MetricsRecorder
	tracer   Tracer
	archiver *LogArchiver
}

// Option configures a Service.
type Option func(*Service)

// WithLogger installs a structured logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsRecorder installs a metrics sink.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer installs a tracing hook.
func WithTracer(t Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithArchiver archives every applied log segment after a successful Apply.
func WithArchiver(a *LogArchiver) Option {
	return func(s *Service) {
		s.archiver = a
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying persistent store.
func (s *Service) Store() Store {
	return s.store
}

// Apply runs fn against a session and folds its log into committed state.
// The applied descriptor sequence is returned in order. When an archiver is
// configured the segment is archived after commit; archival failure is
// reported but does not undo the commit.
func (s *Service) Apply(ctx context.Context, fn func(*Session) error) ([]LoggedMutation, error) {
	var applied []LoggedMutation
	err := s.observe(ctx, "apply", func(ctx context.Context) error {
		var err error
		applied, err = s.store.Apply(ctx, fn)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("applied mutation log", "descriptors", len(applied))
	if s.archiver != nil && len(applied) > 0 {
		info, archiveErr := s.archiver.Archive(ctx, applied)
		if archiveErr != nil {
			s.logger.Error("archive log segment", "error", archiveErr)
			return applied, archiveErr
		}
		s.logger.Info("archived log segment", "key", info.Key, "bytes", info.Size)
	}
	return applied, nil
}

// Query runs fn against a read-only session; descriptors recorded by fn are
// discarded.
func (s *Service) Query(ctx context.Context, fn func(*Session) error) error {
	return s.observe(ctx, "query", func(ctx context.Context) error {
		return s.store.View(ctx, fn)
	})
}

// ExportState returns a deep copy of the committed state.
func (s *Service) ExportState() State {
	return s.store.ExportState()
}

// ImportState replaces the committed state wholesale.
func (s *Service) ImportState(state State) error {
	return s.store.ImportState(state)
}

func (s *Service) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, operation)
	started := time.Now()
	err := fn(ctx)
	s.metrics.Observe(ctx, operation, err == nil, time.Since(started))
	span.End(err)
	if err != nil {
		s.logger.Error(operation+" failed", "error", err)
	}
	return err
}
