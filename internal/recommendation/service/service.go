// Package service orchestrates the recommendation engine against storage,
// caching, metrics, and the audit trail. The engine stays pure; everything
// with a side effect lives here.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"covera/internal/audit"
	"covera/internal/recommendation"
	"covera/internal/recommendation/metrics"
	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
	"covera/pkg/platform/sentinel"
	"covera/pkg/requestcontext"
)

// Store is the persistence the service needs. Implemented by the memory and
// Postgres stores.
type Store interface {
	Save(ctx context.Context, record recommendation.Record) error
	FindByID(ctx context.Context, recID id.RecommendationID) (recommendation.Record, error)
	ListByUser(ctx context.Context, userID id.UserID, limit, offset int) ([]recommendation.Record, error)
	CountByUser(ctx context.Context, userID id.UserID) (int, error)
	FindLatestByUser(ctx context.Context, userID id.UserID) (recommendation.Record, error)
}

// Cache holds each user's most recent recommendation. Optional; a nil cache
// sends every read to the store.
type Cache interface {
	GetLatest(ctx context.Context, userID id.UserID) (recommendation.Record, error)
	SetLatest(ctx context.Context, record recommendation.Record) error
}

// AuditPublisher records domain events. Optional.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service wires the pure engine to its collaborators.
type Service struct {
	engine  *recommendation.Engine
	store   Store
	cache   Cache
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures optional collaborators.
type Option func(*Service)

// WithCache enables the latest-recommendation cache.
func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithAuditor enables audit event emission.
func WithAuditor(auditor AuditPublisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the recommendation service.
func New(engine *recommendation.Engine, store Store, logger *slog.Logger, opts ...Option) (*Service, error) {
	if engine == nil {
		return nil, errors.New("recommendation engine is required")
	}
	if store == nil {
		return nil, errors.New("recommendation store is required")
	}
	s := &Service{
		engine: engine,
		store:  store,
		logger: logger,
		tracer: otel.Tracer("covera/recommendation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Compute runs the engine for the authenticated user, persists the outcome
// with a fresh ID and the request-scoped timestamp, and returns the record.
func (s *Service) Compute(ctx context.Context, userID id.UserID, profile recommendation.UserProfile) (recommendation.Record, error) {
	ctx, span := s.tracer.Start(ctx, "recommendation.compute")
	defer span.End()

	start := time.Now()
	result, err := s.engine.Compute(profile)
	s.metrics.ObserveCompute(time.Since(start))
	if err != nil {
		return recommendation.Record{}, err
	}

	span.SetAttributes(
		attribute.String("policy.type", string(result.Policy.Type)),
		attribute.Int64("policy.coverage", result.Policy.Coverage),
		attribute.String("pricing_policy.version", result.PolicyVersion),
	)

	record := recommendation.Record{
		ID:        id.NewRecommendationID(),
		UserID:    userID,
		Profile:   profile,
		Result:    result,
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}

	saveStart := time.Now()
	if err := s.store.Save(ctx, record); err != nil {
		return recommendation.Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist recommendation")
	}
	s.metrics.ObserveStore("save", time.Since(saveStart))
	s.metrics.IncrementComputed(string(result.Policy.Type), string(profile.RiskTolerance))

	// Cache and audit are best-effort; the recommendation is already durable.
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, record); err != nil {
			s.logger.WarnContext(ctx, "latest-recommendation cache update failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", userID,
				"error", err,
			)
		}
	}
	if s.auditor != nil {
		_ = s.auditor.Emit(ctx, audit.Event{
			UserID: userID,
			Action: audit.ActionRecommendationCreated,
			Metadata: map[string]string{
				"recommendation_id": record.ID.String(),
				"policy_type":       string(result.Policy.Type),
				"policy_version":    result.PolicyVersion,
				"coverage":          strconv.FormatInt(result.Policy.Coverage, 10),
			},
		})
	}

	return record, nil
}

// History returns one page of the user's recommendations, newest first, plus
// the total count for pagination. The page and the count are fetched in
// parallel.
func (s *Service) History(ctx context.Context, userID id.UserID, limit, offset int) ([]recommendation.Record, int, error) {
	ctx, span := s.tracer.Start(ctx, "recommendation.history")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveStore("list", time.Since(start)) }()

	var (
		records []recommendation.Record
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.store.ListByUser(gctx, userID, limit, offset)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CountByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "could not load recommendation history")
	}

	span.SetAttributes(attribute.Int("history.total", total))
	return records, total, nil
}

// Get returns a single recommendation, scoped to its owner: asking for
// another user's record looks identical to asking for a missing one.
func (s *Service) Get(ctx context.Context, userID id.UserID, recID id.RecommendationID) (recommendation.Record, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore("find", time.Since(start)) }()

	record, err := s.store.FindByID(ctx, recID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return recommendation.Record{}, dErrors.New(dErrors.CodeNotFound, "recommendation not found")
		}
		return recommendation.Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load recommendation")
	}
	if record.UserID != userID {
		return recommendation.Record{}, dErrors.New(dErrors.CodeNotFound, "recommendation not found")
	}
	return record, nil
}

// Latest returns the user's most recent recommendation, reading through the
// cache when one is configured.
func (s *Service) Latest(ctx context.Context, userID id.UserID) (recommendation.Record, error) {
	if s.cache != nil {
		record, err := s.cache.GetLatest(ctx, userID)
		if err == nil {
			s.metrics.IncrementCacheLookup("hit")
			return record, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "latest-recommendation cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", userID,
				"error", err,
			)
		}
		s.metrics.IncrementCacheLookup("miss")
	}

	start := time.Now()
	record, err := s.store.FindLatestByUser(ctx, userID)
	s.metrics.ObserveStore("latest", time.Since(start))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return recommendation.Record{}, dErrors.New(dErrors.CodeNotFound, "no recommendations yet")
		}
		return recommendation.Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load latest recommendation")
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, record); err != nil {
			s.logger.WarnContext(ctx, "latest-recommendation cache backfill failed",
				"user_id", userID,
				"error", err,
			)
		}
	}
	return record, nil
}
