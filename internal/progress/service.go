package progress

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=progress_test

const (
	DefaultLimit = 20
	// LocalWorkoutsCap bounds how many workouts are read for local derivation.
	LocalWorkoutsCap = 1000

	queryProgress = "exercise_progress"
	queryRecords  = "personal_records"
	queryStats    = "exercise_stats"
)

var (
	ErrRemoteDisabled  = errors.New("remote analytics not configured")
	errDerivationPanic = errors.New("local derivation panicked")
)

type remoteAnalytics interface {
	FetchProgress(ctx context.Context, userID, limit int) ([]ExerciseProgress, error)
	FetchRecords(ctx context.Context, userID int, exerciseName string) ([]PersonalRecord, error)
	FetchStats(ctx context.Context, userID int) (ExerciseStats, error)
}

type workoutsStore interface {
	ListWorkouts(ctx context.Context, userID, limit int) ([]workouts.Workout, error)
}

type resultsCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, payload any)
}

// Source tells which stage produced a query result.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceFailed Source = "failed"
)

// Outcome is the result of running a query through cache, remote and local stages.
// Err is the remote error for SourceLocal, and remote plus local errors for SourceFailed.
type Outcome struct {
	Source Source
	Err    error
}

// Service answers progress queries: cache first, then the remote analytics
// service, then a local derivation from the raw workout log.
type Service struct {
	store   workoutsStore
	remote  remoteAnalytics
	cache   resultsCache
	metrics *metrics.Manager
}

// NewService creates the progress service. remote may be nil for fully offline use.
func NewService(
	store workoutsStore,
	remote remoteAnalytics,
	cache resultsCache,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		store:   store,
		remote:  remote,
		cache:   cache,
		metrics: metricsManager,
	}
}

type query[T any] struct {
	name     string
	key      string
	userID   int
	remote   func(ctx context.Context, remote remoteAnalytics) (T, error)
	derive   func(list []workouts.Workout) (T, error)
	fallback T
}

func ProgressCacheKey(userID, limit int) string {
	return "exerciseProgress_" + strconv.Itoa(userID) + "_" + strconv.Itoa(limit)
}

func RecordsCacheKey(userID int, exerciseName string) string {
	if exerciseName == "" {
		exerciseName = "all"
	}
	return "personalRecords_" + strconv.Itoa(userID) + "_" + exerciseName
}

func StatsCacheKey(userID int) string {
	return "exerciseStats_" + strconv.Itoa(userID)
}

func (s *Service) GetExerciseProgress(ctx context.Context, userID, limit int) []ExerciseProgress {
	progressList, _ := s.GetExerciseProgressWithOutcome(ctx, userID, limit)
	return progressList
}

func (s *Service) GetExerciseProgressWithOutcome(ctx context.Context, userID, limit int) ([]ExerciseProgress, Outcome) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return runQuery(ctx, s, query[[]ExerciseProgress]{
		name:   queryProgress,
		key:    ProgressCacheKey(userID, limit),
		userID: userID,
		remote: func(ctx context.Context, remote remoteAnalytics) ([]ExerciseProgress, error) {
			progressList, err := remote.FetchProgress(ctx, userID, limit)
			if progressList == nil {
				progressList = []ExerciseProgress{}
			}
			return progressList, err
		},
		derive: func(list []workouts.Workout) ([]ExerciseProgress, error) {
			return DeriveProgress(list, limit)
		},
		fallback: []ExerciseProgress{},
	})
}

func (s *Service) GetPersonalRecords(ctx context.Context, userID int, exerciseName string) []PersonalRecord {
	records, _ := s.GetPersonalRecordsWithOutcome(ctx, userID, exerciseName)
	return records
}

func (s *Service) GetPersonalRecordsWithOutcome(ctx context.Context, userID int, exerciseName string) ([]PersonalRecord, Outcome) {
	return runQuery(ctx, s, query[[]PersonalRecord]{
		name:   queryRecords,
		key:    RecordsCacheKey(userID, exerciseName),
		userID: userID,
		remote: func(ctx context.Context, remote remoteAnalytics) ([]PersonalRecord, error) {
			records, err := remote.FetchRecords(ctx, userID, exerciseName)
			if records == nil {
				records = []PersonalRecord{}
			}
			return records, err
		},
		derive: func(list []workouts.Workout) ([]PersonalRecord, error) {
			return BestRecords(list, exerciseName)
		},
		fallback: []PersonalRecord{},
	})
}

func (s *Service) GetExerciseStats(ctx context.Context, userID int) ExerciseStats {
	stats, _ := s.GetExerciseStatsWithOutcome(ctx, userID)
	return stats
}

func (s *Service) GetExerciseStatsWithOutcome(ctx context.Context, userID int) (ExerciseStats, Outcome) {
	return runQuery(ctx, s, query[ExerciseStats]{
		name:   queryStats,
		key:    StatsCacheKey(userID),
		userID: userID,
		remote: func(ctx context.Context, remote remoteAnalytics) (ExerciseStats, error) {
			return remote.FetchStats(ctx, userID)
		},
		derive:   CalculateStats,
		fallback: EmptyStats(),
	})
}

func runQuery[T any](ctx context.Context, s *Service, q query[T]) (T, Outcome) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress."+q.name)
	defer span.End()
	span.SetAttributes(
		attribute.Int("user.id", q.userID),
		attribute.String("cache.key", q.key),
	)

	var cached T
	if s.cache.Get(ctx, q.key, &cached) {
		return cached, s.recordOutcome(span, q.name, Outcome{Source: SourceCache})
	}

	value, remoteErr := remoteAttempt(ctx, s, q)
	if remoteErr == nil {
		s.cache.Set(ctx, q.key, value)
		return value, s.recordOutcome(span, q.name, Outcome{Source: SourceRemote})
	}
	if errors.Is(remoteErr, ErrRemoteDisabled) {
		log.Debugf("%s [user %d]: offline, deriving locally", q.name, q.userID)
	} else {
		log.Infof("%s [user %d]: remote unavailable, deriving locally: %s", q.name, q.userID, remoteErr)
		s.countRemoteFailure(q.name)
	}

	value, localErr := deriveLocal(ctx, s, q)
	if localErr != nil {
		log.Errorf("%s [user %d]: local derivation failed: %s", q.name, q.userID, localErr)
		return q.fallback, s.recordOutcome(span, q.name, Outcome{
			Source: SourceFailed,
			Err:    multierr.Combine(remoteErr, localErr),
		})
	}

	s.cache.Set(ctx, q.key, value)
	return value, s.recordOutcome(span, q.name, Outcome{Source: SourceLocal, Err: remoteErr})
}

func remoteAttempt[T any](ctx context.Context, s *Service, q query[T]) (value T, err error) {
	if s.remote == nil {
		return value, ErrRemoteDisabled
	}
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.remote")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return q.remote(ctx, s.remote)
}

func deriveLocal[T any](ctx context.Context, s *Service, q query[T]) (value T, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.derive-local")
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errDerivationPanic, r)
		}
		if s.metrics != nil {
			s.metrics.HistLocalDerivationDuration.Observe(time.Since(start).Seconds())
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	list, err := s.store.ListWorkouts(ctx, q.userID, LocalWorkoutsCap)
	if err != nil {
		return value, fmt.Errorf("list workouts: %w", err)
	}
	span.SetAttributes(attribute.Int("workouts.count", len(list)))

	return q.derive(list)
}

func (s *Service) recordOutcome(span trace.Span, queryName string, outcome Outcome) Outcome {
	span.SetAttributes(attribute.String("progress.source", string(outcome.Source)))
	if s.metrics != nil {
		s.metrics.CounterQueryOutcomes.WithLabelValues(queryName, string(outcome.Source)).Inc()
	}
	return outcome
}

func (s *Service) countRemoteFailure(queryName string) {
	if s.metrics != nil {
		s.metrics.CounterRemoteFailures.WithLabelValues(queryName).Inc()
	}
}
