package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultWindowDays is the sync window when the trigger supplies none.
	DefaultWindowDays = 7
	// LookbackDays is the fixed sink-side reference window. Intentionally
	// wider than the sync window: sink writes may lag the moment of
	// measurement, so a 7-day sync window must still be checked against
	// anything the sink already has going back further.
	LookbackDays = 30
	// MaxEntriesPerSync caps writes per run. Bounds the blast radius of an
	// unexpected backlog (e.g. a first run against months of untouched
	// history) flooding the sink in one pass.
	MaxEntriesPerSync = 5
)

// Source is the platform new measurements originate from. Fetch returns
// an empty slice, not an error, when nothing is in range. Implementations
// handle credential refresh transparently (one refresh, one retry).
type Source interface {
	Fetch(ctx context.Context, start, end time.Time) ([]Measurement, error)
}

// Sink is the platform measurements are written to.
type Sink interface {
	// List returns measurements recorded since the given time, used as
	// the duplicate-detection reference window.
	List(ctx context.Context, since time.Time) ([]Measurement, error)
	// Write records one measurement. Safe to call repeatedly with the
	// same logical value; idempotence comes from the matcher, not the
	// sink.
	Write(ctx context.Context, m Measurement) error
}

// Recorder persists run outcomes. Optional; a nil Recorder disables
// history recording.
type Recorder interface {
	Record(ctx context.Context, run RunSummary) error
}

// Window is an absolute time range to sync. The zero value means
// "default to the last DefaultWindowDays days".
type Window struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no explicit window was supplied.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Result is the caller-visible outcome of one reconciliation run.
type Result struct {
	Synced  int    `json:"synced"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

// RunSummary is the record handed to the Recorder after a run.
type RunSummary struct {
	Trigger     string
	WindowStart time.Time
	WindowEnd   time.Time
	Synced      int
	Skipped     int
	Message     string
	Error       string
}

// Service drives one reconciliation run: resolve the window, pull
// candidates from the source, pull the reference window from the sink,
// filter duplicates, cap, and write with per-record failure isolation.
//
// One Service is created per linked account and serializes its runs:
// a webhook arriving while a manual sync is in progress blocks until the
// first run completes, so two runs never race to write the same new
// measurement before either sees the other's write reflected in the sink.
type Service struct {
	source   Source
	sink     Sink
	matcher  *Matcher
	recorder Recorder
	logger   *zap.Logger

	mu  stdsync.Mutex
	now func() time.Time
}

// NewService creates a sync service. recorder may be nil.
func NewService(source Source, sink Sink, matcher *Matcher, recorder Recorder, logger *zap.Logger) *Service {
	if matcher == nil {
		matcher = NewMatcher()
	}
	return &Service{
		source:   source,
		sink:     sink,
		matcher:  matcher,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Sync executes one reconciliation run. No state persists between runs;
// a crashed run leaves whatever writes completed, and the tolerance-based
// duplicate check on the next run prevents re-writing those.
func (s *Service) Sync(ctx context.Context, trigger string, w Window) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.IsZero() {
		end := s.now().UTC()
		w = Window{Start: end.AddDate(0, 0, -DefaultWindowDays), End: end}
	}

	log := s.logger.With(
		zap.String("trigger", trigger),
		zap.Time("window_start", w.Start),
		zap.Time("window_end", w.End),
	)
	log.Info("Starting sync run")

	candidates, err := s.source.Fetch(ctx, w.Start, w.End)
	if err != nil {
		ferr := &FetchError{Side: "source", Err: err}
		s.record(ctx, trigger, w, Result{}, ferr)
		return Result{}, ferr
	}

	if len(candidates) == 0 {
		log.Info("No new measurements found in source")
		res := Result{Synced: 0, Skipped: 0, Message: "no new measurements"}
		s.record(ctx, trigger, w, res, nil)
		return res, nil
	}
	log.Info("Fetched source measurements", zap.Int("count", len(candidates)))

	// Reference window: fixed lookback ending now, independent of the
	// requested sync window.
	since := s.now().UTC().AddDate(0, 0, -LookbackDays)
	refs, err := s.sink.List(ctx, since)
	if err != nil {
		ferr := &FetchError{Side: "sink", Err: err}
		s.record(ctx, trigger, w, Result{}, ferr)
		return Result{}, ferr
	}
	log.Info("Fetched sink reference window",
		zap.Int("count", len(refs)), zap.Time("since", since))

	fresh := s.matcher.FilterDuplicates(candidates, refs)
	if len(fresh) == 0 {
		log.Info("All measurements already exist in sink")
		res := Result{Synced: 0, Skipped: len(candidates), Message: "already synced"}
		s.record(ctx, trigger, w, res, nil)
		return res, nil
	}

	if len(fresh) > MaxEntriesPerSync {
		log.Warn("Truncating new measurements to safety cap",
			zap.Int("eligible", len(fresh)),
			zap.Int("cap", MaxEntriesPerSync))
		fresh = fresh[:MaxEntriesPerSync]
	}

	synced := 0
	for _, m := range fresh {
		if err := s.sink.Write(ctx, m); err != nil {
			// Isolated: one bad record must not block the rest of the batch.
			werr := &WriteError{Measurement: m, Err: err}
			log.Error("Failed to write measurement", zap.Error(werr))
			continue
		}
		synced++

		fields := []zap.Field{
			zap.Float64("weight_kg", m.Weight),
			zap.Time("timestamp", m.Timestamp),
		}
		if m.BMI != nil {
			fields = append(fields, zap.Float64("bmi", *m.BMI))
		}
		log.Info("Synced measurement", fields...)
	}

	res := Result{
		Synced:  synced,
		Skipped: len(candidates) - synced,
		Message: fmt.Sprintf("synced %d measurements", synced),
	}
	log.Info("Sync run complete",
		zap.Int("synced", res.Synced), zap.Int("skipped", res.Skipped))
	s.record(ctx, trigger, w, res, nil)
	return res, nil
}

// record hands the run outcome to the recorder, if one is configured.
// Recording failures are logged and never affect the run result.
func (s *Service) record(ctx context.Context, trigger string, w Window, res Result, runErr error) {
	if s.recorder == nil {
		return
	}

	summary := RunSummary{
		Trigger:     trigger,
		WindowStart: w.Start,
		WindowEnd:   w.End,
		Synced:      res.Synced,
		Skipped:     res.Skipped,
		Message:     res.Message,
	}
	if runErr != nil {
		summary.Error = runErr.Error()
	}

	if err := s.recorder.Record(ctx, summary); err != nil {
		s.logger.Warn("Failed to record run history", zap.Error(err))
	}
}
