package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/wayne-enterprises/bidash/internal/feed"
	jobmetrics "github.com/wayne-enterprises/bidash/internal/jobs"
	"github.com/wayne-enterprises/bidash/internal/pageload"
)

// ProbeResult is the outcome of probing one feed.
type ProbeResult struct {
	Feed    feed.Slot
	Up      bool
	Elapsed time.Duration
	Err     error
}

// UpstreamProbeJob fetches each feed once and records whether it is usable.
// A nil Metrics records nothing.
type UpstreamProbeJob struct {
	Fetcher pageload.Fetcher
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Timeout time.Duration
}

// NewUpstreamProbeJob wires dependencies for the probe handler.
func NewUpstreamProbeJob(fetcher pageload.Fetcher, logger *slog.Logger, metrics *jobmetrics.Metrics, timeout time.Duration) *UpstreamProbeJob {
	return &UpstreamProbeJob{Fetcher: fetcher, Logger: logger, Metrics: metrics, Timeout: timeout}
}

// Handle processes upstream probe tasks. A malformed payload, unknown feed or
// malformed feed body is not retried.
func (j *UpstreamProbeJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Fetcher == nil {
		return errors.New("upstream probe: handler not configured")
	}
	var payload UpstreamProbePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	slots, err := probeSlots(payload.Feeds)
	if err != nil {
		return fmt.Errorf("upstream probe: %w: %w", err, asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskUpstreamProbe)
	results := j.Probe(ctx, slots)

	var errs []error
	malformedOnly := true
	down := 0
	for _, res := range results {
		if res.Up {
			continue
		}
		down++
		errs = append(errs, fmt.Errorf("%s: %w", res.Feed, res.Err))
		if !isMalformed(res.Err) {
			malformedOnly = false
		}
	}
	j.logger().Info("upstream probe finished", slog.Int("feeds", len(results)), slog.Int("down", down))

	if len(errs) == 0 {
		return tracker.End(nil)
	}
	resultErr := errors.Join(errs...)
	if malformedOnly {
		resultErr = fmt.Errorf("%w: %w", resultErr, asynq.SkipRetry)
	}
	return tracker.End(resultErr)
}

// Probe fetches the given feeds concurrently and sets the feed-up gauge for each.
func (j *UpstreamProbeJob) Probe(ctx context.Context, slots []feed.Slot) []ProbeResult {
	results := make([]ProbeResult, len(slots))
	var g errgroup.Group
	for i, slot := range slots {
		g.Go(func() error {
			results[i] = j.probeOne(ctx, slot)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (j *UpstreamProbeJob) probeOne(ctx context.Context, slot feed.Slot) ProbeResult {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	start := time.Now()
	res := ProbeResult{Feed: slot}
	raw, err := j.Fetcher.Fetch(ctx, slot)
	if err == nil {
		if _, err = feed.Decode(slot, raw); err != nil {
			err = &malformedError{err: err}
		}
	}
	res.Elapsed = time.Since(start)
	res.Err = err
	res.Up = err == nil
	j.Metrics.SetFeedUp(string(slot), res.Up)
	if err != nil {
		j.logger().Warn("feed probe failed", slog.String("feed", string(slot)), slog.Any("error", err))
	}
	return res
}

func (j *UpstreamProbeJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func probeSlots(names []string) ([]feed.Slot, error) {
	if len(names) == 0 {
		return feed.Slots, nil
	}
	slots := make([]feed.Slot, 0, len(names))
	for _, name := range names {
		slot, err := feed.ParseSlot(name)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

type malformedError struct {
	err error
}

func (e *malformedError) Error() string { return "malformed body: " + e.err.Error() }

func (e *malformedError) Unwrap() error { return e.err }

func isMalformed(err error) bool {
	var m *malformedError
	return errors.As(err, &m)
}
