// Package tracker runs one schedule check: it reads the subscriptions, extracts
// the current fixtures of every followed team, compares them with the stored
// snapshot, notifies subscribers and persists the new snapshot.
package tracker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/metrics"
	"github.com/amfb-notifier/amfb-notifier/internal/notify"
)

// RunResult describes what a run observed and did.
type RunResult struct {
	Teams           []string                      `json:"teams"`
	Subscribers     int                           `json:"subscribers"`
	SourceAvailable bool                          `json:"sourceAvailable"`
	Reports         map[string]fixture.TeamReport `json:"reports,omitempty"`
	ChangesByTeam   map[string][]fixture.Fixture  `json:"changesByTeam,omitempty"`
	Sent            int                           `json:"sent"`
	Failed          int                           `json:"failed"`
	Persisted       bool                          `json:"persisted"`
}

// Changed reports whether any team had something to report.
func (r RunResult) Changed() bool {
	for _, rep := range r.Reports {
		if rep.Changed() {
			return true
		}
	}
	return false
}

// ChangeCounts returns the number of detected changes per changed team.
func (r RunResult) ChangeCounts() map[string]int {
	counts := make(map[string]int)
	for team, rep := range r.Reports {
		if rep.Changed() {
			counts[team] = len(rep.Changes)
		}
	}
	return counts
}

// Tracker wires the collaborators of a run. Overlapping runs are not
// serialized; callers that trigger runs concurrently share the snapshot.
type Tracker struct {
	source    Source
	subs      SubscriptionLister
	snapshots SnapshotStore
	notifier  Notifier
	reporter  StatusReporter

	metrics *metrics.Recorder
	log     *logger.Logger
	now     func() time.Time
}

// New creates a Tracker. reporter may be nil.
func New(source Source, subs SubscriptionLister, snapshots SnapshotStore, notifier Notifier, reporter StatusReporter) *Tracker {
	return &Tracker{
		source:    source,
		subs:      subs,
		snapshots: snapshots,
		notifier:  notifier,
		reporter:  reporter,
		log:       logger.Discard(),
		now:       time.Now,
	}
}

// WithLogger sets the logger.
func (t *Tracker) WithLogger(l *logger.Logger) *Tracker {
	t.log = l.With(logger.Fields{"component": "tracker"})
	return t
}

// WithMetrics sets the metrics recorder.
func (t *Tracker) WithMetrics(m *metrics.Recorder) *Tracker {
	t.metrics = m
	return t
}

// WithClock overrides the time source used for status reports.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Run performs one check. Dispatch and snapshot persistence happen together
// and only when some team changed; an unavailable source skips both so the
// stored baseline survives outages. A status report is sent on every run that
// gets past listing subscriptions, including failed ones. Snapshot errors are
// returned.
func (t *Tracker) Run(ctx context.Context) (RunResult, error) {
	start := time.Now()
	var result RunResult

	subs, err := t.subs.List(ctx)
	if err != nil {
		t.metrics.RecordRun(metrics.OutcomeError, time.Since(start), 0)
		return result, fmt.Errorf("listing subscriptions: %w", err)
	}
	result.Subscribers = len(subs)
	result.Teams = subs.Teams()
	result.SourceAvailable = true

	if len(result.Teams) == 0 {
		t.log.Info("no followed teams", logger.Fields{"subscribers": result.Subscribers})
		t.report(ctx, result)
		t.metrics.RecordRun(metrics.OutcomeUnchanged, time.Since(start), result.Subscribers)
		return result, nil
	}

	extracted := t.source.Fixtures(ctx, result.Teams)
	result.SourceAvailable = extracted.Available
	if !extracted.Available {
		t.log.Warn("schedule unavailable, keeping previous snapshot", logger.Fields{"teams": len(result.Teams)})
		t.report(ctx, result)
		t.metrics.RecordRun(metrics.OutcomeUnavailable, time.Since(start), result.Subscribers)
		return result, nil
	}

	reports, err := t.compare(ctx, result.Teams, extracted.ByTeam)
	if err != nil {
		t.metrics.RecordRun(metrics.OutcomeError, time.Since(start), result.Subscribers)
		return result, err
	}
	result.Reports = reports

	if !result.Changed() {
		t.log.Info("no changes", logger.Fields{"teams": len(result.Teams)})
		t.report(ctx, result)
		t.metrics.RecordRun(metrics.OutcomeUnchanged, time.Since(start), result.Subscribers)
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		t.metrics.RecordRun(metrics.OutcomeError, time.Since(start), result.Subscribers)
		return result, fmt.Errorf("run cancelled before dispatch: %w", err)
	}

	result.ChangesByTeam = make(map[string][]fixture.Fixture)
	hashes := make(map[string][]string, len(reports))
	full := make(map[string][]fixture.Fixture, len(reports))
	kinds := make(map[string]int)
	for team, rep := range reports {
		hashes[team] = fixture.Hashes(rep.Current)
		full[team] = rep.Current
		if !rep.Changed() {
			continue
		}
		if len(rep.Notify) > 0 {
			result.ChangesByTeam[team] = rep.Notify
		}
		for kind, n := range fixture.CountByType(rep.Changes) {
			kinds[string(kind)] += n
		}
		t.log.Info("fixtures changed", logger.Fields{
			"team":    team,
			"changes": len(rep.Changes),
			"notify":  len(rep.Notify),
		})
	}
	t.metrics.RecordChanges(kinds)

	dispatched := notify.Dispatch(ctx, t.notifier, subs, result.ChangesByTeam, t.log)
	result.Sent, result.Failed = dispatched.Sent, dispatched.Failed
	t.metrics.RecordNotifications(dispatched.Sent, dispatched.Failed)

	if err := t.persist(ctx, hashes, full); err != nil {
		t.report(ctx, result)
		t.metrics.RecordRun(metrics.OutcomeError, time.Since(start), result.Subscribers)
		return result, err
	}
	result.Persisted = true

	t.report(ctx, result)
	t.metrics.RecordRun(metrics.OutcomeChanged, time.Since(start), result.Subscribers)
	return result, nil
}

// compare loads both snapshot views and compares every team in parallel. All
// comparisons complete before any result is used.
func (t *Tracker) compare(ctx context.Context, teams []string, current map[string][]fixture.Fixture) (map[string]fixture.TeamReport, error) {
	prevHashes, err := t.snapshots.HashSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hash snapshot: %w", err)
	}
	prevFull, err := t.snapshots.FullSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading full snapshot: %w", err)
	}

	out := make([]fixture.TeamReport, len(teams))
	g, gctx := errgroup.WithContext(ctx)
	for i, team := range teams {
		i, team := i, team
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = fixture.Compare(team, prevFull[team], prevHashes[team], current[team])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("comparing fixtures: %w", err)
	}

	reports := make(map[string]fixture.TeamReport, len(teams))
	for _, rep := range out {
		reports[rep.Team] = rep
	}
	return reports, nil
}

func (t *Tracker) persist(ctx context.Context, hashes map[string][]string, full map[string][]fixture.Fixture) error {
	if err := t.snapshots.SetHashSnapshot(ctx, hashes); err != nil {
		return fmt.Errorf("saving hash snapshot: %w", err)
	}
	if err := t.snapshots.SetFullSnapshot(ctx, full); err != nil {
		return fmt.Errorf("saving full snapshot: %w", err)
	}
	return nil
}

// report sends the run status. Failures are logged only.
func (t *Tracker) report(ctx context.Context, result RunResult) {
	if t.reporter == nil {
		return
	}
	status := notify.Status{
		At:              t.now(),
		Teams:           result.Teams,
		ChangesByTeam:   result.ChangeCounts(),
		Subscribers:     result.Subscribers,
		SourceAvailable: result.SourceAvailable,
		Sent:            result.Sent,
		Failed:          result.Failed,
	}
	if err := t.reporter.ReportStatus(ctx, status); err != nil {
		t.log.Error("status report failed", logger.Fields{"teams": len(result.Teams)}, err)
	}
}
