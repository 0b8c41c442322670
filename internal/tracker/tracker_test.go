package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/metrics"
	"github.com/amfb-notifier/amfb-notifier/internal/notify"
	"github.com/amfb-notifier/amfb-notifier/internal/scraper"
	"github.com/amfb-notifier/amfb-notifier/internal/subscription"
	"github.com/amfb-notifier/amfb-notifier/internal/tracker/mocks"
)

type TrackerTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source    *mocks.MockSource
	subs      *mocks.MockSubscriptionLister
	snapshots *mocks.MockSnapshotStore
	notifier  *mocks.MockNotifier
	reporter  *mocks.MockStatusReporter

	tracker *Tracker
	now     time.Time
}

func (s *TrackerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.subs = mocks.NewMockSubscriptionLister(s.ctrl)
	s.snapshots = mocks.NewMockSnapshotStore(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.reporter = mocks.NewMockStatusReporter(s.ctrl)

	s.now = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	s.tracker = New(s.source, s.subs, s.snapshots, s.notifier, s.reporter).
		WithMetrics(metrics.NewRecorder()).
		WithClock(func() time.Time { return s.now })
}

func (s *TrackerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestTrackerTestSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

var (
	sportTeam = fixture.New("DNG", "Sport Team", "2025-10-04T10:00:00+03:00", "")
	derby     = fixture.New("DNG", "Derby", "2025-10-26T10:00:00+02:00", "")
	derbyLate = fixture.New("DNG", "Derby", "2025-10-26T12:00:00+02:00", "")
	raiders   = fixture.New("Raiders", "Titans", "2025-10-19T11:00:00+03:00", "")
)

func twoSubscribers() subscription.Subscriptions {
	return subscription.Subscriptions{
		"a": {Email: "ana@example.com", Teams: []string{"DNG"}},
		"b": {Email: "bogdan@example.com", Teams: []string{"DNG", "Raiders"}},
	}
}

func (s *TrackerTestSuite) expectSnapshots(hashes map[string][]string, full map[string][]fixture.Fixture) {
	s.snapshots.EXPECT().HashSnapshot(gomock.Any()).Return(hashes, nil)
	s.snapshots.EXPECT().FullSnapshot(gomock.Any()).Return(full, nil)
}

func (s *TrackerTestSuite) TestRun_NoSubscribers() {
	ctx := context.Background()
	s.subs.EXPECT().List(ctx).Return(subscription.Subscriptions{}, nil)
	s.reporter.EXPECT().ReportStatus(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, status notify.Status) error {
			s.Empty(status.Teams)
			s.Equal(0, status.Subscribers)
			s.Equal(s.now, status.At)
			return nil
		},
	)

	result, err := s.tracker.Run(ctx)

	s.NoError(err)
	s.False(result.Changed())
	s.False(result.Persisted)
}

func (s *TrackerTestSuite) TestRun_SourceUnavailableKeepsSnapshot() {
	ctx := context.Background()
	s.subs.EXPECT().List(ctx).Return(twoSubscribers(), nil)
	s.source.EXPECT().Fixtures(ctx, []string{"DNG", "Raiders"}).Return(scraper.Result{
		ByTeam: map[string][]fixture.Fixture{"DNG": {}, "Raiders": {}},
	})
	s.reporter.EXPECT().ReportStatus(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, status notify.Status) error {
			s.False(status.SourceAvailable)
			s.Equal(2, status.Subscribers)
			return nil
		},
	)

	result, err := s.tracker.Run(ctx)

	s.NoError(err)
	s.False(result.SourceAvailable)
	s.False(result.Persisted)
}

func (s *TrackerTestSuite) TestRun_NoChanges() {
	ctx := context.Background()
	current := map[string][]fixture.Fixture{
		"DNG":     {sportTeam, derby},
		"Raiders": {raiders},
	}
	s.subs.EXPECT().List(ctx).Return(twoSubscribers(), nil)
	s.source.EXPECT().Fixtures(ctx, gomock.Any()).Return(scraper.Result{ByTeam: current, Available: true})
	s.expectSnapshots(map[string][]string{
		"DNG":     fixture.Hashes(current["DNG"]),
		"Raiders": fixture.Hashes(current["Raiders"]),
	}, current)
	s.reporter.EXPECT().ReportStatus(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, status notify.Status) error {
			s.Equal(0, status.TotalChanges())
			return nil
		},
	)

	result, err := s.tracker.Run(ctx)

	s.NoError(err)
	s.False(result.Changed())
	s.False(result.Persisted)
	s.Empty(result.ChangesByTeam)
}

func (s *TrackerTestSuite) TestRun_TimeChangeNotifiesFollowersAndPersists() {
	ctx := context.Background()
	previous := map[string][]fixture.Fixture{
		"DNG":     {sportTeam, derby},
		"Raiders": {raiders},
	}
	current := map[string][]fixture.Fixture{
		"DNG":     {sportTeam, derbyLate},
		"Raiders": {raiders},
	}
	s.subs.EXPECT().List(ctx).Return(twoSubscribers(), nil)
	s.source.EXPECT().Fixtures(ctx, gomock.Any()).Return(scraper.Result{ByTeam: current, Available: true})
	s.expectSnapshots(map[string][]string{
		"DNG":     fixture.Hashes(previous["DNG"]),
		"Raiders": fixture.Hashes(previous["Raiders"]),
	}, previous)

	s.notifier.EXPECT().Notify(ctx, "ana@example.com", "DNG", []fixture.Fixture{derbyLate}).Return(nil)
	s.notifier.EXPECT().Notify(ctx, "bogdan@example.com", "DNG", []fixture.Fixture{derbyLate}).Return(nil)

	s.snapshots.EXPECT().SetHashSnapshot(ctx, map[string][]string{
		"DNG":     {sportTeam.Hash, derbyLate.Hash},
		"Raiders": {raiders.Hash},
	}).Return(nil)
	s.snapshots.EXPECT().SetFullSnapshot(ctx, current).Return(nil)

	s.reporter.EXPECT().ReportStatus(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, status notify.Status) error {
			// time_changed, added and removed for the moved derby
			s.Equal(map[string]int{"DNG": 3}, status.ChangesByTeam)
			s.Equal(2, status.Sent)
			return nil
		},
	)

	result, err := s.tracker.Run(ctx)

	s.NoError(err)
	s.True(result.Changed())
	s.True(result.Persisted)
	s.Equal(2, result.Sent)
	s.Equal(0, result.Failed)
	s.Equal([]fixture.Fixture{derbyLate}, result.ChangesByTeam["DNG"])
	s.NotContains(result.ChangesByTeam, "Raiders")
}

func (s *TrackerTestSuite) TestRun_RemovalPersistsWithoutNotifying() {
	ctx := context.Background()
	subs := subscription.Subscriptions{"a": {Email: "ana@example.com", Teams: []string{"DNG"}}}
	previous := map[string][]fixture.Fixture{"DNG": {sportTeam, derby}}
	current := map[string][]fixture.Fixture{"DNG": {sportTeam}}

	s.subs.EXPECT().List(ctx).Return(subs, nil)
	s.source.EXPECT().Fixtures(ctx, []string{"DNG"}).Return(scraper.Result{ByTeam: current, Available: true})
	s.expectSnapshots(map[string][]string{"DNG": fixture.Hashes(previous["DNG"])}, previous)
	s.snapshots.EXPECT().SetHashSnapshot(ctx, gomock.Any()).Return(nil)
	s.snapshots.EXPECT().SetFullSnapshot(ctx, current).Return(nil)
	s.reporter.EXPECT().ReportStatus(ctx, gomock.Any()).Return(nil)

	result, err := s.tracker.Run(ctx)

	s.NoError(err)
	s.True(result.Persisted)
	s.Equal(0, result.Sent)
	s.Empty(result.ChangesByTeam)
}

func (s *TrackerTestSuite) TestRun_SendFailureDoesNotBlockOthers() {
	ctx := context.Background()
	previous := map[string][]fixture.Fixture{"DNG": {sportTeam}, "Raiders": {}}
	current := map[string][]fixture.Fixture{"DNG": {sportTeam, derby}, "Raiders": {}}

	s.subs.EXPECT().List(ctx).Return(twoSubscribers(), nil)
	s.source.EXPECT().Fixtures(ctx, gomock.Any()).Return(scraper.Result{ByTeam: current, Available: true})
	s.expectSnapshots(map[string][]string{"DNG": {sportTeam.Hash}}, previous)

	s.notifier.EXPECT().Notify(ctx, "ana@example.com", "DNG", gomock.Any()).Return(errors.New("mailbox full"))
	s.notifier.EXPECT().Notify(ctx, "bogdan@example.com", "DNG", gomock.Any()).Return(nil)
	s.snapshots.EXPECT().SetHashSnapshot(ctx, gomock.Any()).Return(nil)
	s.snapshots.EXPECT().SetFullSnapshot(ctx, gomock.Any()).Return(nil)
	s.reporter.EXPECT().ReportStatus(ctx, gomock.Any()).Return(nil)

	result, err := s.tracker.Run(ctx)

	s.NoError(err)
	s.Equal(1, result.Sent)
	s.Equal(1, result.Failed)
	s.True(result.Persisted)
}

func (s *TrackerTestSuite) TestRun_PersistFailureIsFatal() {
	ctx := context.Background()
	subs := subscription.Subscriptions{"a": {Email: "ana@example.com", Teams: []string{"DNG"}}}
	current := map[string][]fixture.Fixture{"DNG": {sportTeam}}

	s.subs.EXPECT().List(ctx).Return(subs, nil)
	s.source.EXPECT().Fixtures(ctx, gomock.Any()).Return(scraper.Result{ByTeam: current, Available: true})
	s.expectSnapshots(nil, nil)
	s.notifier.EXPECT().Notify(ctx, "ana@example.com", "DNG", current["DNG"]).Return(nil)
	s.snapshots.EXPECT().SetHashSnapshot(ctx, gomock.Any()).Return(errors.New("disk full"))
	s.reporter.EXPECT().ReportStatus(ctx, gomock.Any()).Return(nil)

	result, err := s.tracker.Run(ctx)

	s.Error(err)
	s.Contains(err.Error(), "saving hash snapshot")
	s.False(result.Persisted)
}

func (s *TrackerTestSuite) TestRun_SnapshotLoadFailure() {
	ctx := context.Background()
	s.subs.EXPECT().List(ctx).Return(twoSubscribers(), nil)
	s.source.EXPECT().Fixtures(ctx, gomock.Any()).Return(scraper.Result{Available: true})
	s.snapshots.EXPECT().HashSnapshot(ctx).Return(nil, errors.New("connection refused"))

	_, err := s.tracker.Run(ctx)

	s.Error(err)
	s.Contains(err.Error(), "loading hash snapshot")
}

func (s *TrackerTestSuite) TestRun_ListFailure() {
	ctx := context.Background()
	s.subs.EXPECT().List(ctx).Return(nil, errors.New("timeout"))

	_, err := s.tracker.Run(ctx)

	s.Error(err)
	s.Contains(err.Error(), "listing subscriptions")
}

func (s *TrackerTestSuite) TestRun_StatusFailureIsIgnored() {
	ctx := context.Background()
	s.subs.EXPECT().List(ctx).Return(subscription.Subscriptions{}, nil)
	s.reporter.EXPECT().ReportStatus(ctx, gomock.Any()).Return(errors.New("smtp down"))

	_, err := s.tracker.Run(ctx)

	s.NoError(err)
}

func (s *TrackerTestSuite) TestRun_CancelledBeforeDispatch() {
	ctx, cancel := context.WithCancel(context.Background())
	subs := subscription.Subscriptions{"a": {Email: "ana@example.com", Teams: []string{"DNG"}}}
	s.subs.EXPECT().List(ctx).Return(subs, nil)
	s.source.EXPECT().Fixtures(ctx, gomock.Any()).DoAndReturn(
		func(context.Context, []string) scraper.Result {
			cancel()
			return scraper.Result{ByTeam: map[string][]fixture.Fixture{"DNG": {sportTeam}}, Available: true}
		},
	)
	s.expectSnapshots(nil, nil)

	result, err := s.tracker.Run(ctx)

	s.Error(err)
	s.False(result.Persisted)
}
