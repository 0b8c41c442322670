package tracker

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/notify"
	"github.com/amfb-notifier/amfb-notifier/internal/scraper"
	"github.com/amfb-notifier/amfb-notifier/internal/subscription"
)

type Source interface {
	Fixtures(ctx context.Context, teams []string) scraper.Result
}

type SubscriptionLister interface {
	List(ctx context.Context) (subscription.Subscriptions, error)
}

type SnapshotStore interface {
	HashSnapshot(ctx context.Context) (map[string][]string, error)
	SetHashSnapshot(ctx context.Context, hashes map[string][]string) error
	FullSnapshot(ctx context.Context) (map[string][]fixture.Fixture, error)
	SetFullSnapshot(ctx context.Context, fixtures map[string][]fixture.Fixture) error
}

type Notifier interface {
	Notify(ctx context.Context, contact, team string, fixtures []fixture.Fixture) error
}

type StatusReporter interface {
	ReportStatus(ctx context.Context, status notify.Status) error
}
