package notify

import (
	"context"
	"errors"
	"time"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
)

// Notifier delivers one team's changed fixtures to one contact.
type Notifier interface {
	Notify(ctx context.Context, contact, team string, fixtures []fixture.Fixture) error
}

// Confirmer acknowledges subscription changes to the subscriber.
type Confirmer interface {
	ConfirmSubscribe(ctx context.Context, contact string, teams []string) error
	ConfirmUnsubscribe(ctx context.Context, contact string) error
}

// StatusReporter receives the outcome of every run.
type StatusReporter interface {
	ReportStatus(ctx context.Context, status Status) error
}

// Status summarizes one run for the operator.
type Status struct {
	At              time.Time      `json:"at"`
	Teams           []string       `json:"teams"`
	ChangesByTeam   map[string]int `json:"changesByTeam"`
	Subscribers     int            `json:"subscribers"`
	SourceAvailable bool           `json:"sourceAvailable"`
	Sent            int            `json:"sent"`
	Failed          int            `json:"failed"`
}

// TotalChanges returns the number of changes across all teams.
func (s Status) TotalChanges() int {
	total := 0
	for _, n := range s.ChangesByTeam {
		total += n
	}
	return total
}

// MultiNotifier fans a notification out to several notifiers. Every notifier
// is attempted; failures are joined.
type MultiNotifier []Notifier

// Notify implements Notifier.
func (m MultiNotifier) Notify(ctx context.Context, contact, team string, fixtures []fixture.Fixture) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, contact, team, fixtures); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MultiReporter fans a status report out to several reporters.
type MultiReporter []StatusReporter

// ReportStatus implements StatusReporter.
func (m MultiReporter) ReportStatus(ctx context.Context, status Status) error {
	var errs []error
	for _, r := range m {
		if err := r.ReportStatus(ctx, status); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
