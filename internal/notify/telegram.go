package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/telegram"
)

// TelegramReporter posts run reports to a Telegram chat.
type TelegramReporter struct {
	client *telegram.Client
	// Quiet suppresses reports for runs without changes.
	Quiet bool
}

// NewTelegramReporter creates a reporter for client.
func NewTelegramReporter(client *telegram.Client) *TelegramReporter {
	return &TelegramReporter{client: client}
}

// ReportStatus implements StatusReporter.
func (r *TelegramReporter) ReportStatus(ctx context.Context, status Status) error {
	if r.Quiet && status.SourceAvailable && status.TotalChanges() == 0 {
		return nil
	}
	return r.client.SendMessage(ctx, FormatStatusHTML(status))
}

// FormatStatusHTML renders a run report for Telegram's HTML parse mode.
func FormatStatusHTML(s Status) string {
	var b strings.Builder

	switch {
	case !s.SourceAvailable:
		b.WriteString("⚠️ <b>AMFB: sursa indisponibilă</b>\n")
	case s.TotalChanges() > 0:
		fmt.Fprintf(&b, "📅 <b>AMFB: %d schimbări</b>\n", s.TotalChanges())
	default:
		b.WriteString("✅ <b>AMFB: fără schimbări</b>\n")
	}
	fmt.Fprintf(&b, "Abonați: %d\n", s.Subscribers)

	teams := append([]string(nil), s.Teams...)
	sort.Strings(teams)
	for _, t := range teams {
		if n := s.ChangesByTeam[t]; n > 0 {
			fmt.Fprintf(&b, "• %s: %d\n", telegram.Escape(t), n)
		}
	}
	if s.Failed > 0 {
		fmt.Fprintf(&b, "Notificări eșuate: %d\n", s.Failed)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatChangesHTML renders one team's detected changes for Telegram.
func FormatChangesHTML(team string, changes []fixture.Change) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>%s</b>: program actualizat\n", telegram.Escape(team))
	for _, c := range changes {
		switch c.Type {
		case fixture.ChangeAdded:
			fmt.Fprintf(&b, "➕ vs %s, %s\n", telegram.Escape(c.Current.Opponent), FormatKickoff(*c.Current))
		case fixture.ChangeRemoved:
			fmt.Fprintf(&b, "➖ vs %s, %s\n", telegram.Escape(c.Previous.Opponent), FormatKickoff(*c.Previous))
		case fixture.ChangeTimeChanged:
			fmt.Fprintf(&b, "🕒 vs %s: %s → %s\n", telegram.Escape(c.Current.Opponent), FormatKickoff(*c.Previous), FormatKickoff(*c.Current))
		case fixture.ChangeOpponentChanged:
			fmt.Fprintf(&b, "🔁 %s: %s → %s\n", FormatKickoff(*c.Current), telegram.Escape(c.Previous.Opponent), telegram.Escape(c.Current.Opponent))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
