package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
)

// DryRunNotifier prints what would be sent without sending anything.
type DryRunNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to out, or to stdout
// when out is nil.
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out}
}

// Notify implements Notifier.
func (n *DryRunNotifier) Notify(ctx context.Context, contact, team string, fixtures []fixture.Fixture) error {
	return n.print(contact, ChangeSubject(team), ChangeBody(team, fixtures, ""))
}

// ConfirmSubscribe implements Confirmer.
func (n *DryRunNotifier) ConfirmSubscribe(ctx context.Context, contact string, teams []string) error {
	return n.print(contact, SubscribeSubject, "Echipe: "+strings.Join(teams, ", "))
}

// ConfirmUnsubscribe implements Confirmer.
func (n *DryRunNotifier) ConfirmUnsubscribe(ctx context.Context, contact string) error {
	return n.print(contact, UnsubscribeSubject, "")
}

// ReportStatus implements StatusReporter.
func (n *DryRunNotifier) ReportStatus(ctx context.Context, status Status) error {
	return n.print("admin", StatusSubject(status), StatusBody(status))
}

func (n *DryRunNotifier) print(to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	fmt.Fprintf(n.out, "--- To: %s ---\n", to)
	fmt.Fprintf(n.out, "Subject: %s\n", subject)
	if body != "" {
		fmt.Fprintf(n.out, "%s\n", strings.TrimRight(body, "\n"))
	}
	fmt.Fprintln(n.out)
	return nil
}
