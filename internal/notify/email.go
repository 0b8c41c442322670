package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
)

const defaultFrom = "AMFB Notifier <onboarding@resend.dev>"

// Mailer is the part of the Resend emails service used here.
type Mailer interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailConfig configures EmailNotifier.
type EmailConfig struct {
	APIKey     string
	From       string
	AdminEmail string
	PageURL    string
	SiteURL    string
}

// EmailNotifier sends notifications, confirmations and status reports by
// email.
type EmailNotifier struct {
	mailer Mailer
	cfg    EmailConfig
}

// NewEmailNotifier creates a notifier backed by the Resend API.
func NewEmailNotifier(cfg EmailConfig) (*EmailNotifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	return NewEmailNotifierWithMailer(resend.NewClient(cfg.APIKey).Emails, cfg), nil
}

// NewEmailNotifierWithMailer creates a notifier on top of an existing mailer.
func NewEmailNotifierWithMailer(mailer Mailer, cfg EmailConfig) *EmailNotifier {
	if cfg.From == "" {
		cfg.From = defaultFrom
	}
	if cfg.PageURL == "" {
		cfg.PageURL = DefaultPageURL
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = DefaultSiteURL
	}
	return &EmailNotifier{mailer: mailer, cfg: cfg}
}

// Notify implements Notifier.
func (e *EmailNotifier) Notify(ctx context.Context, contact, team string, fixtures []fixture.Fixture) error {
	return e.send(ctx, contact, ChangeSubject(team), ChangeBody(team, fixtures, e.cfg.PageURL))
}

// ConfirmSubscribe implements Confirmer.
func (e *EmailNotifier) ConfirmSubscribe(ctx context.Context, contact string, teams []string) error {
	return e.send(ctx, contact, SubscribeSubject, SubscribeBody(teams, e.cfg.SiteURL))
}

// ConfirmUnsubscribe implements Confirmer.
func (e *EmailNotifier) ConfirmUnsubscribe(ctx context.Context, contact string) error {
	return e.send(ctx, contact, UnsubscribeSubject, UnsubscribeBody(e.cfg.SiteURL))
}

// ReportStatus implements StatusReporter. It is a no-op without an admin
// address.
func (e *EmailNotifier) ReportStatus(ctx context.Context, status Status) error {
	if e.cfg.AdminEmail == "" {
		return nil
	}
	return e.send(ctx, e.cfg.AdminEmail, StatusSubject(status), StatusBody(status))
}

func (e *EmailNotifier) send(ctx context.Context, to, subject, text string) error {
	resp, err := e.mailer.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    e.cfg.From,
		To:      []string{to},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if resp == nil || resp.Id == "" {
		return fmt.Errorf("sending email: no message id in response")
	}
	return nil
}
