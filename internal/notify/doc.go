// Package notify delivers fixture changes to subscribers and run reports to
// the operator.
//
// Subscribers are notified per (contact, team) pair with the team's changed
// fixtures. Delivery channels implement Notifier: email through Resend, an
// AMQP exchange for downstream consumers, and a dry-run writer. Messages are
// written in Romanian, the language of the league.
package notify
