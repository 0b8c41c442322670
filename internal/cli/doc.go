// Package cli implements the command-line interface for amfb-notifier.
//
// The Cobra-based commands check the schedule for changes and notify
// subscribers, preview the next match day, list fixtures and teams, manage
// subscriptions, export calendars and run the HTTP server. Output is text or
// JSON.
package cli
