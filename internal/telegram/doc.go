// Package telegram posts HTML messages to a single Telegram chat through the
// Bot API. It carries run reports and change digests; it does not receive
// updates.
package telegram
