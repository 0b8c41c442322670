// Package subscription manages who follows which teams.
//
// A subscription is keyed by the subscriber's normalized email address and
// lists the teams they follow. Subscriptions can be stored locally, in Redis,
// or in a private GitHub Gist with contact details encrypted at rest.
package subscription
