package notify

import (
	"context"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/subscription"
)

// DispatchResult counts delivery outcomes.
type DispatchResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Dispatch notifies every subscriber about each followed team that has
// changes. A team with no changed fixtures is skipped. A failed delivery is
// logged and counted; it never stops the remaining deliveries.
func Dispatch(ctx context.Context, n Notifier, subs subscription.Subscriptions, changesByTeam map[string][]fixture.Fixture, log *logger.Logger) DispatchResult {
	var result DispatchResult
	for _, id := range subs.IDs() {
		sub := subs[id]
		contact := sub.Email
		if contact == "" {
			contact = id
		}
		for _, team := range sub.Teams {
			fixtures := changesByTeam[team]
			if len(fixtures) == 0 {
				continue
			}
			if ctx.Err() != nil {
				result.Failed++
				continue
			}
			if err := n.Notify(ctx, contact, team, fixtures); err != nil {
				result.Failed++
				log.Error("notification failed", logger.Fields{"subscription": id, "team": team}, err)
				continue
			}
			result.Sent++
			log.Debug("notification sent", logger.Fields{"subscription": id, "team": team, "fixtures": len(fixtures)})
		}
	}
	return result
}
