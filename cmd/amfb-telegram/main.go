// Command amfb-telegram posts the changes reported by
// "amfb-notifier check --format json" to a Telegram chat, one message per
// team.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/amfb-notifier/amfb-notifier/internal/cli"
	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/notify"
	"github.com/amfb-notifier/amfb-notifier/internal/telegram"
)

var (
	botToken    = flag.String("bot-token", os.Getenv("TELEGRAM_BOT_TOKEN"), "Telegram bot token (or env: TELEGRAM_BOT_TOKEN)")
	chatID      = flag.String("chat-id", os.Getenv("TELEGRAM_CHAT_ID"), "Telegram chat ID (or env: TELEGRAM_CHAT_ID)")
	checkFile   = flag.String("check-file", "", "Path to check JSON output (or read from stdin)")
	dryRun      = flag.Bool("dry-run", false, "Print messages without sending")
	maxMessages = flag.Int("max-messages", 10, "Maximum number of messages to send")
	teamFilter  = flag.String("team", "", "Only send messages for this team")
)

// teamMessage is one Telegram message.
type teamMessage struct {
	Team string
	Text string
}

// readCheck reads a check result from file or stdin
func readCheck(filePath string) (*cli.CheckOutput, error) {
	var reader io.Reader
	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("opening check file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
			}
		}()
		reader = f
	} else {
		reader = os.Stdin
	}

	var result cli.CheckOutput
	if err := json.NewDecoder(reader).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return &result, nil
}

// buildMessages renders one message per changed team, in team order,
// optionally restricted to a single team.
func buildMessages(byTeam map[string][]fixture.Change, team string) []teamMessage {
	teams := make([]string, 0, len(byTeam))
	for t := range byTeam {
		if team != "" && t != team {
			continue
		}
		if len(byTeam[t]) == 0 {
			continue
		}
		teams = append(teams, t)
	}
	sort.Strings(teams)

	messages := make([]teamMessage, 0, len(teams))
	for _, t := range teams {
		messages = append(messages, teamMessage{Team: t, Text: notify.FormatChangesHTML(t, byTeam[t])})
	}
	return messages
}

func main() {
	flag.Parse()

	result, err := readCheck(*checkFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading check result: %v\n", err)
		os.Exit(1)
	}

	messages := buildMessages(result.ByTeam, *teamFilter)
	if len(messages) > *maxMessages {
		messages = messages[:*maxMessages]
	}
	if len(messages) == 0 {
		fmt.Println("No changes to send")
		os.Exit(0)
	}

	if *dryRun {
		fmt.Printf("DRY RUN MODE - Would send %d messages:\n\n", len(messages))
		for i, m := range messages {
			fmt.Printf("--- Message %d/%d ---\n", i+1, len(messages))
			fmt.Println(m.Text)
			fmt.Printf("\n(Length: %d characters)\n\n", len(m.Text))
		}
		os.Exit(0)
	}

	if *botToken == "" {
		fmt.Fprintf(os.Stderr, "Error: bot token is required (use --bot-token or TELEGRAM_BOT_TOKEN env var)\n")
		os.Exit(1)
	}
	if *chatID == "" {
		fmt.Fprintf(os.Stderr, "Error: chat ID is required (use --chat-id or TELEGRAM_CHAT_ID env var)\n")
		os.Exit(1)
	}

	client, err := telegram.NewClient(*botToken, *chatID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing Telegram client: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	for i, m := range messages {
		if err := client.SendMessage(ctx, m.Text); err != nil {
			fmt.Fprintf(os.Stderr, "Error sending message for %s: %v\n", m.Team, err)
			os.Exit(1)
		}
		// Rate limiting: wait between messages
		if i < len(messages)-1 {
			time.Sleep(1 * time.Second)
		}
	}

	fmt.Printf("Successfully sent %d message(s)\n", len(messages))
}
