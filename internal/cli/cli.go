package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amfb-notifier/amfb-notifier/internal/calendar"
	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/notify"
	"github.com/amfb-notifier/amfb-notifier/internal/scheduler"
	"github.com/amfb-notifier/amfb-notifier/internal/server"
	"github.com/amfb-notifier/amfb-notifier/internal/subscription"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitChanges = 2
)

var (
	flagConfig  string
	flagDataDir string
	flagFormat  string
	flagVerbose bool
	flagDryRun  bool
	flagSort    string
	flagOutput  string
	flagAddr    string
)

// exit is replaced in tests.
var exit = os.Exit

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amfb-notifier",
		Short: "Watch the AMFB match schedule and notify subscribers of changes",
		Long: `A tool that watches the AMFB minifootball match schedule.
Detects added, removed, rescheduled and re-paired fixtures for followed teams
and notifies subscribers. Running without a subcommand performs a check.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for the file store (overrides config)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print notifications instead of sending them")

	cmd.AddCommand(
		newCheckCmd(),
		newPreviewCmd(),
		newFixturesCmd(),
		newTeamsCmd(),
		newSubscribeCmd(),
		newUnsubscribeCmd(),
		newStatsCmd(),
		newCalendarCmd(),
		newServeCmd(),
	)
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the schedule for changes and notify subscribers",
		Long: `Fetches the schedule, compares every followed team's fixtures with the
stored snapshot, notifies subscribers and saves the new snapshot.
Exits with status 2 when changes were found.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print notifications instead of sending them")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview TEAM...",
		Short: "Show the next match day for the given teams",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPreview,
	}
}

func newFixturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures TEAM...",
		Short: "List upcoming fixtures for the given teams",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFixtures,
	}
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDate), "Sort order: date, team or opponent")
	return cmd
}

func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List the teams found on the schedule page",
		Args:  cobra.NoArgs,
		RunE:  runTeams,
	}
}

func newSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe EMAIL TEAM...",
		Short: "Subscribe an email address to one or more teams",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runSubscribe,
	}
}

func newUnsubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe EMAIL",
		Short: "Remove a subscription",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnsubscribe,
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number of subscribers",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
}

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar TEAM",
		Short: "Export a team's upcoming fixtures as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCalendar,
	}
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the optional periodic check",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config)")
	return cmd
}

// runCheck is the main command logic
func runCheck(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	n, r, _, err := a.channels(flagDryRun, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	result, err := a.tracker(n, r).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("checking schedule: %w", err)
	}

	if err := WriteCheck(cmd.OutOrStdout(), NewCheckOutput(result, time.Now()), format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	// Set exit code based on whether changes were found
	if result.Changed() {
		a.Close()
		exit(ExitChanges)
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.scraper.Fixtures(cmd.Context(), args)
	if !result.Available {
		a.log.Warn("schedule page unavailable", nil)
	}
	date, fixtures := fixture.Preview(result.ByTeam, args)
	return WriteFixtures(cmd.OutOrStdout(), &FixturesOutput{Date: date, Teams: args, Fixtures: fixtures}, format)
}

func runFixtures(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(flagSort)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.scraper.Fixtures(cmd.Context(), args)
	all := make([]fixture.Fixture, 0)
	for _, team := range args {
		all = append(all, result.ByTeam[team]...)
	}
	sortFixtures(all, order)
	return WriteFixtures(cmd.OutOrStdout(), &FixturesOutput{Teams: args, Fixtures: all}, format)
}

func runTeams(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	return WriteList(cmd.OutOrStdout(), "teams", a.scraper.DiscoverTeams(cmd.Context()), format)
}

func runSubscribe(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	id, sub, err := subscription.New(args[0], args[1:], time.Now())
	if err != nil {
		return err
	}

	a, err := loadApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Add(cmd.Context(), id, sub); err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}
	a.confirm(cmd.Context(), func(ctx context.Context, c notify.Confirmer) error {
		return c.ConfirmSubscribe(ctx, sub.Email, sub.Teams)
	})

	msg := fmt.Sprintf("Subscribed %s to %s", id, strings.Join(sub.Teams, ", "))
	return WriteMessage(cmd.OutOrStdout(), msg, map[string]interface{}{"id": id, "teams": sub.Teams}, format)
}

func runUnsubscribe(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	id, err := subscription.NormalizeEmail(args[0])
	if err != nil {
		return err
	}

	a, err := loadApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Remove(cmd.Context(), id); err != nil {
		return fmt.Errorf("removing subscription: %w", err)
	}
	a.confirm(cmd.Context(), func(ctx context.Context, c notify.Confirmer) error {
		return c.ConfirmUnsubscribe(ctx, strings.TrimSpace(args[0]))
	})

	return WriteMessage(cmd.OutOrStdout(), "Unsubscribed "+id, map[string]interface{}{"id": id}, format)
}

func runStats(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.store.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("counting subscriptions: %w", err)
	}
	return WriteMessage(cmd.OutOrStdout(), fmt.Sprintf("%d subscribers", n), map[string]interface{}{"count": n}, format)
}

func runCalendar(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	team := args[0]
	result := a.scraper.Fixtures(cmd.Context(), []string{team})
	ics := calendar.GenerateICS(team, result.ByTeam[team], time.Now())

	if flagOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
		return err
	}
	if err := os.WriteFile(flagOutput, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	a.log.Info("calendar written", logger.Fields{"team": team, "path": flagOutput})
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	n, r, c, err := a.channels(false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	t := a.tracker(n, r)

	addr := a.cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}
	srv := server.New(server.Deps{
		Subscriptions: a.store,
		Source:        a.scraper,
		Runner:        t,
		Confirmer:     c,
		Metrics:       a.metrics,
		Logger:        a.log,
		CronSecret:    a.cfg.Server.CronSecret,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, addr)
	})
	if a.cfg.Server.Interval > 0 {
		sched := scheduler.New(t, a.cfg.Server.Interval, a.cfg.Server.RunTimeout, a.log)
		g.Go(func() error {
			if err := sched.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(ExitError)
	}
}
