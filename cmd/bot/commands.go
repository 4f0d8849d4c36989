package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studyhelper/student-helper-bot/config"
	"github.com/studyhelper/student-helper-bot/internal/application/query"
	"github.com/studyhelper/student-helper-bot/internal/domain/notification"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence/postgres"
	"github.com/studyhelper/student-helper-bot/internal/interface/cli"
	"github.com/studyhelper/student-helper-bot/internal/interface/presenter"
	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

var (
	configPath   string
	dataFile     string
	backend      string
	pollInterval time.Duration
	verbose      bool
	plain        bool
	pendingOnly  bool

	rootCmd = &cobra.Command{
		Use:   "studybot",
		Short: "A terminal study assistant that tracks grades, reminders and goals",
		Long: `studybot is a chat assistant for students. Type commands such as
"add subject Math grade 8.5" or "set reminder study in 30 minutes", or just
talk about how your studies are going.`,
		SilenceUsage: true,
		RunE:         runChat,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Poll reminders and serve the status API without a chat",
		RunE:  runServe,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print tracked subjects, reminders and goals",
		RunE:  runStatus,
	}

	alertsCmd = &cobra.Command{
		Use:   "alerts",
		Short: "Print reminder alerts published on Redis as they arrive",
		RunE:  runAlerts,
	}

	featuresCmd = &cobra.Command{
		Use:   "features",
		Short: "List feature flags and their state",
		RunE:  runFeatures,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file (default $"+config.EnvConfigFile+")")
	pf.StringVar(&dataFile, "data-file", "", "student data file for the file backend")
	pf.StringVar(&backend, "backend", "", "storage backend: file, postgres or redis")
	pf.DurationVar(&pollInterval, "poll-interval", 0, "how often due reminders are checked")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().BoolVar(&plain, "plain", false, "no colours and no line editor")

	statusCmd.Flags().BoolVar(&pendingOnly, "pending", false, "only list reminders that have not fired")

	rootCmd.AddCommand(serveCmd, statusCmd, alertsCmd, featuresCmd)
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-file") {
		cfg.Storage.DataFile = dataFile
	}
	if flags.Changed("backend") {
		cfg.Storage.Backend = backend
	}
	if flags.Changed("poll-interval") {
		cfg.Scheduler.ReminderInterval = pollInterval
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// ══════════════════════════════════════════════════════════════════════════════
// CHAT
// ══════════════════════════════════════════════════════════════════════════════

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	interactive := !plain && cli.IsTerminal(os.Stdin) && cli.IsTerminal(os.Stdout)
	theme := cli.PlainTheme()
	if interactive {
		theme = cli.DefaultTheme()
	}
	console := cli.NewConsole(cmd.OutOrStdout(), theme)

	a, err := newApp(ctx, cfg, appOptions{terminal: console})
	if err != nil {
		return err
	}
	defer a.Close()

	input := cli.NewInputReader(os.Stdin, os.Stdout, interactive && cfg.Features.IsEnabled(config.FeatureRichInput), 100)
	session := cli.NewSession(a.assistant, input, console,
		cli.WithBanner(presenter.Banner()),
		cli.WithLogger(a.log),
	)
	return a.Run(ctx, session.Run)
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVE
// ══════════════════════════════════════════════════════════════════════════════

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := newApp(ctx, cfg, appOptions{headless: true})
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS, ALERTS, FEATURES
// ══════════════════════════════════════════════════════════════════════════════

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := newApp(ctx, cfg, appOptions{readOnly: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, presenter.RenderProgress(query.NewGetProgressHandler(a.store).Handle()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, presenter.RenderReminders(query.NewListRemindersHandler(a.store).Handle(query.ListRemindersQuery{PendingOnly: pendingOnly})))
	fmt.Fprintln(out)
	fmt.Fprintln(out, presenter.RenderGoals(query.NewListGoalsHandler(a.store).Handle()))

	if a.pg == nil {
		return nil
	}
	recent, err := postgres.NewAlertLog(a.pg, cfg.Database.SnapshotKey).Recent(ctx, 10)
	if err != nil {
		return err
	}
	if len(recent) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "🔔 Recent alerts:")
		now := time.Now()
		for _, r := range recent {
			fmt.Fprintf(out, "• %s (%s)\n", r.Task, timeutil.FormatRelative(r.FiredAt, now))
		}
	}
	return nil
}

func runAlerts(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.Redis.Configured() {
		return fmt.Errorf("alerts: REDIS_URL or REDIS_HOST is required")
	}
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	client, err := openRedis(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	console := cli.NewConsole(cmd.OutOrStdout(), cli.PlainTheme())
	console.Line("🔔 Waiting for reminder alerts. Press Ctrl+C to stop.")
	return client.SubscribeAlerts(ctx, func(a notification.Alert) {
		console.Line("\n" + a.Text())
	})
}

func runFeatures(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, f := range cfg.Features.GetAllFeatures() {
		state := "off"
		if f.Enabled {
			state = "on"
		}
		fmt.Fprintf(out, "%-30s %-3s  %s\n", f.Name, state, f.Description)
	}
	return nil
}
