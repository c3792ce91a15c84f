package commands

import (
	"context"
	"errors"
	"fmt"
	"lmssynergy/lib/chrono"
	"lmssynergy/lib/digest"
	"lmssynergy/lib/platforms/synergy"
	"lmssynergy/lib/telemetry"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

const defaultWatchSchedule = "@every 30m"

var (
	sendDigest *bool
	runOnStart *bool
)

func init() {
	sendDigest = digestCmd.Flags().Bool("send", false, "Mail the digest to watch.mail_to instead of printing it.")
	runOnStart = watchCmd.Flags().Bool("now", true, "Check the portal once before waiting for the first tick.")
	rootCmd.AddCommand(digestCmd, watchCmd)
}

func mailDigest(ctx context.Context, cfg Config, d digest.Digest) error {
	if len(cfg.Watch.MailTo) == 0 {
		return errors.New("watch.mail_to is empty")
	}
	return digest.Send(ctx, cfg.Smtp, cfg.Watch.MailTo, d)
}

var digestCmd = &cobra.Command{
	Use:   "digest [--send]",
	Short: "Summarizes notifications and unread messages.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			d, err := digest.Collect(cmd.Context(), client)
			if err != nil {
				return err
			}
			if *sendDigest {
				return mailDigest(cmd.Context(), cfg, d)
			}
			return render(d, func() {
				fmt.Println(d.Subject())
				fmt.Println()
				fmt.Print(d.Text())
			})
		})
	},
}

type watcher struct {
	cfg     Config
	tracker *digest.Tracker
}

func (w watcher) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	client, err := openClient(ctx, w.cfg)
	if err != nil {
		slog.Error("failed to open portal session", "err", err)
		return
	}
	defer client.Close()

	d, err := digest.Collect(ctx, client)
	if err != nil {
		slog.Error("failed to collect digest", "err", err)
		return
	}
	fresh := w.tracker.Fresh(d)
	if fresh.Empty() {
		slog.Debug("nothing new on the portal")
		return
	}

	slog.Info(
		"new portal activity",
		"notifications", len(fresh.Notifications),
		"messages", len(fresh.UnreadMessages),
	)
	if len(w.cfg.Watch.MailTo) == 0 {
		return
	}
	err = mailDigest(ctx, w.cfg, fresh)
	if err != nil {
		slog.Error("failed to mail digest", "err", err)
	}
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Logs new notifications and messages on the watch.schedule cron spec until interrupted, mailing them when watch.mail_to is set.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		spec := cfg.Watch.Schedule
		if spec == "" {
			spec = defaultWatchSchedule
		}

		w := watcher{cfg: cfg, tracker: digest.NewTracker()}
		scheduler := chrono.NewScheduler()
		err = scheduler.Add(spec, func() { w.check(ctx) })
		if err != nil {
			return err
		}

		telemetry.InstrumentPerfStats(ctx, time.Minute)
		if *runOnStart {
			w.check(ctx)
		}

		slog.Info("watching the portal", "username", cfg.Username, "schedule", spec)
		scheduler.Start()
		<-ctx.Done()
		scheduler.Stop()
		return nil
	},
}
