package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/analytics"
	"github.com/ukydev/ac-service-backend/internal/config"
	"github.com/ukydev/ac-service-backend/internal/db"
)

type options struct {
	date     string
	days     int
	schedule bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("rollup", flag.ContinueOnError)
	fs.StringVar(&opts.date, "date", "", "sync a single day (YYYY-MM-DD)")
	fs.IntVar(&opts.days, "days", 0, "rebuild the last N days, oldest first")
	fs.BoolVar(&opts.schedule, "schedule", false, "run the nightly rollup until interrupted")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	modes := 0
	if opts.date != "" {
		modes++
	}
	if opts.days != 0 {
		modes++
	}
	if opts.schedule {
		modes++
	}
	if modes > 1 {
		return opts, fmt.Errorf("-date, -days and -schedule are mutually exclusive")
	}
	if opts.days < 0 {
		return opts, fmt.Errorf("-days must be positive")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("Invalid arguments")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	store := db.NewStore(client.Database(cfg.Mongo.Database))
	rollup := analytics.NewRollup(store.Bookings, store.Snapshots, cfg.Location(), log.StandardLogger())

	if err := execute(ctx, rollup, opts, cfg); err != nil {
		log.WithError(err).Fatal("Rollup failed")
	}
}

// execute runs one mode. Without flags it syncs today.
func execute(ctx context.Context, rollup *analytics.Rollup, opts options, cfg *config.Config) error {
	switch {
	case opts.schedule:
		scheduler := analytics.NewScheduler(rollup, cfg.Analytics.Schedule, log.StandardLogger())
		if err := scheduler.Start(); err != nil {
			return err
		}
		log.WithField("next_run", scheduler.Next()).Info("Waiting for scheduled rollups")
		<-ctx.Done()
		scheduler.Stop()
		return nil

	case opts.days > 0:
		synced, err := rollup.SyncHistorical(ctx, opts.days)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"requested": opts.days, "synced": synced}).Info("Historical rollup finished")
		return nil

	default:
		date := time.Now().In(cfg.Location())
		if opts.date != "" {
			parsed, err := time.ParseInLocation("2006-01-02", opts.date, cfg.Location())
			if err != nil {
				return fmt.Errorf("invalid -date %q: %w", opts.date, err)
			}
			date = parsed
		}
		snapshot, err := rollup.SyncDay(ctx, date)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"date":     date.Format("2006-01-02"),
			"bookings": snapshot.Totals.Bookings,
			"revenue":  snapshot.Totals.Revenue,
		}).Info("Day synced")
		return nil
	}
}
