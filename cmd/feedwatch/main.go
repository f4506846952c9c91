// feedwatch prints the activity feed for one day and re-prints it whenever new rows arrive.
//
//	go run ./cmd/feedwatch --date 2024-03-01 --employee 3 --type payment --interval 5s
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"hotelmgt/internal/activity/domain"
	"hotelmgt/internal/activity/feed"
	activityrepo "hotelmgt/internal/activity/repository"
	"hotelmgt/internal/activity/poller"
	"hotelmgt/internal/activity/source"
	"hotelmgt/internal/config"
	"hotelmgt/internal/db"
	"hotelmgt/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "feedwatch:", err)
		os.Exit(1)
	}
}

func run() error {
	date := pflag.String("date", "", "calendar day to watch (YYYY-MM-DD, default today)")
	employee := pflag.Int64("employee", 0, "restrict to one employee ID (0 = all)")
	typeGroup := pflag.String("type", "all", "type group prefix, e.g. payment or check (all = no restriction)")
	interval := pflag.Duration("interval", 0, "poll interval (default FEED_POLL_INTERVAL)")
	once := pflag.Bool("once", false, "print the feed once and exit")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	// Logs go to stderr so they don't interleave with the table.
	log := logger.Setup(logger.Options{Level: cfg.LogLevel, Output: os.Stderr})

	filter, err := buildFilter(*date, *employee, *typeGroup, time.Now())
	if err != nil {
		return err
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer conn.Close()

	sources := []feed.Source{
		source.NewActivityLog(activityrepo.NewPostgresActivityLogRepository(conn, cfg.FeedEmployeeRole), log),
		source.NewPayments(activityrepo.NewPostgresPaymentRepository(conn, cfg.FeedEmployeeRole), log),
	}
	aggregator := feed.NewAggregator(cfg.FetchTimeout(), nil, sources...)
	tracker := feed.NewTracker(cfg.FetchTimeout(), nil, sources...)
	presenter := poller.NewTablePresenter(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		res, err := aggregator.Merge(ctx, filter)
		if err != nil {
			return err
		}
		presenter.Present(ctx, res)
		return nil
	}

	every := *interval
	if every <= 0 {
		every = cfg.PollInterval()
	}
	session := feed.NewSession(uuid.NewString(), domain.FilterState{}, aggregator, tracker)
	return poller.New(session, presenter, every, nil).Run(ctx, filter)
}

// buildFilter turns the flags into a filter. An empty date means today (UTC); employee 0 and
// type "all" mean no restriction.
func buildFilter(date string, employee int64, typeGroup string, now time.Time) (domain.FilterState, error) {
	day := domain.Today(now)
	if strings.TrimSpace(date) != "" {
		d, err := domain.ParseDay(strings.TrimSpace(date))
		if err != nil {
			return domain.FilterState{}, fmt.Errorf("--date: %w", err)
		}
		day = d
	}
	var employeeID *int64
	if employee < 0 {
		return domain.FilterState{}, fmt.Errorf("--employee must not be negative")
	}
	if employee > 0 {
		employeeID = &employee
	}
	var group *string
	if t := strings.TrimSpace(typeGroup); t != "" && !strings.EqualFold(t, "all") {
		if domain.NormalizeType(t) == "" {
			return domain.FilterState{}, fmt.Errorf("--type %q has no letters or digits", t)
		}
		group = &t
	}
	return domain.NewFilter(day, employeeID, group), nil
}
