package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"PortfolioBench/internal/notifier"
	"PortfolioBench/internal/scheduler"
)

// watchCmd implements the "watch" command.
type watchCmd struct {
	configPath string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "sends the comparison to Telegram on a schedule" }
func (*watchCmd) Usage() string {
	return `watch [-config C]

Runs the comparison on the configured cron schedule and posts the chart
with a summary to the Telegram chat. The bot also answers /compare and
/help. Set RUN_ON_START=true to send one comparison right away.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "config file (default $CONFIG_PATH or "+defaultConfigPath+")")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup(c.configPath, nil)
	if err != nil {
		return fail(err)
	}
	defer a.close()
	if err := a.cfg.ValidateWatch(); err != nil {
		return fail(err)
	}

	col, yahoo, err := a.collector(a.cfg.Brokerage.Cookie)
	if err != nil {
		return fail(err)
	}
	tn := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, tn, a.chartOptions(yahoo), a.cfg.Chart.Output, a.log)
	if err := sched.Register(a.cfg.Schedule.Cron); err != nil {
		return fail(err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	a.log.Info("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		a.log.Info("RUN_ON_START enabled, running comparison now")
		go func() {
			if err := sched.RunNow(); err != nil {
				a.log.Errorf("comparison on start: %v", err)
			}
		}()
	}

	a.log.Infof("watching %s on %q. Press Ctrl+C to stop.", a.ticker(), a.cfg.Schedule.Cron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received, stopping...")
	cancel()
	return subcommands.ExitSuccess
}
