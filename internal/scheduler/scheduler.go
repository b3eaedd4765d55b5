package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"PortfolioBench/internal/apperr"
	"PortfolioBench/internal/collector"
	"PortfolioBench/internal/logging"
	"PortfolioBench/internal/notifier"
	"PortfolioBench/internal/presenter"
)

const sendRetries = 3

// Scheduler runs the comparison on a cron schedule and delivers the chart.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  *notifier.TelegramNotifier
	Chart     presenter.Options
	// Output, when set, also keeps the latest chart on disk.
	Output string
	Ctx    context.Context
	Log    *zap.SugaredLogger

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, tn *notifier.TelegramNotifier, chart presenter.Options, output string, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  tn,
		Chart:     chart,
		Output:    output,
		Ctx:       ctx,
		Log:       logging.OrNop(log),
	}
}

// Register adds the comparison task under a six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.compareTask); err != nil {
		return fmt.Errorf("register comparison task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow executes the comparison immediately.
func (s *Scheduler) RunNow() error {
	return s.run()
}

func (s *Scheduler) compareTask() {
	if err := s.run(); err != nil {
		s.Log.Errorw("comparison task failed", zap.String("kind", apperr.Kind(err)), zap.Error(err))
	}
}

func (s *Scheduler) run() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Log.Info("running comparison task")
	cmp, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		s.trySend(fmt.Sprintf("❌ comparison failed: %v", err))
		return err
	}

	fig, err := presenter.Build(cmp, s.Chart)
	if err != nil {
		return fmt.Errorf("build chart: %w", err)
	}
	var buf bytes.Buffer
	if err := presenter.Render(&buf, fig, presenter.FormatPNG); err != nil {
		return err
	}
	if s.Output != "" {
		if err := presenter.RenderFile(s.Output, fig); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}

	caption := notifier.FormatSummary(cmp)
	if err := s.Notifier.SendPhotoWithRetry(s.Ctx, "comparison.png", buf.Bytes(), caption, sendRetries); err != nil {
		return fmt.Errorf("send chart: %w", err)
	}
	return nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/compare":
		if err := s.run(); err != nil {
			s.Log.Errorf("comparison on demand: %v", err)
		}
		return ""
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.Log.Errorf("send notification: %v", err)
	}
}
