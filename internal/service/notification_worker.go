package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"loandesk/internal/domain"
	"loandesk/internal/metrics"
	"loandesk/internal/port"
)

// NotificationWorkerConfig holds settings for the notification outbox worker.
type NotificationWorkerConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	BatchSize    int
}

// NotificationWorker polls the outbox for queued notifications and delivers them.
type NotificationWorker struct {
	repo   port.NotificationRepository
	sender port.EmailSender
	cfg    NotificationWorkerConfig
	log    *zap.Logger
	wg     sync.WaitGroup
}

// NewNotificationWorker creates a new NotificationWorker.
func NewNotificationWorker(repo port.NotificationRepository, sender port.EmailSender, cfg NotificationWorkerConfig, log *zap.Logger) *NotificationWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = cfg.Concurrency
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationWorker{repo: repo, sender: sender, cfg: cfg, log: log}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight deliveries have finished.
func (w *NotificationWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	w.log.Info("notification worker started",
		zap.Duration("poll", w.cfg.PollInterval),
		zap.Int("concurrency", w.cfg.Concurrency),
		zap.Int("max_retries", w.cfg.MaxRetries))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("notification worker shutting down, waiting for in-flight deliveries")
			w.wg.Wait()
			w.log.Info("notification worker stopped")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

func (w *NotificationWorker) poll(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}
	if available > w.cfg.BatchSize {
		available = w.cfg.BatchSize
	}

	claimed, err := w.repo.ClaimQueued(ctx, available)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error("claiming queued notifications", zap.Error(err))
		}
		return
	}

	for i := range claimed {
		n := claimed[i]

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()

			// Fresh context so a delivery finishes even during shutdown.
			sendCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			w.Deliver(sendCtx, &n)
		}()
	}
}

// Deliver sends one claimed notification and records the result in the outbox.
func (w *NotificationWorker) Deliver(ctx context.Context, n *domain.Notification) {
	err := w.send(ctx, n)
	if err == nil {
		metrics.NotificationsProcessed.WithLabelValues(string(n.Kind), "sent").Inc()
		if merr := w.repo.MarkSent(ctx, n.ID); merr != nil {
			w.log.Error("marking notification sent", zap.String("notification_id", n.ID.String()), zap.Error(merr))
		}
		return
	}

	result := "retry"
	if n.Attempts >= w.cfg.MaxRetries {
		result = "failed"
	}
	metrics.NotificationsProcessed.WithLabelValues(string(n.Kind), result).Inc()
	w.log.Warn("notification delivery failed",
		zap.String("notification_id", n.ID.String()),
		zap.String("kind", string(n.Kind)),
		zap.Int("attempt", n.Attempts),
		zap.Error(err))
	if merr := w.repo.MarkFailed(ctx, n.ID, err.Error(), w.cfg.MaxRetries); merr != nil {
		w.log.Error("marking notification failed", zap.String("notification_id", n.ID.String()), zap.Error(merr))
	}
}

func (w *NotificationWorker) send(ctx context.Context, n *domain.Notification) error {
	switch n.Kind {
	case domain.NotificationDecision:
		var notice domain.DecisionNotice
		if err := json.Unmarshal(n.Payload, &notice); err != nil {
			return fmt.Errorf("decoding decision payload: %w", err)
		}
		return w.sender.SendDecision(ctx, n.Recipient, notice)
	case domain.NotificationInspectionScheduled:
		var notice domain.InspectionNotice
		if err := json.Unmarshal(n.Payload, &notice); err != nil {
			return fmt.Errorf("decoding inspection payload: %w", err)
		}
		return w.sender.SendInspectionScheduled(ctx, n.Recipient, notice)
	default:
		return fmt.Errorf("unknown notification kind %q", n.Kind)
	}
}
