package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RedriveJobName is the name of the notification redrive job
const RedriveJobName = "notification_redrive"

// NotificationRedriver re-attempts notification deliveries that exhausted
// their retry budget. This interface lets the job call the dispatcher
// without importing the notify package directly.
type NotificationRedriver interface {
	Redrive(ctx context.Context) (delivered, remaining int)
	DeadLetterCount() int
}

// RedriveJob periodically redrives dead-lettered notification emails
type RedriveJob struct {
	dispatcher NotificationRedriver
	logger     *zap.Logger
	timeout    time.Duration
}

// NewRedriveJob creates a new notification redrive job.
// The timeout controls how long one redrive pass is allowed to run.
func NewRedriveJob(dispatcher NotificationRedriver, logger *zap.Logger, timeout time.Duration) *RedriveJob {
	return &RedriveJob{
		dispatcher: dispatcher,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run executes one redrive pass.
// This is called by the scheduler according to the cron expression.
func (j *RedriveJob) Run() {
	if j.dispatcher.DeadLetterCount() == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	delivered, remaining := j.dispatcher.Redrive(ctx)
	j.logger.Info("notification redrive pass finished",
		zap.Int("delivered", delivered),
		zap.Int("remaining", remaining),
		zap.Duration("duration", time.Since(start)))
}
