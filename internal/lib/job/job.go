// Package job runs post-response work (notifications) in the background.
//
// Work is in-process only: a restart drops anything still in flight. Jobs
// run on a context detached from the request, bounded by a timeout, and
// their failures are logged and counted but never reported to the caller.
package job

import (
	"context"
	"sync"
	"time"

	"github.com/deppfellow/go-forms/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a single job, all of its tasks included.
const DefaultTimeout = 30 * time.Second

// Task is one named unit of background work, e.g. a chat message.
type Task struct {
	Channel string
	Run     func(ctx context.Context) error
}

// JobService dispatches tasks and tracks them until they finish.
type JobService struct {
	logger  *zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewJobService creates a JobService. A zero timeout uses DefaultTimeout.
func NewJobService(logger *zerolog.Logger, timeout time.Duration) *JobService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &JobService{
		logger:  logger,
		timeout: timeout,
	}
}

// Dispatch starts tasks concurrently and returns immediately. Request-scoped
// values on ctx (loggers, trace transactions) survive; its cancellation does
// not.
func (j *JobService) Dispatch(ctx context.Context, name string, tasks ...Task) {
	if len(tasks) == 0 {
		return
	}

	detached := context.WithoutCancel(ctx)

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		runCtx, cancel := context.WithTimeout(detached, j.timeout)
		defer cancel()

		var g errgroup.Group
		for _, task := range tasks {
			task := task
			g.Go(func() error {
				return j.run(runCtx, name, task)
			})
		}
		_ = g.Wait()
	}()
}

func (j *JobService) run(ctx context.Context, name string, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			j.logger.Error().
				Str("job", name).
				Str("channel", task.Channel).
				Interface("panic", r).
				Msg("background task panicked")
			metrics.NotificationsTotal.WithLabelValues(task.Channel, "failure").Inc()
		}
	}()

	if err = task.Run(ctx); err != nil {
		j.logger.Error().
			Err(err).
			Str("job", name).
			Str("channel", task.Channel).
			Msg("background task failed")
		metrics.NotificationsTotal.WithLabelValues(task.Channel, "failure").Inc()
		return err
	}

	j.logger.Debug().
		Str("job", name).
		Str("channel", task.Channel).
		Msg("background task completed")
	metrics.NotificationsTotal.WithLabelValues(task.Channel, "success").Inc()
	return nil
}

// Wait blocks until every dispatched job has finished.
func (j *JobService) Wait() {
	j.wg.Wait()
}

// Stop waits for in-flight jobs, giving up when ctx is done.
func (j *JobService) Stop(ctx context.Context) error {
	j.logger.Info().Msg("Waiting for background jobs")

	done := make(chan struct{})
	go func() {
		j.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
