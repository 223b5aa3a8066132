package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/ports/jobs"
	"github.com/admin/tg-bots/shop-bot/internal/ports/service"
	"golang.org/x/sync/errgroup"
)

// defaultRetryDelays задержки ретраев для джоб без своей политики | now + 1m + 10m + 30m
var defaultRetryDelays = []time.Duration{
	1 * time.Minute,
	10 * time.Minute,
	30 * time.Minute,
}

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	jobs           []jobs.Job
	alerterService service.IAlerterService
	log            *slog.Logger
}

// NewScheduler создаёт новый планировщик джоб
func NewScheduler(log *slog.Logger, alerterService service.IAlerterService) *Scheduler {
	return &Scheduler{
		jobs:           make([]jobs.Job, 0),
		alerterService: alerterService,
		log:            log,
	}
}

// Register регистрирует джобу в планировщике
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Run запускает все зарегистрированные джобы и блокируется до отмены контекста
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Error("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	var g errgroup.Group
	for _, job := range s.jobs {
		job := job
		g.Go(func() error {
			s.runJob(ctx, job)
			return nil
		})
	}

	return g.Wait()
}

// runJob запускает отдельную джобу в цикле, ошибки джобы цикл не прерывают
func (s *Scheduler) runJob(ctx context.Context, job jobs.Job) {
	jobName := job.Name()
	limiter := &alertLimiter{cooldown: alertCooldown(job)}

	for {
		now := time.Now()
		timer := time.NewTimer(job.NextRun(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-timer.C:
			attemptErrors, err := s.executeJobWithRetry(ctx, job)
			if err != nil {
				s.log.Error("job failed after all retries",
					"job_name", jobName,
					"error", err,
					"attempts", len(attemptErrors),
				)
				allowed, suppressed := limiter.allow(time.Now())
				if !allowed {
					s.log.Warn("job failure alert suppressed",
						"job_name", jobName,
						"cooldown", limiter.cooldown,
					)
					continue
				}
				s.sendAlert(ctx, jobName, attemptErrors, suppressed)
				continue
			}
			s.log.Debug("job executed successfully", "job_name", jobName)
		}
	}
}

// jobAttemptError представляет ошибку конкретной попытки выполнения джобы
type jobAttemptError struct {
	attempt int
	err     error
}

func alertCooldown(job jobs.Job) time.Duration {
	if policy, ok := job.(jobs.AlertPolicy); ok {
		return policy.AlertCooldown()
	}
	return 0
}

// alertLimiter пропускает не больше одного алерта за cooldown и считает пропущенные
type alertLimiter struct {
	cooldown   time.Duration
	last       time.Time
	suppressed int
}

func (l *alertLimiter) allow(now time.Time) (bool, int) {
	if l.cooldown <= 0 || l.last.IsZero() || now.Sub(l.last) >= l.cooldown {
		suppressed := l.suppressed
		l.last, l.suppressed = now, 0
		return true, suppressed
	}
	l.suppressed++
	return false, 0
}

func retryDelays(job jobs.Job) []time.Duration {
	if policy, ok := job.(jobs.RetryPolicy); ok {
		return policy.RetryDelays()
	}
	return defaultRetryDelays
}

// executeJobWithRetry выполняет джобу с ретраями по её политике
// Возвращает ошибки всех попыток и финальную ошибку
func (s *Scheduler) executeJobWithRetry(ctx context.Context, job jobs.Job) ([]jobAttemptError, error) {
	jobName := job.Name()
	retries := retryDelays(job)

	var attemptErrors []jobAttemptError

	err := job.Run(ctx)
	if err == nil {
		return nil, nil
	}
	attemptErrors = append(attemptErrors, jobAttemptError{attempt: 1, err: err})
	s.log.Warn("job execution failed",
		"job_name", jobName,
		"attempt", 1,
		"retries_remaining", len(retries),
		"error", err,
	)

	for i, retryDelay := range retries {
		attemptNum := i + 2
		select {
		case <-ctx.Done():
			return attemptErrors, ctx.Err()
		case <-time.After(retryDelay):
			err := job.Run(ctx)
			if err == nil {
				return nil, nil
			}
			attemptErrors = append(attemptErrors, jobAttemptError{attempt: attemptNum, err: err})
			s.log.Warn("job retry failed",
				"job_name", jobName,
				"attempt", attemptNum,
				"retries_remaining", len(retries)-i-1,
				"error", err,
			)
		}
	}

	return attemptErrors, fmt.Errorf("all attempts failed (total attempts: %d)", len(attemptErrors))
}

// sendAlert алертит на финальную ошибку после ретраев
func (s *Scheduler) sendAlert(ctx context.Context, jobName string, attemptErrors []jobAttemptError, suppressed int) {
	if s.alerterService == nil {
		return
	}

	var errorLines []string
	for _, attemptErr := range attemptErrors {
		errorLines = append(errorLines, fmt.Sprintf("Попытка %d: %s", attemptErr.attempt, attemptErr.err.Error()))
	}

	var message strings.Builder
	message.WriteString("⚠️ Финальная ошибка планировщика\n\n")
	message.WriteString(fmt.Sprintf("Джоба: %s\n\n", jobName))
	message.WriteString("Ошибки попыток:\n")
	message.WriteString(strings.Join(errorLines, "\n"))
	if suppressed > 0 {
		message.WriteString(fmt.Sprintf("\n\nПовторных ошибок с прошлого алерта: %d", suppressed))
	}

	if alertErr := s.alerterService.SendAlert(ctx, message.String()); alertErr != nil {
		s.log.Warn("failed to send job failure alert",
			"job_name", jobName,
			"error", alertErr,
		)
	}
}
