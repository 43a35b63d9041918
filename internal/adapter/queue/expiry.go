package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/tourpad/scheduler/internal/core/domain"
	"github.com/tourpad/scheduler/internal/core/ports"
)

const TypeHoldExpire = "hold:expire"

type holdExpiryPayload struct {
	WindowID uuid.UUID `json:"window_id"`
}

func NewHoldExpiryTask(windowID uuid.UUID, at time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(holdExpiryPayload{WindowID: windowID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeHoldExpire, b)
	opts := []asynq.Option{
		asynq.ProcessAt(at),
		asynq.TaskID(windowID.String()),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ExpiryScheduler queues a delayed task per hold. *asynq.Client satisfies
// the enqueuer it needs.
type ExpiryScheduler struct {
	client enqueuer
}

func NewExpiryScheduler(client enqueuer) *ExpiryScheduler {
	return &ExpiryScheduler{client: client}
}

func (s *ExpiryScheduler) ScheduleExpiry(ctx context.Context, windowID uuid.UUID, at time.Time) error {
	task, opts, err := NewHoldExpiryTask(windowID, at)
	if err != nil {
		return fmt.Errorf("build expiry task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue expiry task: %w", err)
	}
	return nil
}

// HoldExpiryHandler expires the hold named by the task. Holds that were
// confirmed or cancelled in the meantime are acknowledged without retry.
func HoldExpiryHandler(svc ports.BookingService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p holdExpiryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid hold expiry payload", zap.Error(err))
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		outcome, err := svc.ExpireBooking(ctx, p.WindowID)
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			logger.Debug("Hold already resolved", zap.String("window_id", p.WindowID.String()))
			return nil
		case err != nil:
			return err
		}

		logger.Info("Hold expiry task processed",
			zap.String("window_id", p.WindowID.String()),
			zap.String("status", string(outcome.Status)),
		)
		return nil
	}
}

// NewServer builds the worker that drains expiry tasks.
func NewServer(opt asynq.RedisConnOpt, concurrency int, svc ports.BookingService, logger *zap.Logger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHoldExpire, HoldExpiryHandler(svc, logger))
	return srv, mux
}
