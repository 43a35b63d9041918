package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tourpad/scheduler/internal/adapter/queue"
	"github.com/tourpad/scheduler/internal/core/domain"
	"github.com/tourpad/scheduler/internal/core/ports/mocks"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (r *recordingEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	r.opts = append(r.opts, opts)
	return &asynq.TaskInfo{ID: task.Type()}, nil
}

func TestExpiryScheduler_EnqueuesDelayedTask(t *testing.T) {
	enq := &recordingEnqueuer{}
	scheduler := queue.NewExpiryScheduler(enq)

	windowID := uuid.New()
	at := time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC)
	require.NoError(t, scheduler.ScheduleExpiry(context.Background(), windowID, at))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, queue.TypeHoldExpire, enq.tasks[0].Type())

	var payload map[string]string
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, windowID.String(), payload["window_id"])

	var processAt time.Time
	for _, o := range enq.opts[0] {
		if o.Type() == asynq.ProcessAtOpt {
			processAt = o.Value().(time.Time)
		}
	}
	assert.True(t, processAt.Equal(at))
}

func TestExpiryScheduler_DuplicateIsNotAnError(t *testing.T) {
	scheduler := queue.NewExpiryScheduler(&recordingEnqueuer{err: asynq.ErrTaskIDConflict})
	assert.NoError(t, scheduler.ScheduleExpiry(context.Background(), uuid.New(), time.Now()))

	scheduler = queue.NewExpiryScheduler(&recordingEnqueuer{err: errors.New("redis down")})
	assert.Error(t, scheduler.ScheduleExpiry(context.Background(), uuid.New(), time.Now()))
}

func TestHoldExpiryHandler(t *testing.T) {
	ctx := context.Background()
	windowID := uuid.New()
	task, _, err := queue.NewHoldExpiryTask(windowID, time.Now())
	require.NoError(t, err)

	t.Run("expires", func(t *testing.T) {
		svc := mocks.NewBookingService(t)
		svc.On("ExpireBooking", ctx, windowID).
			Return(&domain.CancelOutcome{Status: domain.CancelExpiredStatus, WindowID: windowID}, nil)

		assert.NoError(t, queue.HoldExpiryHandler(svc, zap.NewNop())(ctx, task))
	})

	t.Run("already resolved", func(t *testing.T) {
		svc := mocks.NewBookingService(t)
		svc.On("ExpireBooking", ctx, windowID).Return(nil, domain.ErrInvalidTransition)

		assert.NoError(t, queue.HoldExpiryHandler(svc, zap.NewNop())(ctx, task))
	})

	t.Run("not due yet retries", func(t *testing.T) {
		svc := mocks.NewBookingService(t)
		svc.On("ExpireBooking", ctx, windowID).Return(nil, domain.ErrHoldActive)

		err := queue.HoldExpiryHandler(svc, zap.NewNop())(ctx, task)
		assert.ErrorIs(t, err, domain.ErrHoldActive)
	})

	t.Run("bad payload skips retry", func(t *testing.T) {
		svc := mocks.NewBookingService(t)
		bad := asynq.NewTask(queue.TypeHoldExpire, []byte("{"))

		err := queue.HoldExpiryHandler(svc, zap.NewNop())(ctx, bad)
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}
