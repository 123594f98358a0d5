package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jj-oyna/glass-pos/internal/order"
)

// TaskReceiptDeliver is the queued task kind for receipt delivery.
const TaskReceiptDeliver = "receipt:deliver"

// NewReceiptTask packs a finalized order into a delivery task.
func NewReceiptTask(o order.SavedOrder) (*asynq.Task, error) {
	payload, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("notify: encode receipt task: %w", err)
	}
	return asynq.NewTask(TaskReceiptDeliver, payload), nil
}

// Enqueuer schedules receipt deliveries on the task queue after finalize.
// Enqueue failure is the caller's warning to surface; the archived order
// is already committed and must not be rolled back.
type Enqueuer struct {
	Client    *asynq.Client
	Queue     string
	MaxRetry  int
	Timeout   time.Duration
	Retention time.Duration
}

// Enqueue submits the order for asynchronous delivery.
func (e Enqueuer) Enqueue(ctx context.Context, o order.SavedOrder) error {
	if e.Client == nil {
		return errors.New("notify: task client not configured")
	}
	task, err := NewReceiptTask(o)
	if err != nil {
		return err
	}
	opts := []asynq.Option{
		asynq.TaskID(fmt.Sprintf("%s:%s", TaskReceiptDeliver, o.ID)),
	}
	if e.Queue != "" {
		opts = append(opts, asynq.Queue(e.Queue))
	}
	if e.MaxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(e.MaxRetry))
	}
	if e.Timeout > 0 {
		opts = append(opts, asynq.Timeout(e.Timeout))
	}
	if e.Retention > 0 {
		opts = append(opts, asynq.Retention(e.Retention))
	}
	if _, err := e.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("notify: enqueue receipt: %w", err)
	}
	return nil
}
