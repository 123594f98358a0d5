package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jj-oyna/glass-pos/internal/obs"
	"github.com/jj-oyna/glass-pos/internal/order"
)

// Deliverer executes queued receipt deliveries: it renders the receipt
// document and transmits caption plus document to the chat channel. A
// returned error makes asynq retry with backoff; the archived order is
// untouched either way.
type Deliverer struct {
	Telegram *TelegramClient
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// Handle implements the asynq handler for TaskReceiptDeliver.
func (d *Deliverer) Handle(ctx context.Context, task *asynq.Task) error {
	var o order.SavedOrder
	if err := json.Unmarshal(task.Payload(), &o); err != nil {
		// A malformed payload can never succeed; drop it instead of retrying.
		d.Logger.Error().Err(err).Msg("receipt task payload malformed")
		return fmt.Errorf("notify: decode receipt task: %v: %w", err, asynq.SkipRetry)
	}
	if !d.Telegram.Configured() {
		d.Logger.Warn().Str("order_id", o.ID).Msg("telegram not configured, skipping receipt delivery")
		return nil
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := d.deliver(ctx, o)
	result := "delivered"
	if err != nil {
		result = "failed"
	}
	if obs.ReceiptDeliveriesTotal != nil {
		obs.ReceiptDeliveriesTotal.WithLabelValues(result).Inc()
	}
	if obs.ReceiptAttemptLatency != nil {
		obs.ReceiptAttemptLatency.WithLabelValues(result).Observe(obs.DurationMillis(time.Since(start)))
	}
	if err != nil {
		d.Logger.Warn().Err(err).Str("order_id", o.ID).Msg("receipt delivery failed")
		return err
	}
	d.Logger.Info().Str("order_id", o.ID).Str("customer", o.CustomerName).Msg("receipt delivered")
	return nil
}

func (d *Deliverer) deliver(ctx context.Context, o order.SavedOrder) error {
	doc, err := RenderReceiptHTML(o)
	if err != nil {
		return err
	}
	caption := order.Caption(o)
	if err := d.Telegram.SendMessage(ctx, caption); err != nil {
		return err
	}
	return d.Telegram.SendDocument(ctx, ReceiptFilename(o), doc, "")
}
