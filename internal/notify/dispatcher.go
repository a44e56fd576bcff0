package notify

import (
	"context"
	"errors"
	"fmt"

	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/telemetry"
)

// DispatchRequest describes one notification to enqueue.
type DispatchRequest struct {
	ResumeID   string
	Recipients []string
	Subject    string
	Template   string
	Data       map[string]any
}

// Dispatcher hands notifications to the queue and records the enqueue as a
// dispatch record. Delivery happens later in the worker's email handler; the
// returned task id is the only thing the caller gets back.
type Dispatcher struct {
	Queue   queue.Client
	Records RecordStore
}

// Dispatch enqueues exactly one email.send job and returns its task handle.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) (string, error) {
	if d == nil || d.Queue == nil {
		return "", errors.New("notification dispatcher not configured")
	}
	if len(req.Recipients) == 0 {
		return "", errors.New("at least one recipient is required")
	}
	if req.Template == "" {
		return "", errors.New("template name is required")
	}

	msg, err := queue.NewMessage(queue.KindSendEmail, queue.SendEmailPayload{
		Recipients: req.Recipients,
		Subject:    req.Subject,
		Template:   req.Template,
		Data:       req.Data,
	})
	if err != nil {
		return "", fmt.Errorf("encode email job: %w", err)
	}

	if err := d.Queue.Enqueue(ctx, msg); err != nil {
		return "", fmt.Errorf("enqueue email job: %w", err)
	}

	if d.Records != nil {
		record := DispatchRecord{
			TaskID:    msg.TaskID,
			ResumeID:  req.ResumeID,
			Recipient: req.Recipients[0],
			Template:  req.Template,
			Status:    StatusEnqueued,
		}
		if err := d.Records.Create(ctx, record); err != nil {
			telemetry.Error("notify.record_create_failed", map[string]any{
				"task_id": msg.TaskID,
				"err":     err.Error(),
			})
		}
	}

	telemetry.Info("notify.dispatched", map[string]any{
		"task_id":   msg.TaskID,
		"resume_id": req.ResumeID,
		"template":  req.Template,
	})
	return msg.TaskID, nil
}
