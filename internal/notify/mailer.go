package notify

import (
	"context"
	"fmt"

	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

// Mailer is the worker-side handler for email.send jobs: render the named
// template, hand off to the sender, record the outcome. The outcome never
// propagates back to whoever enqueued the job.
type Mailer struct {
	Sender  Sender
	Records RecordStore
}

// HandleSendEmail processes one email.send message.
func (m *Mailer) HandleSendEmail(ctx context.Context, msg queue.Message) error {
	var payload queue.SendEmailPayload
	if err := queue.DecodeBody(msg, &payload); err != nil {
		return fmt.Errorf("decode email payload: %w", err)
	}

	err := m.deliver(ctx, payload)
	if err != nil {
		metrics.IncNotification("failed")
		m.recordOutcome(ctx, msg.TaskID, StatusFailed, err.Error())
		telemetry.Error("notify.send_failed", map[string]any{
			"task_id":  msg.TaskID,
			"template": payload.Template,
			"err":      err.Error(),
		})
		return err
	}

	metrics.IncNotification("sent")
	m.recordOutcome(ctx, msg.TaskID, StatusSent, "")
	telemetry.Info("notify.sent", map[string]any{
		"task_id":  msg.TaskID,
		"template": payload.Template,
	})
	return nil
}

func (m *Mailer) deliver(ctx context.Context, payload queue.SendEmailPayload) error {
	if len(payload.Recipients) == 0 {
		return fmt.Errorf("email job has no recipients")
	}
	if m.Sender == nil {
		return fmt.Errorf("no sender configured")
	}

	body, err := RenderTemplate(payload.Template, payload.Subject, payload.Data)
	if err != nil {
		return err
	}
	return m.Sender.Send(ctx, payload.Recipients, payload.Subject, body)
}

func (m *Mailer) recordOutcome(ctx context.Context, taskID, status, errMessage string) {
	if m.Records == nil {
		return
	}
	if err := m.Records.UpdateOutcome(ctx, taskID, status, errMessage); err != nil {
		telemetry.Error("notify.record_update_failed", map[string]any{
			"task_id": taskID,
			"err":     err.Error(),
		})
	}
}
