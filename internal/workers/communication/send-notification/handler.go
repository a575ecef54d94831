// internal/workers/communication/send-notification/handler.go
package sendnotification

import (
	"context"
	"time"

	"loan-journey-workers/internal/common/camunda"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/notify"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

// Dispatcher is satisfied by *notify.Dispatcher.
type Dispatcher interface {
	Send(ctx context.Context, msg notify.Message) (*notify.Receipt, error)
}

type Handler struct {
	config     *Config
	dispatcher Dispatcher
	runner     *camunda.Runner
	logger     logger.Logger
}

func NewHandler(config *Config, deps journeyjob.Deps, dispatcher Dispatcher) *Handler {
	runner, log := deps.Runner(TaskType, config.Timeout)
	return &Handler{
		config:     config,
		dispatcher: dispatcher,
		runner:     runner,
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Process(h.runner, client, job, h.Execute)
}

// Execute renders the notification template and delivers it over the
// enabled channels. A send failure is retried; an unknown template is not.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	msg := notify.Message{
		Type: input.NotificationType,
		Data: make(map[string]interface{}, len(input.Data)+1),
	}
	for k, v := range input.Data {
		msg.Data[k] = v
	}
	msg.Data["applicationId"] = input.ApplicationID
	if h.config.EmailEnabled {
		msg.Email = input.Email
	}
	if h.config.SMSEnabled {
		msg.Phone = input.Phone
	}

	receipt, err := h.dispatcher.Send(ctx, msg)
	if err != nil {
		return nil, err
	}

	out := &Output{
		ApplicationID:  input.ApplicationID,
		NotificationID: uuid.NewString(),
		Status:         receipt.Status,
		EmailSent:      receipt.EmailSent,
		SMSSent:        receipt.SMSSent,
		MessageID:      receipt.MessageID,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"applicationId":    input.ApplicationID,
		"notificationType": input.NotificationType,
		"notificationId":   out.NotificationID,
		"status":           out.Status,
	})
	return out, nil
}
