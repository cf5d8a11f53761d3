package services

import (
	"context"
	"fmt"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/repository"
	"github.com/Airlectric/E-commerce-notifications-microservice/sender"
	"go.uber.org/zap"
)

// Dispatcher sends rendered emails and records each attempt in the
// delivery log.
type Dispatcher interface {
	Deliver(ctx context.Context, n *models.EmailNotification) error
	GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error)
}

type dispatcher struct {
	repo        repository.NotificationRepository
	emailSender sender.EmailSender
	logger      *zap.Logger
}

func NewDispatcher(
	repo repository.NotificationRepository,
	emailSender sender.EmailSender,
	logger *zap.Logger,
) Dispatcher {
	return &dispatcher{
		repo:        repo,
		emailSender: emailSender,
		logger:      logger,
	}
}

// Deliver attempts the send, then logs the outcome. A log-write failure
// is reported but never changes the delivery outcome.
func (d *dispatcher) Deliver(ctx context.Context, n *models.EmailNotification) error {
	result, sendErr := d.emailSender.SendEmail(ctx, n.Recipient, n.Subject, n.Text, n.HTML)

	status := models.StatusSent
	errMsg := ""
	if sendErr != nil {
		status = models.StatusFailed
		errMsg = sendErr.Error()
	}

	logEntry := &models.NotificationLog{
		UserID:    n.UserID,
		Recipient: n.Recipient,
		Type:      n.EventType,
		Status:    status,
		Error:     errMsg,
	}
	if err := d.repo.SaveLog(ctx, logEntry); err != nil {
		d.logger.Error("failed to save notification log", zap.Error(err))
	}

	if sendErr != nil {
		return fmt.Errorf("send %s email to %s: %w", n.EventType, n.Recipient, sendErr)
	}

	d.logger.Info("notification sent",
		zap.String("event", n.EventType),
		zap.String("recipient", n.Recipient),
		zap.String("message_id", result.MessageID),
	)
	return nil
}

func (d *dispatcher) GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	return d.repo.GetLogs(ctx, filter)
}
