package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/repository"
	"go.uber.org/zap"
)

// AuthHandler sends a welcome email when a user registers.
type AuthHandler struct {
	users      repository.UserRepository
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewAuthHandler(users repository.UserRepository, dispatcher Dispatcher, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, dispatcher: dispatcher, logger: logger}
}

func (h *AuthHandler) Handle(ctx context.Context, event *models.Event) error {
	if event.Type != models.TypeUserCreated {
		h.logger.Warn("unknown auth event type, ignoring", zap.String("type", event.Type))
		return nil
	}

	var data models.AuthEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("decode auth event: %w", err)
	}

	user := lookupRecipient(ctx, h.users, h.logger, data.UserID)
	if user == nil {
		return nil
	}

	notification, err := renderWelcomeEmail(user)
	if err != nil {
		return err
	}
	return h.dispatcher.Deliver(ctx, notification)
}
