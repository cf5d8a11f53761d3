package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/repository"
	"go.uber.org/zap"
)

// UserSyncHandler upserts user projections arriving on the sync queue.
// The queue is single-purpose, so there is no type switch: every
// message is a sync.
type UserSyncHandler struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserSyncHandler(users repository.UserRepository, logger *zap.Logger) *UserSyncHandler {
	return &UserSyncHandler{users: users, logger: logger}
}

func (h *UserSyncHandler) Handle(ctx context.Context, event *models.Event) error {
	var data models.UserSyncData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("decode user sync event: %w", err)
	}

	user := &models.User{
		ID:       data.ID,
		Username: data.Username,
		Email:    data.Email,
		Role:     data.Role,
	}
	if err := h.users.UpsertByExternalID(ctx, user); err != nil {
		return err
	}

	h.logger.Info("user projection synced", zap.String("user_id", data.ID))
	return nil
}
