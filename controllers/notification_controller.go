package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationController struct {
	dispatcher services.Dispatcher
	logger     *zap.Logger
}

func NewNotificationController(dispatcher services.Dispatcher, logger *zap.Logger) *NotificationController {
	return &NotificationController{dispatcher: dispatcher, logger: logger}
}

const (
	maxPageSize     = 100
	defaultPage     = 1
	defaultPageSize = 20
)

func parsePaginationParams(ctx *gin.Context) (int, int) {
	page := defaultPage
	pageSize := defaultPageSize

	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("page_size", "20")); err == nil && l > 0 {
		pageSize = l
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}

func (nc *NotificationController) GetNotificationLogs(ctx *gin.Context) {
	page, pageSize := parsePaginationParams(ctx)

	filter := models.NotificationFilter{
		UserID:   ctx.Query("user_id"),
		Status:   ctx.Query("status"),
		Type:     ctx.Query("type"),
		Page:     page,
		PageSize: pageSize,
	}

	logs, total, err := nc.dispatcher.GetLogs(ctx.Request.Context(), filter)
	if err != nil {
		nc.logger.Error("failed to get notification logs", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	ctx.JSON(http.StatusOK, gin.H{
		"data":        logs,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
	})
}
