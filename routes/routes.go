package routes

import (
	"net/http"

	"github.com/Airlectric/E-commerce-notifications-microservice/controllers"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, controller *controllers.NotificationController) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "notifications-microservice"})
	})

	logs := router.Group("/notifications")
	{
		logs.GET("/log", controller.GetNotificationLogs)
	}
}
