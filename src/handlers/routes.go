package handlers

import (
	"net/http"
	"quest/src/security"
	"quest/src/utils"
	"time"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "The requested resource could not be found on this server!"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"maintenance": utils.Config.Maintenance})
	})

	admin := r.Group(utils.AdminPath(""))
	{
		admin.GET("/login/", LoginPage)
		admin.POST("/login/", security.MaintenanceMiddleware(), security.PathRateLimitMiddleware(10, 5*time.Minute), Login)
		admin.POST("/logout/", LogOut)

		views := admin.Group("", security.AdminViewMiddleware)
		views.GET("/", AdminIndex)
		for _, view := range GoalDashboards {
			views.GET(view.Path, view.Handler)
		}
	}
}
