package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	visitorcontroller "github.com/muhiddin-ilhan/OkulixAppWebBackend/controllers/visitor"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
)

// SetupVisitorRoutes registers the "/visitors/*" endpoints. Recording a
// visit is public; statistics, the excel export and the live feed are
// admin dashboard surface.
func SetupVisitorRoutes(r *gin.Engine, db *gorm.DB) {
	visitorGroup := r.Group("/visitors")
	{
		visitorGroup.POST("/", visitorcontroller.RecordVisit(db))

		adminGroup := visitorGroup.Group("")
		adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
		{
			adminGroup.POST("/daily", visitorcontroller.GetDailyVisitors(db))
			adminGroup.POST("/pages", visitorcontroller.GetPageVisitors(db))
			adminGroup.POST("/stats", visitorcontroller.GetVisitorStats(db))
			adminGroup.POST("/export", visitorcontroller.ExportVisitorsToExcel(db))
		}

		// Websocket upgrade, the one non-POST route.
		visitorGroup.GET("/live", visitorcontroller.LiveVisitors)
	}
}
