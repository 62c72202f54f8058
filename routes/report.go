package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	reportcontroller "github.com/muhiddin-ilhan/OkulixAppWebBackend/controllers/report"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
)

// SetupReportRoutes registers the "/report/*" endpoints. Anyone may submit
// a report; reading and managing them is admin only.
func SetupReportRoutes(r *gin.Engine, db *gorm.DB) {
	reportGroup := r.Group("/report")
	{
		reportGroup.POST("/", middleware.OptionalToken, reportcontroller.AddReport(db))

		adminGroup := reportGroup.Group("")
		adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
		{
			adminGroup.POST("/list", reportcontroller.GetReports(db))
			adminGroup.POST("/stats", reportcontroller.GetReportStats(db))
			adminGroup.POST("/detail", reportcontroller.GetReport(db))
			adminGroup.POST("/mark-read", reportcontroller.MarkAsRead(db))
			adminGroup.POST("/delete", reportcontroller.DeleteReport(db))
		}
	}
}
