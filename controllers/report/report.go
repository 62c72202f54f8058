package reportcontroller

import (
	"math"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

var emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// AddReport stores a user-submitted report. Anyone may submit; an
// authenticated caller gets attached as the reporting user.
func AddReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID *string `json:"productId"`
			Message   string  `json:"message"`
			Email     string  `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" || req.Email == "" {
			api.Fail(c, api.BadRequest("Message and email address are required"))
			return
		}
		if len(req.Message) < 10 || len(req.Message) > 1000 {
			api.Fail(c, api.BadRequest("Message must be between 10 and 1000 characters"))
			return
		}
		if !emailRegex.MatchString(req.Email) {
			api.Fail(c, api.BadRequest("Please provide a valid email address"))
			return
		}

		report := models.Report{
			ProductID: req.ProductID,
			Message:   req.Message,
			Email:     req.Email,
		}
		if userID := middleware.UserID(c); userID != "" {
			report.UserID = &userID
		}

		if err := db.Create(&report).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.Created(c, "Report created successfully", report)
	}
}

// GetReports lists reports with read-state, product and user filters plus
// pagination, newest first.
func GetReports(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Page      int    `json:"page"`
			Limit     int    `json:"limit"`
			Status    string `json:"status"`
			ProductID string `json:"productId"`
			UserID    string `json:"userId"`
		}
		_ = c.ShouldBindJSON(&req)
		if req.Page < 1 {
			req.Page = 1
		}
		if req.Limit < 1 {
			req.Limit = 10
		}

		query := db.Model(&models.Report{})
		switch req.Status {
		case "read":
			query = query.Where("readed_at IS NOT NULL")
		case "unread":
			query = query.Where("readed_at IS NULL")
		}
		if req.ProductID != "" {
			query = query.Where("product_id = ?", req.ProductID)
		}
		if req.UserID != "" {
			query = query.Where("user_id = ?", req.UserID)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			api.Fail(c, err)
			return
		}

		var reports []models.Report
		err := query.Order("created_at DESC").
			Offset((req.Page - 1) * req.Limit).
			Limit(req.Limit).
			Find(&reports).Error
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Reports retrieved successfully", gin.H{
			"reports": reports,
			"pagination": gin.H{
				"current": req.Page,
				"pages":   int(math.Ceil(float64(total) / float64(req.Limit))),
				"total":   total,
			},
		})
	}
}

// GetReport returns one report by id.
func GetReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID string `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("Report ID is required"))
			return
		}

		var report models.Report
		if err := db.First(&report, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("Report not found"))
			return
		}

		api.OK(c, "Report retrieved successfully", report)
	}
}

// MarkAsRead sets the read timestamp exactly once. Reading is write-once:
// an already-read report is rejected and never reverts to unread.
func MarkAsRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID string `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("Report ID is required"))
			return
		}

		var report models.Report
		if err := db.First(&report, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("Report not found"))
			return
		}
		if report.ReadedAt != nil {
			api.Fail(c, api.BadRequest("This report has already been read"))
			return
		}

		now := time.Now()
		report.ReadedAt = &now
		if err := db.Save(&report).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Report marked as read", report)
	}
}

// DeleteReport removes a report.
func DeleteReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID string `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("Report ID is required"))
			return
		}

		var report models.Report
		if err := db.First(&report, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("Report not found"))
			return
		}

		if err := db.Delete(&report).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Report deleted successfully", nil)
	}
}

// GetReportStats returns the admin dashboard summary.
func GetReportStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := models.CollectReportStats(db)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, "Report statistics retrieved successfully", stats)
	}
}
