package visitorcontroller

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

type statsFilter struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	PageName  string `json:"pageName"`
}

func (f statsFilter) dates() (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if f.StartDate != "" {
		t, err := parseDate(f.StartDate)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if f.EndDate != "" {
		t, err := parseDate(f.EndDate)
		if err != nil {
			return nil, nil, err
		}
		end = &t
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// RecordVisit counts a page hit for today and notifies live listeners.
func RecordVisit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PageName string `json:"pageName"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.PageName == "" {
			api.Fail(c, api.BadRequest("Page name is required"))
			return
		}

		row, err := models.RecordVisit(db, req.PageName)
		if err != nil {
			api.Fail(c, err)
			return
		}

		broadcastVisit(row)

		data := gin.H{"date": row.Date, "pageName": row.PageName, "visitors": row.Visitors}
		if row.Visitors == 1 {
			api.Created(c, "New visitor record created", data)
			return
		}
		api.OK(c, "Visitor count updated", data)
	}
}

// GetDailyVisitors returns per-day totals, newest day first.
func GetDailyVisitors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statsFilter
		_ = c.ShouldBindJSON(&req)

		start, end, err := req.dates()
		if err != nil {
			api.Fail(c, api.BadRequest("Invalid date format, use YYYY-MM-DD"))
			return
		}

		stats, err := models.DailyVisitorStats(db, start, end)
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Daily visitor statistics retrieved successfully", gin.H{
			"dailyStats": stats,
			"totalDays":  len(stats),
		})
	}
}

// GetPageVisitors returns per-page totals with their daily breakdown.
func GetPageVisitors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statsFilter
		_ = c.ShouldBindJSON(&req)

		start, end, err := req.dates()
		if err != nil {
			api.Fail(c, api.BadRequest("Invalid date format, use YYYY-MM-DD"))
			return
		}

		stats, err := models.PageVisitorStats(db, start, end, req.PageName)
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Page visitor statistics retrieved successfully", gin.H{
			"pageStats":  stats,
			"totalPages": len(stats),
		})
	}
}

// GetVisitorStats returns the whole-set summary.
func GetVisitorStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := models.VisitorOverallStats(db)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, "Overall visitor statistics retrieved successfully", stats)
	}
}
