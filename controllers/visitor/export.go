package visitorcontroller

import (
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

// ExportVisitorsToExcel writes the per-page statistics as a spreadsheet,
// one row per page and day.
func ExportVisitorsToExcel(db *gorm.DB) gin.HandlerFunc {
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

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Visitors")
		if err != nil {
			api.Fail(c, err)
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range []string{"PageName", "Date", "Visitors", "PageTotal", "VisitDays", "AveragePerDay"} {
			headerRow.AddCell().SetValue(h)
		}

		for _, page := range stats {
			for _, day := range page.DailyBreakdown {
				row := sheet.AddRow()
				row.AddCell().SetValue(page.PageName)
				row.AddCell().SetValue(day.Date.Format("2006-01-02"))
				row.AddCell().SetValue(day.Visitors)
				row.AddCell().SetValue(page.TotalVisitors)
				row.AddCell().SetValue(page.VisitDays)
				row.AddCell().SetValue(page.AverageVisitorsPerDay)
			}
		}

		c.Header("Content-Disposition", "attachment; filename=visitors.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}
