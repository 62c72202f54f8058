package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is a user-submitted message about a product or the site in general.
// Reading is write-once: ReadedAt is set exactly once and never cleared.
type Report struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	ProductID *string    `gorm:"size:36;index" json:"productId"`
	UserID    *string    `gorm:"size:36;index" json:"userId"`
	Message   string     `gorm:"size:1000;not null" json:"message"`
	Email     string     `gorm:"size:255;not null;index" json:"email"`
	ReadedAt  *time.Time `gorm:"index" json:"readedAt"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReportStats is the admin dashboard summary of the report set.
type ReportStats struct {
	Total               int64                `json:"total"`
	Read                int64                `json:"read"`
	Unread              int64                `json:"unread"`
	Recent              int64                `json:"recent"`
	Monthly             int64                `json:"monthly"`
	ReadPercentage      int                  `json:"readPercentage"`
	TopReportedProducts []TopReportedProduct `json:"topReportedProducts"`
}

type TopReportedProduct struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Count       int64  `json:"count"`
}

// CollectReportStats computes the report dashboard numbers.
func CollectReportStats(db *gorm.DB) (*ReportStats, error) {
	stats := &ReportStats{}

	if err := db.Model(&Report{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Report{}).Where("readed_at IS NOT NULL").Count(&stats.Read).Error; err != nil {
		return nil, err
	}
	stats.Unread = stats.Total - stats.Read

	now := time.Now()
	if err := db.Model(&Report{}).Where("created_at >= ?", now.AddDate(0, 0, -7)).
		Count(&stats.Recent).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Report{}).Where("created_at >= ?", now.AddDate(0, 0, -30)).
		Count(&stats.Monthly).Error; err != nil {
		return nil, err
	}
	if stats.Total > 0 {
		stats.ReadPercentage = int(float64(stats.Read) / float64(stats.Total) * 100)
	}

	err := db.Model(&Report{}).
		Select("reports.product_id AS product_id, products.name AS product_name, COUNT(*) AS count").
		Joins("JOIN products ON products.id = reports.product_id").
		Where("reports.product_id IS NOT NULL").
		Group("reports.product_id, products.name").
		Order("count DESC").
		Limit(5).
		Scan(&stats.TopReportedProducts).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
