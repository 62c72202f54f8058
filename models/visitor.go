package models

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visitor holds exactly one row per (day, page) pair. The composite unique
// index turns the first-hit-of-the-day race into a detectable conflict that
// RecordVisit retries as an increment.
type Visitor struct {
	ID        string    `gorm:"primaryKey;size:36" json:"-"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_visitor_day_page" json:"date"`
	PageName  string    `gorm:"size:100;not null;uniqueIndex:idx_visitor_day_page;index" json:"pageName"`
	Visitors  int       `gorm:"not null;default:1" json:"visitors"`
	CreatedAt time.Time `json:"createdAt"`
}

func (v *Visitor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Today truncates now to local midnight, the granularity visits are
// counted at.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func incrementVisit(db *gorm.DB, day time.Time, pageName string) (*Visitor, error) {
	res := db.Model(&Visitor{}).
		Where("date = ? AND page_name = ?", day, pageName).
		UpdateColumn("visitors", gorm.Expr("visitors + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var row Visitor
	if err := db.Where("date = ? AND page_name = ?", day, pageName).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// RecordVisit counts one visit for pageName on the current day. If today's
// row exists the counter is incremented in place; otherwise a fresh row with
// visitors = 1 is inserted. Two concurrent first hits can both take the
// insert path, so a unique-key conflict is retried as an increment exactly
// once.
func RecordVisit(db *gorm.DB, pageName string) (*Visitor, error) {
	day := Today(time.Now())

	row, err := incrementVisit(db, day, pageName)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := Visitor{Date: day, PageName: pageName, Visitors: 1}
	err = db.Create(&fresh).Error
	if err == nil {
		return &fresh, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the insert race; the row exists now.
		return incrementVisit(db, day, pageName)
	}
	return nil, err
}

// DailyStat is the per-day projection of the visitor set.
type DailyStat struct {
	Date          time.Time   `json:"date"`
	TotalVisitors int         `json:"totalVisitors"`
	PageCount     int         `json:"pageCount"`
	Pages         []PageCount `json:"pages"`
}

type PageCount struct {
	PageName string `json:"pageName"`
	Visitors int    `json:"visitors"`
}

// PageStat is the per-page projection with its daily breakdown.
type PageStat struct {
	PageName              string     `json:"pageName"`
	TotalVisitors         int        `json:"totalVisitors"`
	VisitDays             int        `json:"visitDays"`
	AverageVisitorsPerDay float64    `json:"averageVisitorsPerDay"`
	DailyBreakdown        []DayCount `json:"dailyBreakdown"`
}

type DayCount struct {
	Date      time.Time `json:"date"`
	Visitors  int       `json:"visitors"`
	CreatedAt time.Time `json:"createdAt"`
}

// OverallStats is the whole-set summary.
type OverallStats struct {
	TotalVisitors         int        `json:"totalVisitors"`
	TotalUniquePages      int        `json:"totalUniquePages"`
	TotalActiveDays       int        `json:"totalActiveDays"`
	AverageVisitorsPerDay float64    `json:"averageVisitorsPerDay"`
	MostVisitedPage       *PageCount `json:"mostVisitedPage"`
}

func visitorRows(db *gorm.DB, startDate, endDate *time.Time, pageName string) ([]Visitor, error) {
	query := db.Model(&Visitor{})
	if startDate != nil {
		query = query.Where("date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("date <= ?", *endDate)
	}
	if pageName != "" {
		query = query.Where("page_name = ?", pageName)
	}

	var rows []Visitor
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DailyVisitorStats groups visits by day, newest day first.
func DailyVisitorStats(db *gorm.DB, startDate, endDate *time.Time) ([]DailyStat, error) {
	rows, err := visitorRows(db, startDate, endDate, "")
	if err != nil {
		return nil, err
	}

	// Rows are keyed by formatted date: time.Time values compare unequal
	// across driver round-trips when only the location differs.
	byDay := make(map[string]*DailyStat)
	for _, r := range rows {
		key := r.Date.Format("2006-01-02")
		stat, ok := byDay[key]
		if !ok {
			stat = &DailyStat{Date: r.Date}
			byDay[key] = stat
		}
		stat.TotalVisitors += r.Visitors
		stat.PageCount++
		stat.Pages = append(stat.Pages, PageCount{PageName: r.PageName, Visitors: r.Visitors})
	}

	stats := make([]DailyStat, 0, len(byDay))
	for _, s := range byDay {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date.After(stats[j].Date) })
	return stats, nil
}

// PageVisitorStats groups visits by page, most visited first, each page with
// its daily breakdown sorted newest first.
func PageVisitorStats(db *gorm.DB, startDate, endDate *time.Time, pageName string) ([]PageStat, error) {
	rows, err := visitorRows(db, startDate, endDate, pageName)
	if err != nil {
		return nil, err
	}

	byPage := make(map[string]*PageStat)
	for _, r := range rows {
		stat, ok := byPage[r.PageName]
		if !ok {
			stat = &PageStat{PageName: r.PageName}
			byPage[r.PageName] = stat
		}
		stat.TotalVisitors += r.Visitors
		stat.VisitDays++
		stat.DailyBreakdown = append(stat.DailyBreakdown, DayCount{
			Date:      r.Date,
			Visitors:  r.Visitors,
			CreatedAt: r.CreatedAt,
		})
	}

	stats := make([]PageStat, 0, len(byPage))
	for _, s := range byPage {
		s.AverageVisitorsPerDay = round2(float64(s.TotalVisitors) / float64(s.VisitDays))
		sort.Slice(s.DailyBreakdown, func(i, j int) bool {
			return s.DailyBreakdown[i].Date.After(s.DailyBreakdown[j].Date)
		})
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].TotalVisitors > stats[j].TotalVisitors })
	return stats, nil
}

// VisitorOverallStats summarizes the whole visitor set.
func VisitorOverallStats(db *gorm.DB) (*OverallStats, error) {
	rows, err := visitorRows(db, nil, nil, "")
	if err != nil {
		return nil, err
	}

	stats := &OverallStats{}
	days := make(map[string]bool)
	pages := make(map[string]int)
	for _, r := range rows {
		stats.TotalVisitors += r.Visitors
		days[r.Date.Format("2006-01-02")] = true
		pages[r.PageName] += r.Visitors
	}
	stats.TotalUniquePages = len(pages)
	stats.TotalActiveDays = len(days)
	if len(days) > 0 {
		stats.AverageVisitorsPerDay = round2(float64(stats.TotalVisitors) / float64(len(days)))
	}

	for name, total := range pages {
		if stats.MostVisitedPage == nil || total > stats.MostVisitedPage.Visitors {
			stats.MostVisitedPage = &PageCount{PageName: name, Visitors: total}
		}
	}
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
