package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like and Favorite are ledger rows: one row per (product, user) pair,
// enforced by a composite unique index. The denormalized counter on the
// product is adjusted alongside the row; the two writes are intentionally
// separate statements, matching the store's best-effort consistency model.

type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProductID string    `gorm:"size:36;not null;index;uniqueIndex:idx_like_product_user" json:"productId"`
	UserID    string    `gorm:"size:36;not null;index;uniqueIndex:idx_like_product_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type Favorite struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProductID string    `gorm:"size:36;not null;index;uniqueIndex:idx_favorite_product_user" json:"productId"`
	UserID    string    `gorm:"size:36;not null;index;uniqueIndex:idx_favorite_product_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Download is an append-only log row, written only for authenticated
// downloads. The product's downloads counter is incremented for anonymous
// downloads too, without a log row.
type Download struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProductID string    `gorm:"size:36;not null;index" json:"productId"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d *Download) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// toggle flips the ledger row for (productID, userID) in table and adjusts
// the counter column on the product by ±1. Returns the post-toggle sum of
// the real and fake counters.
func toggle(db *gorm.DB, product *Product, userID string, row interface{}, counterCol, fakeCol string) (int, error) {
	var count int64
	if err := db.Model(row).
		Where("product_id = ? AND user_id = ?", product.ID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	if count > 0 {
		if err := db.Where("product_id = ? AND user_id = ?", product.ID, userID).
			Delete(row).Error; err != nil {
			return 0, err
		}
		if err := db.Model(&Product{}).Where("id = ?", product.ID).
			UpdateColumn(counterCol, gorm.Expr(counterCol+" - 1")).Error; err != nil {
			return 0, err
		}
	} else {
		if err := db.Create(row).Error; err != nil {
			return 0, err
		}
		if err := db.Model(&Product{}).Where("id = ?", product.ID).
			UpdateColumn(counterCol, gorm.Expr(counterCol+" + 1")).Error; err != nil {
			return 0, err
		}
	}

	// Re-read so the returned total reflects the stored counters.
	var totals struct {
		RealCount int
		FakeCount int
	}
	err := db.Model(&Product{}).
		Select(counterCol+" AS real_count, "+fakeCol+" AS fake_count").
		Where("id = ?", product.ID).
		Scan(&totals).Error
	if err != nil {
		return 0, err
	}
	return totals.RealCount + totals.FakeCount, nil
}

// ToggleLike adds or removes the user's like on the product and returns the
// displayed like count (real + fake).
func ToggleLike(db *gorm.DB, product *Product, userID string) (int, error) {
	return toggle(db, product, userID, &Like{ProductID: product.ID, UserID: userID}, "likes", "likes_fake")
}

// ToggleFavorite adds or removes the user's favorite on the product and
// returns the displayed favorite count (real + fake).
func ToggleFavorite(db *gorm.DB, product *Product, userID string) (int, error) {
	return toggle(db, product, userID, &Favorite{ProductID: product.ID, UserID: userID}, "favorites", "favorites_fake")
}
