package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GalleryItem is one named, ordered image gallery owned by a product. The
// gallery list lives on the product row as a JSON column; names are unique
// per product (case-insensitive) and a gallery always keeps at least one
// image once created.
type GalleryItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images"`
	Order       int      `json:"order"`
}

type Product struct {
	ID            string                           `gorm:"primaryKey;size:36" json:"id"`
	Name          string                           `gorm:"size:100;not null;index" json:"name"`
	Description   string                           `gorm:"size:1000;not null" json:"description"`
	CategoryID    string                           `gorm:"size:36;not null;index" json:"category"`
	Visitor       int                              `gorm:"default:0" json:"visitor"`
	VisitorFake   int                              `gorm:"default:0" json:"visitorFake"`
	Likes         int                              `gorm:"default:0" json:"likes"`
	LikesFake     int                              `gorm:"default:0" json:"likesFake"`
	Favorites     int                              `gorm:"default:0" json:"favorites"`
	FavoritesFake int                              `gorm:"default:0" json:"favoritesFake"`
	Downloads     int                              `gorm:"default:0" json:"downloads"`
	DownloadsFake int                              `gorm:"default:0" json:"downloadsFake"`
	IsActive      bool                             `gorm:"default:true;index" json:"isActive"`
	Banner        string                           `json:"banner"`
	Gallery       datatypes.JSONSlice[GalleryItem] `json:"gallery"`
	CreatedAt     time.Time                        `json:"createdAt"`
	UpdatedAt     time.Time                        `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FindGallery returns the index of the gallery with the given name, or -1.
// Lookup is case-insensitive, matching the per-product uniqueness rule.
func (p *Product) FindGallery(name string) int {
	for i, g := range p.Gallery {
		if strings.EqualFold(g.Name, name) {
			return i
		}
	}
	return -1
}

// RewriteGallerySegment rewrites the gallery-name path segment (second to
// last) of every image path after a gallery rename.
func RewriteGallerySegment(images []string, newGalleryName string) []string {
	out := make([]string, len(images))
	for i, imgPath := range images {
		parts := strings.Split(imgPath, "/")
		if len(parts) >= 2 {
			parts[len(parts)-2] = newGalleryName
		}
		out[i] = strings.Join(parts, "/")
	}
	return out
}

// RewriteProductSegment rewrites the product-name path segment (third to
// last for gallery images) after a product rename.
func RewriteProductSegment(images []string, newProductName string) []string {
	out := make([]string, len(images))
	for i, imgPath := range images {
		parts := strings.Split(imgPath, "/")
		if len(parts) >= 3 {
			parts[len(parts)-3] = newProductName
		}
		out[i] = strings.Join(parts, "/")
	}
	return out
}

// RewriteBannerSegment rewrites the product-name segment of a banner path,
// which sits directly under the product directory.
func RewriteBannerSegment(banner, newProductName string) string {
	if banner == "" {
		return banner
	}
	parts := strings.Split(banner, "/")
	if len(parts) >= 2 {
		parts[len(parts)-2] = newProductName
	}
	return strings.Join(parts, "/")
}

// ActiveProductByName looks up an active product by case-insensitive name.
func ActiveProductByName(db *gorm.DB, name string) (*Product, error) {
	var product Product
	err := db.Where("LOWER(name) = LOWER(?) AND is_active = ?", name, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
