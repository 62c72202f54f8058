package productcontroller

import (
	"archive/zip"
	"compress/flate"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

// LikeProduct toggles the caller's like and returns the displayed count.
func LikeProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			api.Fail(c, api.BadRequest("Product ID is required"))
			return
		}

		userID := middleware.UserID(c)
		if userID == "" {
			api.Fail(c, api.Unauthorized("You must be logged in to like a product."))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
			api.Fail(c, api.NotFound("Product not found. Please provide a valid product ID."))
			return
		}

		count, err := models.ToggleLike(db, &product, userID)
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Product like toggled successfully", gin.H{"likesCount": count})
	}
}

// FavoriteProduct toggles the caller's favorite and returns the displayed
// count.
func FavoriteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			api.Fail(c, api.BadRequest("Product ID is required"))
			return
		}

		userID := middleware.UserID(c)
		if userID == "" {
			api.Fail(c, api.Unauthorized("You must be logged in to favorite a product."))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
			api.Fail(c, api.NotFound("Product not found. Please provide a valid product ID."))
			return
		}

		count, err := models.ToggleFavorite(db, &product, userID)
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Product favorite toggled successfully", gin.H{"favoritesCount": count})
	}
}

// DownloadGallery streams a gallery directory as a zip archive. The
// downloads counter is always incremented; a Download log row is written
// only for authenticated callers.
func DownloadGallery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID          string `json:"id"`
			GalleryName string `json:"galleryName"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.GalleryName == "" {
			api.Fail(c, api.BadRequest("id and galleryName are required"))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("Product not found"))
			return
		}

		idx := product.FindGallery(req.GalleryName)
		if idx < 0 {
			api.Fail(c, api.NotFound("No gallery named \""+req.GalleryName+"\" was found."))
			return
		}
		galleryName := product.Gallery[idx].Name

		galleryPath := productDir(product.Name, galleryName)
		if _, err := os.Stat(galleryPath); err != nil {
			api.Fail(c, api.NotFound("Gallery files not found"))
			return
		}

		if userID := middleware.UserID(c); userID != "" {
			download := models.Download{ProductID: product.ID, UserID: userID}
			if err := db.Create(&download).Error; err != nil {
				api.Fail(c, err)
				return
			}
		}
		if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
			UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error; err != nil {
			api.Fail(c, err)
			return
		}

		c.Header("Content-Type", "application/zip")
		c.Header("Content-Disposition", `attachment; filename="`+galleryName+`.zip"`)

		if err := writeZip(c.Writer, galleryPath); err != nil {
			// Headers are already on the wire; all we can do is log.
			_ = c.Error(err)
		}
	}
}

// writeZip streams dir's files into w as a maximally compressed archive.
// Directory walking is lexical, so the archive layout is deterministic.
func writeZip(w io.Writer, dir string) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		entry, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
