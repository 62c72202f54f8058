package productcontroller

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{},
		&models.Like{}, &models.Favorite{}, &models.Download{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testRouter mounts the handlers without auth middleware; asUser simulates
// an authenticated caller by seeding the identity the middleware would set.
func testRouter(db *gorm.DB, asUser string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if asUser != "" {
		r.Use(func(c *gin.Context) {
			c.Set("user_id", asUser)
			c.Next()
		})
	}
	r.POST("/product/like", LikeProduct(db))
	r.POST("/product/favorite", FavoriteProduct(db))
	r.POST("/product/download", DownloadGallery(db))
	r.POST("/product/add-gallery", CreateGallery(db))
	r.POST("/product/update-gallery", UpdateGallery(db))
	r.POST("/product/delete-gallery", DeleteGallery(db))
	r.POST("/product/add-photo-to-gallery", AddPhotos(db))
	r.POST("/product/delete-photo-from-gallery", DeletePhotos(db))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, data any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if data != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func createProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()

	product := models.Product{
		Name:        name,
		Description: "test product",
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return &product
}

func dataURL() string {
	return "data:image/png;base64," + tinyPNG
}

func TestLikeToggleWithFakeCounter(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, "user-a")

	product := createProduct(t, db, "Widget")
	if err := db.Model(product).UpdateColumn("likes_fake", 10).Error; err != nil {
		t.Fatalf("seed fake counter: %v", err)
	}

	var data struct {
		LikesCount int `json:"likesCount"`
	}

	w := postJSON(t, r, "/product/like", gin.H{"productId": product.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("like: status %d body %s", w.Code, w.Body.String())
	}
	decodeData(t, w, &data)
	if data.LikesCount != 11 {
		t.Fatalf("after first toggle want 11, got %d", data.LikesCount)
	}

	w = postJSON(t, r, "/product/like", gin.H{"productId": product.ID})
	decodeData(t, w, &data)
	if data.LikesCount != 10 {
		t.Fatalf("after second toggle want 10, got %d", data.LikesCount)
	}

	var rows int64
	if err := db.Model(&models.Like{}).Where("product_id = ?", product.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if rows != 0 {
		t.Fatalf("toggle pair should leave no ledger rows, got %d", rows)
	}
}

func TestLikeRequiresAuthentication(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, "")

	product := createProduct(t, db, "Widget")

	w := postJSON(t, r, "/product/like", gin.H{"productId": product.ID})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous like should be rejected, got status %d", w.Code)
	}
}

func TestGalleryNameConflict(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())
	db := testDB(t)
	r := testRouter(db, "admin")

	product := createProduct(t, db, "Widget")

	w := postJSON(t, r, "/product/add-gallery", gin.H{
		"id":      product.ID,
		"gallery": gin.H{"name": "Summer", "images": []string{dataURL()}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("first gallery: status %d body %s", w.Code, w.Body.String())
	}

	w = postJSON(t, r, "/product/add-gallery", gin.H{
		"id":      product.ID,
		"gallery": gin.H{"name": "summer", "images": []string{dataURL()}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("case-insensitive duplicate gallery should be refused, got %d", w.Code)
	}

	var stored models.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Gallery) != 1 {
		t.Fatalf("conflicting add must leave product unchanged, got %d galleries", len(stored.Gallery))
	}
}

func TestGalleryRenameRewritesPaths(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())
	db := testDB(t)
	r := testRouter(db, "admin")

	product := createProduct(t, db, "Widget")

	w := postJSON(t, r, "/product/add-gallery", gin.H{
		"id":      product.ID,
		"gallery": gin.H{"name": "Summer", "images": []string{dataURL()}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create gallery: status %d body %s", w.Code, w.Body.String())
	}

	var updated models.Product
	w = postJSON(t, r, "/product/update-gallery", gin.H{
		"id":          product.ID,
		"galleryName": "Summer",
		"gallery":     gin.H{"name": "Winter", "description": "cold season"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("rename gallery: status %d body %s", w.Code, w.Body.String())
	}
	decodeData(t, w, &updated)

	idx := updated.FindGallery("Winter")
	if idx < 0 {
		t.Fatal("renamed gallery not found")
	}
	for _, img := range updated.Gallery[idx].Images {
		if !strings.Contains(img, "/Winter/") {
			t.Fatalf("image path not rewritten: %s", img)
		}
	}
	if updated.FindGallery("Summer") >= 0 {
		t.Fatal("old gallery name still present")
	}
}

func TestGalleryRenameToSameNameRejected(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())
	db := testDB(t)
	r := testRouter(db, "admin")

	product := createProduct(t, db, "Widget")

	w := postJSON(t, r, "/product/add-gallery", gin.H{
		"id":      product.ID,
		"gallery": gin.H{"name": "Summer", "images": []string{dataURL()}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create gallery: status %d", w.Code)
	}

	w = postJSON(t, r, "/product/update-gallery", gin.H{
		"id":          product.ID,
		"galleryName": "Summer",
		"gallery":     gin.H{"name": "Summer"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("rename onto an existing name should be refused, got %d", w.Code)
	}
}

func TestDeletePhotosKeepsAtLeastOne(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())
	db := testDB(t)
	r := testRouter(db, "admin")

	product := createProduct(t, db, "Widget")

	w := postJSON(t, r, "/product/add-gallery", gin.H{
		"id":      product.ID,
		"gallery": gin.H{"name": "Summer", "images": []string{dataURL(), dataURL()}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create gallery: status %d body %s", w.Code, w.Body.String())
	}

	var stored models.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	images := stored.Gallery[0].Images
	if len(images) != 2 {
		t.Fatalf("expected 2 stored images, got %d", len(images))
	}

	// Removing everything must be refused and leave the gallery untouched.
	w = postJSON(t, r, "/product/delete-photo-from-gallery", gin.H{
		"id":          product.ID,
		"galleryName": "Summer",
		"gallery":     gin.H{"images": images},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("emptying a gallery should be refused, got %d", w.Code)
	}
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Gallery[0].Images) != 2 {
		t.Fatalf("refused removal must not change images, got %d", len(stored.Gallery[0].Images))
	}

	// Removing one of two is fine.
	w = postJSON(t, r, "/product/delete-photo-from-gallery", gin.H{
		"id":          product.ID,
		"galleryName": "Summer",
		"gallery":     gin.H{"images": images[:1]},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("partial removal: status %d body %s", w.Code, w.Body.String())
	}
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Gallery[0].Images) != 1 {
		t.Fatalf("expected 1 remaining image, got %d", len(stored.Gallery[0].Images))
	}
}

func TestDownloadGallery(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())
	db := testDB(t)
	asUser := testRouter(db, "user-a")
	anonymous := testRouter(db, "")

	product := createProduct(t, db, "Widget")

	w := postJSON(t, asUser, "/product/add-gallery", gin.H{
		"id":      product.ID,
		"gallery": gin.H{"name": "Summer", "images": []string{dataURL(), dataURL()}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create gallery: status %d body %s", w.Code, w.Body.String())
	}

	body := gin.H{"id": product.ID, "galleryName": "Summer"}

	w = postJSON(t, anonymous, "/product/download", body)
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous download: status %d body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="Summer.zip"` {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/zip" {
		t.Fatalf("unexpected Content-Type %q", got)
	}

	archive := w.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("response is not a readable zip: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected 2 files in the archive, got %d", len(zr.File))
	}

	if w = postJSON(t, asUser, "/product/download", body); w.Code != http.StatusOK {
		t.Fatalf("authenticated download: status %d", w.Code)
	}

	var stored models.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Downloads != 2 {
		t.Fatalf("downloads counter should be 2, got %d", stored.Downloads)
	}

	// Only the authenticated call writes a log row.
	var rows int64
	if err := db.Model(&models.Download{}).Where("product_id = ?", product.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count downloads: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected exactly 1 download row, got %d", rows)
	}
}

func TestDownloadGalleryUnknownName(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())
	db := testDB(t)
	r := testRouter(db, "")

	product := createProduct(t, db, "Widget")

	w := postJSON(t, r, "/product/download", gin.H{"id": product.ID, "galleryName": "Nope"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown gallery should be 404, got %d", w.Code)
	}
}

func TestDeleteGallery(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())
	db := testDB(t)
	r := testRouter(db, "admin")

	product := createProduct(t, db, "Widget")

	w := postJSON(t, r, "/product/add-gallery", gin.H{
		"id":      product.ID,
		"gallery": gin.H{"name": "Summer", "images": []string{dataURL()}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create gallery: status %d", w.Code)
	}

	w = postJSON(t, r, "/product/delete-gallery", gin.H{"id": product.ID, "galleryName": "Summer"})
	if w.Code != http.StatusOK {
		t.Fatalf("delete gallery: status %d body %s", w.Code, w.Body.String())
	}

	var stored models.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Gallery) != 0 {
		t.Fatalf("gallery should be gone, got %d", len(stored.Gallery))
	}
}
