package productcontroller

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/uploads"
)

type galleryPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Order       int      `json:"order"`
}

func activeProductByID(db *gorm.DB, id string) (*models.Product, *api.AppError) {
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil || !product.IsActive {
		return nil, api.NotFound("Product not found")
	}
	return &product, nil
}

// CreateBanner replaces the product's banner image.
func CreateBanner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID     string `json:"id"`
			Banner string `json:"banner"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.Banner == "" {
			api.Fail(c, api.BadRequest("id and banner are required"))
			return
		}

		product, appErr := activeProductByID(db, req.ID)
		if appErr != nil {
			api.Fail(c, appErr)
			return
		}

		if product.Banner != "" {
			uploads.DeleteImage(product.Banner)
		}

		uploaded := uploads.UploadFiles(productUploadPath(product.Name), "banner", []string{req.Banner})
		if len(uploaded.Failed) > 0 || len(uploaded.Success) == 0 {
			api.Fail(c, api.BadRequest("Failed to store the banner image: "+uploaded.Errors()))
			return
		}
		product.Banner = uploaded.Success[0].RelativePath

		if err := db.Save(product).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.Created(c, "Product banner added successfully", product)
	}
}

// CreateGallery attaches a new named gallery. The image batch is
// all-or-nothing: any failed upload rejects the whole gallery.
func CreateGallery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID      string         `json:"id"`
			Gallery galleryPayload `json:"gallery"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.Gallery.Name == "" || len(req.Gallery.Images) == 0 {
			api.Fail(c, api.BadRequest("id and gallery with a name and at least one image are required"))
			return
		}

		product, appErr := activeProductByID(db, req.ID)
		if appErr != nil {
			api.Fail(c, appErr)
			return
		}

		if product.FindGallery(req.Gallery.Name) >= 0 {
			api.Fail(c, api.BadRequest("A gallery named \""+req.Gallery.Name+"\" already exists. Please choose another name."))
			return
		}

		uploaded := uploads.UploadFiles(productUploadPath(product.Name, req.Gallery.Name), "gallery", req.Gallery.Images)
		if len(uploaded.Failed) > 0 || len(uploaded.Success) == 0 {
			api.Fail(c, api.BadRequest("Failed to store the images of gallery \""+req.Gallery.Name+"\"."))
			return
		}

		images := make([]string, len(uploaded.Success))
		for i, up := range uploaded.Success {
			images[i] = up.RelativePath
		}

		product.Gallery = append(product.Gallery, models.GalleryItem{
			Name:        req.Gallery.Name,
			Description: req.Gallery.Description,
			Images:      images,
			Order:       req.Gallery.Order,
		})

		if err := db.Save(product).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.Created(c, "Gallery added successfully", product)
	}
}

// UpdateGallery renames a gallery and updates its description and order.
// The backing directory is renamed first; a directory failure aborts before
// the record changes. A new name colliding with any gallery, the renamed one
// included, is rejected.
func UpdateGallery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID          string         `json:"id"`
			GalleryName string         `json:"galleryName"`
			Gallery     galleryPayload `json:"gallery"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.GalleryName == "" || req.Gallery.Name == "" {
			api.Fail(c, api.BadRequest("id, galleryName and gallery.name are required"))
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

		if product.FindGallery(req.Gallery.Name) >= 0 {
			api.Fail(c, api.BadRequest("A gallery named \""+req.Gallery.Name+"\" already exists. Please choose another name."))
			return
		}

		oldDir := productDir(product.Name, req.GalleryName)
		newDir := productDir(product.Name, req.Gallery.Name)
		if !uploads.ChangeDirectoryName(oldDir, newDir) {
			api.Fail(c, api.NewAppError(500, "Failed to rename the gallery directory"))
			return
		}

		gallery := []models.GalleryItem(product.Gallery)
		gallery[idx].Images = models.RewriteGallerySegment(gallery[idx].Images, req.Gallery.Name)
		gallery[idx].Name = req.Gallery.Name
		gallery[idx].Description = req.Gallery.Description
		gallery[idx].Order = req.Gallery.Order
		product.Gallery = gallery

		if err := db.Save(&product).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Gallery updated successfully", product)
	}
}

// DeleteGallery removes a gallery and, best effort, its backing directory.
func DeleteGallery(db *gorm.DB) gin.HandlerFunc {
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

		uploads.DeleteDirectory(productDir(product.Name, product.Gallery[idx].Name))

		gallery := []models.GalleryItem(product.Gallery)
		product.Gallery = append(gallery[:idx], gallery[idx+1:]...)

		if err := db.Save(&product).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Gallery deleted successfully", product)
	}
}

// AddPhotos uploads additional images into an existing gallery.
func AddPhotos(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID          string         `json:"id"`
			GalleryName string         `json:"galleryName"`
			Gallery     galleryPayload `json:"gallery"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.GalleryName == "" || len(req.Gallery.Images) == 0 {
			api.Fail(c, api.BadRequest("id, galleryName and gallery.images are required"))
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

		uploaded := uploads.UploadFiles(productUploadPath(product.Name, product.Gallery[idx].Name), "gallery", req.Gallery.Images)
		if len(uploaded.Failed) > 0 || len(uploaded.Success) == 0 {
			api.Fail(c, api.BadRequest("Failed to store the images of gallery \""+req.GalleryName+"\"."))
			return
		}

		gallery := []models.GalleryItem(product.Gallery)
		for _, up := range uploaded.Success {
			gallery[idx].Images = append(gallery[idx].Images, up.RelativePath)
		}
		product.Gallery = gallery

		if err := db.Save(&product).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.Created(c, "Gallery images added successfully", product)
	}
}

// DeletePhotos removes the listed images from a gallery. A gallery never
// drops below one image; a removal that would is refused outright.
func DeletePhotos(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID          string         `json:"id"`
			GalleryName string         `json:"galleryName"`
			Gallery     galleryPayload `json:"gallery"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.GalleryName == "" || len(req.Gallery.Images) == 0 {
			api.Fail(c, api.BadRequest("id, galleryName and gallery.images are required"))
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

		remove := make(map[string]bool, len(req.Gallery.Images))
		for _, img := range req.Gallery.Images {
			remove[img] = true
		}

		var kept []string
		for _, img := range product.Gallery[idx].Images {
			if !remove[img] {
				kept = append(kept, img)
			}
		}
		if len(kept) < 1 {
			api.Fail(c, api.BadRequest("A gallery must keep at least one image."))
			return
		}

		for _, img := range product.Gallery[idx].Images {
			if remove[img] {
				uploads.DeleteImage(img)
			}
		}

		gallery := []models.GalleryItem(product.Gallery)
		gallery[idx].Images = kept
		product.Gallery = gallery

		if err := db.Save(&product).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Gallery images deleted successfully", product)
	}
}
