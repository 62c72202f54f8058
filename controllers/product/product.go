package productcontroller

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/uploads"
)

// productDir resolves the on-disk directory for a product, optionally for
// one of its galleries.
func productDir(productName string, gallery ...string) string {
	parts := append([]string{uploads.BasePath(), "product", productName}, gallery...)
	return filepath.Join(parts...)
}

// productUploadPath is the same location relative to the upload base, the
// form the upload helper expects.
func productUploadPath(productName string, gallery ...string) string {
	parts := append([]string{"product", productName}, gallery...)
	return filepath.ToSlash(filepath.Join(parts...))
}

type productCounters struct {
	Visitor       *int `json:"visitor"`
	VisitorFake   *int `json:"visitorFake"`
	Likes         *int `json:"likes"`
	LikesFake     *int `json:"likesFake"`
	Favorites     *int `json:"favorites"`
	FavoritesFake *int `json:"favoritesFake"`
	Downloads     *int `json:"downloads"`
	DownloadsFake *int `json:"downloadsFake"`
}

func (pc *productCounters) apply(p *models.Product) {
	if pc.Visitor != nil {
		p.Visitor = *pc.Visitor
	}
	if pc.VisitorFake != nil {
		p.VisitorFake = *pc.VisitorFake
	}
	if pc.Likes != nil {
		p.Likes = *pc.Likes
	}
	if pc.LikesFake != nil {
		p.LikesFake = *pc.LikesFake
	}
	if pc.Favorites != nil {
		p.Favorites = *pc.Favorites
	}
	if pc.FavoritesFake != nil {
		p.FavoritesFake = *pc.FavoritesFake
	}
	if pc.Downloads != nil {
		p.Downloads = *pc.Downloads
	}
	if pc.DownloadsFake != nil {
		p.DownloadsFake = *pc.DownloadsFake
	}
}

// CreateProduct stores a new product after checking the case-insensitive
// name uniqueness rule among active products.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Category    string `json:"category"`
			IsActive    *bool  `json:"isActive"`
			productCounters
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Description == "" || req.Category == "" {
			api.Fail(c, api.BadRequest("name, description and category are required"))
			return
		}

		if _, err := models.ActiveProductByName(db, req.Name); err == nil {
			api.Fail(c, api.BadRequest("A product with this name already exists. Please choose another name."))
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", req.Category).Error; err != nil {
			api.Fail(c, api.BadRequest("Category not found. Please provide a valid category."))
			return
		}

		product := models.Product{
			Name:        req.Name,
			Description: req.Description,
			CategoryID:  req.Category,
			IsActive:    true,
		}
		req.apply(&product)
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}

		if err := db.Create(&product).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.Created(c, "Product created successfully", product)
	}
}

type productWithCategory struct {
	models.Product
	CategoryModel *models.Category `json:"categoryModel"`
}

// GetProducts lists active products, optionally narrowed to a category and
// its whole subtree.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CategoryName string `json:"categoryName"`
		}
		// The body is optional for an unfiltered listing.
		_ = c.ShouldBindJSON(&req)

		query := db.Where("is_active = ?", true)

		if req.CategoryName != "" {
			var category models.Category
			err := db.Where("LOWER(name) = LOWER(?) AND is_active = ?", req.CategoryName, true).
				First(&category).Error
			if err != nil {
				api.Fail(c, api.BadRequest("Category not found. Please provide a valid category."))
				return
			}

			var activeCats []models.Category
			if err := db.Where("is_active = ?", true).Find(&activeCats).Error; err != nil {
				api.Fail(c, err)
				return
			}
			query = query.Where("category_id IN ?", models.DescendantIDs(activeCats, category.ID))
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			api.Fail(c, err)
			return
		}
		if len(products) == 0 {
			api.Fail(c, api.NotFound("No products found"))
			return
		}

		// One query for all referenced categories instead of one per product.
		ids := make([]string, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.CategoryID)
		}
		var cats []models.Category
		if err := db.Where("id IN ?", ids).Find(&cats).Error; err != nil {
			api.Fail(c, err)
			return
		}
		catByID := make(map[string]*models.Category, len(cats))
		for i := range cats {
			catByID[cats[i].ID] = &cats[i]
		}

		decorated := make([]productWithCategory, len(products))
		for i, p := range products {
			decorated[i] = productWithCategory{Product: p, CategoryModel: catByID[p.CategoryID]}
		}

		api.OK(c, "Products retrieved successfully", decorated)
	}
}

// GetProduct returns one product by case-insensitive name.
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			api.Fail(c, api.BadRequest("Product name is required"))
			return
		}

		var product models.Product
		if err := db.Where("LOWER(name) = LOWER(?)", req.Name).First(&product).Error; err != nil {
			api.Fail(c, api.NotFound("Product not found"))
			return
		}

		api.OK(c, "Product retrieved successfully", product)
	}
}

// UpdateProduct mutates product fields. A rename also renames the upload
// directory and rewrites every stored image path; the directory rename is
// attempted first and later failures are not rolled back.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			Category    string `json:"category"`
			IsActive    *bool  `json:"isActive"`
			productCounters
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("Product ID is required"))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ID).Error; err != nil || !product.IsActive {
			api.Fail(c, api.NotFound("Product not found"))
			return
		}

		if req.Category != "" {
			var category models.Category
			if err := db.First(&category, "id = ?", req.Category).Error; err != nil || !category.IsActive {
				api.Fail(c, api.BadRequest("Category not found. Please provide a valid category."))
				return
			}
			product.CategoryID = req.Category
		}

		if req.Name != "" && req.Name != product.Name {
			// Best effort: the record is rewritten even when no upload
			// directory exists yet for this product.
			uploads.ChangeDirectoryName(productDir(product.Name), productDir(req.Name))

			gallery := []models.GalleryItem(product.Gallery)
			for i := range gallery {
				gallery[i].Images = models.RewriteProductSegment(gallery[i].Images, req.Name)
			}
			product.Gallery = gallery
			product.Banner = models.RewriteBannerSegment(product.Banner, req.Name)
			product.Name = req.Name
		}

		if req.Description != "" {
			product.Description = req.Description
		}
		req.apply(&product)
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}

		if err := db.Save(&product).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Product updated successfully", product)
	}
}

// DeleteProduct hard-deletes a product, its upload directory and its ledger
// rows.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID string `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("Product ID is required"))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("Product not found"))
			return
		}

		uploads.DeleteDirectory(productDir(product.Name))

		if err := db.Delete(&product).Error; err != nil {
			api.Fail(c, err)
			return
		}
		if err := db.Where("product_id = ?", product.ID).Delete(&models.Like{}).Error; err != nil {
			api.Fail(c, err)
			return
		}
		if err := db.Where("product_id = ?", product.ID).Delete(&models.Favorite{}).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Product deleted successfully", nil)
	}
}
