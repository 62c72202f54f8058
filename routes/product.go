package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/muhiddin-ilhan/OkulixAppWebBackend/controllers/product"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
)

// SetupProductRoutes registers the "/product/*" endpoints: public browsing,
// token-protected engagement and admin-only catalog management.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	productGroup := r.Group("/product")
	{
		productGroup.POST("/", productcontroller.GetProducts(db))
		productGroup.POST("/detail", productcontroller.GetProduct(db))

		productGroup.POST("/like", middleware.ValidateToken, productcontroller.LikeProduct(db))
		productGroup.POST("/favorite", middleware.ValidateToken, productcontroller.FavoriteProduct(db))
		productGroup.POST("/download", middleware.OptionalToken, productcontroller.DownloadGallery(db))

		adminGroup := productGroup.Group("")
		adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
		{
			adminGroup.POST("/add", productcontroller.CreateProduct(db))
			adminGroup.POST("/update", productcontroller.UpdateProduct(db))
			adminGroup.POST("/delete", productcontroller.DeleteProduct(db))

			adminGroup.POST("/add-banner", productcontroller.CreateBanner(db))
			adminGroup.POST("/add-gallery", productcontroller.CreateGallery(db))
			adminGroup.POST("/update-gallery", productcontroller.UpdateGallery(db))
			adminGroup.POST("/delete-gallery", productcontroller.DeleteGallery(db))
			adminGroup.POST("/add-photo-to-gallery", productcontroller.AddPhotos(db))
			adminGroup.POST("/delete-photo-from-gallery", productcontroller.DeletePhotos(db))
		}
	}
}
