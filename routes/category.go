package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	categorycontroller "github.com/muhiddin-ilhan/OkulixAppWebBackend/controllers/category"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
)

// SetupCategoryRoutes registers the "/category/*" endpoints. Browsing is
// public; mutations require an admin token.
func SetupCategoryRoutes(r *gin.Engine, db *gorm.DB) {
	categoryGroup := r.Group("/category")
	{
		categoryGroup.POST("/", categorycontroller.GetCategories(db))
		categoryGroup.POST("/detail", categorycontroller.GetCategory(db))

		adminGroup := categoryGroup.Group("")
		adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
		{
			adminGroup.POST("/add", categorycontroller.CreateCategory(db))
			adminGroup.POST("/update", categorycontroller.UpdateCategory(db))
			adminGroup.POST("/delete", categorycontroller.DeleteCategory(db))
		}
	}
}
