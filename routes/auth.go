package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	usercontroller "github.com/muhiddin-ilhan/OkulixAppWebBackend/controllers/user"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
)

// SetupAuthRoutes registers the "/auth/*" endpoints: public registration
// and login, token-protected self-service, and admin user management.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", usercontroller.Register(db))
		authGroup.POST("/login", usercontroller.Login(db))

		authGroup.POST("/profile", middleware.ValidateToken, usercontroller.GetProfile(db))
		authGroup.POST("/change-password", middleware.ValidateToken, usercontroller.ChangePassword(db))
		authGroup.POST("/change-email", middleware.ValidateToken, usercontroller.ChangeEmail(db))

		adminGroup := authGroup.Group("")
		adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
		{
			adminGroup.POST("/add-admin", usercontroller.AddUser(db))
			adminGroup.POST("/update-admin", usercontroller.UpdateUser(db))
			adminGroup.POST("/delete-admin", usercontroller.DeleteUser(db))
			adminGroup.POST("/get-all-admin", usercontroller.GetAllUsers(db))
			adminGroup.POST("/get-detail-admin", usercontroller.GetUserDetail(db))
		}
	}
}
