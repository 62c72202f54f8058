package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry point that wires up every route group.
// All endpoints are POST-only JSON RPC calls except the websocket feed.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	SetupAuthRoutes(r, db)

	SetupCategoryRoutes(r, db)

	SetupProductRoutes(r, db)

	SetupVisitorRoutes(r, db)

	SetupReportRoutes(r, db)
}
