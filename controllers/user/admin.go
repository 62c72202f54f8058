package usercontroller

import (
	"errors"
	"math"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

// GetAllUsers lists users with pagination and an optional search over
// name and email. Admin only.
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Page   int    `json:"page"`
			Limit  int    `json:"limit"`
			Search string `json:"search"`
		}
		_ = c.ShouldBindJSON(&req)
		if req.Page < 1 {
			req.Page = 1
		}
		if req.Limit < 1 {
			req.Limit = 20
		}

		query := db.Model(&models.User{})
		if req.Search != "" {
			like := "%" + req.Search + "%"
			query = query.Where("ad LIKE ? OR soyad LIKE ? OR email LIKE ?", like, like, like)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			api.Fail(c, err)
			return
		}

		var users []models.User
		err := query.Order("created_at DESC").
			Offset((req.Page - 1) * req.Limit).
			Limit(req.Limit).
			Find(&users).Error
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Users retrieved successfully", gin.H{
			"users": users,
			"pagination": gin.H{
				"current": req.Page,
				"pages":   int(math.Ceil(float64(total) / float64(req.Limit))),
				"total":   total,
			},
		})
	}
}

// GetUserDetail returns any account by id. Admin only.
func GetUserDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID string `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("User ID is required"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("User not found"))
			return
		}

		api.OK(c, "User retrieved successfully", user)
	}
}

// AddUser creates an account on behalf of an admin, optionally with a role.
func AddUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Ad       string `json:"ad"`
			Soyad    string `json:"soyad"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Ad == "" || req.Soyad == "" || req.Email == "" || req.Password == "" {
			api.Fail(c, api.BadRequest("ad, soyad, email and password are required"))
			return
		}
		if len(req.Password) < 6 {
			api.Fail(c, api.BadRequest("Password must be at least 6 characters"))
			return
		}
		if !emailRegex.MatchString(req.Email) {
			api.Fail(c, api.BadRequest("Please provide a valid email address"))
			return
		}
		if req.Role == "" {
			req.Role = "user"
		}
		if req.Role != "user" && req.Role != models.RoleAdmin {
			api.Fail(c, api.BadRequest("Role must be either user or admin"))
			return
		}

		user := models.User{
			Ad:       req.Ad,
			Soyad:    req.Soyad,
			Email:    req.Email,
			IsActive: true,
			Role:     req.Role,
		}
		if err := user.SetPassword(req.Password); err != nil {
			api.Fail(c, err)
			return
		}

		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				api.Fail(c, api.BadRequest("This email is already registered. Please use another email."))
				return
			}
			api.Fail(c, err)
			return
		}

		api.Created(c, "User created successfully", user)
	}
}

// UpdateUser edits name, role and active flag of any account.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID       string  `json:"id"`
			Ad       *string `json:"ad"`
			Soyad    *string `json:"soyad"`
			Role     *string `json:"role"`
			IsActive *bool   `json:"isActive"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("User ID is required"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("User not found"))
			return
		}

		if req.Ad != nil {
			user.Ad = *req.Ad
		}
		if req.Soyad != nil {
			user.Soyad = *req.Soyad
		}
		if req.Role != nil {
			if *req.Role != "user" && *req.Role != models.RoleAdmin {
				api.Fail(c, api.BadRequest("Role must be either user or admin"))
				return
			}
			user.Role = *req.Role
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}

		if err := db.Save(&user).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "User updated successfully", user)
	}
}

// DeleteUser removes an account. Admins cannot delete themselves.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID string `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("User ID is required"))
			return
		}
		if req.ID == middleware.UserID(c) {
			api.Fail(c, api.BadRequest("You cannot delete your own account"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("User not found"))
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "User deleted successfully", nil)
	}
}
