package usercontroller

import (
	"errors"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/auth"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

var emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Register creates a user account and returns it with a fresh token.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Ad       string `json:"ad"`
			Soyad    string `json:"soyad"`
			Email    string `json:"email"`
			Password string `json:"password"`
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

		now := time.Now()
		user := models.User{
			Ad:          req.Ad,
			Soyad:       req.Soyad,
			Email:       req.Email,
			LastLoginAt: &now,
			Visits:      1,
			IsActive:    true,
			Role:        "user",
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

		token, err := auth.GenerateToken(&user)
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.Created(c, "User registered successfully", gin.H{"user": user, "token": token})
	}
}

// Login checks credentials, bumps the visit counter and returns a token.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			api.Fail(c, api.BadRequest("Email and password are required"))
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			api.Fail(c, api.Unauthorized("Email or password is incorrect"))
			return
		}
		if !user.IsActive {
			api.Fail(c, api.Forbidden("This account has been deactivated"))
			return
		}
		if !user.ComparePassword(req.Password) {
			api.Fail(c, api.Unauthorized("Email or password is incorrect"))
			return
		}

		now := time.Now()
		user.LastLoginAt = &now
		user.Visits++
		if err := db.Save(&user).Error; err != nil {
			api.Fail(c, err)
			return
		}

		token, err := auth.GenerateToken(&user)
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Login successful", gin.H{"user": user, "token": token})
	}
}

func currentUser(c *gin.Context, db *gorm.DB) (*models.User, *api.AppError) {
	userID := middleware.UserID(c)
	if userID == "" {
		return nil, api.Unauthorized("You must be logged in")
	}
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, api.NotFound("User not found")
	}
	return &user, nil
}

// GetProfile returns the caller's own record.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, appErr := currentUser(c, db)
		if appErr != nil {
			api.Fail(c, appErr)
			return
		}
		api.OK(c, "Profile retrieved successfully", user)
	}
}

// ChangePassword re-checks the old password before storing the new hash.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Password    string `json:"password"`
			NewPassword string `json:"new_password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" || req.NewPassword == "" {
			api.Fail(c, api.BadRequest("password and new_password are required"))
			return
		}
		if len(req.NewPassword) < 6 {
			api.Fail(c, api.BadRequest("Password must be at least 6 characters"))
			return
		}

		user, appErr := currentUser(c, db)
		if appErr != nil {
			api.Fail(c, appErr)
			return
		}
		if !user.ComparePassword(req.Password) {
			api.Fail(c, api.Unauthorized("Current password is incorrect"))
			return
		}

		if err := user.SetPassword(req.NewPassword); err != nil {
			api.Fail(c, err)
			return
		}
		if err := db.Save(user).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Password changed successfully", nil)
	}
}

// ChangeEmail re-checks the password before switching to a free address.
func ChangeEmail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Password string `json:"password"`
			NewEmail string `json:"new_email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" || req.NewEmail == "" {
			api.Fail(c, api.BadRequest("password and new_email are required"))
			return
		}
		if !emailRegex.MatchString(req.NewEmail) {
			api.Fail(c, api.BadRequest("Please provide a valid email address"))
			return
		}

		user, appErr := currentUser(c, db)
		if appErr != nil {
			api.Fail(c, appErr)
			return
		}
		if !user.ComparePassword(req.Password) {
			api.Fail(c, api.Unauthorized("Current password is incorrect"))
			return
		}

		user.Email = req.NewEmail
		if err := db.Save(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				api.Fail(c, api.BadRequest("This email is already registered. Please use another email."))
				return
			}
			api.Fail(c, err)
			return
		}

		api.OK(c, "Email changed successfully", gin.H{"user": user})
	}
}
