package categorycontroller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/api"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/uploads"
)

const categoryUploadPath = "categories"

func loadAllCategories(db *gorm.DB) ([]models.Category, error) {
	var cats []models.Category
	if err := db.Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// GetCategories returns the full category forest, every root expanded with
// its nested children.
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := loadAllCategories(db)
		if err != nil {
			api.Fail(c, err)
			return
		}

		forest, err := models.BuildCategoryForest(cats)
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Categories retrieved successfully", forest)
	}
}

// GetCategory returns a single category expanded with all of its
// descendants.
func GetCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID string `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("Category ID is required"))
			return
		}

		cats, err := loadAllCategories(db)
		if err != nil {
			api.Fail(c, err)
			return
		}

		node, err := models.ExpandSubtree(cats, req.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.Fail(c, api.NotFound("Category not found"))
			return
		}
		if err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Category retrieved successfully", node)
	}
}

// CreateCategory stores a new category together with its uploaded image.
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name        string  `json:"name"`
			Description string  `json:"description"`
			Image       string  `json:"image"`
			ParentID    *string `json:"parentId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Image == "" {
			api.Fail(c, api.BadRequest("name and image are required"))
			return
		}

		if req.ParentID != nil {
			var parent models.Category
			if err := db.First(&parent, "id = ?", *req.ParentID).Error; err != nil {
				api.Fail(c, api.BadRequest("Parent category not found"))
				return
			}
		}

		uploaded := uploads.UploadFiles(categoryUploadPath, uploads.SafeName(req.Name), []string{req.Image})
		if len(uploaded.Failed) > 0 || len(uploaded.Success) == 0 {
			api.Fail(c, api.NewAppError(500, "Failed to store the category image: "+uploaded.Errors()))
			return
		}

		category := models.Category{
			Name:        req.Name,
			Description: req.Description,
			ParentID:    req.ParentID,
			Image:       uploaded.Success[0].RelativePath,
			IsActive:    true,
		}
		if err := db.Create(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				api.Fail(c, api.BadRequest("This category name is already in use"))
				return
			}
			api.Fail(c, err)
			return
		}

		api.Created(c, "Category created successfully", category)
	}
}

// UpdateCategory mutates name, description, parent and optionally replaces
// the image. The old image file is removed once the new one is stored.
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			Description string  `json:"description"`
			Image       string  `json:"image"`
			ParentID    *string `json:"parentId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("Category ID is required"))
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("Category not found"))
			return
		}

		if req.Image != "" {
			name := req.Name
			if name == "" {
				name = category.Name
			}
			uploaded := uploads.UploadFiles(categoryUploadPath, uploads.SafeName(name), []string{req.Image})
			if len(uploaded.Failed) > 0 || len(uploaded.Success) == 0 {
				api.Fail(c, api.NewAppError(500, "Failed to store the category image: "+uploaded.Errors()))
				return
			}
			if category.Image != "" {
				uploads.DeleteImage(category.Image)
			}
			category.Image = uploaded.Success[0].RelativePath
		}

		if req.Name != "" {
			category.Name = req.Name
		}
		if req.Description != "" {
			category.Description = req.Description
		}
		if req.ParentID != nil {
			if *req.ParentID == "" {
				category.ParentID = nil
			} else {
				category.ParentID = req.ParentID
			}
		}

		if err := db.Save(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				api.Fail(c, api.BadRequest("This category name is already in use"))
				return
			}
			api.Fail(c, err)
			return
		}

		api.OK(c, "Category updated successfully", category)
	}
}

// DeleteCategory removes a leaf category. Categories with children are
// refused; the image file is removed best-effort before the row goes away.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID string `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			api.Fail(c, api.BadRequest("Category ID is required"))
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", req.ID).Error; err != nil {
			api.Fail(c, api.NotFound("Category not found"))
			return
		}

		hasChildren, err := models.HasChildren(db, category.ID)
		if err != nil {
			api.Fail(c, err)
			return
		}
		if hasChildren {
			api.Fail(c, api.BadRequest("This category cannot be deleted because it has subcategories"))
			return
		}

		if category.Image != "" {
			uploads.DeleteImage(category.Image)
		}

		if err := db.Delete(&category).Error; err != nil {
			api.Fail(c, err)
			return
		}

		api.OK(c, "Category deleted successfully", nil)
	}
}
