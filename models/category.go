package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	ParentID    *string   `gorm:"index;size:36" json:"parentId"`
	Image       string    `json:"image,omitempty"`
	IsActive    bool      `gorm:"default:true;index" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CategoryNode is a category with its recursively expanded children.
type CategoryNode struct {
	Category
	Children []CategoryNode `json:"children"`
}

// ErrCategoryCycle is returned when a parent chain loops back on itself.
// The store never produces this on its own, but a manual data fix can.
var ErrCategoryCycle = fmt.Errorf("category parent chain contains a cycle")

// childIndex maps parentID -> direct children, built once per expansion so
// recursion is map lookups instead of repeated store round-trips.
func childIndex(cats []Category) map[string][]Category {
	index := make(map[string][]Category, len(cats))
	for _, c := range cats {
		if c.ParentID != nil {
			index[*c.ParentID] = append(index[*c.ParentID], c)
		}
	}
	return index
}

func expand(c Category, index map[string][]Category, visited map[string]bool) (CategoryNode, error) {
	if visited[c.ID] {
		return CategoryNode{}, ErrCategoryCycle
	}
	visited[c.ID] = true

	node := CategoryNode{Category: c, Children: []CategoryNode{}}
	for _, child := range index[c.ID] {
		childNode, err := expand(child, index, visited)
		if err != nil {
			return CategoryNode{}, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

// BuildCategoryForest expands every root category (ParentID == nil) into a
// nested tree covering all of cats.
func BuildCategoryForest(cats []Category) ([]CategoryNode, error) {
	index := childIndex(cats)
	visited := make(map[string]bool, len(cats))

	forest := []CategoryNode{}
	for _, c := range cats {
		if c.ParentID != nil {
			continue
		}
		node, err := expand(c, index, visited)
		if err != nil {
			return nil, err
		}
		forest = append(forest, node)
	}
	return forest, nil
}

// ExpandSubtree expands the single category with the given id.
func ExpandSubtree(cats []Category, id string) (CategoryNode, error) {
	index := childIndex(cats)
	for _, c := range cats {
		if c.ID == id {
			return expand(c, index, make(map[string]bool, len(cats)))
		}
	}
	return CategoryNode{}, gorm.ErrRecordNotFound
}

// DescendantIDs returns the ids of the whole subtree rooted at id, the root
// included. Used to let browse-by-category cover subcategories.
func DescendantIDs(cats []Category, id string) []string {
	index := childIndex(cats)
	visited := make(map[string]bool, len(cats))

	var walk func(id string) []string
	walk = func(id string) []string {
		if visited[id] {
			return nil
		}
		visited[id] = true
		ids := []string{id}
		for _, child := range index[id] {
			ids = append(ids, walk(child.ID)...)
		}
		return ids
	}
	return walk(id)
}

// HasChildren reports whether any category points at id as its parent.
func HasChildren(db *gorm.DB, id string) (bool, error) {
	var count int64
	if err := db.Model(&Category{}).Where("parent_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
