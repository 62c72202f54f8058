package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const RoleAdmin = "admin"

// User is the actor behind likes, favorites, downloads and reports.
// Ad/Soyad are the Turkish first/last name fields of the public API.
type User struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Ad          string     `gorm:"size:50;not null" json:"ad"`
	Soyad       string     `gorm:"size:50;not null" json:"soyad"`
	Email       string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string     `gorm:"size:100;not null" json:"-"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	Visits      int        `gorm:"default:1" json:"visits"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	Role        string     `gorm:"size:20;default:user" json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// SetPassword stores a bcrypt hash of the plain password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// ComparePassword reports whether plain matches the stored hash.
func (u *User) ComparePassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
