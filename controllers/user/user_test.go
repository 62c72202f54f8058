package usercontroller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/middleware"
	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", Register(db))
	r.POST("/auth/login", Login(db))
	r.POST("/auth/profile", middleware.ValidateToken, GetProfile(db))
	r.POST("/auth/change-password", middleware.ValidateToken, ChangePassword(db))
	r.POST("/auth/get-all-admin", middleware.ValidateToken, middleware.RequireAdmin, GetAllUsers(db))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, data any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if data != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func TestRegisterLoginProfile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testDB(t)
	r := testRouter(db)

	w := postJSON(t, r, "/auth/register", "", gin.H{
		"ad":       "Ayşe",
		"soyad":    "Yılmaz",
		"email":    "ayse@example.com",
		"password": "sifre123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}

	var login struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	w = postJSON(t, r, "/auth/login", "", gin.H{"email": "ayse@example.com", "password": "sifre123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
	decodeData(t, w, &login)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}
	if login.User.Visits != 2 {
		t.Fatalf("login should bump visits to 2, got %d", login.User.Visits)
	}

	var profile models.User
	w = postJSON(t, r, "/auth/profile", login.Token, gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("profile: status %d body %s", w.Code, w.Body.String())
	}
	decodeData(t, w, &profile)
	if profile.Email != "ayse@example.com" {
		t.Fatalf("unexpected profile email %q", profile.Email)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testDB(t)
	r := testRouter(db)

	w := postJSON(t, r, "/auth/register", "", gin.H{
		"ad": "Ali", "soyad": "Kaya", "email": "ali@example.com", "password": "sifre123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d", w.Code)
	}

	w = postJSON(t, r, "/auth/login", "", gin.H{"email": "ali@example.com", "password": "yanlis"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password should be 401, got %d", w.Code)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testDB(t)
	r := testRouter(db)

	body := gin.H{"ad": "Ali", "soyad": "Kaya", "email": "ali@example.com", "password": "sifre123"}
	if w := postJSON(t, r, "/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first register: status %d", w.Code)
	}
	if w := postJSON(t, r, "/auth/register", "", body); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email should be 400, got %d", w.Code)
	}
}

func TestChangePassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testDB(t)
	r := testRouter(db)

	postJSON(t, r, "/auth/register", "", gin.H{
		"ad": "Ali", "soyad": "Kaya", "email": "ali@example.com", "password": "sifre123",
	})

	var login struct {
		Token string `json:"token"`
	}
	w := postJSON(t, r, "/auth/login", "", gin.H{"email": "ali@example.com", "password": "sifre123"})
	decodeData(t, w, &login)

	w = postJSON(t, r, "/auth/change-password", login.Token, gin.H{
		"password": "yanlis", "new_password": "yeni-sifre",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong current password should be 401, got %d", w.Code)
	}

	w = postJSON(t, r, "/auth/change-password", login.Token, gin.H{
		"password": "sifre123", "new_password": "yeni-sifre",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("change password: status %d body %s", w.Code, w.Body.String())
	}

	if w = postJSON(t, r, "/auth/login", "", gin.H{"email": "ali@example.com", "password": "yeni-sifre"}); w.Code != http.StatusOK {
		t.Fatalf("login with new password failed: %d", w.Code)
	}
	if w = postJSON(t, r, "/auth/login", "", gin.H{"email": "ali@example.com", "password": "sifre123"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("old password should no longer work, got %d", w.Code)
	}
}

func TestAdminGate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testDB(t)
	r := testRouter(db)

	postJSON(t, r, "/auth/register", "", gin.H{
		"ad": "Ali", "soyad": "Kaya", "email": "ali@example.com", "password": "sifre123",
	})

	var login struct {
		Token string `json:"token"`
	}
	w := postJSON(t, r, "/auth/login", "", gin.H{"email": "ali@example.com", "password": "sifre123"})
	decodeData(t, w, &login)

	if w = postJSON(t, r, "/auth/get-all-admin", login.Token, gin.H{}); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin should be 403, got %d", w.Code)
	}

	if err := db.Model(&models.User{}).Where("email = ?", "ali@example.com").
		UpdateColumn("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("promote: %v", err)
	}
	w = postJSON(t, r, "/auth/login", "", gin.H{"email": "ali@example.com", "password": "sifre123"})
	decodeData(t, w, &login)

	if w = postJSON(t, r, "/auth/get-all-admin", login.Token, gin.H{}); w.Code != http.StatusOK {
		t.Fatalf("admin should pass the gate, got %d body %s", w.Code, w.Body.String())
	}
}
