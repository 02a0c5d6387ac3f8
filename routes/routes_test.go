package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/studynote-backend/config"
	"github.com/vnkhanh/studynote-backend/models"
	"github.com/vnkhanh/studynote-backend/utils"
)

// setupTestRouter mở database test thật qua TEST_DB_DSN.
// Không cấu hình thì bỏ qua toàn bộ test tích hợp.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN chưa được cấu hình, bỏ qua test tích hợp")
	}
	t.Setenv("JWT_SECRET_KEY", "integration-test-secret")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Note{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizOption{},
		&models.Flashcard{},
		&models.FlashcardQuestion{},
	))

	config.DB = db
	gin.SetMode(gin.TestMode)
	return SetupRouter(gin.New(), db), db
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// makeUser tạo user thẳng trong DB, bỏ qua flow đăng ký
func makeUser(t *testing.T, db *gorm.DB, quizzesGenerated int) models.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	user := models.User{
		FirstName:        "Nam",
		LastName:         "Nguyen",
		Username:         "sv_" + suffix,
		Email:            "sv_" + suffix + "@example.com",
		School:           "THPT Chuyên",
		Password:         "khong-dung-den",
		QuizzesGenerated: quizzesGenerated,
		QuizzesLimit:     models.DefaultQuizzesLimit,
		ResetDate:        time.Now().Add(models.ResetWindow),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestRegisterLoginAndDetails(t *testing.T) {
	r, _ := setupTestRouter(t)

	suffix := uuid.NewString()[:8]
	username := "hocsinh_" + suffix

	w := doJSON(r, http.MethodPost, "/users/register", "", gin.H{
		"first_name": "Lan",
		"last_name":  "Tran",
		"username":   username,
		"email":      username + "@example.com",
		"school":     "THPT Lê Quý Đôn",
		"password":   "matkhau123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/users/login", "", gin.H{
		"username": username,
		"password": "matkhau123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var loginResp struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)
	assert.Equal(t, username, loginResp.User.Username)

	w = doJSON(r, http.MethodGet, "/users/details", loginResp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var details models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	assert.Equal(t, username, details.Username)
	assert.Equal(t, models.DefaultUploadsLimit, details.UploadsLimit)
	assert.NotContains(t, w.Body.String(), "matkhau123")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r, _ := setupTestRouter(t)

	suffix := uuid.NewString()[:8]
	input := gin.H{
		"first_name": "Minh",
		"last_name":  "Pham",
		"username":   "trunglap_" + suffix,
		"email":      "trunglap_" + suffix + "@example.com",
		"school":     "THPT Nguyễn Huệ",
		"password":   "matkhau123",
	}

	w := doJSON(r, http.MethodPost, "/users/register", "", input)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Cùng username, email khác vẫn phải bị từ chối
	input["email"] = "khac_" + suffix + "@example.com"
	w = doJSON(r, http.MethodPost, "/users/register", "", input)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := setupTestRouter(t)

	suffix := uuid.NewString()[:8]
	username := "saimk_" + suffix
	w := doJSON(r, http.MethodPost, "/users/register", "", gin.H{
		"first_name": "Hoa",
		"last_name":  "Le",
		"username":   username,
		"email":      username + "@example.com",
		"school":     "THPT Trần Phú",
		"password":   "matkhau123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/users/login", "", gin.H{
		"username": username,
		"password": "matkhausai",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestGetNotesEmpty(t *testing.T) {
	r, db := setupTestRouter(t)

	user := makeUser(t, db, 0)
	token, err := utils.GenerateToken(user.ID.String(), user.Email, false)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/notes", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestGetNotesWithoutToken(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Note đã có quiz thì generate lần nữa phải trả 409 và không trừ hạn mức.
// Conflict được phát hiện trước khi gọi model nên không cần GEMINI_API_KEY.
func TestGenerateQuizConflict(t *testing.T) {
	r, db := setupTestRouter(t)

	user := makeUser(t, db, 0)
	note := models.Note{
		UserID:        user.ID,
		Title:         "Đại số",
		ExtractedText: "Hằng đẳng thức đáng nhớ",
	}
	require.NoError(t, db.Create(&note).Error)
	require.NoError(t, db.Create(&models.Quiz{
		UserID: user.ID,
		NoteID: note.ID,
		Title:  "Quiz for Đại số",
	}).Error)

	token, err := utils.GenerateToken(user.ID.String(), user.Email, false)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/quizzes/%s/generate", note.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 0, reloaded.QuizzesGenerated)
}

// Hết hạn mức thì bị chặn trước khi gọi model, bộ đếm giữ nguyên
func TestGenerateQuizQuotaExhausted(t *testing.T) {
	r, db := setupTestRouter(t)

	user := makeUser(t, db, models.DefaultQuizzesLimit)
	note := models.Note{
		UserID:        user.ID,
		Title:         "Hình học",
		ExtractedText: "Định lý Pythagoras",
	}
	require.NoError(t, db.Create(&note).Error)

	token, err := utils.GenerateToken(user.ID.String(), user.Email, false)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/quizzes/%s/generate", note.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, models.DefaultQuizzesLimit, reloaded.QuizzesGenerated)
}

// Qua kỳ reset thì middleware đưa bộ đếm về 0 và mở lại hạn mức
func TestUsageCountersResetAfterWindow(t *testing.T) {
	r, db := setupTestRouter(t)

	user := makeUser(t, db, models.DefaultQuizzesLimit)
	require.NoError(t, db.Model(&user).Updates(map[string]interface{}{
		"uploads_used": 5,
		"reset_date":   time.Now().Add(-time.Hour),
	}).Error)

	note := models.Note{
		UserID:        user.ID,
		Title:         "Vật lý",
		ExtractedText: "Ba định luật Newton",
	}
	require.NoError(t, db.Create(&note).Error)
	// Quiz đã tồn tại để request dừng ở 409 thay vì gọi model
	require.NoError(t, db.Create(&models.Quiz{
		UserID: user.ID,
		NoteID: note.ID,
		Title:  "Quiz for Vật lý",
	}).Error)

	token, err := utils.GenerateToken(user.ID.String(), user.Email, false)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/quizzes/%s/generate", note.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 0, reloaded.QuizzesGenerated)
	assert.Equal(t, 0, reloaded.UploadsUsed)
	assert.True(t, reloaded.ResetDate.After(time.Now().Add(6*24*time.Hour)))
}
