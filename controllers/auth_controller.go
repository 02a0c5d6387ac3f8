package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/studynote-backend/config"
	"github.com/vnkhanh/studynote-backend/models"
	"github.com/vnkhanh/studynote-backend/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	School    string `json:"school" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ====== HANDLERS ======
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Check username tồn tại (email trùng sẽ bị uniqueIndex chặn bên dưới)
	var existing models.User
	if err := config.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tên đăng nhập đã được sử dụng"})
		return
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể mã hoá mật khẩu"})
		return
	}

	// Tạo user mới với hạn mức mặc định, reset sau 7 ngày
	newUser := models.User{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Username:        input.Username,
		Email:           input.Email,
		School:          input.School,
		Password:        string(hashed),
		IsActive:        true,
		UploadsLimit:    models.DefaultUploadsLimit,
		QuizzesLimit:    models.DefaultQuizzesLimit,
		FlashcardsLimit: models.DefaultFlashcardsLimit,
		ResetDate:       time.Now().Add(models.ResetWindow),
	}

	if err := config.DB.Create(&newUser).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email đã được sử dụng"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Lỗi khi tạo người dùng"})
		return
	}

	// Gửi email chào mừng (không chặn luồng)
	if utils.SMTPConfigured() {
		go func() {
			subject := "Chào mừng bạn đến với StudyNote"
			body := `
			<h3>Xin chào ` + newUser.FirstName + `,</h3>
			<p>Tài khoản <b>` + newUser.Username + `</b> của bạn đã được tạo thành công.</p>
			<p>Hãy tải lên tài liệu PDF đầu tiên để bắt đầu tạo quiz và flashcard.</p>
			<hr>
			<p><i>Đây là email tự động, vui lòng không trả lời.</i></p>
			`
			if err := utils.SendEmail(newUser.Email, subject, body); err != nil {
				log.Printf("Lỗi gửi email chào mừng: %v", err)
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Đăng ký thành công"})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy người dùng"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Thông tin đăng nhập không đúng"})
		return
	}

	// Sinh JWT chứa {id, email, is_admin}, hạn 7 ngày
	token, err := utils.GenerateToken(user.ID.String(), user.Email, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đăng nhập thành công",
		"token":   token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"is_admin":   user.IsAdmin,
		},
	})
}

// GetUserDetails trả về hồ sơ + hạn mức còn lại của chính user
func GetUserDetails(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy người dùng"})
		return
	}

	// Ẩn mật khẩu khi trả về
	user.Password = ""
	c.JSON(http.StatusOK, user)
}

// Đổi mật khẩu
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func ChangePassword(c *gin.Context) {
	db := config.DB
	userID := c.GetString("user_id")

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Người dùng không tồn tại"})
		return
	}

	// Kiểm tra mật khẩu cũ
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Mật khẩu cũ không đúng"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể mã hoá mật khẩu mới"})
		return
	}

	user.Password = string(hashed)
	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Lỗi khi cập nhật mật khẩu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đổi mật khẩu thành công"})
}
