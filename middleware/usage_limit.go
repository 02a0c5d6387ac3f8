package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/studynote-backend/models"
	"gorm.io/gorm"
)

// applyWeeklyReset đưa cả ba bộ đếm về 0 và dời ResetDate thêm đúng 7 ngày
// kể từ thời điểm reset. Trả về true nếu có thay đổi cần persist.
func applyWeeklyReset(user *models.User, now time.Time) bool {
	if now.Before(user.ResetDate) {
		return false
	}
	user.UploadsUsed = 0
	user.QuizzesGenerated = 0
	user.FlashcardsGenerated = 0
	user.ResetDate = now.Add(models.ResetWindow)
	return true
}

// CheckAndResetLimits chạy trước các route tạo tài nguyên (upload, generate).
// Đây là nơi duy nhất bộ đếm được reset.
func CheckAndResetLimits() gin.HandlerFunc {
	return func(c *gin.Context) {
		db := c.MustGet("db").(*gorm.DB)
		userID := c.GetString("user_id")

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy người dùng"})
			c.Abort()
			return
		}

		if applyWeeklyReset(&user, time.Now()) {
			err := db.Model(&user).Updates(map[string]interface{}{
				"uploads_used":         0,
				"quizzes_generated":    0,
				"flashcards_generated": 0,
				"reset_date":           user.ResetDate,
			}).Error
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể làm mới hạn mức sử dụng"})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
