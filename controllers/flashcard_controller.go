package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/studynote-backend/models"
	"github.com/vnkhanh/studynote-backend/services"
)

const flashcardPromptTemplate = `You are assisting a student in their study session and you are making flashcards on the following notes. If you think that some of the data in the notes is not right, correct it.
Generate exactly 20 flashcards from the notes with a variety of difficulties.
Each flashcard must have a question and an answer. If there are mathematical equations in the notes, ask about them so the student can memorize them, and include one or two sample problems to check their knowledge. The answer must be explained thoroughly.
Return the result in this JSON format ONLY:

{
  "questions": [
    {
      "question": "string",
      "answer": "string",
      "explanation": "string"
    }
  ]
}

Notes:
%s
`

type geminiFlashcardResponse struct {
	Questions []struct {
		Question    string `json:"question"`
		Answer      string `json:"answer"`
		Explanation string `json:"explanation"`
	} `json:"questions"`
}

// buildFlashcardQuestions giữ nguyên question/answer/explanation, chỉ đánh
// số thứ tự
func buildFlashcardQuestions(parsed geminiFlashcardResponse) []models.FlashcardQuestion {
	questions := make([]models.FlashcardQuestion, 0, len(parsed.Questions))
	for i, q := range parsed.Questions {
		questions = append(questions, models.FlashcardQuestion{
			Question:    q.Question,
			Answer:      q.Answer,
			Explanation: q.Explanation,
			Position:    i,
		})
	}
	return questions
}

// GenerateFlashcard tạo đúng một bộ flashcard cho một note.
// Cùng thứ tự precondition với GenerateQuiz.
func GenerateFlashcard(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user_id không hợp lệ"})
		return
	}

	noteID := c.Param("noteId")

	var user models.User
	if err := db.First(&user, "id = ?", userUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy người dùng"})
		return
	}

	if user.FlashcardsGenerated >= user.FlashcardsLimit {
		c.JSON(http.StatusForbidden, gin.H{"message": "Đã hết lượt tạo flashcard trong tuần này"})
		return
	}

	var existing models.Flashcard
	if err := db.Where("note_id = ?", noteID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Flashcard cho ghi chú này đã tồn tại"})
		return
	}

	var note models.Note
	if err := db.Where("id = ? AND user_id = ?", noteID, userUUID).First(&note).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy ghi chú"})
		return
	}

	prompt := fmt.Sprintf(flashcardPromptTemplate, note.ExtractedText)
	raw, err := services.GeminiGenerateJSON(c.Request.Context(), prompt)
	if err != nil {
		log.Printf("Gemini lỗi khi tạo flashcard cho note %s: %v", note.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo flashcard"})
		return
	}

	var parsed geminiFlashcardResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("Parse JSON flashcard lỗi với note %s: %v", note.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo flashcard"})
		return
	}
	if len(parsed.Questions) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo flashcard"})
		return
	}

	flashcard := models.Flashcard{
		UserID:    userUUID,
		NoteID:    note.ID,
		Title:     "Flashcard for " + note.Title,
		Questions: buildFlashcardQuestions(parsed),
	}

	if err := db.Create(&flashcard).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Flashcard cho ghi chú này đã tồn tại"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không lưu được flashcard"})
		return
	}

	if err := db.Model(&user).Update("flashcards_generated", gorm.Expr("flashcards_generated + 1")).Error; err != nil {
		log.Printf("Lỗi cập nhật bộ đếm flashcard của user %s: %v", userUUID, err)
	}
	if err := db.Model(&note).Update("flashcard_generated", true).Error; err != nil {
		log.Printf("Lỗi cập nhật cờ flashcard_generated của note %s: %v", note.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Đã tạo flashcard",
		"flashcard_id": flashcard.ID,
	})
}

// GetFlashcards liệt kê flashcard của chính user, mới nhất trước
func GetFlashcards(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var flashcards []models.Flashcard
	err := db.
		Preload("Note", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&flashcards).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể lấy danh sách flashcard"})
		return
	}

	if len(flashcards) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Chưa có flashcard nào"})
		return
	}

	c.JSON(http.StatusOK, flashcards)
}

// GetFlashcardByID trả về một bộ flashcard với đầy đủ thẻ theo thứ tự
func GetFlashcardByID(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")
	flashcardID := c.Param("flashcardId")

	var flashcard models.Flashcard
	err := db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("Note", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title")
		}).
		Where("id = ? AND user_id = ?", flashcardID, userID).
		First(&flashcard).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy flashcard"})
		return
	}

	c.JSON(http.StatusOK, flashcard)
}
