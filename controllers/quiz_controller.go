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

// Prompt cố định: yêu cầu đúng 20 câu, JSON thuần, option không kèm
// tiền tố "A." để khỏi phải cắt chuỗi khi hiển thị
const quizPromptTemplate = `You are a subject instructor making a quiz for your students on the following notes. If you think that some of the data in the notes is not right, correct it.
Generate exactly 20 multiple-choice questions from the notes with a variety of difficulties.
Each question must have exactly 4 options and one correct answer. The correct answer must be explained thoroughly.
Option text must be the plain answer only - never prefix options with labels like "A.", "B)", or numbering.
Return the result in this JSON format ONLY:

{
  "questions": [
    {
      "question": "string",
      "difficulty": "easy" | "medium" | "hard",
      "options": ["string", "string", "string", "string"],
      "answer": 0,
      "explanation": "string"
    }
  ]
}

"answer" is the zero-based index (0-3) of the correct option.

Notes:
%s
`

// geminiQuizResponse là cấu trúc JSON model phải trả về
type geminiQuizResponse struct {
	Questions []struct {
		Question    string   `json:"question"`
		Difficulty  string   `json:"difficulty"`
		Options     []string `json:"options"`
		Answer      int      `json:"answer"`
		Explanation string   `json:"explanation"`
	} `json:"questions"`
}

// buildQuizQuestions đổi JSON của model sang schema lưu trữ:
// mỗi option string thành bản ghi {text}, giữ nguyên thứ tự
func buildQuizQuestions(parsed geminiQuizResponse) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, 0, len(parsed.Questions))
	for i, q := range parsed.Questions {
		options := make([]models.QuizOption, 0, len(q.Options))
		for j, opt := range q.Options {
			options = append(options, models.QuizOption{
				Text:     opt,
				Position: j,
			})
		}
		questions = append(questions, models.QuizQuestion{
			Question:    q.Question,
			Options:     options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
			Difficulty:  q.Difficulty,
			Position:    i,
		})
	}
	return questions
}

// GenerateQuiz tạo đúng một quiz cho một note.
// Thứ tự precondition: user -> hạn mức -> quiz đã tồn tại -> note tồn tại.
func GenerateQuiz(c *gin.Context) {
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

	if user.QuizzesGenerated >= user.QuizzesLimit {
		c.JSON(http.StatusForbidden, gin.H{"message": "Đã hết lượt tạo quiz trong tuần này"})
		return
	}

	var existing models.Quiz
	if err := db.Where("note_id = ?", noteID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Quiz cho ghi chú này đã tồn tại"})
		return
	}

	var note models.Note
	if err := db.Where("id = ? AND user_id = ?", noteID, userUUID).First(&note).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy ghi chú"})
		return
	}

	prompt := fmt.Sprintf(quizPromptTemplate, note.ExtractedText)
	raw, err := services.GeminiGenerateJSON(c.Request.Context(), prompt)
	if err != nil {
		log.Printf("Gemini lỗi khi tạo quiz cho note %s: %v", note.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo quiz"})
		return
	}

	// Parse lỗi là lỗi cứng, không sửa chữa hay retry
	var parsed geminiQuizResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("Parse JSON quiz lỗi với note %s: %v", note.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo quiz"})
		return
	}
	if len(parsed.Questions) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo quiz"})
		return
	}

	quiz := models.Quiz{
		UserID:    userUUID,
		NoteID:    note.ID,
		Title:     "Quiz for " + note.Title,
		Questions: buildQuizQuestions(parsed),
	}

	if err := db.Create(&quiz).Error; err != nil {
		// Hai request cùng lúc: uniqueIndex trên note_id biến race thành conflict
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Quiz cho ghi chú này đã tồn tại"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không lưu được quiz"})
		return
	}

	if err := db.Model(&user).Update("quizzes_generated", gorm.Expr("quizzes_generated + 1")).Error; err != nil {
		log.Printf("Lỗi cập nhật bộ đếm quiz của user %s: %v", userUUID, err)
	}
	// Cờ dẫn xuất cho UI, nguồn sự thật vẫn là bản ghi quiz
	if err := db.Model(&note).Update("quiz_generated", true).Error; err != nil {
		log.Printf("Lỗi cập nhật cờ quiz_generated của note %s: %v", note.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Đã tạo quiz",
		"quiz_id": quiz.ID,
	})
}

// GetQuizzes liệt kê quiz của chính user, mới nhất trước
func GetQuizzes(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var quizzes []models.Quiz
	err := db.
		Preload("Note", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&quizzes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể lấy danh sách quiz"})
		return
	}

	if len(quizzes) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Chưa có quiz nào"})
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// GetQuizByID trả về một quiz với đầy đủ câu hỏi theo thứ tự
func GetQuizByID(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")
	quizID := c.Param("quizId")

	var quiz models.Quiz
	err := db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("Questions.Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("Note", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title")
		}).
		Where("id = ? AND user_id = ?", quizID, userID).
		First(&quiz).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy quiz"})
		return
	}

	c.JSON(http.StatusOK, quiz)
}
