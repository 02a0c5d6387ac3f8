package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/studynote-backend/controllers"
	"github.com/vnkhanh/studynote-backend/middleware"
	"github.com/vnkhanh/studynote-backend/ws"
	"gorm.io/gorm"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	users := r.Group("/users")
	{
		users.POST("/register", controllers.Register)
		users.POST("/login", controllers.Login)
		users.GET("/details", middleware.AuthMiddleware(), controllers.GetUserDetails)
		users.PUT("/password", middleware.AuthMiddleware(), controllers.ChangePassword)
	}

	notes := r.Group("/notes")
	{
		notes.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))
		notes.GET("", controllers.GetNotes)
		notes.POST("", middleware.CheckAndResetLimits(), controllers.UploadNote)
		notes.POST("/images", middleware.CheckAndResetLimits(), controllers.UploadNoteImages)
		notes.DELETE("/:id", controllers.DeleteNote)
	}

	quizzes := r.Group("/quizzes")
	{
		quizzes.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))
		quizzes.GET("", controllers.GetQuizzes)
		quizzes.GET("/:quizId", controllers.GetQuizByID)
		quizzes.POST("/:noteId/generate", middleware.CheckAndResetLimits(), controllers.GenerateQuiz)
	}

	flashcards := r.Group("/flashcards")
	{
		flashcards.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))
		flashcards.GET("", controllers.GetFlashcards)
		flashcards.GET("/:flashcardId", controllers.GetFlashcardByID)
		flashcards.POST("/:noteId/generate", middleware.CheckAndResetLimits(), controllers.GenerateFlashcard)
	}

	// Theo dõi tiến trình OCR của một note
	r.GET("/ws/note/:id", ws.HandleNoteWebSocket)

	return r
}
