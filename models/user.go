package models

import (
	"time"

	"github.com/google/uuid"
)

// Hạn mức mặc định mỗi tuần cho một tài khoản mới
const (
	DefaultUploadsLimit    = 5
	DefaultQuizzesLimit    = 5
	DefaultFlashcardsLimit = 5
)

// ResetWindow là chu kỳ làm mới bộ đếm sử dụng
const ResetWindow = 7 * 24 * time.Hour

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	School    string    `gorm:"size:150" json:"school"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`

	// Bộ đếm sử dụng theo tuần, reset khi qua ResetDate
	UploadsUsed         int       `gorm:"default:0" json:"uploads_used"`
	UploadsLimit        int       `gorm:"default:5" json:"uploads_limit"`
	QuizzesGenerated    int       `gorm:"default:0" json:"quizzes_generated"`
	QuizzesLimit        int       `gorm:"default:5" json:"quizzes_limit"`
	FlashcardsGenerated int       `gorm:"default:0" json:"flashcards_generated"`
	FlashcardsLimit     int       `gorm:"default:5" json:"flashcards_limit"`
	ResetDate           time.Time `gorm:"not null" json:"reset_date"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	Notes      []Note      `json:"notes,omitempty"`
	Quizzes    []Quiz      `json:"quizzes,omitempty"`
	Flashcards []Flashcard `json:"flashcards,omitempty"`
}
