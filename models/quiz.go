package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`

	// uniqueIndex: tối đa một quiz cho mỗi note, tránh race check-then-act
	NoteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"note_id"`
	Note   Note      `gorm:"constraint:OnDelete:CASCADE;" json:"note,omitempty"`

	Title     string         `gorm:"size:255;not null" json:"title"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type QuizQuestion struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz   Quiz      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	Question string       `gorm:"type:text;not null" json:"question"`
	Options  []QuizOption `gorm:"foreignKey:QuestionID" json:"options"`
	// Chỉ số (0-3) của lựa chọn đúng trong Options
	Answer      int    `json:"answer"`
	Explanation string `gorm:"type:text" json:"explanation"`
	Difficulty  string `gorm:"size:20" json:"difficulty"` // easy|medium|hard
	// Giữ thứ tự câu hỏi như model trả về
	Position int `gorm:"not null" json:"position"`
}

type QuizOption struct {
	ID         uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionID uuid.UUID    `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   QuizQuestion `gorm:"foreignKey:QuestionID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`

	Text     string `gorm:"type:text;not null" json:"text"`
	Position int    `gorm:"not null" json:"position"`
}
