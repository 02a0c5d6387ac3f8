package models

import (
	"time"

	"github.com/google/uuid"
)

type Flashcard struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`

	// uniqueIndex: tối đa một bộ flashcard cho mỗi note
	NoteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"note_id"`
	Note   Note      `gorm:"constraint:OnDelete:CASCADE;" json:"note,omitempty"`

	Title     string              `gorm:"size:255;not null" json:"title"`
	Questions []FlashcardQuestion `gorm:"foreignKey:FlashcardID" json:"questions"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type FlashcardQuestion struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FlashcardID uuid.UUID `gorm:"type:uuid;not null;index" json:"flashcard_id"`
	Flashcard   Flashcard `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	Question    string `gorm:"type:text;not null" json:"question"`
	Answer      string `gorm:"type:text;not null" json:"answer"`
	Explanation string `gorm:"type:text" json:"explanation"`
	Position    int    `gorm:"not null" json:"position"`
}
