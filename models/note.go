package models

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`

	Title string `gorm:"size:255;not null" json:"title"`
	// Văn bản OCR của toàn bộ tài liệu, các trang nối bằng services.PageBreakMarker
	ExtractedText string `gorm:"type:text;not null" json:"extracted_text"`

	// File PDF gốc lưu trên Supabase (best-effort, có thể rỗng)
	PDFPath          string `gorm:"type:text" json:"pdf_path,omitempty"`
	OriginalFilename string `gorm:"size:255" json:"original_filename,omitempty"`

	// Cờ dẫn xuất cho UI; nguồn sự thật là bản ghi Quiz/Flashcard theo note_id
	QuizGenerated      bool `gorm:"default:false" json:"quiz_generated"`
	FlashcardGenerated bool `gorm:"default:false" json:"flashcard_generated"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
