package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/studynote-backend/models"
	"github.com/vnkhanh/studynote-backend/services"
	"github.com/vnkhanh/studynote-backend/utils"
	"github.com/vnkhanh/studynote-backend/ws"
)

// Trần kích thước file upload (theo multer của bản cũ: 10MB)
const maxUploadSize = 10 * 1024 * 1024

// Tối đa 5 ảnh cho một lần upload ảnh rời
const maxImageCount = 5

// removeTempFile xóa file tạm best-effort, lỗi chỉ log
func removeTempFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Lỗi khi xóa file tạm %s: %v", path, err)
	}
}

// UploadNote nhận PDF, chạy pipeline render -> OCR -> lưu Note
func UploadNote(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user_id không hợp lệ"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Thiếu tiêu đề ghi chú"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Vui lòng tải lên một file PDF hợp lệ"})
		return
	}
	if file.Header.Get("Content-Type") != "application/pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Vui lòng tải lên một file PDF hợp lệ"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File vượt quá 10MB"})
		return
	}

	// Kiểm tra hạn mức TRƯỚC khi xử lý file
	var user models.User
	if err := db.First(&user, "id = ?", uid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy người dùng"})
		return
	}
	if user.UploadsUsed >= user.UploadsLimit {
		c.JSON(http.StatusForbidden, gin.H{"message": "Đã hết lượt upload trong tuần này"})
		return
	}

	uploadsDir := utils.UploadDir()
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể chuẩn bị thư mục xử lý"})
		return
	}

	noteID := uuid.New()
	baseName := fmt.Sprintf("%s-%d", noteID, time.Now().UnixMilli())
	tempPDF := filepath.Join(uploadsDir, baseName+"-temp.pdf")

	if err := c.SaveUploadedFile(file, tempPDF); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể lưu file tải lên"})
		return
	}
	defer removeTempFile(tempPDF)

	ws.H.BroadcastNoteStatus(ws.NoteStatusUpdate{NoteID: noteID.String(), Status: "Đang trích xuất", Progress: 10})

	text, pageCount, err := services.ExtractTextFromPDF(c.Request.Context(), tempPDF, uploadsDir, baseName)
	if err != nil {
		log.Printf("Pipeline OCR lỗi với note %s: %v", noteID, err)
		ws.H.BroadcastNoteStatus(ws.NoteStatusUpdate{NoteID: noteID.String(), Status: "Lỗi", Error: "Không thể xử lý tài liệu"})
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể xử lý tài liệu"})
		return
	}

	// Lưu trữ PDF gốc best-effort, không chặn việc tạo note
	pdfPath := ""
	if url, err := utils.UploadPDFToSupabase(tempPDF, noteID.String()); err != nil {
		log.Printf("Lỗi upload PDF gốc lên Supabase: %v", err)
	} else {
		pdfPath = url
	}

	note := models.Note{
		ID:               noteID,
		UserID:           uid,
		Title:            title,
		ExtractedText:    text,
		PDFPath:          pdfPath,
		OriginalFilename: file.Filename,
	}
	if err := db.Create(&note).Error; err != nil {
		ws.H.BroadcastNoteStatus(ws.NoteStatusUpdate{NoteID: noteID.String(), Status: "Lỗi", Error: "Không lưu được ghi chú"})
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không lưu được ghi chú"})
		return
	}

	if err := db.Model(&user).Update("uploads_used", gorm.Expr("uploads_used + 1")).Error; err != nil {
		log.Printf("Lỗi cập nhật bộ đếm upload của user %s: %v", uid, err)
	}

	ws.H.BroadcastNoteStatus(ws.NoteStatusUpdate{NoteID: noteID.String(), Status: "Hoàn thành", Progress: 100})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Lưu ghi chú thành công",
		"note_id": note.ID,
		"pages":   pageCount,
	})
}

// UploadNoteImages nhận tối đa 5 ảnh đã chụp sẵn thay cho PDF
func UploadNoteImages(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user_id không hợp lệ"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Thiếu tiêu đề ghi chú"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dữ liệu gửi lên không hợp lệ"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Vui lòng tải lên ít nhất một ảnh"})
		return
	}
	if len(files) > maxImageCount {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Tối đa %d ảnh cho một ghi chú", maxImageCount)})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", uid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy người dùng"})
		return
	}
	if user.UploadsUsed >= user.UploadsLimit {
		c.JSON(http.StatusForbidden, gin.H{"message": "Đã hết lượt upload trong tuần này"})
		return
	}

	uploadsDir := utils.UploadDir()
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể chuẩn bị thư mục xử lý"})
		return
	}

	noteID := uuid.New()
	baseName := fmt.Sprintf("%s-%d", noteID, time.Now().UnixMilli())

	// Đặt tên theo số trang để pipeline sắp xếp lại đúng thứ tự gửi lên
	var imagePaths []string
	defer func() { services.RemovePageImages(imagePaths) }()
	for i, f := range files {
		tempImage := filepath.Join(uploadsDir, fmt.Sprintf("%s-page-%d.png", baseName, i+1))
		if err := c.SaveUploadedFile(f, tempImage); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể lưu ảnh tải lên"})
			return
		}
		imagePaths = append(imagePaths, tempImage)
	}

	text, err := services.ExtractTextFromImages(c.Request.Context(), imagePaths)
	if err != nil {
		log.Printf("Pipeline OCR ảnh lỗi với note %s: %v", noteID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể xử lý ảnh"})
		return
	}

	note := models.Note{
		ID:            noteID,
		UserID:        uid,
		Title:         title,
		ExtractedText: text,
	}
	if err := db.Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không lưu được ghi chú"})
		return
	}

	if err := db.Model(&user).Update("uploads_used", gorm.Expr("uploads_used + 1")).Error; err != nil {
		log.Printf("Lỗi cập nhật bộ đếm upload của user %s: %v", uid, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Lưu ghi chú thành công",
		"note_id": note.ID,
	})
}

// GetNotes liệt kê ghi chú của chính user, mới nhất trước
func GetNotes(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var notes []models.Note
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể lấy danh sách ghi chú"})
		return
	}

	if len(notes) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Chưa có ghi chú nào"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

// DeleteNote xóa note và các quiz/flashcard sinh từ nó
func DeleteNote(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")
	noteID := c.Param("id")

	var note models.Note
	if err := db.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy ghi chú"})
		return
	}

	if err := db.Delete(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể xóa ghi chú"})
		return
	}

	// Cascade: xóa luôn quiz và flashcard gắn với note
	if err := db.Where("note_id = ?", note.ID).Delete(&models.Quiz{}).Error; err != nil {
		log.Printf("Lỗi xóa quiz của note %s: %v", note.ID, err)
	}
	if err := db.Where("note_id = ?", note.ID).Delete(&models.Flashcard{}).Error; err != nil {
		log.Printf("Lỗi xóa flashcard của note %s: %v", note.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Xóa ghi chú thành công"})
}
