package utils

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// UploadDir trả về thư mục chứa file tạm của pipeline OCR
func UploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "./uploads"
	}
	return dir
}

// CleanupStaleFiles xóa các file tạm (PDF/ảnh trang) còn sót lại khi
// một request xử lý dở bị chết giữa chừng. File mới hơn maxAge được giữ lại
// vì có thể đang được một request khác dùng.
func CleanupStaleFiles(maxAge time.Duration) {
	dir := UploadDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Lỗi khi đọc thư mục uploads: %v", err)
		}
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Printf("Lỗi khi xóa file tạm %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("Đã xóa %d file tạm quá hạn trong %s", removed, dir)
	}
}

// StartCleanupJob chạy cleanup job định kỳ
func StartCleanupJob() {
	// Chạy cleanup ngay lần đầu khi khởi động
	log.Println("Đang chạy cleanup file tạm lần đầu...")
	CleanupStaleFiles(time.Hour)

	ticker := time.NewTicker(6 * time.Hour)

	go func() {
		defer ticker.Stop()
		for range ticker.C {
			CleanupStaleFiles(time.Hour)
		}
	}()

	log.Println("Cleanup job đã được khởi động (chạy mỗi 6 giờ)")
}
