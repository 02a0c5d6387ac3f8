package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	storage "github.com/supabase-community/storage-go"
)

// UploadPDFToSupabase đẩy file PDF gốc lên Supabase Storage
// Path: uploads/notes/<fileID>.pdf
func UploadPDFToSupabase(localPath, fileID string) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return "", fmt.Errorf("chưa cấu hình SUPABASE_URL / SUPABASE_KEY")
	}

	storageClient := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(localPath)
	if ext == "" {
		ext = ".pdf"
	}
	objectPath := fmt.Sprintf("notes/%s%s", fileID, ext)

	contentType := "application/pdf"
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	// Upload vào bucket 'uploads', path: notes/<fileID>.pdf
	_, err = storageClient.UploadFile("uploads", objectPath, bytes.NewReader(data), options)
	if err != nil {
		return "", err
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/uploads/%s", supabaseURL, objectPath)
	return publicURL, nil
}
