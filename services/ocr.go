package services

import (
	"context"
	"fmt"
	"os"

	vision "cloud.google.com/go/vision/apiv1"
)

// OCRClient bọc Google Cloud Vision, dùng lại cho cả batch trang
// thay vì mở kết nối mới từng trang.
type OCRClient struct {
	client *vision.ImageAnnotatorClient
}

func NewOCRClient(ctx context.Context) (*OCRClient, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo Vision client: %w", err)
	}
	return &OCRClient{client: client}, nil
}

func (o *OCRClient) Close() error {
	return o.client.Close()
}

// DetectText chạy OCR một ảnh trang. Trang trắng trả về chuỗi rỗng,
// không coi là lỗi.
func (o *OCRClient) DetectText(ctx context.Context, imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("không thể mở ảnh %s: %w", imagePath, err)
	}
	defer f.Close()

	img, err := vision.NewImageFromReader(f)
	if err != nil {
		return "", fmt.Errorf("không thể đọc ảnh %s: %w", imagePath, err)
	}

	annotation, err := o.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return "", fmt.Errorf("OCR thất bại với ảnh %s: %w", imagePath, err)
	}
	if annotation == nil {
		return "", nil
	}
	return annotation.GetText(), nil
}
