package services

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// Độ phân giải render trang, chọn cho OCR đọc tốt
const rasterDPI = 150

// CountPDFPages mở file bằng ledongthuc/pdf để kiểm tra PDF có đọc được
// không trước khi render, đồng thời lấy số trang.
func CountPDFPages(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("không thể đọc file PDF: %w", err)
	}
	defer f.Close()
	return reader.NumPage(), nil
}

// RasterizePDF render từng trang PDF thành ảnh PNG 150 DPI trong outDir.
// Tên file dạng <baseName>-page-<n>.png với n bắt đầu từ 1.
// Trả về danh sách đường dẫn ảnh theo thứ tự trang gốc.
func RasterizePDF(pdfPath, outDir, baseName string) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("không thể mở PDF để render: %w", err)
	}
	defer doc.Close()

	var paths []string
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, rasterDPI)
		if err != nil {
			return paths, fmt.Errorf("render trang %d thất bại: %w", n+1, err)
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("%s-page-%d.png", baseName, n+1))
		out, err := os.Create(outPath)
		if err != nil {
			return paths, fmt.Errorf("không thể tạo file ảnh trang %d: %w", n+1, err)
		}
		if err := png.Encode(out, img); err != nil {
			out.Close()
			return append(paths, outPath), fmt.Errorf("ghi ảnh trang %d thất bại: %w", n+1, err)
		}
		if err := out.Close(); err != nil {
			return append(paths, outPath), err
		}

		paths = append(paths, outPath)
	}

	return paths, nil
}
