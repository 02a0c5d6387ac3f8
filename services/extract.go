package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PageBreakMarker ngăn cách văn bản giữa các trang trong ExtractedText.
// Dữ liệu cũ đã lưu với marker này, không được đổi.
const PageBreakMarker = "\n\n--- Page Break ---\n\n"

var pageNumberPattern = regexp.MustCompile(`(\d+)\D*$`)

// pageNumberOf lấy số trang từ tên file ảnh (số cuối cùng trong tên,
// ví dụ "bai-giang-page-12.png" -> 12). Không có số thì trả về -1.
func pageNumberOf(path string) int {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	m := pageNumberPattern.FindStringSubmatch(base)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}

// SortPagesByNumber sắp xếp ảnh trang theo số trang trong tên file.
// Phải sort theo số: sort theo chuỗi sẽ xếp page-10 trước page-9.
func SortPagesByNumber(paths []string) []string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.SliceStable(sorted, func(i, j int) bool {
		return pageNumberOf(sorted[i]) < pageNumberOf(sorted[j])
	})
	return sorted
}

// JoinPages nối văn bản các trang bằng PageBreakMarker.
// Trang OCR rỗng vẫn giữ nguyên vị trí (đóng góp chuỗi rỗng).
func JoinPages(pageTexts []string) string {
	return strings.Join(pageTexts, PageBreakMarker)
}

// RemovePageImages xóa ảnh tạm best-effort, lỗi chỉ log
func RemovePageImages(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Printf("Lỗi khi xóa ảnh tạm %s: %v", p, err)
		}
	}
}

// ExtractTextFromPDF là pipeline nhập liệu chính:
// render từng trang PDF thành ảnh -> OCR từng trang theo đúng thứ tự
// trang gốc -> nối bằng PageBreakMarker. Ảnh tạm luôn được dọn kể cả
// khi một bước thất bại.
func ExtractTextFromPDF(ctx context.Context, pdfPath, workDir, baseName string) (string, int, error) {
	// Kiểm tra PDF đọc được trước khi render
	if _, err := CountPDFPages(pdfPath); err != nil {
		return "", 0, err
	}

	imagePaths, err := RasterizePDF(pdfPath, workDir, baseName)
	defer RemovePageImages(imagePaths)
	if err != nil {
		return "", 0, err
	}

	text, err := ExtractTextFromImages(ctx, imagePaths)
	if err != nil {
		return "", 0, err
	}
	return text, len(imagePaths), nil
}

// ExtractTextFromImages OCR từng ảnh theo thứ tự số trang trong tên file
// rồi nối kết quả. Một trang OCR lỗi làm hỏng cả thao tác.
func ExtractTextFromImages(ctx context.Context, imagePaths []string) (string, error) {
	ocr, err := NewOCRClient(ctx)
	if err != nil {
		return "", err
	}
	defer ocr.Close()

	ordered := SortPagesByNumber(imagePaths)
	pageTexts := make([]string, 0, len(ordered))
	for _, p := range ordered {
		pageText, err := ocr.DetectText(ctx, p)
		if err != nil {
			return "", err
		}
		pageTexts = append(pageTexts, pageText)
	}

	return JoinPages(pageTexts), nil
}
