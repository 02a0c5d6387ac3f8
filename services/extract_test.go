package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNumberOf(t *testing.T) {
	assert.Equal(t, 12, pageNumberOf("/tmp/uploads/abc-170000-page-12.png"))
	assert.Equal(t, 7, pageNumberOf("scan7.png"))
	assert.Equal(t, 3, pageNumberOf("bai-giang-page-3.jpg"))
	assert.Equal(t, -1, pageNumberOf("cover.png"))
}

func TestSortPagesByNumber(t *testing.T) {
	paths := []string{
		"note-page-10.png",
		"note-page-2.png",
		"note-page-1.png",
		"note-page-9.png",
	}

	sorted := SortPagesByNumber(paths)

	// Sort theo số trang, không phải theo chuỗi (page-10 phải đứng sau page-9)
	assert.Equal(t, []string{
		"note-page-1.png",
		"note-page-2.png",
		"note-page-9.png",
		"note-page-10.png",
	}, sorted)

	// Không đụng vào slice gốc
	assert.Equal(t, "note-page-10.png", paths[0])
}

func TestJoinPages(t *testing.T) {
	text := JoinPages([]string{"trang mot", "trang hai", "trang ba"})

	// 3 trang thì có đúng 2 marker ngăn cách
	assert.Equal(t, 2, strings.Count(text, PageBreakMarker))
	assert.Equal(t, "trang mot"+PageBreakMarker+"trang hai"+PageBreakMarker+"trang ba", text)
}

func TestJoinPagesSinglePage(t *testing.T) {
	text := JoinPages([]string{"chi mot trang"})
	assert.Equal(t, "chi mot trang", text)
	assert.NotContains(t, text, PageBreakMarker)
}

func TestJoinPagesKeepsEmptyPage(t *testing.T) {
	// Trang OCR rỗng vẫn giữ vị trí trong chuỗi kết quả
	text := JoinPages([]string{"dau", "", "cuoi"})
	assert.Equal(t, "dau"+PageBreakMarker+PageBreakMarker+"cuoi", text)
}
