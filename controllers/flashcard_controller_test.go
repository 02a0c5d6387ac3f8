package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFlashcardQuestions(t *testing.T) {
	raw := `{
		"questions": [
			{
				"question": "Công thức nghiệm của phương trình bậc hai?",
				"answer": "x = (-b ± √(b²-4ac)) / 2a",
				"explanation": "Suy ra từ việc hoàn thành bình phương."
			},
			{
				"question": "Định nghĩa đạo hàm?",
				"answer": "Giới hạn của tỉ số sai phân khi Δx tiến về 0.",
				"explanation": "Đo tốc độ thay đổi tức thời của hàm số."
			}
		]
	}`

	var parsed geminiFlashcardResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))

	questions := buildFlashcardQuestions(parsed)
	require.Len(t, questions, 2)

	assert.Equal(t, "Công thức nghiệm của phương trình bậc hai?", questions[0].Question)
	assert.Equal(t, "x = (-b ± √(b²-4ac)) / 2a", questions[0].Answer)
	assert.Equal(t, 0, questions[0].Position)
	assert.Equal(t, 1, questions[1].Position)
}

func TestBuildFlashcardQuestionsEmpty(t *testing.T) {
	assert.Empty(t, buildFlashcardQuestions(geminiFlashcardResponse{}))
}
