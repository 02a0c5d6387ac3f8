package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuizQuestions(t *testing.T) {
	raw := `{
		"questions": [
			{
				"question": "2 + 2 bằng mấy?",
				"difficulty": "easy",
				"options": ["3", "4", "5", "22"],
				"answer": 1,
				"explanation": "Cộng hai số tự nhiên."
			},
			{
				"question": "Đạo hàm của x^2?",
				"difficulty": "medium",
				"options": ["x", "2x", "x^2", "2"],
				"answer": 1,
				"explanation": "Áp dụng quy tắc lũy thừa."
			}
		]
	}`

	var parsed geminiQuizResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))

	questions := buildQuizQuestions(parsed)
	require.Len(t, questions, 2)

	first := questions[0]
	assert.Equal(t, "2 + 2 bằng mấy?", first.Question)
	assert.Equal(t, "easy", first.Difficulty)
	assert.Equal(t, 1, first.Answer)
	assert.Equal(t, 0, first.Position)

	// Mỗi option string thành một bản ghi {text, position}, giữ nguyên thứ tự
	require.Len(t, first.Options, 4)
	assert.Equal(t, "4", first.Options[1].Text)
	assert.Equal(t, 1, first.Options[1].Position)
	assert.Equal(t, "22", first.Options[3].Text)
	assert.Equal(t, 3, first.Options[3].Position)

	assert.Equal(t, 1, questions[1].Position)
	assert.Equal(t, "medium", questions[1].Difficulty)
}

func TestBuildQuizQuestionsEmpty(t *testing.T) {
	questions := buildQuizQuestions(geminiQuizResponse{})
	assert.Empty(t, questions)
}
