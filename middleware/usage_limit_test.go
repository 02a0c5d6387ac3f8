package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vnkhanh/studynote-backend/models"
)

func TestApplyWeeklyResetBeforeResetDate(t *testing.T) {
	now := time.Now()
	user := models.User{
		UploadsUsed:         3,
		QuizzesGenerated:    2,
		FlashcardsGenerated: 1,
		ResetDate:           now.Add(24 * time.Hour),
	}

	changed := applyWeeklyReset(&user, now)

	assert.False(t, changed)
	assert.Equal(t, 3, user.UploadsUsed)
	assert.Equal(t, 2, user.QuizzesGenerated)
	assert.Equal(t, 1, user.FlashcardsGenerated)
	assert.Equal(t, now.Add(24*time.Hour), user.ResetDate)
}

func TestApplyWeeklyResetAfterResetDate(t *testing.T) {
	now := time.Now()
	user := models.User{
		UploadsUsed:         5,
		QuizzesGenerated:    5,
		FlashcardsGenerated: 4,
		ResetDate:           now.Add(-time.Hour),
	}

	changed := applyWeeklyReset(&user, now)

	assert.True(t, changed)
	assert.Equal(t, 0, user.UploadsUsed)
	assert.Equal(t, 0, user.QuizzesGenerated)
	assert.Equal(t, 0, user.FlashcardsGenerated)
	// ResetDate dời đúng 7 ngày kể từ lúc reset, không phải từ ResetDate cũ
	assert.Equal(t, now.Add(models.ResetWindow), user.ResetDate)
}

func TestApplyWeeklyResetExactlyAtResetDate(t *testing.T) {
	now := time.Now()
	user := models.User{
		UploadsUsed: 1,
		ResetDate:   now,
	}

	assert.True(t, applyWeeklyReset(&user, now))
	assert.Equal(t, 0, user.UploadsUsed)
}
