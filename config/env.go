package config

import (
	"fmt"
	"os"
	"strings"
)

// Các biến môi trường bắt buộc; thiếu biến nào thì server không khởi động
var requiredEnv = []string{
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"JWT_SECRET_KEY",
	"GEMINI_API_KEY",
}

// ValidateEnv kiểm tra cấu hình một lần lúc khởi động thay vì để
// lỗi xuất hiện giữa chừng khi xử lý request.
func ValidateEnv() error {
	var missing []string
	for _, key := range requiredEnv {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("thiếu biến môi trường bắt buộc: %s", strings.Join(missing, ", "))
	}
	return nil
}
