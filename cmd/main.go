package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/vnkhanh/studynote-backend/config"
	"github.com/vnkhanh/studynote-backend/routes"
	"github.com/vnkhanh/studynote-backend/utils"
)

func main() {
	// Nạp biến môi trường từ file .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env, dùng biến môi trường hệ thống")
	}

	// Kiểm tra cấu hình ngay lúc khởi động, thiếu là dừng luôn
	if err := config.ValidateEnv(); err != nil {
		log.Fatalf("Thiếu cấu hình: %v", err)
	}

	config.InitDB()

	r := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.SetupRouter(r, config.DB)

	// Dọn file tạm còn sót lại trong thư mục upload
	utils.StartCleanupJob()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server chạy tại cổng " + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Không thể khởi động server: ", err)
	}
}
