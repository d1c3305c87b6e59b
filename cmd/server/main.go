package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/marketerai/internal/config"
	"github.com/marketerai/internal/db"
	"github.com/marketerai/internal/handler"
	"github.com/marketerai/internal/router"
	"github.com/marketerai/internal/service"
)

func main() {
	// 本地开发时加载 .env，文件不存在则忽略
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 创建初始账号（环境变量未提供时跳过）
	if err := db.EnsureUser(cfg.BootstrapUserName, cfg.BootstrapUserPassword); err != nil {
		log.Fatalf("failed to ensure bootstrap user: %v", err)
	}

	streamer, err := service.NewOpenAIStreamer(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to build completion client: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, streamer)
	r := router.SetupRouter(cfg.SessionSecret, api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
