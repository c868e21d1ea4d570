package handler

import (
	"fundsystem/internal/config"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置路由
func SetupRouter(fundsService FundsService, cfg *config.Config) *gin.Engine {
	// 设置 gin 为发布模式（减少日志输出）
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// 注册中间件
	r.Use(RecoveryMiddleware(cfg.Server.Debug))
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	// 创建处理器
	h := NewHandler(fundsService)

	// API 路由组
	api := r.Group("/api")
	{
		funds := api.Group("/funds")
		{
			funds.GET("", h.ListFunds)
			funds.GET("/balance", h.GetBalance)
			funds.POST("/subscribe", h.Subscribe)
			funds.POST("/cancel", h.Cancel)
			funds.GET("/transactions", h.LatestTransactions)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
