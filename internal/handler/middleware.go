package handler

import (
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"fundsystem/pkg/problem"

	"github.com/gin-gonic/gin"
)

// LoggerMiddleware 日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// 处理请求
		c.Next()

		// 记录日志
		latency := time.Since(start)
		status := c.Writer.Status()

		if query != "" {
			path = path + "?" + query
		}

		log.Printf("[HTTP] %d | %13v | %15s | %-7s %s",
			status,
			latency,
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

// RecoveryMiddleware 恢复中间件
// 未被业务逻辑接住的 panic 统一包成错误信封返回，
// 调试模式下额外携带堆栈，方便排查
func RecoveryMiddleware(debugMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %v", err)
				stackTrace := ""
				if debugMode {
					stackTrace = string(debug.Stack())
				}
				problem.Write(c, problem.TitleUnexpected, fmt.Sprintf("%v", err), stackTrace)
			}
		}()
		c.Next()
	}
}

// CORSMiddleware 跨域中间件（浏览器客户端直连）
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
