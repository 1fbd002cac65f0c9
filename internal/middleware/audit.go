package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 访问日志中间件 ====================

// Audit 记录每个请求的方法/路径/状态码/耗时
// 目录服务以读为主，慢请求基本都是聚合链路出了问题，日志里直接能看出来
func Audit() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		// 4xx/5xx 和慢请求都值得留痕
		if status >= 400 || latency > 500*time.Millisecond {
			log.Printf("[Audit] %s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, latency)
			return
		}
		log.Printf("[Audit] %s %s -> %d", c.Request.Method, c.Request.URL.Path, status)
	}
}
