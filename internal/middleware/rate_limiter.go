package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter 冷却限流器 ====================

// DetailCooldown 同一来源对同一详情页的最小访问间隔
// 详情接口带浏览数写入，用冷却间隔挡住脚本刷量
const DetailCooldown = 500 * time.Millisecond

// CooldownLimiter 基于"上次执行时间"的冷却限流器
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &CooldownLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *CooldownLimiter {
	return globalLimiter
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许则同时刷新时间
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// ==================== Gin 中间件 ====================

// Cooldown 按 "scope + 客户端IP + 路径" 做冷却限流
func Cooldown(scope string, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s:%s", scope, c.ClientIP(), c.Request.URL.Path)

		result := globalLimiter.Check(key, interval)
		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":        429,
				"message":     "请求过于频繁，请稍后再试",
				"retry_after": result.RetryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
