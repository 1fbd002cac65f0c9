package task

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/robfig/cron/v3"

	"bazaar_dev_v1_202608/internal/repository"
)

// ==================== SellerStatsTask 卖家统计重算任务 ====================

// SellerStatsTask 周期性用评价表重算卖家的冗余统计字段
// 列表视图里内嵌的 rating / total_reviews 全靠这份冗余，必须定期对账
type SellerStatsTask struct {
	reviewRepo repository.ReviewRepository
	sellerRepo repository.SellerRepository
	Cron       *cron.Cron
}

func NewSellerStatsTask(reviewRepo repository.ReviewRepository, sellerRepo repository.SellerRepository) *SellerStatsTask {
	return &SellerStatsTask{
		reviewRepo: reviewRepo,
		sellerRepo: sellerRepo,
		Cron:       cron.New(cron.WithSeconds()),
	}
}

// Start 启动统计重算任务
func (t *SellerStatsTask) Start() {
	// 启动时先跑一轮，把重启期间漏掉的评价补上
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.Execute(ctx)
	}()

	// 策略：每小时重算一次
	_, err := t.Cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		t.Execute(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动 SellerStatsTask: %v", err)
	}

	t.Cron.Start()
	log.Println("SellerStatsTask 卖家统计任务已启动 (每小时重算一次)")
}

// Execute 执行一次完整重算 (由 Cron 定时触发)
func (t *SellerStatsTask) Execute(ctx context.Context) {
	log.Println("[SellerStats] Start recomputing seller ratings...")

	aggs, err := t.reviewRepo.AggregateBySeller(ctx)
	if err != nil {
		log.Printf("[SellerStats] 聚合评价失败: %v", err)
		return
	}

	updated := 0
	for _, agg := range aggs {
		select {
		case <-ctx.Done():
			log.Println("[SellerStats] 任务超时，提前结束")
			return
		default:
		}

		rating := math.Round(agg.AvgRating*100) / 100
		if err := t.sellerRepo.UpdateStats(ctx, agg.SellerID, rating, agg.ReviewCount); err != nil {
			log.Printf("[SellerStats] 回写卖家统计失败 seller=%s: %v", agg.SellerID, err)
			continue
		}
		updated++
	}

	log.Printf("[SellerStats] 重算完成，更新 %d 个卖家", updated)
}

// Stop 停止任务
func (t *SellerStatsTask) Stop() {
	t.Cron.Stop()
}
