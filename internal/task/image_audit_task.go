package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/robfig/cron/v3"

	"bazaar_dev_v1_202608/internal/model"
	"bazaar_dev_v1_202608/internal/repository"
)

// ==================== ImageAuditTask 图片巡检任务 ====================

// ImageAuditTask 巡检 active 图片的 URL 是否还能访问
// 挂掉的图片翻成 inactive，自动退出主图选取，列表页不再出裂图
type ImageAuditTask struct {
	imageRepo repository.ImageRepository
	client    *resty.Client
	Cron      *cron.Cron

	// 控制并发探测的数量，防止把出口带宽打满
	concurrencyLimit int
	batchSize        int
}

func NewImageAuditTask(imageRepo repository.ImageRepository) *ImageAuditTask {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetRetryCount(1)

	return &ImageAuditTask{
		imageRepo:        imageRepo,
		client:           client,
		Cron:             cron.New(cron.WithSeconds()), // 支持秒级控制
		concurrencyLimit: 20,
		batchSize:        500,
	}
}

// Start 启动图片巡检任务
func (t *ImageAuditTask) Start() {
	// 策略：每 6 小时巡检一次
	_, err := t.Cron.AddFunc("0 0 */6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		t.Execute(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动 ImageAuditTask: %v", err)
	}

	t.Cron.Start()
	log.Println("ImageAuditTask 图片巡检任务已启动 (每6小时检查一次)")
}

// Execute 执行一次完整巡检 (由 Cron 定时触发)
func (t *ImageAuditTask) Execute(ctx context.Context) {
	log.Println("[ImageAudit] Start checking image urls...")

	images, err := t.imageRepo.ListActive(ctx, t.batchSize)
	if err != nil {
		log.Printf("[ImageAudit] 拉取图片列表失败: %v", err)
		return
	}
	if len(images) == 0 {
		log.Println("[ImageAudit] 没有需要巡检的图片")
		return
	}

	// 并发探测 (使用信号量控制并发)
	var wg sync.WaitGroup
	sem := make(chan struct{}, t.concurrencyLimit)
	var deadCount int64
	var mu sync.Mutex

	for _, img := range images {
		select {
		case <-ctx.Done():
			log.Println("[ImageAudit] 任务超时，提前结束")
			return
		default:
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(img model.ListingImage) {
			defer wg.Done()
			defer func() { <-sem }()

			if t.probe(ctx, img.ImageURL) {
				return
			}

			// 只有确定性的 4xx 才翻状态，网络抖动不动数据
			if err := t.imageRepo.UpdateStatus(ctx, img.ID, model.ImageStatusInactive); err != nil {
				log.Printf("[ImageAudit] 更新图片状态失败 image=%s: %v", img.ID, err)
				return
			}

			mu.Lock()
			deadCount++
			mu.Unlock()
		}(img)
	}

	wg.Wait()
	log.Printf("[ImageAudit] 巡检完成，检查 %d 张，下线 %d 张", len(images), deadCount)
}

// probe 探测图片 URL，返回是否视为存活
// 网络错误一律当存活处理，避免误杀
func (t *ImageAuditTask) probe(ctx context.Context, url string) bool {
	resp, err := t.client.R().SetContext(ctx).Head(url)
	if err != nil {
		return true
	}

	code := resp.StatusCode()
	// 4xx 说明资源确实没了
	if code >= 400 && code < 500 {
		return false
	}
	return true
}

// Stop 停止任务
func (t *ImageAuditTask) Stop() {
	t.Cron.Stop()
}
