package scheduler

import (
	"log"
	"time"

	"github.com/ForumHub/ForumHub-backend/internal/config"
	"github.com/ForumHub/ForumHub-backend/internal/services"
	"github.com/robfig/cron/v3"
)

type HotnessScheduler struct {
	cron         *cron.Cron
	topicService *services.TopicService
}

func NewHotnessScheduler() *HotnessScheduler {
	// 创建带有秒级精度的cron调度器
	c := cron.New(cron.WithSeconds())

	return &HotnessScheduler{
		cron:         c,
		topicService: services.NewTopicService(),
	}
}

// Start 启动热度调度器
func (s *HotnessScheduler) Start() error {
	// 每30分钟重算一次冗余计数并刷新热门标记
	_, err := s.cron.AddFunc("0 */30 * * * *", s.refreshHotTopics)
	if err != nil {
		return err
	}

	// 启动调度器
	s.cron.Start()
	log.Println("Hotness scheduler started")

	// 启动时立即执行一次热度刷新
	go s.refreshHotTopics()

	return nil
}

// Stop 停止热度调度器
func (s *HotnessScheduler) Stop() {
	s.cron.Stop()
	log.Println("Hotness scheduler stopped")
}

// refreshHotTopics 重算主题冗余计数并按最近点赞量刷新热门标记
func (s *HotnessScheduler) refreshHotTopics() {
	log.Println("[HOTNESS SCHEDULER] Starting scheduled hot topics refresh...")

	threshold := 0
	if config.AppConfig != nil {
		threshold = config.AppConfig.Scheduler.HotLikesThreshold
	}

	startTime := time.Now()
	if err := s.topicService.RefreshHotTopics(threshold); err != nil {
		log.Printf("[HOTNESS SCHEDULER ERROR] Hot topics refresh failed: %v", err)
		return
	}

	elapsed := time.Since(startTime)
	log.Printf("[HOTNESS SCHEDULER] Hot topics refresh completed in %s", elapsed)
}
