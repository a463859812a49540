package router

import (
	"context"
	"time"

	"epgmerge/internal/app/epg"

	"go.uber.org/zap"
)

// Schedule 定时调度执行流水线并更新缓存数据
func Schedule(ctx context.Context, pipeline *epg.Pipeline, duration time.Duration) {
	// 创建定时任务
	ticker := time.NewTicker(duration)
	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("The scheduling task has been stopped.")
				return
			case <-ticker.C:
				logger.Info("Start executing the scheduling task.")

				// 重新下载、合并并写出EPG数据
				if err := refresh(ctx, pipeline); err != nil {
					logger.Error("Failed to refresh EPG data.", zap.Error(err))
				}

				logger.Info("The scheduling task has been completed.")
			}
		}
	}()
}
