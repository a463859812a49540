package router

import (
	"context"
	"time"

	"epgmerge/internal/app/config"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	logger *zap.Logger
)

func NewEngine(ctx context.Context, conf *config.Config, interval time.Duration) (*gin.Engine, error) {
	// L()：获取全局logger
	logger = zap.L()

	gin.SetMode(gin.ReleaseMode)

	// 校验配置文件
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	// 创建EPG处理流水线
	pipeline := conf.NewPipeline()

	// 启动时先生成一次完整数据
	if err := refresh(ctx, pipeline); err != nil {
		return nil, err
	}

	// 执行定时任务
	Schedule(ctx, pipeline, interval)

	// 创建 Gin 路由引擎
	r := gin.New()

	// 日志记录
	r.Use(ginzap.Ginzap(logger, "", false))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// 查询合并后的EPG-xml格式
	r.GET("/epg/xml", GetMergedEPG)
	r.GET("/epg/xml.gz", GetMergedEPGWithGzip)

	// 查询订阅索引
	r.GET("/subscribe.txt", GetSubscribe)

	// 查询输出目录中的所有产物文件
	r.Static("/files", conf.OutputDir)

	return r, nil
}
