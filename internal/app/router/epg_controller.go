package router

import (
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"epgmerge/internal/app/epg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const epgGzipFilename = epg.MergedFileName + ".gz"

var (
	// 缓存最新的合并EPG和订阅索引
	mergedPtr    atomic.Pointer[[]byte]
	subscribePtr atomic.Pointer[string]
)

// GetMergedEPG 返回合并后的XMLTV格式EPG
func GetMergedEPG(c *gin.Context) {
	content := mergedPtr.Load()
	if content == nil || len(*content) == 0 {
		c.Status(http.StatusNotFound)
		return
	}

	// 返回响应
	c.Data(http.StatusOK, "application/xml; charset=utf-8", *content)
}

// GetMergedEPGWithGzip 以gzip压缩文件的形式返回合并后的EPG
func GetMergedEPGWithGzip(c *gin.Context) {
	content := mergedPtr.Load()
	if content == nil || len(*content) == 0 {
		c.Status(http.StatusNotFound)
		return
	}

	// 设置HTTP头，通知浏览器这是一个二进制流文件
	c.Header("Transfer-Encoding", "gzip")                                                    // 说明文件是gzip压缩格式
	c.Header("Content-Type", "application/octet-stream")                                     // 说明是二进制文件
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", epgGzipFilename)) // 指定下载文件名

	// 创建一个gzip压缩的Writer，并将EPG内容写入其中
	gzipWriter := gzip.NewWriter(c.Writer)
	defer gzipWriter.Close()

	if _, err := gzipWriter.Write(*content); err != nil {
		logger.Error("Failed to write gzip data.", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
}

// GetSubscribe 返回订阅索引文本
func GetSubscribe(c *gin.Context) {
	subscribe := subscribePtr.Load()
	if subscribe == nil || *subscribe == "" {
		c.Status(http.StatusNotFound)
		return
	}

	// 返回响应
	c.String(http.StatusOK, *subscribe)
}

// refresh 执行一次流水线并更新缓存数据
func refresh(ctx context.Context, pipeline *epg.Pipeline) error {
	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	// 更新缓存的合并EPG和订阅索引
	mergedPtr.Store(&result.MergedContent)
	subscribePtr.Store(&result.Subscribe)

	logger.Sugar().Infof("EPG data updated, sources: %d, channels: %d, programmes: %d.",
		result.SourcesFetched, result.Channels, result.Programmes)
	return nil
}
