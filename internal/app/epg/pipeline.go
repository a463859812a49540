package epg

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var ErrNoSources = errors.New("no epg sources fetched")

// Pipeline EPG处理流水线：下载 → 时区归一化 → 合并 → 写出
type Pipeline struct {
	client     *Client
	normalizer Normalizer
	sources    []Source
	outputDir  string
	baseURL    string
	logger     *zap.Logger
}

// PipelineOptions 流水线的构建参数
type PipelineOptions struct {
	HTTPClient *http.Client
	Headers    map[string]string
	Sources    []Source
	Normalizer Normalizer
	OutputDir  string
	BaseURL    string
}

func NewPipeline(opts PipelineOptions) *Pipeline {
	return &Pipeline{
		client:     NewClient(opts.HTTPClient, opts.Headers),
		normalizer: opts.Normalizer,
		sources:    opts.Sources,
		outputDir:  opts.OutputDir,
		baseURL:    opts.BaseURL,
		logger:     zap.L(),
	}
}

// Result 单次流水线运行的结果
type Result struct {
	SourcesFetched int    // 成功下载的源数量
	Channels       int    // 合并后的频道数量
	Programmes     int    // 合并后的节目单数量
	MergedContent  []byte // 合并结果的最终内容
	Subscribe      string // 订阅索引的内容
}

// sourceData 下载并归一化后的单个源
type sourceData struct {
	source  Source
	content []byte
}

// Run 执行一次完整的流水线。
// 单个源下载或解析失败不会中断整个流程；
// 所有源均下载失败时返回ErrNoSources，文件写入失败直接返回错误
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	// 并发下载所有数据源
	fetchResults := p.client.FetchAll(ctx, p.sources)

	survived := make([]sourceData, 0, len(fetchResults))
	for _, res := range fetchResults {
		if res.Err != nil {
			p.logger.Warn("Failed to download EPG source, skip it.",
				zap.String("source", res.Source.Name),
				zap.String("url", res.Source.URL),
				zap.Error(res.Err))
			continue
		}

		// 时区归一化，失败时降级为原样透传
		content, err := p.normalizer.Normalize(res.Content)
		if err != nil {
			p.logger.Warn("Failed to normalize EPG timestamps, keep the source as is.",
				zap.String("source", res.Source.Name),
				zap.Error(err))
		}

		// 写入单源文件
		if err = WriteArtifact(p.outputDir, res.Source.Name+".xml", content); err != nil {
			return nil, err
		}
		p.logger.Info("EPG source saved.",
			zap.String("source", res.Source.Name),
			zap.Int("bytes", len(content)))

		survived = append(survived, sourceData{source: res.Source, content: content})
	}

	if len(survived) == 0 {
		return nil, ErrNoSources
	}

	result := &Result{SourcesFetched: len(survived)}

	// 合并所有归一化后的文档
	contents := make([][]byte, 0, len(survived))
	for _, data := range survived {
		contents = append(contents, data.content)
	}

	var mergedContent []byte
	merged, err := Merge(contents)
	if err != nil {
		// 所有源都无法解析时，回退发布第一个成功下载的源
		p.logger.Error("Merge failed, fall back to the first available source.",
			zap.String("source", survived[0].source.Name),
			zap.Error(err))
		mergedContent = survived[0].content
	} else {
		if mergedContent, err = merged.Marshal(); err != nil {
			return nil, err
		}
		result.Channels = len(merged.Channels)
		result.Programmes = len(merged.Programmes)
	}

	if err = WriteArtifact(p.outputDir, MergedFileName, mergedContent); err != nil {
		return nil, err
	}

	// 生成订阅索引
	names := make([]string, 0, (len(survived)+1)*2)
	for _, data := range survived {
		names = append(names, data.source.Name+".xml", data.source.Name+".xml.gz")
	}
	names = append(names, MergedFileName, MergedFileName+".gz")

	subscribe, err := WriteSubscribe(p.outputDir, p.baseURL, names, time.Now())
	if err != nil {
		return nil, err
	}

	result.MergedContent = mergedContent
	result.Subscribe = subscribe

	p.logger.Info("EPG pipeline completed.",
		zap.Int("sources", result.SourcesFetched),
		zap.Int("channels", result.Channels),
		zap.Int("programmes", result.Programmes),
		zap.String("outputDir", p.outputDir))
	return result, nil
}
