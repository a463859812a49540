package epg

import (
	"errors"

	"go.uber.org/zap"
)

var ErrMergeEmpty = errors.New("no epg documents available to merge")

// 合并输出文档携带的固定来源信息
const (
	mergedSourceInfoName = "EPG Merge Tool"
	mergedSourceInfoURL  = "https://github.com/epg-tools/epgmerge"
	mergedGeneratorName  = "epgmerge"
	mergedGeneratorURL   = "https://github.com/epg-tools/epgmerge"
)

// Merge 按给定顺序合并多个EPG文档。
// 频道按id去重，先出现的保留，后续重复的整体丢弃；节目单全部累加。
// 无法解析的文档会被跳过；所有文档都无法解析时返回ErrMergeEmpty
func Merge(contents [][]byte) (*Document, error) {
	merged := &Document{
		SourceInfoName:    mergedSourceInfoName,
		SourceInfoURL:     mergedSourceInfoURL,
		GeneratorInfoName: mergedGeneratorName,
		GeneratorInfoURL:  mergedGeneratorURL,
	}

	seenIds := make(map[string]struct{})
	parsed := 0
	for i, content := range contents {
		doc, err := Parse(content)
		if err != nil {
			zap.L().Warn("Failed to parse EPG document, skip it.", zap.Int("index", i), zap.Error(err))
			continue
		}
		parsed++

		// 添加频道，按id去重
		for _, channel := range doc.Channels {
			id := channel.ID()
			if id == "" {
				continue
			}
			if _, ok := seenIds[id]; ok {
				continue
			}
			seenIds[id] = struct{}{}
			merged.Channels = append(merged.Channels, channel)
		}

		// 添加节目单，不去重
		merged.Programmes = append(merged.Programmes, doc.Programmes...)
	}

	if parsed == 0 {
		return nil, ErrMergeEmpty
	}
	return merged, nil
}
