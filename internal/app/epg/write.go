package epg

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MergedFileName 合并结果的固定文件名，下游消费方依赖该名称
	MergedFileName = "epg_merged.xml"

	// SubscribeFileName 订阅索引的文件名
	SubscribeFileName = "subscribe.txt"

	subscribeTimeLayout = "2006-01-02 15:04:05"
)

// WriteArtifact 将内容写入未压缩文件，并同时生成同名的.gz压缩文件
func WriteArtifact(dir, name string, content []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	fPath := filepath.Join(dir, name)
	if err := os.WriteFile(fPath, content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	// 写入压缩版
	f, err := os.Create(fPath + ".gz")
	if err != nil {
		return fmt.Errorf("create %s.gz: %w", name, err)
	}
	defer f.Close()

	gzipWriter := gzip.NewWriter(f)
	if _, err = gzipWriter.Write(content); err != nil {
		return fmt.Errorf("write %s.gz: %w", name, err)
	}
	if err = gzipWriter.Close(); err != nil {
		return fmt.Errorf("close %s.gz: %w", name, err)
	}
	return nil
}

// BuildSubscribe 生成订阅索引文本，列出所有产物的访问地址
func BuildSubscribe(baseURL string, names []string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("EPG订阅地址\n")
	sb.WriteString(fmt.Sprintf("生成时间: %s\n\n", now.Format(subscribeTimeLayout)))

	base := strings.TrimRight(baseURL, "/")
	for _, name := range names {
		if base != "" {
			sb.WriteString(base + "/" + name + "\n")
		} else {
			sb.WriteString(name + "\n")
		}
	}

	sb.WriteString("\n说明: xml为原始文件，xml.gz为压缩版本，任选其一填入播放器的EPG地址即可。\n")
	return sb.String()
}

// WriteSubscribe 生成并写入订阅索引文件
func WriteSubscribe(dir, baseURL string, names []string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	content := BuildSubscribe(baseURL, names, now)
	fPath := filepath.Join(dir, SubscribeFileName)
	if err := os.WriteFile(fPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", SubscribeFileName, err)
	}
	return content, nil
}
