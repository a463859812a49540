package epg

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "epg_data")
	content := []byte(xmlHeader + "<tv/>")

	require.NoError(t, WriteArtifact(dir, "epg_cn.xml", content))

	// 未压缩文件
	plain, err := os.ReadFile(filepath.Join(dir, "epg_cn.xml"))
	require.NoError(t, err)
	assert.Equal(t, content, plain)

	// 压缩文件解压后与原始内容一致
	f, err := os.Open(filepath.Join(dir, "epg_cn.xml.gz"))
	require.NoError(t, err)
	defer f.Close()

	gzipReader, err := gzip.NewReader(f)
	require.NoError(t, err)
	decompressed, err := io.ReadAll(gzipReader)
	require.NoError(t, err)
	assert.Equal(t, content, decompressed)
}

func TestBuildSubscribe(t *testing.T) {
	names := []string{
		"epg_cn.xml", "epg_cn.xml.gz",
		"epg_tw.xml", "epg_tw.xml.gz",
		MergedFileName, MergedFileName + ".gz",
	}
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.FixedZone("", 8*3600))

	content := BuildSubscribe("https://example.org/epg/", names, now)

	// 生成时间行
	assert.Regexp(t, regexp.MustCompile(`生成时间: \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`), content)
	assert.Contains(t, content, "2024-01-01 20:00:00")

	// 六个产物地址，末尾斜杠被去除
	for _, name := range names {
		assert.Contains(t, content, "https://example.org/epg/"+name+"\n")
	}
	assert.Equal(t, 6, strings.Count(content, "https://example.org/epg/"))
}

func TestBuildSubscribeWithoutBaseURL(t *testing.T) {
	content := BuildSubscribe("", []string{MergedFileName}, time.Now())
	assert.Contains(t, content, "\n"+MergedFileName+"\n")
}

func TestWriteSubscribe(t *testing.T) {
	dir := t.TempDir()

	content, err := WriteSubscribe(dir, "https://example.org", []string{MergedFileName}, time.Now())
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(dir, SubscribeFileName))
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte(content), written))
}
