package epg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Source 一个EPG数据源
type Source struct {
	Name string // 输出文件的基础名，如epg_cn
	URL  string
}

// Client EPG源的HTTP客户端
type Client struct {
	httpClient *http.Client
	headers    map[string]string // 自定义HTTP请求头
}

func NewClient(httpClient *http.Client, headers map[string]string) *Client {
	c := Client{
		httpClient: httpClient,
		headers:    headers,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return &c
}

// Fetch 下载单个EPG源的原始内容
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	// 创建请求
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	// 设置自定义HTTP请求头
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	// 执行请求
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// FetchResult 单个源的下载结果
type FetchResult struct {
	Source  Source
	Content []byte
	Err     error
}

// FetchAll 并发下载所有EPG源。各个源的请求相互独立，
// 结果按源的配置顺序返回
func (c *Client) FetchAll(ctx context.Context, sources []Source) []FetchResult {
	results := make([]FetchResult, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()
			content, err := c.Fetch(ctx, source.URL)
			results[i] = FetchResult{
				Source:  source,
				Content: content,
				Err:     err,
			}
		}(i, source)
	}
	wg.Wait()

	return results
}
