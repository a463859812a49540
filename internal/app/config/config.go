package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"epgmerge/internal/app/epg"
	"epgmerge/internal/pkg/logging"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// ModeConvert 逐属性解析并换算时间戳
	ModeConvert = "convert"
	// ModeReplace 纯文本替换时区字面量
	ModeReplace = "replace"

	defaultTimeout = 30 * time.Second
)

type OptionSource struct {
	Name string `json:"name" yaml:"name"` // 输出文件的基础名，如epg_cn
	URL  string `json:"url" yaml:"url"`   // EPG源的下载地址
}

type Config struct {
	Sources []OptionSource    `json:"sources" yaml:"sources"`                     // 必填，EPG数据源列表
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // 自定义HTTP请求头

	TargetOffset string `json:"targetOffset" yaml:"targetOffset"` // 目标UTC偏移，如+0800
	TimezoneMode string `json:"timezoneMode" yaml:"timezoneMode"` // convert或replace

	OutputDir string `json:"outputDir" yaml:"outputDir"` // 输出目录
	BaseURL   string `json:"baseURL" yaml:"baseURL"`     // subscribe.txt中产物地址的前缀

	OptionTimeout string        `json:"timeout" yaml:"timeout"` // HTTP请求的超时时间，如30s
	Timeout       time.Duration `json:"-" yaml:"-"`             // Validate()时进行填充

	Location   *time.Location `json:"-" yaml:"-"` // Validate()时进行填充
	Normalizer epg.Normalizer `json:"-" yaml:"-"` // Validate()时进行填充

	Log *logging.LogConfig `json:"log,omitempty" yaml:"log,omitempty"` // 日志相关设置
}

func (c *Config) Validate() error {
	// 校验config配置
	if len(c.Sources) == 0 {
		return errors.New("invalid epgmerge config: no sources")
	}

	// L()：获取全局logger
	logger := zap.L()

	seenNames := make(map[string]struct{}, len(c.Sources))
	for _, source := range c.Sources {
		if source.Name == "" || source.URL == "" {
			return errors.New("invalid epgmerge config: source name and url are required")
		}
		if _, ok := seenNames[source.Name]; ok {
			return fmt.Errorf("invalid epgmerge config: duplicate source name %q", source.Name)
		}
		seenNames[source.Name] = struct{}{}

		u, err := url.Parse(source.URL)
		if err != nil {
			return fmt.Errorf("invalid source url %q: %w", source.URL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("unsupported source url scheme %q", u.Scheme)
		}
	}

	// 填充目标时区
	if c.TargetOffset == "" {
		c.TargetOffset = "+0800"
	}
	location, err := epg.ParseOffset(c.TargetOffset)
	if err != nil {
		return err
	}
	c.Location = location

	// 填充时区归一化器
	switch c.TimezoneMode {
	case "", ModeConvert:
		c.Normalizer = epg.NewConvertNormalizer(c.Location)
	case ModeReplace:
		c.Normalizer = epg.NewReplaceNormalizer(c.Location)
	default:
		return fmt.Errorf("unknown timezone mode %q", c.TimezoneMode)
	}

	// 填充超时时间
	c.Timeout = defaultTimeout
	if c.OptionTimeout != "" {
		timeout, err := time.ParseDuration(c.OptionTimeout)
		if err != nil || timeout <= 0 {
			logger.Warn("The timeout option is incorrect. Use the default value.",
				zap.String("timeout", c.OptionTimeout), zap.Error(err))
		} else {
			c.Timeout = timeout
		}
	}

	if c.OutputDir == "" {
		c.OutputDir = "epg_data"
	}
	if c.BaseURL == "" {
		logger.Warn("The baseURL option is empty. The subscribe file will list bare file names.")
	}

	return nil
}

// NewPipeline 根据配置构建EPG处理流水线，必须先调用Validate()
func (c *Config) NewPipeline() *epg.Pipeline {
	sources := make([]epg.Source, 0, len(c.Sources))
	for _, source := range c.Sources {
		sources = append(sources, epg.Source{
			Name: source.Name,
			URL:  source.URL,
		})
	}

	return epg.NewPipeline(epg.PipelineOptions{
		HTTPClient: &http.Client{Timeout: c.Timeout},
		Headers:    c.Headers,
		Sources:    sources,
		Normalizer: c.Normalizer,
		OutputDir:  c.OutputDir,
		BaseURL:    c.BaseURL,
	})
}

func Load(fPath string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(fPath)
	if err != nil {
		return nil, err
	}
	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func CreateDefaultCfg(fPath string) error {
	// 写入默认配置
	f, err := os.Create(fPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// 创建编码器
	encoder := yaml.NewEncoder(f)

	// 缺省配置
	defaultCfg := Config{
		Sources: []OptionSource{
			{
				Name: "epg_cn",
				URL:  "https://epg.pw/xmltv/epg_CN.xml",
			},
			{
				Name: "epg_tw",
				URL:  "https://epg.pw/xmltv/epg_TW.xml",
			},
		},
		Headers: map[string]string{
			"Accept":     "application/xml,text/xml;q=0.9,*/*;q=0.8",
			"User-Agent": "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
		},
		TargetOffset:  "+0800",
		TimezoneMode:  ModeConvert,
		OutputDir:     "epg_data",
		BaseURL:       "http://127.0.0.1:8080/files",
		OptionTimeout: "30s",
	}

	return encoder.Encode(&defaultCfg)
}
