package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaultCfgAndLoad(t *testing.T) {
	fPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, CreateDefaultCfg(fPath))

	conf, err := Load(fPath)
	require.NoError(t, err)
	require.NoError(t, conf.Validate())

	require.Len(t, conf.Sources, 2)
	assert.Equal(t, "epg_cn", conf.Sources[0].Name)
	assert.Equal(t, "https://epg.pw/xmltv/epg_CN.xml", conf.Sources[0].URL)
	assert.Equal(t, "epg_tw", conf.Sources[1].Name)

	assert.Equal(t, "+0800", conf.TargetOffset)
	assert.Equal(t, ModeConvert, conf.TimezoneMode)
	assert.Equal(t, "epg_data", conf.OutputDir)
	assert.Equal(t, 30*time.Second, conf.Timeout)
	assert.NotNil(t, conf.Location)
	assert.NotNil(t, conf.Normalizer)
}

func TestValidateDefaults(t *testing.T) {
	conf := &Config{
		Sources: []OptionSource{{Name: "epg_cn", URL: "https://example.org/cn.xml"}},
	}
	require.NoError(t, conf.Validate())

	assert.Equal(t, "+0800", conf.TargetOffset)
	assert.Equal(t, "epg_data", conf.OutputDir)
	assert.Equal(t, 30*time.Second, conf.Timeout)
	assert.NotNil(t, conf.Normalizer)
}

func TestValidateBadTimeoutFallsBack(t *testing.T) {
	conf := &Config{
		Sources:       []OptionSource{{Name: "epg_cn", URL: "https://example.org/cn.xml"}},
		OptionTimeout: "soon",
	}
	require.NoError(t, conf.Validate())
	assert.Equal(t, 30*time.Second, conf.Timeout)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		conf Config
	}{
		{"no sources", Config{}},
		{"missing url", Config{Sources: []OptionSource{{Name: "epg_cn"}}}},
		{"duplicate names", Config{Sources: []OptionSource{
			{Name: "epg_cn", URL: "https://example.org/a.xml"},
			{Name: "epg_cn", URL: "https://example.org/b.xml"},
		}}},
		{"bad scheme", Config{Sources: []OptionSource{{Name: "epg_cn", URL: "ftp://example.org/a.xml"}}}},
		{"bad offset", Config{
			Sources:      []OptionSource{{Name: "epg_cn", URL: "https://example.org/a.xml"}},
			TargetOffset: "GMT+8",
		}},
		{"bad mode", Config{
			Sources:      []OptionSource{{Name: "epg_cn", URL: "https://example.org/a.xml"}},
			TimezoneMode: "rewrite",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.conf.Validate())
		})
	}
}

func TestValidateReplaceMode(t *testing.T) {
	conf := &Config{
		Sources:      []OptionSource{{Name: "epg_cn", URL: "https://example.org/cn.xml"}},
		TimezoneMode: ModeReplace,
	}
	require.NoError(t, conf.Validate())

	out, err := conf.Normalizer.Normalize([]byte(`start="20240101120000 +0000"`))
	require.NoError(t, err)
	assert.Equal(t, `start="20240101120000 +0800"`, string(out))
}
