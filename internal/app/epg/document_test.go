package epg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesOpaqueContent(t *testing.T) {
	content := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<tv source-info-name="upstream" date="20240101000000">
  <channel id="cctv1">
    <display-name lang="zh">CCTV-1</display-name>
    <icon src="http://example.org/cctv1.png"/>
  </channel>
  <programme start="20240101120000 +0000" stop="20240101130000 +0000" channel="cctv1" clumpidx="0/1">
    <title lang="zh">News</title>
    <desc>Evening news</desc>
  </programme>
</tv>`)

	doc, err := Parse(content)
	require.NoError(t, err)

	assert.Equal(t, "upstream", doc.SourceInfoName)
	assert.Equal(t, "20240101000000", doc.Date)

	require.Len(t, doc.Channels, 1)
	assert.Equal(t, "cctv1", doc.Channels[0].ID())
	assert.Contains(t, doc.Channels[0].Inner, `<display-name lang="zh">CCTV-1</display-name>`)
	assert.Contains(t, doc.Channels[0].Inner, `<icon src="http://example.org/cctv1.png"/>`)

	require.Len(t, doc.Programmes, 1)
	prog := doc.Programmes[0]
	assert.Equal(t, "cctv1", attrValue(prog.Attrs, "channel"))
	// 未知属性也原样保留
	assert.Equal(t, "0/1", attrValue(prog.Attrs, "clumpidx"))
	assert.Contains(t, prog.Inner, "<desc>Evening news</desc>")

	// 序列化后再解析，不透明内容不丢失
	data, err := doc.Marshal()
	require.NoError(t, err)

	reparsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Channels[0].Inner, reparsed.Channels[0].Inner)
	assert.Equal(t, "0/1", attrValue(reparsed.Programmes[0].Attrs, "clumpidx"))
}

func TestParseMalformed(t *testing.T) {
	for _, content := range []string{"", "not xml", "<tv><channel id=", "<tv><channel></tv>"} {
		_, err := Parse([]byte(content))
		assert.ErrorIs(t, err, ErrNotWellFormed, content)
	}
}

func TestMarshalHeader(t *testing.T) {
	doc := &Document{GeneratorInfoName: "epgmerge"}
	data, err := doc.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`))
}

func TestChannelIDMissing(t *testing.T) {
	channel := Channel{}
	assert.Equal(t, "", channel.ID())
}
