package epg

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

const (
	tsLayout     = "20060102150405"
	offsetLayout = "-0700"
)

// timestampAttrs 节目单上已知的时间戳属性
var timestampAttrs = map[string]struct{}{
	"start":      {},
	"stop":       {},
	"start-time": {},
	"stop-time":  {},
}

// Normalizer 时区归一化器，将EPG文档中的时间戳改写到目标UTC偏移
type Normalizer interface {
	// Normalize 改写时间戳。输入不是合法XML时原样返回内容并报告错误，
	// 调用方可继续使用返回的内容（降级为透传）
	Normalize(content []byte) ([]byte, error)
}

// ParseOffset 解析"+0800"或"+08:00"形式的UTC偏移
func ParseOffset(offset string) (*time.Location, error) {
	for _, layout := range []string{"-0700", "-07:00"} {
		if t, err := time.Parse(layout, offset); err == nil {
			return t.Location(), nil
		}
	}
	return nil, fmt.Errorf("invalid utc offset: %q", offset)
}

// offsetToken 目标偏移的字面量形式，如+0800
func offsetToken(loc *time.Location) string {
	return time.Unix(0, 0).In(loc).Format(offsetLayout)
}

// convertNormalizer 逐属性解析并换算时间戳的归一化器
type convertNormalizer struct {
	target *time.Location
	now    func() time.Time
}

func NewConvertNormalizer(target *time.Location) Normalizer {
	return &convertNormalizer{
		target: target,
		now:    time.Now,
	}
}

func (n *convertNormalizer) Normalize(content []byte) ([]byte, error) {
	doc, err := Parse(content)
	if err != nil {
		return content, err
	}

	for i := range doc.Programmes {
		prog := &doc.Programmes[i]
		for j, attr := range prog.Attrs {
			if _, ok := timestampAttrs[attr.Name.Local]; !ok {
				continue
			}

			rewritten, err := n.rewriteTimestamp(attr.Value)
			if err != nil {
				// 单个时间戳无法解析时保留原值，继续处理其余属性
				continue
			}
			prog.Attrs[j].Value = rewritten
		}
	}

	// 在文档上记录本次处理的时间
	doc.Date = n.now().In(n.target).Format(tsLayout)

	out, err := doc.Marshal()
	if err != nil {
		return content, err
	}
	return out, nil
}

// rewriteTimestamp 将单个时间戳属性值换算到目标偏移
func (n *convertNormalizer) rewriteTimestamp(value string) (string, error) {
	digits, zone, err := splitTimestamp(value)
	if err != nil {
		return "", err
	}

	t, err := time.ParseInLocation(tsLayout, digits, zone)
	if err != nil {
		return "", err
	}
	return t.In(n.target).Format(tsLayout + " " + offsetLayout), nil
}

// splitTimestamp 拆分时间戳的数字部分和时区后缀。
// 无后缀的14位时间戳按UTC处理，后缀为+0000或UTC的同样按UTC处理，
// 其余后缀按其声明的固定偏移处理
func splitTimestamp(value string) (string, *time.Location, error) {
	fields := strings.Fields(strings.TrimSpace(value))
	switch len(fields) {
	case 1:
		if len(fields[0]) != len(tsLayout) {
			return "", nil, fmt.Errorf("unexpected timestamp length: %q", value)
		}
		return fields[0], time.UTC, nil
	case 2:
		digits, suffix := fields[0], fields[1]
		if len(digits) != len(tsLayout) {
			return "", nil, fmt.Errorf("unexpected timestamp length: %q", value)
		}
		if suffix == "UTC" || suffix == "+0000" {
			return digits, time.UTC, nil
		}
		zone, err := ParseOffset(suffix)
		if err != nil {
			return "", nil, err
		}
		return digits, zone, nil
	default:
		return "", nil, fmt.Errorf("unexpected timestamp format: %q", value)
	}
}

// replaceNormalizer 纯文本替换的归一化器，不解析时间戳，
// 仅将+0000和UTC字面量替换为目标偏移
type replaceNormalizer struct {
	token []byte
}

func NewReplaceNormalizer(target *time.Location) Normalizer {
	return &replaceNormalizer{
		token: []byte(offsetToken(target)),
	}
}

func (n *replaceNormalizer) Normalize(content []byte) ([]byte, error) {
	out := bytes.ReplaceAll(content, []byte("+0000"), n.token)
	out = bytes.ReplaceAll(out, []byte("UTC"), n.token)
	return out, nil
}
