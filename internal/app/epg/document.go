package epg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

var ErrNotWellFormed = errors.New("epg document is not well-formed xml")

const (
	// xmlHeader 输出文件统一的XML声明
	xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

	// maxDocumentSize 单个EPG文档的大小上限，防止异常大文件
	maxDocumentSize = 100 * 1024 * 1024
)

// Document XMLTV格式的EPG文档
type Document struct {
	XMLName           xml.Name    `xml:"tv"`
	SourceInfoURL     string      `xml:"source-info-url,attr,omitempty"`
	SourceInfoName    string      `xml:"source-info-name,attr,omitempty"`
	SourceDataURL     string      `xml:"source-data-url,attr,omitempty"`
	GeneratorInfoName string      `xml:"generator-info-name,attr,omitempty"`
	GeneratorInfoURL  string      `xml:"generator-info-url,attr,omitempty"`
	Date              string      `xml:"date,attr,omitempty"`
	Channels          []Channel   `xml:"channel"`
	Programmes        []Programme `xml:"programme"`
}

// Channel 频道元素。除id外的属性和子内容不做解析，原样保留
type Channel struct {
	XMLName xml.Name   `xml:"channel"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// ID 返回频道的唯一标识
func (c *Channel) ID() string {
	return attrValue(c.Attrs, "id")
}

// Programme 节目单元素。时间戳属性之外的内容不做解析，原样保留
type Programme struct {
	XMLName xml.Name   `xml:"programme"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// Parse 解析原始的XMLTV内容
func Parse(content []byte) (*Document, error) {
	dec := xml.NewDecoder(io.LimitReader(bytes.NewReader(content), maxDocumentSize))
	dec.Strict = true
	// 禁用实体扩展
	dec.Entity = map[string]string{}

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWellFormed, err)
	}
	return &doc, nil
}

// Marshal 将文档序列化为带XML声明的UTF-8文本
func (d *Document) Marshal() ([]byte, error) {
	data, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), data...), nil
}

// attrValue 按名称查找属性值，找不到时返回空字符串
func attrValue(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
