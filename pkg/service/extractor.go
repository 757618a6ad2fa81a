package service

import (
	"strings"

	"treaty-classifier/pkg/model"

	"github.com/pkg/errors"
)

// ErrMalformedLine 表示一行缺少竖线分隔符，无法解析为记录
var ErrMalformedLine = errors.New("行格式错误")

type RecordExtractor struct {
	term string // 小写后的检索词
}

func NewRecordExtractor(searchTerm string) *RecordExtractor {
	return &RecordExtractor{term: strings.ToLower(searchTerm)}
}

// Extract 去掉首尾空白后按第一个竖线切分为 (ID, Text)
func (e *RecordExtractor) Extract(line string) (model.Record, error) {
	id, text, found := strings.Cut(strings.TrimSpace(line), "|")
	if !found {
		return model.Record{}, ErrMalformedLine
	}
	return model.Record{ID: id, Text: text}, nil
}

// Matches 不区分大小写的子串匹配
func (e *RecordExtractor) Matches(rec model.Record) bool {
	return strings.Contains(strings.ToLower(rec.Text), e.term)
}
