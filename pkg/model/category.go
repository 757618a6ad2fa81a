package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Category 表示一次分类的结果标签，取值为封闭集合
type Category string

const (
	CategorySupport        Category = "Support"
	CategoryAgainst        Category = "Against"
	CategoryImplementation Category = "Implementation"
	CategoryReversal       Category = "Reversal"
	CategoryOtherFactual   Category = "Other/Factual"
)

var ErrUnknownCategory = errors.New("未知的分类标签")

const categoryCutset = " \t\r\n\"'`*.!;:"

// Categories 按固定顺序返回全部分类
func Categories() []Category {
	return []Category{
		CategorySupport,
		CategoryAgainst,
		CategoryImplementation,
		CategoryReversal,
		CategoryOtherFactual,
	}
}

func (c Category) String() string {
	return string(c)
}

// Valid 判断是否为已知分类
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory 将模型返回的文本归一化为分类
// 容忍以下形式：前后空白、引号、大小写差异、"1. Support"、结尾标点、单独的 "Other" / "Factual"
func ParseCategory(s string) (Category, error) {
	raw := s
	s = strings.Trim(s, categoryCutset)
	s = strings.TrimLeft(s, "0123456789")
	s = strings.TrimLeft(s, ".):- ")
	s = strings.Trim(s, categoryCutset)
	if s == "" {
		return "", errors.Wrapf(ErrUnknownCategory, "%q", raw)
	}

	lower := strings.ToLower(s)
	for _, c := range Categories() {
		if lower == strings.ToLower(string(c)) {
			return c, nil
		}
	}
	switch lower {
	case "other", "factual", "other / factual", "other-factual":
		return CategoryOtherFactual, nil
	}

	// 模型偶尔会多说一句，取首行首个词再试一次
	if line, _, found := strings.Cut(s, "\n"); found {
		return ParseCategory(line)
	}
	if word, _, found := strings.Cut(s, " "); found {
		for _, c := range Categories() {
			if strings.EqualFold(word, string(c)) {
				return c, nil
			}
		}
	}
	return "", errors.Wrapf(ErrUnknownCategory, "%q", raw)
}
