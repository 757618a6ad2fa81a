package reader

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// ErrDecode 表示某一行无法在当前编码下解码
var ErrDecode = errors.New("解码失败")

// Encoding 表示一种候选文本编码
type Encoding struct {
	Name   string
	decode func(raw []byte) (string, error)
}

// Decode 解码一行原始字节
func (e Encoding) Decode(raw []byte) (string, error) {
	return e.decode(raw)
}

// UTF8 严格的 UTF-8，遇到非法字节序列即失败
func UTF8() Encoding {
	return Encoding{
		Name: "utf-8",
		decode: func(raw []byte) (string, error) {
			if !utf8.Valid(raw) {
				return "", ErrDecode
			}
			return string(raw), nil
		},
	}
}

// Charmap 基于单字节码表的编码，码表未定义的字节视为解码失败
func Charmap(name string, cm *charmap.Charmap) Encoding {
	dec := cm.NewDecoder()
	return Encoding{
		Name: name,
		decode: func(raw []byte) (string, error) {
			out, err := dec.Bytes(raw)
			if err != nil {
				return "", errors.Wrap(ErrDecode, err.Error())
			}
			// 单字节码表的输入不可能编码出 U+FFFD，出现即说明存在未定义字节
			if strings.ContainsRune(string(out), utf8.RuneError) {
				return "", ErrDecode
			}
			return string(out), nil
		},
	}
}

// DefaultEncodings 默认的候选编码顺序
func DefaultEncodings() []Encoding {
	return []Encoding{
		UTF8(),
		Charmap("latin-1", charmap.ISO8859_1),
		Charmap("cp1252", charmap.Windows1252),
		Charmap("iso-8859-1", charmap.ISO8859_1),
	}
}

// LookupEncoding 按名称查找编码，名称不区分大小写
func LookupEncoding(name string) (Encoding, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return UTF8(), true
	case "latin-1", "latin1":
		return Charmap("latin-1", charmap.ISO8859_1), true
	case "iso-8859-1", "iso8859-1":
		return Charmap("iso-8859-1", charmap.ISO8859_1), true
	case "cp1252", "windows-1252":
		return Charmap("cp1252", charmap.Windows1252), true
	case "iso-8859-15", "latin-9":
		return Charmap("iso-8859-15", charmap.ISO8859_15), true
	}
	return Encoding{}, false
}

// EncodingsByName 将配置中的名称列表解析为编码列表
func EncodingsByName(names []string) ([]Encoding, error) {
	if len(names) == 0 {
		return DefaultEncodings(), nil
	}
	encs := make([]Encoding, 0, len(names))
	for _, name := range names {
		enc, ok := LookupEncoding(name)
		if !ok {
			return nil, errors.Errorf("不支持的编码: %s", name)
		}
		encs = append(encs, enc)
	}
	return encs, nil
}
