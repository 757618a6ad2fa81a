package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"treaty-classifier/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GeminiOptions Google Generative Language API 的最小配置
type GeminiOptions struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

func (o *GeminiOptions) defaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if o.Model == "" {
		o.Model = "gemini-1.5-flash"
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
}

// Gemini 通过 generateContent 接口分类
type Gemini struct {
	url    string
	apiKey string
	do     func(*http.Request) (*http.Response, error)
}

func NewGemini(opts GeminiOptions) (*Gemini, error) {
	opts.defaults()
	if opts.APIKey == "" {
		return nil, errors.New("gemini: 缺少 API key")
	}
	hc := &http.Client{Timeout: opts.Timeout}
	u := strings.TrimRight(opts.BaseURL, "/") + "/v1beta/models/" + url.PathEscape(opts.Model) + ":generateContent"
	return &Gemini{url: u, apiKey: opts.APIKey, do: hc.Do}, nil
}

type gmPart struct {
	Text string `json:"text"`
}

type gmContent struct {
	Role  string   `json:"role,omitempty"`
	Parts []gmPart `json:"parts"`
}

type gmReq struct {
	Contents []gmContent `json:"contents"`
}

type gmResp struct {
	Candidates []struct {
		Content gmContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func (g *Gemini) Classify(ctx context.Context, text string) (model.Category, error) {
	if n := len([]rune(text)); n > MaxTextLen {
		zap.S().Debugf("文本较长（%d 字符），截断到 %d 字符", n, MaxTextLen)
	}
	body, err := json.Marshal(gmReq{Contents: []gmContent{{Role: "user", Parts: []gmPart{{Text: Prompt(text)}}}}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	q := req.URL.Query()
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.do(req)
	if err != nil {
		return "", errors.Wrap(err, "gemini 请求失败")
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out gmResp
	if err := json.Unmarshal(data, &out); err != nil {
		return "", errors.Errorf("gemini 响应解析失败（HTTP %d）: %v", resp.StatusCode, err)
	}
	if resp.StatusCode/100 != 2 {
		if out.Error != nil {
			return "", errors.Errorf("gemini HTTP %d %s: %s", resp.StatusCode, out.Error.Status, out.Error.Message)
		}
		return "", errors.Errorf("gemini HTTP %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini 响应为空")
	}
	c, err := model.ParseCategory(sb.String())
	if err != nil {
		return "", err
	}
	zap.S().Debugf("分类结果: %s", c)
	return c, nil
}

func (g *Gemini) String() string {
	return fmt.Sprintf("gemini(%s)", g.url)
}
