package classifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"treaty-classifier/config"
	"treaty-classifier/pkg/model"

	"github.com/pkg/errors"
)

func TestTruncate(t *testing.T) {
	short := strings.Repeat("a", MaxTextLen)
	if Truncate(short) != short {
		t.Fatal("text at the limit should not be truncated")
	}
	long := strings.Repeat("é", MaxTextLen+50)
	got := Truncate(long)
	if utf8.RuneCountInString(got) != MaxTextLen || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation: %d runes", utf8.RuneCountInString(got))
	}
}

func TestPromptContainsCategoriesAndText(t *testing.T) {
	p := Prompt("We ratify the Kyoto Protocol")
	for _, c := range model.Categories() {
		if !strings.Contains(p, string(c)) {
			t.Fatalf("prompt missing category %s", c)
		}
	}
	if !strings.Contains(p, "'''We ratify the Kyoto Protocol'''") {
		t.Fatalf("prompt missing mention: %s", p)
	}
}

func TestPlaceholderIsDeterministicWithSeed(t *testing.T) {
	a, b := NewPlaceholder(42), NewPlaceholder(42)
	for i := 0; i < 20; i++ {
		ca, err := a.Classify(context.Background(), "text")
		if err != nil {
			t.Fatal(err)
		}
		cb, _ := b.Classify(context.Background(), "text")
		if ca != cb || !ca.Valid() {
			t.Fatalf("iteration %d: %s vs %s", i, ca, cb)
		}
	}
}

func TestRetryingRetriesTransientErrors(t *testing.T) {
	calls := 0
	r := NewRetrying(Func(func(context.Context, string) (model.Category, error) {
		calls++
		if calls < 3 {
			return "", errors.New("503")
		}
		return model.CategoryReversal, nil
	}), 5, 0)
	c, err := r.Classify(context.Background(), "x")
	if err != nil || c != model.CategoryReversal || calls != 3 {
		t.Fatalf("c=%s err=%v calls=%d", c, err, calls)
	}
}

func TestRetryingGivesUp(t *testing.T) {
	calls := 0
	r := NewRetrying(Func(func(context.Context, string) (model.Category, error) {
		calls++
		return "", errors.New("boom")
	}), 3, 0)
	if _, err := r.Classify(context.Background(), "x"); err == nil || calls != 3 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

func TestRetryingDoesNotRetryUnknownCategory(t *testing.T) {
	calls := 0
	r := NewRetrying(Func(func(context.Context, string) (model.Category, error) {
		calls++
		return model.ParseCategory("maybe")
	}), 5, 0)
	_, err := r.Classify(context.Background(), "x")
	if !errors.Is(err, model.ErrUnknownCategory) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

func TestGeminiClassify(t *testing.T) {
	var gotKey, gotPath string
	var gotBody gmReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" Implementation\n"}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGemini(GeminiOptions{BaseURL: srv.URL, APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	c, err := g.Classify(context.Background(), "The treaty entered into force")
	if err != nil {
		t.Fatal(err)
	}
	if c != model.CategoryImplementation {
		t.Fatalf("category = %s", c)
	}
	if gotKey != "k" || gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("key=%q path=%q", gotKey, gotPath)
	}
	if len(gotBody.Contents) != 1 || !strings.Contains(gotBody.Contents[0].Parts[0].Text, "entered into force") {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestGeminiHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	g, _ := NewGemini(GeminiOptions{BaseURL: srv.URL, APIKey: "k"})
	_, err := g.Classify(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.NewDefaultClassifierConfig()
	cfg.Seed = 1
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*Placeholder); !ok {
		t.Fatalf("expected placeholder, got %T", c)
	}

	t.Setenv("GOOGLE_API_KEY", "")
	cfg.Provider = config.ProviderGemini
	if _, err := New(cfg); err == nil {
		t.Fatal("expected missing key error")
	}

	cfg.Provider = "nope"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected unsupported provider error")
	}
}
