package reader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speeches.txt")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func collectLines(t *testing.T, path string, encs []Encoding) ([]string, Result, error) {
	t.Helper()
	var lines []string
	res, err := Scan(context.Background(), path, encs, func(Encoding) { lines = nil }, func(_ int, line string) bool {
		lines = append(lines, line)
		return true
	})
	return lines, res, err
}

func TestScanSkipsHeaderAndTrimsTerminators(t *testing.T) {
	path := writeFile(t, []byte("id|text\r\n1|first\r\n2|second\n3|no newline"))
	lines, res, err := collectLines(t, path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1|first", "2|second", "3|no newline"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	if res.Encoding != "utf-8" || res.Lines != 3 || res.Stopped {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestScanFallsBackToLatin1(t *testing.T) {
	// 0xE9 在 latin-1 中是 é，在 UTF-8 中是非法字节
	path := writeFile(t, []byte("id|text\n1|ok\n2|caf\xe9 Kyoto\n"))
	lines, res, err := collectLines(t, path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Encoding != "latin-1" {
		t.Fatalf("encoding = %s, want latin-1", res.Encoding)
	}
	// onAttempt 重置后不应出现重复行
	if len(lines) != 2 || lines[1] != "2|café Kyoto" {
		t.Fatalf("lines = %q", lines)
	}
}

func TestScanUnreadableFile(t *testing.T) {
	path := writeFile(t, []byte("id|text\n1|\xff\xfe bad\n"))
	lines, _, err := collectLines(t, path, []Encoding{UTF8()})
	if !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("err = %v, want ErrUnreadableFile", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestScanMissingFile(t *testing.T) {
	_, _, err := collectLines(t, filepath.Join(t.TempDir(), "missing.txt"), nil)
	if !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("err = %v, want ErrUnreadableFile", err)
	}
}

func TestReadLinesStopsOnCancel(t *testing.T) {
	path := writeFile(t, []byte("id|text\n1|a\n2|b\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := 0
	res, err := ReadLines(ctx, path, UTF8(), func(int, string) bool {
		called++
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Stopped || called != 0 {
		t.Fatalf("expected immediate stop, got %+v called=%d", res, called)
	}
}

func TestReadLinesLongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	path := writeFile(t, []byte("id|text\n1|"+long+"\n"))
	var got string
	if _, err := ReadLines(context.Background(), path, UTF8(), func(_ int, line string) bool {
		got = line
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(long)+2 {
		t.Fatalf("line length = %d", len(got))
	}
}

func TestEncodingsByName(t *testing.T) {
	encs, err := EncodingsByName([]string{"UTF8", "cp1252"})
	if err != nil {
		t.Fatal(err)
	}
	if encs[0].Name != "utf-8" || encs[1].Name != "cp1252" {
		t.Fatalf("unexpected encodings: %s, %s", encs[0].Name, encs[1].Name)
	}
	if _, err := EncodingsByName([]string{"ebcdic"}); err == nil {
		t.Fatal("expected error for unsupported encoding")
	}
	def, _ := EncodingsByName(nil)
	if len(def) != 4 {
		t.Fatalf("default encodings = %d", len(def))
	}
}
