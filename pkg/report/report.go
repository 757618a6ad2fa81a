package report

import (
	"fmt"
	"io"
	"strings"

	"treaty-classifier/pkg/model"
)

const width = 70

// CategoryCount 单个分类的数量
type CategoryCount struct {
	Category model.Category
	Count    int
}

// Summarize 按数量从多到少统计分类，数量相同时按固定分类顺序；不在封闭集合中的标签排在最后
func Summarize(results model.ResultTable) []CategoryCount {
	counts := results.Counts()
	out := make([]CategoryCount, 0, len(counts))
	for _, c := range model.Categories() {
		if n := counts[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Count: n})
			delete(counts, c)
		}
	}
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	// 稳定插入排序，保留同数量时的原有顺序
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Count > out[j-1].Count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Write 输出统计与前 samples 条样例
func Write(w io.Writer, results model.ResultTable, outputFile string, samples int) error {
	var sb strings.Builder
	sb.WriteString("\n" + strings.Repeat("=", width) + "\n")
	sb.WriteString(center("Analysis Results") + "\n")
	sb.WriteString(strings.Repeat("=", width) + "\n")
	fmt.Fprintf(&sb, "Total speeches analyzed: %d\n", len(results))

	sb.WriteString("\nCategory counts:\n")
	for _, cc := range Summarize(results) {
		fmt.Fprintf(&sb, "  - %s: %d\n", cc.Category, cc.Count)
	}
	if outputFile != "" {
		fmt.Fprintf(&sb, "\nResults saved to: %s\n", outputFile)
	}

	if samples > len(results) {
		samples = len(results)
	}
	if samples > 0 {
		fmt.Fprintf(&sb, "\nSample Results (first %d speeches):\n", samples)
		sb.WriteString(strings.Repeat("-", width) + "\n")
		for i, r := range results[:samples] {
			fmt.Fprintf(&sb, "Speech %d (ID: %s)\n", i+1, r.SpeechID)
			fmt.Fprintf(&sb, "Category: %s\n", r.Category)
			fmt.Fprintf(&sb, "Snippet: %s\n", snippet(r.Mention, 100))
			sb.WriteString(strings.Repeat("-", width) + "\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func center(s string) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
