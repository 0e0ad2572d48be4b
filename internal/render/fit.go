package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Ellipsis 标记被截断的行尾。
const Ellipsis = "…"

// StripANSI 移除 CSI/OSC 等控制序列，子进程输出进入 dynlog 前必须清理，
// 否则光标移动会破坏行数统计。
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// StringWidth 返回字符串的终端显示宽度。
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Fit 把一行截断到 width 列以内，保证它在终端中只占一行。
// width <= 0 表示不限制。
func Fit(line Line, width int) Line {
	if width <= 0 || line.Width() <= width {
		return line
	}
	budget := width - StringWidth(Ellipsis)
	if budget < 0 {
		return Line{Spans: clampSpans(line.Spans, width), Style: line.Style}
	}
	spans := clampSpans(line.Spans, budget)
	spans = append(spans, Span{Text: Ellipsis, Style: lastStyle(line.Spans)})
	return Line{Spans: spans, Style: line.Style}
}

// FitString 是 Fit 的纯文本版本。
func FitString(text string, width int) string {
	return Fit(Plain(text), width).Text()
}

func clampSpans(spans []Span, width int) []Span {
	if width <= 0 {
		return nil
	}
	remaining := width
	out := make([]Span, 0, len(spans))
	for _, sp := range spans {
		if remaining <= 0 {
			break
		}
		tw := runewidth.StringWidth(sp.Text)
		if tw <= remaining {
			out = append(out, sp)
			remaining -= tw
			continue
		}
		text := truncateToWidth(sp.Text, remaining)
		if text != "" {
			sp.Text = text
			out = append(out, sp)
		}
		remaining = 0
	}
	return out
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	w := 0
	out := make([]rune, 0, len(text))
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out)
}

func lastStyle(spans []Span) lipgloss.Style {
	if len(spans) == 0 {
		return lipgloss.NewStyle()
	}
	return spans[len(spans)-1].Style
}
