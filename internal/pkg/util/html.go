package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML 提取 HTML 正文中的纯文本
func StripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	text := doc.Text()
	return strings.Join(strings.Fields(text), " ")
}

// ExcerptHTML 生成纯文本摘要，超长按 rune 截断并补省略号
func ExcerptHTML(html string, maxRunes int) string {
	text := StripHTML(html)
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes]) + "..."
}
