package util

import (
	"strings"
	"testing"
)

func TestStripHTML(t *testing.T) {
	got := StripHTML("<h1>标题</h1><p>第一段  文字</p><script>alert(1)</script>")
	if strings.Contains(got, "<") {
		t.Errorf("tags not stripped: %q", got)
	}
	if !strings.Contains(got, "标题") || !strings.Contains(got, "第一段 文字") {
		t.Errorf("text lost: %q", got)
	}
}

func TestExcerptHTML(t *testing.T) {
	short := ExcerptHTML("<p>短文</p>", 10)
	if short != "短文" {
		t.Errorf("short excerpt = %q, want 短文", short)
	}

	long := ExcerptHTML("<p>"+strings.Repeat("字", 50)+"</p>", 10)
	if long != strings.Repeat("字", 10)+"..." {
		t.Errorf("long excerpt = %q, want 10 runes with ellipsis", long)
	}
}

func TestUniqueStrings(t *testing.T) {
	got := UniqueStrings([]string{" go ", "go", "", "redis", "go"})
	if len(got) != 2 || got[0] != "go" || got[1] != "redis" {
		t.Errorf("got %v, want [go redis]", got)
	}
}

func TestNormalizePagination(t *testing.T) {
	page, limit := NormalizePagination(0, -3)
	if page != 1 || limit != 20 {
		t.Errorf("got %d/%d, want 1/20", page, limit)
	}
	page, limit = NormalizePagination(3, 1000)
	if page != 3 || limit != 20 {
		t.Errorf("got %d/%d, want 3/20", page, limit)
	}
	page, limit = NormalizePagination(2, 50)
	if page != 2 || limit != 50 {
		t.Errorf("got %d/%d, want 2/50", page, limit)
	}
}
