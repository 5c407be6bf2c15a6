package crawlers

import (
	"reflect"
	"regexp"
	"testing"
)

func TestNormalizeURLs(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		hrefs   []string
		want    []string
	}{
		{
			name:    "相对路径解析为绝对URL",
			baseURL: "https://example.com/list",
			hrefs:   []string{"/download/a.mp4", "video/b.mp4"},
			want:    []string{"https://example.com/download/a.mp4", "https://example.com/video/b.mp4"},
		},
		{
			name:    "绝对URL保持不变",
			baseURL: "https://example.com/",
			hrefs:   []string{"https://cdn.example.com/x.mp4"},
			want:    []string{"https://cdn.example.com/x.mp4"},
		},
		{
			name:    "重复链接按首次出现去重",
			baseURL: "https://example.com/",
			hrefs:   []string{"/a", "/b", "/a"},
			want:    []string{"https://example.com/a", "https://example.com/b"},
		},
		{
			name:    "空白与非http协议被丢弃",
			baseURL: "https://example.com/",
			hrefs:   []string{"", "  ", "javascript:void(0)", "mailto:x@y.com", "/ok"},
			want:    []string{"https://example.com/ok"},
		},
		{
			name:    "首尾空白被裁剪",
			baseURL: "https://example.com/",
			hrefs:   []string{"  /a.mp4  "},
			want:    []string{"https://example.com/a.mp4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURLs(tt.baseURL, tt.hrefs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeURLs() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

func TestFilterURLs(t *testing.T) {
	pattern := regexp.MustCompile(`(?i)(replay|\.mp4)`)
	urls := []string{
		"https://example.com/replay/1",
		"https://example.com/about",
		"https://example.com/v/clip.mp4",
		"https://example.com/replay/1",
	}
	want := []string{
		"https://example.com/replay/1",
		"https://example.com/v/clip.mp4",
	}
	got := FilterURLs(urls, pattern)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterURLs() = %v, 期望 %v", got, want)
	}
}

func TestURLSet(t *testing.T) {
	set := NewURLSet()
	if !set.Add("a") {
		t.Error("首次加入应返回true")
	}
	if set.Add("a") {
		t.Error("重复加入应返回false")
	}
	set.AddAll([]string{"b", "a", "c"})
	if set.Len() != 3 {
		t.Errorf("Len() = %d, 期望 3", set.Len())
	}
	if !set.Contains("b") {
		t.Error("Contains(b)应为true")
	}
	want := []string{"a", "b", "c"}
	if got := set.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, 期望 %v", got, want)
	}

	// Items返回副本,外部修改不应影响集合
	items := set.Items()
	items[0] = "modified"
	if set.Items()[0] != "a" {
		t.Error("Items()应返回副本")
	}
}
