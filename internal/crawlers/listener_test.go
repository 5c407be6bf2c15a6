package crawlers

import (
	"reflect"
	"regexp"
	"testing"
)

func newTestCapture() *NetworkCapture {
	return NewNetworkCapture(regexp.MustCompile(`(?i)(replay|video|\.mp4|/api/)`))
}

func TestNetworkCapture_ObserveURL(t *testing.T) {
	nc := newTestCapture()

	nc.ObserveURL("https://x.com/api/list")        // 匹配过滤正则
	nc.ObserveURL("https://x.com/styles.css")      // 不匹配
	nc.ObserveURL("https://cdn.x.com/clip.mp4")    // 同时是媒体URL
	nc.ObserveURL("https://x.com/api/list")        // 重复
	nc.ObserveURL("")                              // 空URL忽略

	want := []string{"https://x.com/api/list", "https://cdn.x.com/clip.mp4"}
	if got := nc.URLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("URLs() = %v, 期望 %v", got, want)
	}
	if nc.MediaCount() != 1 {
		t.Errorf("MediaCount() = %d, 期望 1", nc.MediaCount())
	}
}

func TestNetworkCapture_MediaReset(t *testing.T) {
	nc := newTestCapture()
	nc.ObserveURL("https://cdn.x.com/a.mp4")
	nc.ResetMedia()
	if _, ok := nc.FirstMedia(); ok {
		t.Error("重置后不应有媒体URL")
	}
	nc.ObserveURL("https://cdn.x.com/b.mp4")
	nc.ObserveURL("https://cdn.x.com/c.mp4")
	if first, ok := nc.FirstMedia(); !ok || first != "https://cdn.x.com/b.mp4" {
		t.Errorf("FirstMedia() = %q, %v, 期望重置后的第一个媒体URL", first, ok)
	}
}

func TestNetworkCapture_AddFilteredAndDirect(t *testing.T) {
	nc := newTestCapture()
	nc.AddFiltered("https://x.com/about") // 不匹配,被丢弃
	nc.AddFiltered("https://x.com/replay/9")
	nc.AddDirect("https://x.com/videoPage?id=9") // 不过滤
	want := []string{"https://x.com/replay/9", "https://x.com/videoPage?id=9"}
	if got := nc.URLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("URLs() = %v, 期望 %v", got, want)
	}
}

func TestResponseListener_ProcessJSONBody(t *testing.T) {
	nc := newTestCapture()
	rl := NewResponseListener(nc, "https://ver.example.com/")

	body := `{"items": [{"id": 7, "url": "https://cdn.x.com/7.mp4"}], "next": "https://x.com/page2"}`
	rl.processJSONBody("https://x.com/api/videos", []byte(body))

	got := nc.URLs()
	wantContains := []string{
		"https://cdn.x.com/7.mp4",
		"https://ver.example.com/videoPage?id=7",
	}
	for _, w := range wantContains {
		found := false
		for _, g := range got {
			if g == w {
				found = true
			}
		}
		if !found {
			t.Errorf("捕获列表缺少 %q, 实际 %v", w, got)
		}
	}
	// next分页链接不匹配过滤正则,不应进入列表
	for _, g := range got {
		if g == "https://x.com/page2" {
			t.Error("未匹配过滤正则的URL不应被捕获")
		}
	}

	// 非法JSON不应panic,也不应追加任何URL
	before := len(nc.URLs())
	rl.processJSONBody("https://x.com/api/bad", []byte("{not json"))
	if len(nc.URLs()) != before {
		t.Error("非法JSON不应产生新URL")
	}
}

func TestLooksLikeAPIURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://x.com/api/videos", true},
		{"https://x.com/Replay/list", true},
		{"https://x.com/assets/app.js", false},
		{"https://x.com/stream/7", true},
	}
	for _, tt := range tests {
		if got := LooksLikeAPIURL(tt.url); got != tt.want {
			t.Errorf("LooksLikeAPIURL(%q) = %v, 期望 %v", tt.url, got, tt.want)
		}
	}
}
