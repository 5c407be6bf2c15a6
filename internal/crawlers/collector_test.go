package crawlers

import (
	"reflect"
	"testing"
)

func TestExtractDataAttrURLs(t *testing.T) {
	htmlStr := `<html><body>
		<div class="card" data-href="/replay/1">回放1</div>
		<span data-url="https://cdn.x.com/2.mp4"></span>
		<img data-src="/thumb/3.jpg" />
		<div data-href="/first" data-url="/second">只取优先级最高的属性</div>
		<p>没有data属性</p>
	</body></html>`

	want := []string{
		"/replay/1",
		"https://cdn.x.com/2.mp4",
		"/thumb/3.jpg",
		"/first",
	}
	got := ExtractDataAttrURLs(htmlStr)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractDataAttrURLs() = %v, 期望 %v", got, want)
	}
}

func TestExtractMediaSrcURLs(t *testing.T) {
	htmlStr := `<html><body>
		<video src="/v/main.mp4"></video>
		<video><source src="https://cdn.x.com/alt.webm" type="video/webm"></video>
		<img src="/logo.png" />
		<video></video>
	</body></html>`

	want := []string{"/v/main.mp4", "https://cdn.x.com/alt.webm"}
	got := ExtractMediaSrcURLs(htmlStr)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractMediaSrcURLs() = %v, 期望 %v", got, want)
	}
}

func TestExtractDataAttrURLs_BrokenHTML(t *testing.T) {
	// html包对残缺标记容错,不应panic
	got := ExtractDataAttrURLs(`<div data-href="/x"><span data-url=`)
	if len(got) == 0 || got[0] != "/x" {
		t.Errorf("残缺HTML中的有效属性仍应被提取, 实际 %v", got)
	}
}
