package crawlers

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decodeJSON(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("测试数据JSON解析失败: %v", err)
	}
	return v
}

func TestExtractURLsFromValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "字符串值中的URL被提取",
			raw:  `{"url": "https://cdn.example.com/a.mp4"}`,
			want: []string{"https://cdn.example.com/a.mp4"},
		},
		{
			name: "嵌套对象与数组中的URL被提取",
			raw:  `{"data": {"items": [{"link": "https://x.com/1.mp4"}, {"link": "https://x.com/2.mp4"}]}}`,
			want: []string{"https://x.com/1.mp4", "https://x.com/2.mp4"},
		},
		{
			name: "粘连的尾部标点被剥离",
			raw:  `{"msg": "视频在 https://x.com/v.mp4, 请下载"}`,
			want: []string{"https://x.com/v.mp4"},
		},
		{
			name: "同一字符串中的多个URL均被提取",
			raw:  `{"msg": "https://a.com/1 和 https://b.com/2"}`,
			want: []string{"https://a.com/1", "https://b.com/2"},
		},
		{
			name: "对象按键名排序保证结果确定",
			raw:  `{"b": "https://x.com/b", "a": "https://x.com/a"}`,
			want: []string{"https://x.com/a", "https://x.com/b"},
		},
		{
			name: "无URL时返回空",
			raw:  `{"count": 3, "ok": true}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLsFromValue(decodeJSON(t, tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractURLsFromValue() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

func TestExtractVideoPageURLs(t *testing.T) {
	base := "https://ver.example.com/"

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "整数id合成视频页链接",
			raw:  `{"id": 123}`,
			want: []string{"https://ver.example.com/videoPage?id=123"},
		},
		{
			name: "纯数字字符串id同样命中",
			raw:  `{"id": "0456"}`,
			want: []string{"https://ver.example.com/videoPage?id=0456"},
		},
		{
			name: "嵌套数组中的多个id依次命中",
			raw:  `{"list": [{"id": 1}, {"id": 2}]}`,
			want: []string{
				"https://ver.example.com/videoPage?id=1",
				"https://ver.example.com/videoPage?id=2",
			},
		},
		{
			name: "非数字id被忽略",
			raw:  `{"id": "abc-123"}`,
			want: nil,
		},
		{
			name: "小数与负数id被忽略",
			raw:  `[{"id": 1.5}, {"id": -3}]`,
			want: nil,
		},
		{
			name: "布尔与null的id被忽略",
			raw:  `[{"id": true}, {"id": null}]`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVideoPageURLs(decodeJSON(t, tt.raw), base)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractVideoPageURLs() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

func TestDigitString(t *testing.T) {
	if s, ok := digitString(float64(98765)); !ok || s != "98765" {
		t.Errorf("digitString(98765) = %q, %v", s, ok)
	}
	if _, ok := digitString(""); ok {
		t.Error("空字符串不应命中")
	}
	if _, ok := digitString(map[string]interface{}{}); ok {
		t.Error("对象类型不应命中")
	}
}
