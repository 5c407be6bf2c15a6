package crawlers

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/miltonstrat/myreplays/internal/utils"
)

// NormalizeURLs 将原始href列表解析为以baseURL为基准的绝对URL。
// 解析失败的条目被丢弃,结果按首次出现顺序去重。
func NormalizeURLs(baseURL string, hrefs []string) []string {
	var base *url.URL
	if parsed, err := url.Parse(baseURL); err == nil {
		base = parsed
	} else {
		utils.Debugf("基准URL解析失败,仅保留绝对链接: %v", err)
	}

	set := NewURLSet()
	for _, href := range hrefs {
		href = strings.TrimSpace(href)
		if href == "" {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			utils.Debugf("忽略无法解析的链接: %q", href)
			continue
		}
		abs := ref
		if base != nil {
			abs = base.ResolveReference(ref)
		}
		if abs.Scheme != "http" && abs.Scheme != "https" {
			continue
		}
		set.Add(abs.String())
	}
	return set.Items()
}

// FilterURLs 返回匹配pattern的URL,保持原有顺序并去重
func FilterURLs(urls []string, pattern *regexp.Regexp) []string {
	set := NewURLSet()
	for _, u := range urls {
		if pattern.MatchString(u) {
			set.Add(u)
		}
	}
	return set.Items()
}

// URLSet 保持插入顺序的URL去重集合。非并发安全,
// 并发场景使用NetworkCapture。
type URLSet struct {
	seen  map[string]struct{}
	items []string
}

// NewURLSet 创建空集合
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add 加入URL,首次加入返回true
func (s *URLSet) Add(u string) bool {
	if _, ok := s.seen[u]; ok {
		return false
	}
	s.seen[u] = struct{}{}
	s.items = append(s.items, u)
	return true
}

// AddAll 批量加入
func (s *URLSet) AddAll(urls []string) {
	for _, u := range urls {
		s.Add(u)
	}
}

// Contains 判断URL是否已存在
func (s *URLSet) Contains(u string) bool {
	_, ok := s.seen[u]
	return ok
}

// Items 按插入顺序返回副本
func (s *URLSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len 集合大小
func (s *URLSet) Len() int {
	return len(s.items)
}
