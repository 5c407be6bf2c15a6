package crawlers

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/miltonstrat/myreplays/internal/utils"
)

// NetworkCapture 网络捕获状态。监听器在后台goroutine中写入,
// 下载协调器在主流程中读取,所有访问经互斥锁保护。
type NetworkCapture struct {
	mu      sync.Mutex
	pattern *regexp.Regexp

	seen  map[string]struct{}
	urls  []string
	media []string
}

// NewNetworkCapture 创建捕获状态,pattern为链接过滤正则
func NewNetworkCapture(pattern *regexp.Regexp) *NetworkCapture {
	return &NetworkCapture{
		pattern: pattern,
		seen:    make(map[string]struct{}),
	}
}

// ObserveURL 处理一个网络响应URL: 匹配过滤正则的进入捕获列表,
// 形如媒体文件的额外进入媒体列表
func (nc *NetworkCapture) ObserveURL(u string) {
	if u == "" {
		return
	}
	nc.mu.Lock()
	defer nc.mu.Unlock()
	if nc.pattern.MatchString(u) {
		nc.addLocked(u)
	}
	if models.IsMediaURL(u) {
		nc.media = append(nc.media, u)
	}
}

// AddFiltered 加入URL,仅在匹配过滤正则时保留
func (nc *NetworkCapture) AddFiltered(u string) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	if nc.pattern.MatchString(u) {
		nc.addLocked(u)
	}
}

// AddDirect 加入URL,不做过滤(用于合成的视频页链接)
func (nc *NetworkCapture) AddDirect(u string) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.addLocked(u)
}

func (nc *NetworkCapture) addLocked(u string) {
	if _, ok := nc.seen[u]; ok {
		return
	}
	nc.seen[u] = struct{}{}
	nc.urls = append(nc.urls, u)
}

// URLs 按捕获顺序返回已捕获URL的副本
func (nc *NetworkCapture) URLs() []string {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	out := make([]string, len(nc.urls))
	copy(out, nc.urls)
	return out
}

// ResetMedia 清空媒体列表,在解析视频页前调用
func (nc *NetworkCapture) ResetMedia() {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.media = nil
}

// FirstMedia 返回重置后捕获到的第一个媒体URL
func (nc *NetworkCapture) FirstMedia() (string, bool) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	if len(nc.media) == 0 {
		return "", false
	}
	return nc.media[0], true
}

// MediaCount 当前媒体列表长度
func (nc *NetworkCapture) MediaCount() int {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return len(nc.media)
}

// ResponseListener 页面网络响应监听器。必须在首次导航前挂载,
// 处理过程中的任何失败只记录调试日志,绝不中断页面加载。
type ResponseListener struct {
	capture *NetworkCapture
	baseURL string
}

// NewResponseListener 创建监听器
func NewResponseListener(capture *NetworkCapture, baseURL string) *ResponseListener {
	return &ResponseListener{capture: capture, baseURL: baseURL}
}

// Attach 在页面上注册响应事件,事件在后台goroutine中消费,
// 页面关闭时自动退出
func (rl *ResponseListener) Attach(page *rod.Page) {
	go page.EachEvent(func(e *proto.NetworkResponseReceived) {
		rl.handleResponse(page, e)
	})()
}

func (rl *ResponseListener) handleResponse(page *rod.Page, e *proto.NetworkResponseReceived) {
	defer func() {
		if r := recover(); r != nil {
			utils.Debugf("响应处理异常(已忽略): %v", r)
		}
	}()

	if e.Response == nil {
		return
	}
	respURL := e.Response.URL
	rl.capture.ObserveURL(respURL)

	if !strings.Contains(strings.ToLower(e.Response.MIMEType), "json") {
		return
	}
	if !LooksLikeAPIURL(respURL) {
		return
	}

	body, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(page)
	if err != nil {
		utils.Debugf("读取响应体失败 %s: %v", respURL, err)
		return
	}
	raw := []byte(body.Body)
	if body.Base64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body.Body)
		if err != nil {
			utils.Debugf("响应体base64解码失败 %s: %v", respURL, err)
			return
		}
		raw = decoded
	}
	rl.processJSONBody(respURL, raw)
}

// processJSONBody 解析JSON响应体,提取内嵌URL与视频页链接
func (rl *ResponseListener) processJSONBody(respURL string, raw []byte) {
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		utils.Debugf("JSON解析失败 %s: %v", respURL, err)
		return
	}
	for _, found := range ExtractURLsFromValue(parsed) {
		rl.capture.AddFiltered(found)
	}
	for _, vp := range ExtractVideoPageURLs(parsed, rl.baseURL) {
		rl.capture.AddDirect(vp)
	}
}

// LooksLikeAPIURL 粗略判断URL是否像回放相关的API端点
func LooksLikeAPIURL(u string) bool {
	lower := strings.ToLower(u)
	for _, kw := range models.APIKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
