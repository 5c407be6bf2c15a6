package models

import (
	"regexp"
	"time"
)

const (
	// DefaultFilter 默认的候选链接过滤正则(不区分大小写)
	DefaultFilter = `(replay|download|video|videoPage|stream|play|\.mp4|\.dem|\.zip|\.rar|\.7z|/api/)`

	// VideoPageMarker 间接链接标记: 包含此片段的链接需要二次导航解析真实媒体URL
	VideoPageMarker = "videoPage?id="

	// FallbackNamePattern 无路径URL的兜底文件名格式
	FallbackNamePattern = "replay_%d.bin"
)

var (
	// MediaURLPattern 媒体/下载URL判定正则(区别于普通HTML页面)
	MediaURLPattern = regexp.MustCompile(`(?i)\.(mp4|webm|mkv|dem|zip|rar|7z)(\?|$)|/stream/|/download|/video/.*\.mp4`)

	// URLInText 从文本/JSON中匹配URL的正则
	URLInText = regexp.MustCompile(`(?i)https?://[^\s"'<>)\]]+`)

	// DateInFilename 文件名中的日期片段(YYYY_MM_DD),用于按日期分目录
	DateInFilename = regexp.MustCompile(`(\d{4}_\d{2}_\d{2})`)
)

// APIKeywords 请求URL包含这些关键字时,JSON响应体会被解析提取链接
var APIKeywords = []string{"video", "videos", "api", "replay", "list", "stream"}

// IsMediaURL 判断URL是否为直接媒体/下载链接
func IsMediaURL(urlStr string) bool {
	return MediaURLPattern.MatchString(urlStr)
}

// LinkOutcome 单个链接的处理结果状态
type LinkOutcome string

const (
	// OutcomePending 待处理
	OutcomePending LinkOutcome = "pending"
	// OutcomeOK 下载成功
	OutcomeOK LinkOutcome = "ok"
	// OutcomeSkipped 非媒体链接,跳过(不算错误)
	OutcomeSkipped LinkOutcome = "skipped"
	// OutcomeError 该链接处理失败(批次继续)
	OutcomeError LinkOutcome = "error"
)

// LinkResult 单个链接的处理记录
type LinkResult struct {
	// 标识信息
	ID    string `json:"id"`    // 记录唯一ID
	Index int    `json:"index"` // 批次内序号(从1开始)
	URL   string `json:"url"`   // 发现的原始链接

	// 解析信息
	ResolvedURL string `json:"resolved_url,omitempty"` // videoPage解析出的真实媒体URL
	Destination string `json:"destination,omitempty"`  // 本地保存路径

	// 结果
	Outcome  LinkOutcome `json:"outcome"`
	ErrorMsg string      `json:"error_msg,omitempty"`
	Size     int64       `json:"size"`

	// 时间戳
	FinishedAt time.Time `json:"finished_at"`
}
