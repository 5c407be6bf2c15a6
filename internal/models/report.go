package models

import (
	"encoding/json"
	"time"
)

// DownloadStats 下载批次统计
type DownloadStats struct {
	TotalLinks  int     `json:"total_links"`  // 发现的链接总数
	Downloaded  int     `json:"downloaded"`   // 成功下载数
	Skipped     int     `json:"skipped"`      // 非媒体跳过数
	Failed      int     `json:"failed"`       // 失败数
	NetworkURLs int     `json:"network_urls"` // 从网络响应捕获的链接数
	TotalSize   int64   `json:"total_size"`   // 总字节数
	Duration    float64 `json:"duration"`     // 总耗时(秒)
}

// DownloadReport 下载批次报告
type DownloadReport struct {
	TaskID    string    `json:"task_id"`
	BaseURL   string    `json:"base_url"`
	ListURL   string    `json:"list_url"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Stats   DownloadStats `json:"stats"`
	Results []LinkResult  `json:"results"`

	OutputDir string         `json:"output_dir"`
	Config    DownloadConfig `json:"config"`
}

// ToJSON 序列化为JSON
func (r *DownloadReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// TranscodeResult 单个文件的转码记录
type TranscodeResult struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination,omitempty"`
	Success     bool    `json:"success"`
	ErrorMsg    string  `json:"error_msg,omitempty"`
	Duration    float64 `json:"duration"`
}

// TranscodeSummary 批量转码摘要
type TranscodeSummary struct {
	InputDir  string            `json:"input_dir"`
	OutputDir string            `json:"output_dir,omitempty"`
	InPlace   bool              `json:"in_place"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []TranscodeResult `json:"results"`
}

// AllSucceeded 是否全部成功(决定进程退出码)
func (s *TranscodeSummary) AllSucceeded() bool {
	return s.Failed == 0
}
