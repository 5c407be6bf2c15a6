package models

import (
	"fmt"
	"regexp"
)

// DownloadConfig 下载流程配置
type DownloadConfig struct {
	// ListURL 回放链接所在的列表页(为空时使用BaseURL)
	ListURL string `mapstructure:"list_url" json:"list_url"`

	// LinkSelector 收集链接的CSS选择器
	LinkSelector string `mapstructure:"link_selector" json:"link_selector"`

	// FilterRegex 候选链接过滤正则(不区分大小写)
	FilterRegex string `mapstructure:"filter_regex" json:"filter_regex"`

	// OutputDir 文件保存目录
	OutputDir string `mapstructure:"output_dir" json:"output_dir"`

	// TimeoutMs 页面导航超时(毫秒)
	TimeoutMs int `mapstructure:"timeout_ms" json:"timeout_ms"`

	// WaitAfterLoadMs 列表页加载后的等待时间(毫秒),给SPA渲染和网络响应留时间
	WaitAfterLoadMs int `mapstructure:"wait_after_load_ms" json:"wait_after_load_ms"`

	// SettleMs videoPage导航后等待媒体响应的时间(毫秒)
	SettleMs int `mapstructure:"settle_ms" json:"settle_ms"`

	// Headless 无头浏览器模式
	Headless bool `mapstructure:"headless" json:"headless"`

	// DebugLinks 仅打印发现的链接并退出,不下载
	DebugLinks bool `mapstructure:"-" json:"-"`
}

// Validate 验证下载配置
func (c *DownloadConfig) Validate() error {
	if c.LinkSelector == "" {
		return fmt.Errorf("链接选择器不能为空")
	}
	if _, err := regexp.Compile("(?i)" + c.FilterRegex); err != nil {
		return fmt.Errorf("过滤正则无效: %w", err)
	}
	if c.TimeoutMs < 1000 || c.TimeoutMs > 600_000 {
		return fmt.Errorf("导航超时必须在1000-600000毫秒之间,当前值: %d", c.TimeoutMs)
	}
	if c.WaitAfterLoadMs < 0 || c.WaitAfterLoadMs > 60_000 {
		return fmt.Errorf("加载后等待必须在0-60000毫秒之间,当前值: %d", c.WaitAfterLoadMs)
	}
	if c.SettleMs < 0 || c.SettleMs > 60_000 {
		return fmt.Errorf("媒体捕获等待必须在0-60000毫秒之间,当前值: %d", c.SettleMs)
	}
	return nil
}

// CompileFilter 编译过滤正则(不区分大小写)
func (c *DownloadConfig) CompileFilter() (*regexp.Regexp, error) {
	pattern, err := regexp.Compile("(?i)" + c.FilterRegex)
	if err != nil {
		return nil, fmt.Errorf("编译过滤正则失败: %w", err)
	}
	return pattern, nil
}

// TranscodeConfig 批量转码配置
type TranscodeConfig struct {
	// InputDir 输入视频目录
	InputDir string `mapstructure:"input_dir" json:"input_dir"`

	// OutputDir 输出目录(非in-place模式)
	OutputDir string `mapstructure:"output_dir" json:"output_dir"`

	// MaxSeconds 输出最大时长(秒)
	MaxSeconds float64 `mapstructure:"max_seconds" json:"max_seconds"`

	// Pattern 文件匹配模式(glob)
	Pattern string `mapstructure:"pattern" json:"pattern"`

	// Recursive 是否递归查找
	Recursive bool `mapstructure:"recursive" json:"recursive"`

	// InPlace 是否原地覆盖(成功后原子替换)
	InPlace bool `mapstructure:"in_place" json:"in_place"`

	// FFmpegPath / FFprobePath 外部转码器路径(为空时从PATH查找)
	FFmpegPath  string `mapstructure:"ffmpeg_path" json:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path" json:"ffprobe_path"`
}

// Validate 验证转码配置
func (c *TranscodeConfig) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("输入目录不能为空")
	}
	if c.MaxSeconds <= 0 || c.MaxSeconds > 86400 {
		return fmt.Errorf("最大时长必须在0-86400秒之间,当前值: %.1f", c.MaxSeconds)
	}
	if c.Pattern == "" {
		return fmt.Errorf("文件匹配模式不能为空")
	}
	if !c.InPlace && c.OutputDir == "" {
		return fmt.Errorf("非in-place模式下输出目录不能为空")
	}
	return nil
}
