package main

import (
	"fmt"
	"regexp"

	"github.com/miltonstrat/myreplays/internal/models"
)

// ValidateFlags 验证下载命令的最终生效参数
func ValidateFlags(baseURL string, config models.DownloadConfig) error {
	if err := models.ValidateURL(baseURL); err != nil {
		return fmt.Errorf("无效的站点地址: %w", err)
	}
	if err := models.ValidateURL(config.ListURL); err != nil {
		return fmt.Errorf("无效的列表页地址: %w", err)
	}

	if config.TimeoutMs < 1000 || config.TimeoutMs > 600000 {
		return fmt.Errorf("超时必须在1000-600000毫秒之间,当前值: %d", config.TimeoutMs)
	}
	if config.WaitAfterLoadMs < 0 || config.WaitAfterLoadMs > 60000 {
		return fmt.Errorf("加载后等待必须在0-60000毫秒之间,当前值: %d", config.WaitAfterLoadMs)
	}
	if config.SettleMs < 0 || config.SettleMs > 60000 {
		return fmt.Errorf("视频页等待必须在0-60000毫秒之间,当前值: %d", config.SettleMs)
	}

	if config.LinkSelector == "" {
		return fmt.Errorf("链接选择器不能为空")
	}
	if _, err := regexp.Compile("(?i)" + config.FilterRegex); err != nil {
		return fmt.Errorf("过滤正则无效: %w", err)
	}
	if config.OutputDir == "" {
		return fmt.Errorf("输出目录不能为空")
	}

	return nil
}
