package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/miltonstrat/myreplays/internal/models"
)

// Config 应用程序配置
type Config struct {
	BaseURL   string                 `mapstructure:"base_url"`
	StateFile string                 `mapstructure:"state_file"`
	Download  models.DownloadConfig  `mapstructure:"download"`
	Transcode models.TranscodeConfig `mapstructure:"transcode"`
	Logging   LoggingConfig          `mapstructure:"logging"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		// 使用指定的配置文件
		v.SetConfigFile(configPath)
	} else {
		// 搜索默认位置
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".myreplays"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时直接使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://ver.meureplay.online/")
	v.SetDefault("state_file", "storage_state.json")

	// 下载配置默认值
	v.SetDefault("download.list_url", "")
	v.SetDefault("download.link_selector", "a[href]")
	v.SetDefault("download.filter_regex", models.DefaultFilter)
	v.SetDefault("download.output_dir", "replays")
	v.SetDefault("download.timeout_ms", 45000)
	v.SetDefault("download.wait_after_load_ms", 4000)
	v.SetDefault("download.settle_ms", 5000)
	v.SetDefault("download.headless", true)
	v.SetDefault("download.debug_links", false)

	// 转码配置默认值
	v.SetDefault("transcode.input_dir", "replays")
	v.SetDefault("transcode.output_dir", "replays_trimmed")
	v.SetDefault("transcode.max_seconds", 19.0)
	v.SetDefault("transcode.pattern", "*.mp4")
	v.SetDefault("transcode.recursive", true)
	v.SetDefault("transcode.in_place", false)

	// 日志配置默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}
