package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miltonstrat/myreplays/internal/core"
	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/miltonstrat/myreplays/internal/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	configFile string
	logLevel   string

	inputDir    string
	outputDir   string
	maxSeconds  float64
	pattern     string
	recursive   bool
	noRecursive bool
	inPlace     bool
	ffmpegPath  string
	ffprobePath string
)

var rootCmd = &cobra.Command{
	Use:   "trimvideos",
	Short: "批量去音轨并截断视频时长",
	Long: `trimvideos - 批量视频处理工具

对输入目录中匹配的视频逐个调用ffmpeg: 去除音轨,截断到指定
时长,输出H.264编码、moov前置的mp4。默认写入镜像目录结构的
输出目录,--in-place 模式原子替换源文件。

单个文件失败不中断批次,批次中有任何失败时进程以非零码退出。

使用示例:
  trimvideos --input-dir replays
  trimvideos --input-dir replays --in-place --max-seconds 19
  trimvideos --input-dir clips --pattern "*.webm" --no-recursive

版本: ` + Version,
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		appConfig, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		logConfig := utils.LogConfig{
			Level:      appConfig.Logging.Level,
			LogDir:     appConfig.Logging.LogDir,
			MaxSize:    appConfig.Logging.Rotation.MaxSize,
			MaxBackups: appConfig.Logging.Rotation.MaxBackups,
			MaxAge:     appConfig.Logging.Rotation.MaxAge,
			Compress:   appConfig.Logging.Rotation.Compress,
		}
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		config := mergeTranscodeFlags(cmd, appConfig.Transcode)
		if err := config.Validate(); err != nil {
			return err
		}

		runner, err := core.NewFFmpegRunner(config)
		if err != nil {
			return err
		}

		summary, err := core.NewBatchTranscoder(config, runner).Run()
		if err != nil {
			return err
		}

		reporter := utils.NewReporter(reportDir(config))
		if err := reporter.GenerateTranscodeReport(summary); err != nil {
			utils.Warnf("生成报告失败: %v", err)
		}

		if !summary.AllSucceeded() {
			return fmt.Errorf("批次中有 %d/%d 个文件处理失败", summary.Failed, summary.Total)
		}
		return nil
	},
}

// reportDir 报告写入位置: 原地模式用输入目录,否则用输出目录
func reportDir(config models.TranscodeConfig) string {
	if config.InPlace {
		return config.InputDir
	}
	return config.OutputDir
}

// mergeTranscodeFlags 合并配置文件与命令行参数,命令行优先
func mergeTranscodeFlags(cmd *cobra.Command, config models.TranscodeConfig) models.TranscodeConfig {
	flagSet := cmd.Flags()
	if flagSet.Changed("input-dir") {
		config.InputDir = inputDir
	}
	if flagSet.Changed("output-dir") {
		config.OutputDir = outputDir
	}
	if flagSet.Changed("max-seconds") {
		config.MaxSeconds = maxSeconds
	}
	if flagSet.Changed("pattern") {
		config.Pattern = pattern
	}
	if flagSet.Changed("recursive") {
		config.Recursive = recursive
	}
	if noRecursive {
		config.Recursive = false
	}
	if flagSet.Changed("in-place") {
		config.InPlace = inPlace
	}
	if flagSet.Changed("ffmpeg-path") {
		config.FFmpegPath = ffmpegPath
	}
	if flagSet.Changed("ffprobe-path") {
		config.FFprobePath = ffprobePath
	}
	return config
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	rootCmd.Flags().StringVarP(&inputDir, "input-dir", "i", "replays", "输入目录")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "replays_trimmed", "输出目录(镜像模式)")
	rootCmd.Flags().Float64Var(&maxSeconds, "max-seconds", 19, "截断时长上限(秒)")
	rootCmd.Flags().StringVar(&pattern, "pattern", "*.mp4", "文件名匹配模式")
	rootCmd.Flags().BoolVar(&recursive, "recursive", true, "递归处理子目录")
	rootCmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "只处理输入目录的顶层文件")
	rootCmd.Flags().BoolVar(&inPlace, "in-place", false, "原子替换源文件,不写输出目录")
	rootCmd.Flags().StringVar(&ffmpegPath, "ffmpeg-path", "", "ffmpeg二进制路径(默认在PATH中查找)")
	rootCmd.Flags().StringVar(&ffprobePath, "ffprobe-path", "", "ffprobe二进制路径(默认在PATH中查找)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
