package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

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
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string
	baseURL    string
	stateFile  string
	headers    []string

	// 加载后的配置,在PersistentPreRunE中填充
	appConfig *core.Config

	// 下载参数
	listURL         string
	linkSelector    string
	filterRegex     string
	outputDir       string
	timeoutMs       int
	waitAfterLoadMs int
	settleMs        int
	headless        bool
	debugLinks      bool
)

var rootCmd = &cobra.Command{
	Use:   "myreplays",
	Short: "回放站点的会话登录与批量下载工具",
	Long: `myreplays - 回放站点的会话登录与批量下载工具

工作流程分两步:
  1. myreplays login      打开浏览器人工登录,保存会话Cookie
  2. myreplays download   复用会话打开回放列表,采集并批量下载

下载阶段同时采集DOM链接(含同源iframe)与网络响应中的链接,
videoPage链接会先导航解析出真实媒体地址再下载。

使用示例:
  myreplays login
  myreplays download --list-url https://ver.meureplay.online/replays
  myreplays download --debug-links   # 排查采集不到链接的情况
  myreplays download -H "Referer: https://ver.meureplay.online/"

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 初始化日志系统
		logConfig := utils.LogConfig{
			Level:      config.Logging.Level,
			LogDir:     config.Logging.LogDir,
			MaxSize:    config.Logging.Rotation.MaxSize,
			MaxBackups: config.Logging.Rotation.MaxBackups,
			MaxAge:     config.Logging.Rotation.MaxAge,
			Compress:   config.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose && logLevel == "" {
			logConfig.Level = "debug"
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if baseURL == "" {
			baseURL = config.BaseURL
		}
		if stateFile == "" {
			stateFile = config.StateFile
		}

		appConfig = config
		return nil
	},
}

var loginHeadless bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "打开浏览器人工登录并保存会话",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := models.ValidateURL(baseURL); err != nil {
			return fmt.Errorf("无效的站点地址: %w", err)
		}
		sm := core.NewSessionManager(stateFile)
		return core.RunLogin(baseURL, sm, core.StdinReader(), loginHeadless)
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "复用已保存的会话,采集并批量下载回放",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 设置信号处理(Ctrl+C退出)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			utils.Warnf("\n收到中断信号: %v, 正在退出...", sig)
			os.Exit(1)
		}()

		config := mergeDownloadFlags(cmd, appConfig.Download)

		if err := ValidateFlags(baseURL, config); err != nil {
			return err
		}

		sm := core.NewSessionManager(stateFile)
		if !sm.Exists() {
			return fmt.Errorf("会话文件 %s 不存在,请先运行: myreplays login", stateFile)
		}
		session, err := sm.Load()
		if err != nil {
			return err
		}

		headerManager, err := core.NewHeaderManager(headers)
		if err != nil {
			return err
		}
		headerManager.LogHeaders()

		downloader, err := core.NewDownloader(baseURL, config, session, headerManager)
		if err != nil {
			return fmt.Errorf("创建下载器失败: %w", err)
		}
		if err := downloader.Run(session); err != nil {
			return fmt.Errorf("下载批次失败: %w", err)
		}

		utils.Info("✨ 下载任务完成!")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("myreplays %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

// mergeDownloadFlags 合并配置文件与命令行参数,命令行优先
func mergeDownloadFlags(cmd *cobra.Command, config models.DownloadConfig) models.DownloadConfig {
	flagSet := cmd.Flags()
	if flagSet.Changed("list-url") {
		config.ListURL = listURL
	}
	if config.ListURL == "" {
		config.ListURL = baseURL
	}
	if flagSet.Changed("link-selector") {
		config.LinkSelector = linkSelector
	}
	if flagSet.Changed("filter-regex") {
		config.FilterRegex = filterRegex
	}
	if flagSet.Changed("output-dir") {
		config.OutputDir = outputDir
	}
	if flagSet.Changed("timeout-ms") {
		config.TimeoutMs = timeoutMs
	}
	if flagSet.Changed("wait-after-load-ms") {
		config.WaitAfterLoadMs = waitAfterLoadMs
	}
	if flagSet.Changed("settle-ms") {
		config.SettleMs = settleMs
	}
	if flagSet.Changed("headless") {
		config.Headless = headless
	}
	if debugLinks {
		config.DebugLinks = true
	}
	return config
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "站点根地址")
	rootCmd.PersistentFlags().StringVar(&stateFile, "state", "", "会话文件路径")
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")

	// 登录参数
	loginCmd.Flags().BoolVar(&loginHeadless, "headless", false, "无头模式打开登录页(通常应保持可见)")

	// 下载参数
	downloadCmd.Flags().StringVar(&listURL, "list-url", "", "回放列表页地址(默认为站点根地址)")
	downloadCmd.Flags().StringVar(&linkSelector, "link-selector", "a[href]", "链接采集的CSS选择器")
	downloadCmd.Flags().StringVar(&filterRegex, "filter-regex", models.DefaultFilter, "候选链接过滤正则(不区分大小写)")
	downloadCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "replays", "下载输出目录")
	downloadCmd.Flags().IntVar(&timeoutMs, "timeout-ms", 45000, "页面与下载超时(毫秒)")
	downloadCmd.Flags().IntVar(&waitAfterLoadMs, "wait-after-load-ms", 4000, "页面加载后等待动态内容的时间(毫秒)")
	downloadCmd.Flags().IntVar(&settleMs, "settle-ms", 5000, "视频页解析时的等待时间(毫秒)")
	downloadCmd.Flags().BoolVar(&headless, "headless", true, "无头浏览器模式")
	downloadCmd.Flags().BoolVar(&debugLinks, "debug-links", false, "只打印采集到的链接与元素采样,不下载")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
