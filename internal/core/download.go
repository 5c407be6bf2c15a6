package core

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/miltonstrat/myreplays/internal/crawlers"
	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/miltonstrat/myreplays/internal/utils"
)

// 解析视频页时的导航超时
const videoPageTimeout = 30 * time.Second

// Downloader 下载协调器: 打开已登录的浏览器会话,采集回放列表
// 中的候选链接,逐个解析并下载到本地。
type Downloader struct {
	baseURL string
	config  models.DownloadConfig

	capture   *crawlers.NetworkCapture
	collector *crawlers.LinkCollector
	fetcher   *Fetcher

	stats   models.DownloadStats
	results []models.LinkResult
}

// NewDownloader 创建下载协调器
func NewDownloader(baseURL string, config models.DownloadConfig, session *models.SessionState, headers models.HeaderProvider) (*Downloader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	pattern, err := config.CompileFilter()
	if err != nil {
		return nil, err
	}

	fetcher, err := NewFetcher(session, headers, time.Duration(config.TimeoutMs)*time.Millisecond)
	if err != nil {
		return nil, err
	}

	return &Downloader{
		baseURL:   baseURL,
		config:    config,
		capture:   crawlers.NewNetworkCapture(pattern),
		collector: crawlers.NewLinkCollector(baseURL, config.LinkSelector),
		fetcher:   fetcher,
	}, nil
}

// Run 执行一次完整的下载批次
func (d *Downloader) Run(session *models.SessionState) error {
	startTime := time.Now()
	utils.Infof("🚀 开始下载批次: %s", d.config.ListURL)

	crawlers.PreflightResources()
	if err := crawlers.EnsureBrowser(); err != nil {
		return err
	}

	browser, err := crawlers.Launch(d.config.Headless)
	if err != nil {
		return err
	}
	defer browser.Close()

	if err := browser.RestoreSession(session); err != nil {
		return err
	}

	page, err := browser.NewPage()
	if err != nil {
		return err
	}

	// 监听器必须在导航前挂载,否则会错过加载期间的响应
	listener := crawlers.NewResponseListener(d.capture, d.baseURL)
	listener.Attach(page)

	if err := crawlers.Navigate(page, d.config.ListURL, time.Duration(d.config.TimeoutMs)*time.Millisecond); err != nil {
		return err
	}
	// 等待动态内容与XHR完成
	time.Sleep(time.Duration(d.config.WaitAfterLoadMs) * time.Millisecond)

	if d.config.DebugLinks {
		d.printDebugReport(page)
		return nil
	}

	pattern, _ := d.config.CompileFilter()
	domLinks := d.collector.CollectFiltered(page, pattern)
	networkLinks := d.capture.URLs()
	d.stats.NetworkURLs = len(networkLinks)

	merged := crawlers.NewURLSet()
	merged.AddAll(domLinks)
	merged.AddAll(networkLinks)
	links := merged.Items()

	utils.Infof("🔍 DOM链接 %d 个, 网络捕获 %d 个, 合并后 %d 个",
		len(domLinks), len(networkLinks), len(links))

	if len(links) == 0 {
		utils.Warn("没有发现任何候选链接,可尝试 --debug-links 模式排查")
		return d.writeReport(session, startTime)
	}

	if err := os.MkdirAll(d.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	d.stats.TotalLinks = len(links)
	bar := utils.NewProgressBar(len(links), "📥 下载回放")
	for idx, link := range links {
		d.processLink(page, idx+1, len(links), link)
		_ = bar.Add(1)
	}
	fmt.Println()

	d.stats.Duration = time.Since(startTime).Seconds()
	utils.Infof("✅ 批次完成: 成功 %d, 跳过 %d, 失败 %d, 总计 %s",
		d.stats.Downloaded, d.stats.Skipped, d.stats.Failed, formatBytes(d.stats.TotalSize))

	return d.writeReport(session, startTime)
}

// processLink 处理单个链接,任何失败只记录,不中断批次
func (d *Downloader) processLink(page *rod.Page, idx, total int, link string) {
	result := models.LinkResult{
		ID:      models.NewID(),
		Index:   idx,
		URL:     link,
		Outcome: models.OutcomePending,
	}

	switch {
	case strings.Contains(link, models.VideoPageMarker):
		resolved, err := d.resolveVideoPage(page, link)
		if err != nil {
			result.Outcome = models.OutcomeError
			result.ErrorMsg = err.Error()
			d.stats.Failed++
			utils.Errorf("❌ [%d/%d] 解析失败 %s: %v", idx, total, link, err)
		} else {
			result.ResolvedURL = resolved
			d.fetchToFile(&result, resolved, idx, total)
		}
	case models.IsMediaURL(link):
		d.fetchToFile(&result, link, idx, total)
	default:
		result.Outcome = models.OutcomeSkipped
		d.stats.Skipped++
		utils.Infof("⏭️ [%d/%d] 跳过非媒体链接 %s", idx, total, link)
	}

	result.FinishedAt = time.Now()
	d.results = append(d.results, result)
}

// resolveVideoPage 导航到视频页,从网络捕获中取第一个媒体URL
func (d *Downloader) resolveVideoPage(page *rod.Page, link string) (string, error) {
	d.capture.ResetMedia()
	if err := crawlers.Navigate(page, link, videoPageTimeout); err != nil {
		return "", err
	}
	time.Sleep(time.Duration(d.config.SettleMs) * time.Millisecond)

	resolved, ok := d.capture.FirstMedia()
	if !ok {
		return "", fmt.Errorf("视频页 %s 没有产生媒体请求", link)
	}
	return resolved, nil
}

// fetchToFile 下载fileURL并写入按日期分目录的输出路径
func (d *Downloader) fetchToFile(result *models.LinkResult, fileURL string, idx, total int) {
	data, err := d.fetcher.Fetch(fileURL)
	if err != nil {
		result.Outcome = models.OutcomeError
		result.ErrorMsg = err.Error()
		d.stats.Failed++
		utils.Errorf("❌ [%d/%d] 下载失败 %s: %v", idx, total, fileURL, err)
		return
	}

	name := FilenameFromURL(fileURL, idx)
	dest := DestinationForName(d.config.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		result.Outcome = models.OutcomeError
		result.ErrorMsg = err.Error()
		d.stats.Failed++
		utils.Errorf("❌ [%d/%d] 创建目录失败 %s: %v", idx, total, dest, err)
		return
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		result.Outcome = models.OutcomeError
		result.ErrorMsg = err.Error()
		d.stats.Failed++
		utils.Errorf("❌ [%d/%d] 写入失败 %s: %v", idx, total, dest, err)
		return
	}

	result.Outcome = models.OutcomeOK
	result.Destination = dest
	result.Size = int64(len(data))
	d.stats.Downloaded++
	d.stats.TotalSize += int64(len(data))
	utils.Infof("✅ [%d/%d] 已保存 %s (%s)", idx, total, dest, formatBytes(int64(len(data))))
}

// printDebugReport 调试模式: 只打印采集结果,不下载
func (d *Downloader) printDebugReport(page *rod.Page) {
	pattern, _ := d.config.CompileFilter()

	fmt.Println("==== 网络捕获的URL ====")
	networkLinks := d.capture.URLs()
	for i, u := range networkLinks {
		fmt.Printf("%3d. %s\n", i+1, u)
	}
	if len(networkLinks) == 0 {
		fmt.Println("(无)")
	}

	fmt.Println("==== DOM候选链接 ====")
	candidates := d.collector.CollectCandidates(page)
	for i, u := range candidates {
		mark := " "
		if pattern.MatchString(u) {
			mark = "*"
		}
		fmt.Printf("%3d.%s %s\n", i+1, mark, u)
	}
	fmt.Println("(* 表示通过过滤正则)")

	if len(candidates) == 0 {
		fmt.Println("==== 深度探测(data属性/video元素) ====")
		for i, u := range d.collector.ProbeMediaElements(page) {
			fmt.Printf("%3d. %s\n", i+1, u)
		}
		fmt.Println("==== 可交互元素采样 ====")
		for _, sample := range d.collector.SampleElements(page) {
			fmt.Println("  " + sample)
		}
	}
}

// writeReport 生成批次报告文件
func (d *Downloader) writeReport(session *models.SessionState, startTime time.Time) error {
	report := &models.DownloadReport{
		TaskID:    models.NewID(),
		BaseURL:   d.baseURL,
		ListURL:   d.config.ListURL,
		StartTime: startTime,
		EndTime:   time.Now(),
		Stats:     d.stats,
		Results:   d.results,
		OutputDir: d.config.OutputDir,
		Config:    d.config,
	}
	reporter := utils.NewReporter(d.config.OutputDir)
	if err := reporter.GenerateDownloadReport(report); err != nil {
		utils.Warnf("生成报告失败: %v", err)
	}
	return nil
}

// FilenameFromURL 从URL路径提取文件名,路径为空时使用批次内
// 序号构造兜底文件名
func FilenameFromURL(fileURL string, idx int) string {
	if parsed, err := url.Parse(fileURL); err == nil {
		if name := path.Base(parsed.Path); name != "" && name != "." && name != "/" {
			return name
		}
	}
	return fmt.Sprintf(models.FallbackNamePattern, idx)
}

// DestinationForName 计算输出路径: 文件名含YYYY_MM_DD日期片段时
// 写入同名日期子目录,否则直接放在输出目录下
func DestinationForName(outputDir, name string) string {
	if m := models.DateInFilename.FindStringSubmatch(name); m != nil {
		return filepath.Join(outputDir, m[1], name)
	}
	return filepath.Join(outputDir, name)
}

// formatBytes 人类可读的字节数
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(n)/float64(div), "KMGTPE"[exp])
}
