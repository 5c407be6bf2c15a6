package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Reporter 报告生成器
// 在输出目录下写入本次运行的JSON报告
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	return &Reporter{
		outputDir: outputDir,
	}
}

// GenerateDownloadReport 生成下载批次报告
func (r *Reporter) GenerateDownloadReport(report *models.DownloadReport) error {
	reportsDir := filepath.Join(r.outputDir, "reports")
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	if err := r.saveJSONReport(reportsDir, "download_report.json", report); err != nil {
		return err
	}

	// 失败的链接单独导出一份,方便排查
	failed := make([]models.LinkResult, 0)
	for _, result := range report.Results {
		if result.Outcome == models.OutcomeError {
			failed = append(failed, result)
		}
	}
	if err := r.saveJSONReport(reportsDir, "failed_links.json", failed); err != nil {
		return err
	}

	Infof("✅ 报告已生成: %s", reportsDir)
	return nil
}

// GenerateTranscodeReport 生成批量转码报告
func (r *Reporter) GenerateTranscodeReport(summary *models.TranscodeSummary) error {
	reportsDir := filepath.Join(r.outputDir, "reports")
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	if err := r.saveJSONReport(reportsDir, "transcode_report.json", summary); err != nil {
		return err
	}

	Infof("✅ 报告已生成: %s", reportsDir)
	return nil
}

// saveJSONReport 保存JSON报告
func (r *Reporter) saveJSONReport(dir string, filename string, data interface{}) error {
	path := filepath.Join(dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", path)
	return nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
