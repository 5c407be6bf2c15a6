package core

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/floostack/transcoder/ffmpeg"

	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/miltonstrat/myreplays/internal/utils"
)

// 原地模式的中间文件后缀,转码成功后重命名覆盖源文件
const inPlaceTempSuffix = ".tmp.muted_trimmed.mp4"

// TranscodeRunner 执行单个文件的转码
type TranscodeRunner interface {
	Transcode(src, dst string, maxSeconds float64) error
}

// FFmpegRunner 基于ffmpeg的转码执行器: 去除音轨,截断时长,
// 输出H.264/faststart的mp4
type FFmpegRunner struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpegRunner 创建执行器,二进制路径为空时在PATH中查找。
// 找不到ffmpeg直接返回错误,整个批次无法进行。
func NewFFmpegRunner(cfg models.TranscodeConfig) (*FFmpegRunner, error) {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		found, err := exec.LookPath("ffmpeg")
		if err != nil {
			return nil, fmt.Errorf("未找到ffmpeg,请先安装并确保其在PATH中: %w", err)
		}
		ffmpegPath = found
	}
	ffprobePath := cfg.FFprobePath
	if ffprobePath == "" {
		// ffprobe仅用于进度统计,缺失不致命
		if found, err := exec.LookPath("ffprobe"); err == nil {
			ffprobePath = found
		}
	}
	return &FFmpegRunner{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}, nil
}

// Transcode 同步执行一次转码,失败时错误信息包含ffmpeg的输出尾部
func (r *FFmpegRunner) Transcode(src, dst string, maxSeconds float64) error {
	cfg := &ffmpeg.Config{
		FfmpegBinPath:   r.ffmpegPath,
		FfprobeBinPath:  r.ffprobePath,
		ProgressEnabled: false,
	}

	duration := strconv.FormatFloat(maxSeconds, 'f', -1, 64)
	videoCodec := "libx264"
	preset := "veryfast"
	crf := uint32(23)
	movFlags := "+faststart"
	skipAudio := true
	overwrite := true

	opts := ffmpeg.Options{
		Duration:   &duration,
		SkipAudio:  &skipAudio,
		VideoCodec: &videoCodec,
		Preset:     &preset,
		Crf:        &crf,
		MovFlags:   &movFlags,
		Overwrite:  &overwrite,
	}

	_, err := ffmpeg.New(cfg).Input(src).Output(dst).Start(opts)
	if err != nil {
		return fmt.Errorf("ffmpeg执行失败: %s", tailLines(err.Error(), 6))
	}
	return nil
}

// BatchTranscoder 批量转码器,串行处理枚举到的每个文件
type BatchTranscoder struct {
	config models.TranscodeConfig
	runner TranscodeRunner
}

// NewBatchTranscoder 创建批量转码器
func NewBatchTranscoder(config models.TranscodeConfig, runner TranscodeRunner) *BatchTranscoder {
	return &BatchTranscoder{config: config, runner: runner}
}

// EnumerateFiles 按配置枚举待处理文件,结果按路径排序保证
// 处理顺序确定
func (bt *BatchTranscoder) EnumerateFiles() ([]string, error) {
	var files []string

	if bt.config.Recursive {
		err := filepath.WalkDir(bt.config.InputDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			matched, err := filepath.Match(bt.config.Pattern, d.Name())
			if err != nil {
				return fmt.Errorf("文件模式无效 %q: %w", bt.config.Pattern, err)
			}
			if matched {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("遍历输入目录失败: %w", err)
		}
	} else {
		matches, err := filepath.Glob(filepath.Join(bt.config.InputDir, bt.config.Pattern))
		if err != nil {
			return nil, fmt.Errorf("文件模式无效 %q: %w", bt.config.Pattern, err)
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// Run 执行整个批次,单个文件失败不中断后续处理
func (bt *BatchTranscoder) Run() (*models.TranscodeSummary, error) {
	if err := bt.config.Validate(); err != nil {
		return nil, err
	}
	info, err := os.Stat(bt.config.InputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("输入目录不存在: %s", bt.config.InputDir)
	}

	files, err := bt.EnumerateFiles()
	if err != nil {
		return nil, err
	}

	summary := &models.TranscodeSummary{
		InputDir: bt.config.InputDir,
		InPlace:  bt.config.InPlace,
		Total:    len(files),
	}
	if !bt.config.InPlace {
		summary.OutputDir = bt.config.OutputDir
		if err := os.MkdirAll(bt.config.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}

	if len(files) == 0 {
		utils.Infof("输入目录 %s 中没有匹配 %q 的文件", bt.config.InputDir, bt.config.Pattern)
		return summary, nil
	}

	utils.Infof("🎬 开始批量转码: %d 个文件, 截断至 %.1f 秒", len(files), bt.config.MaxSeconds)
	bar := utils.NewProgressBar(len(files), "🎬 转码")
	for idx, src := range files {
		result := bt.processFile(idx+1, len(files), src)
		summary.Results = append(summary.Results, result)
		if result.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		_ = bar.Add(1)
	}
	fmt.Println()

	utils.Infof("✅ 转码完成: 成功 %d, 失败 %d", summary.Succeeded, summary.Failed)
	return summary, nil
}

// processFile 处理单个文件。原地模式先写临时文件,成功后
// 原子替换源文件,失败时源文件保持原样。
func (bt *BatchTranscoder) processFile(idx, total int, src string) models.TranscodeResult {
	start := time.Now()
	result := models.TranscodeResult{Source: src}

	fail := func(err error) models.TranscodeResult {
		result.Success = false
		result.ErrorMsg = err.Error()
		result.Duration = time.Since(start).Seconds()
		utils.Errorf("❌ [%d/%d] %s: %v", idx, total, src, err)
		return result
	}

	if bt.config.InPlace {
		tmp := strings.TrimSuffix(src, filepath.Ext(src)) + inPlaceTempSuffix
		if err := bt.runner.Transcode(src, tmp, bt.config.MaxSeconds); err != nil {
			_ = os.Remove(tmp)
			return fail(err)
		}
		if err := os.Rename(tmp, src); err != nil {
			_ = os.Remove(tmp)
			return fail(fmt.Errorf("替换源文件失败: %w", err))
		}
		result.Destination = src
	} else {
		rel, err := filepath.Rel(bt.config.InputDir, src)
		if err != nil {
			return fail(fmt.Errorf("计算相对路径失败: %w", err))
		}
		dst := filepath.Join(bt.config.OutputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fail(fmt.Errorf("创建输出子目录失败: %w", err))
		}
		if err := bt.runner.Transcode(src, dst, bt.config.MaxSeconds); err != nil {
			return fail(err)
		}
		result.Destination = dst
	}

	result.Success = true
	result.Duration = time.Since(start).Seconds()
	utils.Infof("✅ [%d/%d] %s (%.1fs)", idx, total, result.Destination, result.Duration)
	return result
}

// tailLines 返回文本的最后n行,用于压缩冗长的ffmpeg输出
func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
