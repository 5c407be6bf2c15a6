package core

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/miltonstrat/myreplays/internal/models"
)

// fakeRunner 模拟转码: 将源内容加上前缀写入目标,按路径触发失败
type fakeRunner struct {
	failOn map[string]bool
	calls  []string
}

func (fr *fakeRunner) Transcode(src, dst string, maxSeconds float64) error {
	fr.calls = append(fr.calls, src)
	if fr.failOn[filepath.Base(src)] {
		return fmt.Errorf("ffmpeg执行失败: 模拟错误")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, append([]byte("trimmed:"), data...), 0644)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestBatchTranscoder_InPlace(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.mp4"), "原始A")
	writeTestFile(t, filepath.Join(dir, "b.mp4"), "原始B")
	writeTestFile(t, filepath.Join(dir, "c.mp4"), "原始C")

	runner := &fakeRunner{failOn: map[string]bool{"b.mp4": true}}
	bt := NewBatchTranscoder(models.TranscodeConfig{
		InputDir:   dir,
		MaxSeconds: 19,
		Pattern:    "*.mp4",
		Recursive:  true,
		InPlace:    true,
	}, runner)

	summary, err := bt.Run()
	if err != nil {
		t.Fatalf("Run() 返回错误: %v", err)
	}

	// 失败文件保持原样,成功文件被替换
	if got := readTestFile(t, filepath.Join(dir, "a.mp4")); got != "trimmed:原始A" {
		t.Errorf("a.mp4 = %q, 期望已替换", got)
	}
	if got := readTestFile(t, filepath.Join(dir, "b.mp4")); got != "原始B" {
		t.Errorf("b.mp4 = %q, 失败时源文件不应被修改", got)
	}
	if got := readTestFile(t, filepath.Join(dir, "c.mp4")); got != "trimmed:原始C" {
		t.Errorf("c.mp4 = %q, 期望已替换", got)
	}

	// 临时文件不应残留
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp.") {
			t.Errorf("残留临时文件: %s", e.Name())
		}
	}

	if summary.Total != 3 || summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("摘要 = %d/%d/%d, 期望 3/2/1", summary.Total, summary.Succeeded, summary.Failed)
	}
	if summary.AllSucceeded() {
		t.Error("有失败时AllSucceeded()应为false")
	}
}

func TestBatchTranscoder_MirrorTree(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "out")
	writeTestFile(t, filepath.Join(input, "top.mp4"), "T")
	writeTestFile(t, filepath.Join(input, "2024_01_02", "deep.mp4"), "D")
	writeTestFile(t, filepath.Join(input, "notes.txt"), "忽略")

	bt := NewBatchTranscoder(models.TranscodeConfig{
		InputDir:   input,
		OutputDir:  output,
		MaxSeconds: 19,
		Pattern:    "*.mp4",
		Recursive:  true,
	}, &fakeRunner{})

	summary, err := bt.Run()
	if err != nil {
		t.Fatalf("Run() 返回错误: %v", err)
	}
	if summary.Total != 2 || summary.Failed != 0 {
		t.Errorf("摘要 = %d/%d, 期望 2个全部成功", summary.Total, summary.Failed)
	}

	// 目录结构被镜像,源文件不变
	if got := readTestFile(t, filepath.Join(output, "top.mp4")); got != "trimmed:T" {
		t.Errorf("镜像输出 = %q", got)
	}
	if got := readTestFile(t, filepath.Join(output, "2024_01_02", "deep.mp4")); got != "trimmed:D" {
		t.Errorf("嵌套镜像输出 = %q", got)
	}
	if got := readTestFile(t, filepath.Join(input, "top.mp4")); got != "T" {
		t.Errorf("镜像模式不应修改源文件, 实际 %q", got)
	}

	// 再次运行结果一致(幂等)
	if _, err := bt.Run(); err != nil {
		t.Fatalf("重复Run()返回错误: %v", err)
	}
	if got := readTestFile(t, filepath.Join(output, "top.mp4")); got != "trimmed:T" {
		t.Errorf("重复运行后输出 = %q", got)
	}
}

func TestBatchTranscoder_EnumerateFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "b.mp4"), "")
	writeTestFile(t, filepath.Join(dir, "a.mp4"), "")
	writeTestFile(t, filepath.Join(dir, "sub", "c.mp4"), "")

	recursive := NewBatchTranscoder(models.TranscodeConfig{
		InputDir: dir, OutputDir: "x", MaxSeconds: 19, Pattern: "*.mp4", Recursive: true,
	}, &fakeRunner{})
	files, err := recursive.EnumerateFiles()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "b.mp4"),
		filepath.Join(dir, "sub", "c.mp4"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("递归枚举 = %v, 期望 %v", files, want)
	}

	flat := NewBatchTranscoder(models.TranscodeConfig{
		InputDir: dir, OutputDir: "x", MaxSeconds: 19, Pattern: "*.mp4", Recursive: false,
	}, &fakeRunner{})
	files, err = flat.EnumerateFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("非递归枚举应只包含顶层文件, 实际 %v", files)
	}
}

func TestBatchTranscoder_MissingInputDir(t *testing.T) {
	bt := NewBatchTranscoder(models.TranscodeConfig{
		InputDir: filepath.Join(t.TempDir(), "不存在"), OutputDir: "x",
		MaxSeconds: 19, Pattern: "*.mp4",
	}, &fakeRunner{})
	if _, err := bt.Run(); err == nil {
		t.Error("输入目录缺失时应返回错误")
	}
}

func TestTailLines(t *testing.T) {
	in := "1\n2\n3\n4\n5\n6\n7\n8"
	if got := tailLines(in, 3); got != "6\n7\n8" {
		t.Errorf("tailLines() = %q", got)
	}
	if got := tailLines("只有一行", 3); got != "只有一行" {
		t.Errorf("tailLines() = %q", got)
	}
}
