package core

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/miltonstrat/myreplays/internal/models"
)

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		name    string
		fileURL string
		idx     int
		want    string
	}{
		{"路径末段作为文件名", "https://cdn.x.com/v/replay_2024_05_01.mp4?t=9", 1, "replay_2024_05_01.mp4"},
		{"根路径使用兜底名", "https://cdn.x.com/", 3, "replay_3.bin"},
		{"无路径使用兜底名", "https://cdn.x.com", 7, "replay_7.bin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilenameFromURL(tt.fileURL, tt.idx); got != tt.want {
				t.Errorf("FilenameFromURL() = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

func TestDestinationForName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"带日期的文件进入日期子目录", "match_2024_05_01_final.mp4", filepath.Join("out", "2024_05_01", "match_2024_05_01_final.mp4")},
		{"无日期的文件放在根目录", "clip.mp4", filepath.Join("out", "clip.mp4")},
		{"取第一个日期片段", "a_2023_01_02_b_2024_03_04.mp4", filepath.Join("out", "2023_01_02", "a_2023_01_02_b_2024_03_04.mp4")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DestinationForName("out", tt.fileName); got != tt.want {
				t.Errorf("DestinationForName() = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

// 单个链接失败不应中断批次,结果逐条记录
func TestDownloader_ProcessLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good_2024_06_01.mp4":
			_, _ = w.Write([]byte("内容"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	outputDir := t.TempDir()
	hm, err := NewHeaderManager(nil)
	if err != nil {
		t.Fatal(err)
	}
	state := &models.SessionState{BaseURL: server.URL, SavedAt: time.Now()}
	d, err := NewDownloader(server.URL, models.DownloadConfig{
		ListURL:         server.URL + "/list",
		LinkSelector:    "a[href]",
		FilterRegex:     models.DefaultFilter,
		OutputDir:       outputDir,
		TimeoutMs:       10000,
		WaitAfterLoadMs: 0,
		SettleMs:        0,
	}, state, hm)
	if err != nil {
		t.Fatal(err)
	}

	links := []string{
		server.URL + "/missing.mp4",       // 404,记录为失败
		server.URL + "/good_2024_06_01.mp4", // 成功
		server.URL + "/about",             // 非媒体,跳过
	}
	for idx, link := range links {
		d.processLink(nil, idx+1, len(links), link)
	}

	if d.stats.Failed != 1 || d.stats.Downloaded != 1 || d.stats.Skipped != 1 {
		t.Errorf("统计 = 失败%d/成功%d/跳过%d, 期望 1/1/1",
			d.stats.Failed, d.stats.Downloaded, d.stats.Skipped)
	}
	if len(d.results) != 3 {
		t.Fatalf("结果数 = %d, 期望 3", len(d.results))
	}
	if d.results[0].Outcome != models.OutcomeError || d.results[0].ErrorMsg == "" {
		t.Errorf("第一个链接应记录为失败: %+v", d.results[0])
	}
	if d.results[1].Outcome != models.OutcomeOK {
		t.Errorf("第二个链接应成功: %+v", d.results[1])
	}
	if d.results[2].Outcome != models.OutcomeSkipped {
		t.Errorf("第三个链接应跳过: %+v", d.results[2])
	}

	// 带日期的文件落入日期子目录
	saved := filepath.Join(outputDir, "2024_06_01", "good_2024_06_01.mp4")
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("下载文件未写入 %s: %v", saved, err)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(512); got != "512B" {
		t.Errorf("formatBytes(512) = %q", got)
	}
	if got := formatBytes(1536); got != "1.5KB" {
		t.Errorf("formatBytes(1536) = %q", got)
	}
	if got := formatBytes(3 * 1024 * 1024); got != "3.0MB" {
		t.Errorf("formatBytes() = %q", got)
	}
}
