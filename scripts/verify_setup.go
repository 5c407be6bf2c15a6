package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

func main() {
	fmt.Println("==============================================")
	fmt.Println("  myreplays 环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	// 检查Go版本
	goVersion := runtime.Version()
	fmt.Printf("✅ Go版本: %s\n", goVersion)
	if !strings.HasPrefix(goVersion, "go1.22") &&
		!strings.HasPrefix(goVersion, "go1.23") &&
		!strings.HasPrefix(goVersion, "go1.24") {
		fmt.Println("⚠️  警告: 建议使用Go 1.22+版本")
	}

	// 检查操作系统
	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// 检查浏览器
	if path, has := launcher.LookPath(); has {
		fmt.Printf("✅ 浏览器已安装: %s\n", path)
	} else {
		fmt.Println("❌ 未找到Chrome/Chromium - login和download命令将不可用")
		fmt.Println("   请安装 Google Chrome 或 Chromium")
		allOK = false
	}

	// 检查ffmpeg
	if checkCommand("ffmpeg", "-version") {
		version := getCommandOutput("ffmpeg", "-version")
		if idx := strings.IndexByte(version, '\n'); idx > 0 {
			version = version[:idx]
		}
		fmt.Printf("✅ ffmpeg已安装: %s\n", strings.TrimSpace(version))
	} else {
		fmt.Println("❌ ffmpeg未安装 - trimvideos命令将不可用")
		allOK = false
	}

	// 检查ffprobe
	if checkCommand("ffprobe", "-version") {
		fmt.Println("✅ ffprobe已安装")
	} else {
		fmt.Println("⚠️  ffprobe未安装 - 转码进度统计将不可用")
	}

	// 检查项目依赖
	fmt.Println()
	fmt.Println("检查Go模块依赖...")
	if _, err := os.Stat("go.mod"); err == nil {
		fmt.Println("✅ go.mod文件存在")

		fmt.Println("正在下载依赖...")
		cmd := exec.Command("go", "mod", "download")
		if err := cmd.Run(); err != nil {
			fmt.Printf("❌ go mod download失败: %v\n", err)
			allOK = false
		} else {
			fmt.Println("✅ 依赖下载完成")
		}
	} else {
		fmt.Println("❌ go.mod文件不存在")
		allOK = false
	}

	// 检查项目结构
	fmt.Println()
	fmt.Println("检查项目结构...")
	requiredDirs := []string{
		"cmd/myreplays",
		"cmd/trimvideos",
		"internal/core",
		"internal/crawlers",
		"internal/utils",
		"internal/models",
		"scripts",
	}
	for _, dir := range requiredDirs {
		if _, err := os.Stat(dir); err == nil {
			fmt.Printf("✅ %s/\n", dir)
		} else {
			fmt.Printf("❌ %s/ 不存在\n", dir)
			allOK = false
		}
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 运行 'go build ./cmd/...' 构建项目")
		fmt.Println("  2. 运行 './myreplays login' 保存登录会话")
		fmt.Println("  3. 运行 './myreplays download' 批量下载回放")
		os.Exit(0)
	}
	fmt.Println("❌ 环境验证失败,请解决上述问题。")
	os.Exit(1)
}

// checkCommand 检查命令是否可用
func checkCommand(name string, args ...string) bool {
	return exec.Command(name, args...).Run() == nil
}

// getCommandOutput 获取命令输出
func getCommandOutput(name string, args ...string) string {
	output, err := exec.Command(name, args...).Output()
	if err != nil {
		return ""
	}
	return string(output)
}
