package crawlers

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/miltonstrat/myreplays/internal/utils"
)

// Browser 封装浏览器实例的生命周期与会话恢复
type Browser struct {
	browser  *rod.Browser
	lc       *launcher.Launcher
	headless bool
}

// EnsureBrowser 检查本机是否存在可用的Chrome/Chromium,
// 缺失时返回带安装指引的错误
func EnsureBrowser() error {
	if path, has := launcher.LookPath(); has {
		utils.Debugf("检测到浏览器: %s", path)
		return nil
	}
	return fmt.Errorf("未找到Chrome/Chromium浏览器,请先安装 Google Chrome 或 Chromium 后重试")
}

// Launch 启动浏览器并建立控制连接
func Launch(headless bool) (*Browser, error) {
	lc := launcher.New().
		Headless(headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("ignore-certificate-errors")

	controlURL, err := lc.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		lc.Cleanup()
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	utils.Infof("🚀 浏览器已启动 (headless=%v)", headless)
	return &Browser{browser: browser, lc: lc, headless: headless}, nil
}

// RestoreSession 将保存的会话Cookie写入浏览器
func (b *Browser) RestoreSession(state *models.SessionState) error {
	params := state.CookieParams()
	if len(params) == 0 {
		return fmt.Errorf("会话中没有可恢复的Cookie")
	}
	if err := b.browser.SetCookies(params); err != nil {
		return fmt.Errorf("恢复会话Cookie失败: %w", err)
	}
	utils.Infof("✅ 已恢复 %d 个会话Cookie", len(params))
	return nil
}

// ExportCookies 导出浏览器当前全部Cookie
func (b *Browser) ExportCookies() ([]*proto.NetworkCookie, error) {
	cookies, err := b.browser.GetCookies()
	if err != nil {
		return nil, fmt.Errorf("导出Cookie失败: %w", err)
	}
	return cookies, nil
}

// NewPage 打开一个新标签页
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("创建页面失败: %w", err)
	}
	return page, nil
}

// Navigate 带超时导航到目标URL并等待加载完成
func Navigate(page *rod.Page, targetURL string, timeout time.Duration) error {
	p := page.Timeout(timeout)
	if err := p.Navigate(targetURL); err != nil {
		return fmt.Errorf("导航到 %s 失败: %w", targetURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		// 部分站点load事件迟迟不触发,记录后继续走固定等待
		utils.Debugf("等待页面加载超时 %s: %v", targetURL, err)
	}
	return nil
}

// Close 关闭浏览器并清理临时数据目录
func (b *Browser) Close() {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			utils.Debugf("关闭浏览器失败: %v", err)
		}
	}
	if b.lc != nil {
		b.lc.Cleanup()
	}
	utils.Info("浏览器已关闭")
}
