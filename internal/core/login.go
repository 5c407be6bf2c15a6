package core

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/miltonstrat/myreplays/internal/crawlers"
	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/miltonstrat/myreplays/internal/utils"
)

// loginNavigateTimeout 登录页首次导航的超时
const loginNavigateTimeout = 60 * time.Second

// RunLogin 打开浏览器让用户人工完成登录,确认后导出Cookie
// 写入会话文件。整个流程不采集任何凭据。
// 正常使用时浏览器应当可见,headless仅用于会话已在
// 用户数据目录中的场景。
func RunLogin(baseURL string, sm *SessionManager, prompt *bufio.Reader, headless bool) error {
	if err := crawlers.EnsureBrowser(); err != nil {
		return err
	}

	browser, err := crawlers.Launch(headless)
	if err != nil {
		return err
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return err
	}

	utils.Infof("🌐 正在打开 %s,请在浏览器中完成登录", baseURL)
	if err := crawlers.Navigate(page, baseURL, loginNavigateTimeout); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("请在浏览器窗口中登录账号。")
	fmt.Print("登录完成后回到此终端,按回车保存会话... ")
	if _, err := prompt.ReadString('\n'); err != nil {
		return fmt.Errorf("等待确认失败: %w", err)
	}

	cookies, err := browser.ExportCookies()
	if err != nil {
		return err
	}
	if len(cookies) == 0 {
		return fmt.Errorf("浏览器中没有任何Cookie,登录可能未完成")
	}

	state := &models.SessionState{
		BaseURL: baseURL,
		SavedAt: time.Now(),
		Cookies: cookies,
	}
	if err := sm.Save(state); err != nil {
		return err
	}

	redactor := utils.NewSecretRedactor()
	names := redactor.RedactCookieNames(state.HTTPCookies())
	utils.Debugf("会话Cookie: %s", strings.Join(names, ", "))
	return nil
}

// StdinReader 返回标准输入的读取器
func StdinReader() *bufio.Reader {
	return bufio.NewReader(os.Stdin)
}
