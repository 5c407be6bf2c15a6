package core

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/miltonstrat/myreplays/internal/utils"
)

// DefaultUserAgent 默认浏览器标识
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// 头部名称只允许token字符
var headerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9!#$%&'*+\-.^_` + "`" + `|~]+$`)

// 下载器不允许覆盖的头部,由传输层自行管理
var forbiddenHeaders = map[string]struct{}{
	"Host":              {},
	"Content-Length":    {},
	"Transfer-Encoding": {},
	"Connection":        {},
}

// HeaderManager 管理下载请求头部,合并默认值与命令行指定值。
// 命令行头部优先于默认头部。
type HeaderManager struct {
	defaults http.Header
	cli      http.Header
	redactor *utils.SecretRedactor
}

// NewHeaderManager 创建头部管理器,cliHeaders为命令行传入的
// "Name: Value" 形式的头部列表
func NewHeaderManager(cliHeaders []string) (*HeaderManager, error) {
	defaults := http.Header{}
	defaults.Set("User-Agent", DefaultUserAgent)
	defaults.Set("Accept", "*/*")
	defaults.Set("Accept-Encoding", "gzip, deflate, br")

	cli, err := models.CliHeaders(cliHeaders).Parse()
	if err != nil {
		return nil, fmt.Errorf("解析命令行头部失败: %w", err)
	}
	for name := range cli {
		if err := validateHeaderName(name); err != nil {
			return nil, err
		}
	}

	return &HeaderManager{
		defaults: defaults,
		cli:      cli,
		redactor: utils.NewSecretRedactor(),
	}, nil
}

// GetHeaders 返回合并后的头部副本,实现models.HeaderProvider
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	merged := http.Header{}
	for name, values := range hm.defaults {
		merged[name] = append([]string(nil), values...)
	}
	for name, values := range hm.cli {
		merged[name] = append([]string(nil), values...)
	}
	return merged, nil
}

// GetSafeHeaders 返回脱敏后的头部,用于日志输出
func (hm *HeaderManager) GetSafeHeaders() map[string]string {
	merged, _ := hm.GetHeaders()
	return hm.redactor.RedactHeaders(merged)
}

// LogHeaders 以脱敏形式记录当前生效的头部
func (hm *HeaderManager) LogHeaders() {
	for name, value := range hm.GetSafeHeaders() {
		utils.Debugf("请求头部: %s: %s", name, value)
	}
}

func validateHeaderName(name string) error {
	if !headerNamePattern.MatchString(name) {
		return fmt.Errorf("非法的头部名称: %q", name)
	}
	if _, forbidden := forbiddenHeaders[http.CanonicalHeaderKey(name)]; forbidden {
		return fmt.Errorf("头部 %q 由传输层管理,不允许覆盖", name)
	}
	return nil
}
