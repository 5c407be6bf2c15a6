package utils

import (
	"net/http"
	"strings"
)

// SensitiveKeywords 敏感名称关键字(头部名或Cookie名命中即脱敏)
var SensitiveKeywords = []string{
	"authorization",
	"token",
	"session",
	"cookie",
	"key",
	"secret",
	"password",
	"credential",
}

// SecretRedactor 日志脱敏器
// 会话Cookie和认证头部的值不允许以明文进入日志
type SecretRedactor struct {
	sensitiveKeywords []string
}

// NewSecretRedactor 创建脱敏器
func NewSecretRedactor() *SecretRedactor {
	return &SecretRedactor{
		sensitiveKeywords: SensitiveKeywords,
	}
}

// IsSensitive 检查名称是否敏感
func (sr *SecretRedactor) IsSensitive(name string) bool {
	nameLower := strings.ToLower(name)
	for _, keyword := range sr.sensitiveKeywords {
		if strings.Contains(nameLower, keyword) {
			return true
		}
	}
	return false
}

// RedactValue 脱敏单个值
// 长值保留前4位+后4位,短值完全隐藏
func (sr *SecretRedactor) RedactValue(name, value string) string {
	if !sr.IsSensitive(name) {
		return value
	}

	if strings.HasPrefix(value, "Bearer ") {
		return "Bearer ***"
	}

	if len(value) > 8 {
		return value[:4] + "***" + value[len(value)-4:]
	}

	return "***"
}

// RedactHeaders 脱敏http.Header,返回可安全写入日志的map
func (sr *SecretRedactor) RedactHeaders(headers http.Header) map[string]string {
	result := make(map[string]string)
	for name, values := range headers {
		if len(values) == 0 {
			continue
		}
		result[name] = sr.RedactValue(name, values[0])
	}
	return result
}

// RedactCookieNames 返回Cookie名称列表(不含值),用于日志
func (sr *SecretRedactor) RedactCookieNames(cookies []*http.Cookie) []string {
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	return names
}
