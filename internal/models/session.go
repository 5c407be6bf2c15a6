package models

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// SessionState 浏览器会话状态
// 登录命令写入,下载命令只读;对本工具而言是不透明的Cookie集合,
// 站点拒绝时即视为隐式失效(无显式过期检查)
type SessionState struct {
	// BaseURL 登录时的门户基础URL
	BaseURL string `json:"base_url"`

	// SavedAt 会话保存时间
	SavedAt time.Time `json:"saved_at"`

	// Cookies 浏览器导出的完整Cookie列表
	Cookies []*proto.NetworkCookie `json:"cookies"`
}

// Validate 验证会话状态是否可用
func (s *SessionState) Validate() error {
	if len(s.Cookies) == 0 {
		return fmt.Errorf("会话中没有任何Cookie,请重新登录")
	}
	return nil
}

// CookieParams 转换为浏览器SetCookies所需的参数格式
func (s *SessionState) CookieParams() []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: c.SameSite,
			Expires:  c.Expires,
		})
	}
	return params
}

// HTTPCookies 转换为net/http的Cookie格式(用于下载请求)
func (s *SessionState) HTTPCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		cookies = append(cookies, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		})
	}
	return cookies
}

// ToJSON 序列化为JSON
func (s *SessionState) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FromJSON 从JSON反序列化
func (s *SessionState) FromJSON(data []byte) error {
	return json.Unmarshal(data, s)
}
