package core

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"

	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/miltonstrat/myreplays/internal/utils"
)

// Fetcher 携带登录会话Cookie的认证下载器。
// 内部复用同一个采集器,调用方必须串行使用。
type Fetcher struct {
	collector *colly.Collector
	headers   models.HeaderProvider

	lastBody   []byte
	lastStatus int
	lastErr    error
}

// NewFetcher 创建下载器并注入会话Cookie。
// Cookie的作用域由其自身的Domain/Path属性决定。
func NewFetcher(state *models.SessionState, headers models.HeaderProvider, timeout time.Duration) (*Fetcher, error) {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("创建Cookie存储失败: %w", err)
	}
	c.SetClient(&http.Client{
		Jar: jar,
		Transport: &http.Transport{
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
			MaxIdleConnsPerHost: 4,
		},
	})
	c.SetRequestTimeout(timeout)

	cookies := state.HTTPCookies()
	if len(cookies) > 0 {
		if err := c.SetCookies(state.BaseURL, cookies); err != nil {
			return nil, fmt.Errorf("注入会话Cookie失败: %w", err)
		}
	}

	f := &Fetcher{collector: c, headers: headers}

	c.OnRequest(func(r *colly.Request) {
		merged, err := headers.GetHeaders()
		if err != nil {
			utils.Debugf("获取请求头部失败: %v", err)
			return
		}
		for name, values := range merged {
			for _, v := range values {
				r.Headers.Set(name, v)
			}
		}
	})

	c.OnResponse(func(r *colly.Response) {
		f.lastStatus = r.StatusCode
		body, err := decompressResponse(r)
		if err != nil {
			f.lastErr = fmt.Errorf("解压响应失败: %w", err)
			return
		}
		f.lastBody = body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			f.lastStatus = r.StatusCode
			f.lastErr = fmt.Errorf("HTTP %d: %w", r.StatusCode, err)
			return
		}
		f.lastErr = err
	})

	return f, nil
}

// Fetch 下载目标URL的完整内容,非2xx状态码视为失败
func (f *Fetcher) Fetch(targetURL string) ([]byte, error) {
	f.lastBody = nil
	f.lastStatus = 0
	f.lastErr = nil

	if err := f.collector.Visit(targetURL); err != nil {
		if f.lastErr != nil {
			return nil, f.lastErr
		}
		return nil, fmt.Errorf("请求 %s 失败: %w", targetURL, err)
	}
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	if f.lastBody == nil {
		return nil, fmt.Errorf("请求 %s 没有返回响应体", targetURL)
	}
	return f.lastBody, nil
}

// decompressResponse 根据Content-Encoding手动解压响应体。
// Accept-Encoding由头部显式声明,传输层不会自动解压。
func decompressResponse(r *colly.Response) ([]byte, error) {
	encoding := ""
	if r.Headers != nil {
		encoding = strings.ToLower(strings.TrimSpace(r.Headers.Get("Content-Encoding")))
	}

	switch encoding {
	case "", "identity":
		return r.Body, nil
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(r.Body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	case "deflate":
		reader := flate.NewReader(bytes.NewReader(r.Body))
		defer reader.Close()
		return io.ReadAll(reader)
	case "br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(r.Body)))
	default:
		utils.Debugf("未知的Content-Encoding: %q,按原样返回", encoding)
		return r.Body, nil
	}
}
