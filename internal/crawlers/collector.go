package crawlers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
	"golang.org/x/net/html"

	"github.com/miltonstrat/myreplays/internal/utils"
)

// dataLinkAttrs 可能承载下载地址的data属性,按优先级排列
var dataLinkAttrs = []string{"data-href", "data-url", "data-src"}

// hrefCollectScript 在页面上下文中按选择器收集href属性
const hrefCollectScript = `(sel) => {
	try {
		return Array.from(document.querySelectorAll(sel))
			.map((el) => el.getAttribute('href'))
			.filter(Boolean);
	} catch (e) {
		return [];
	}
}`

// sampleElementsScript 采样页面中可交互元素的标签与属性,供调试输出
const sampleElementsScript = `() => {
	const picked = document.querySelectorAll('a, button, [role="button"], [onclick], [data-href], [data-url]');
	return Array.from(picked).slice(0, 30).map((el) => {
		const attrs = Array.from(el.attributes)
			.map((a) => a.name + '="' + a.value.slice(0, 120) + '"')
			.join(' ');
		return '<' + el.tagName.toLowerCase() + (attrs ? ' ' + attrs : '') + '>';
	});
}`

// LinkCollector 从主文档与同源iframe中收集候选链接
type LinkCollector struct {
	baseURL  string
	selector string
}

// NewLinkCollector 创建收集器,selector为CSS选择器(如 a[href])
func NewLinkCollector(baseURL, selector string) *LinkCollector {
	return &LinkCollector{baseURL: baseURL, selector: selector}
}

// CollectCandidates 收集主文档与全部可进入iframe的链接并集,
// 结果已规范化为绝对URL并按首次出现顺序去重。
// 单个目标的失败只降级为调试日志,不影响其余目标。
func (lc *LinkCollector) CollectCandidates(page *rod.Page) []string {
	set := NewURLSet()

	urls, err := lc.collectFromTarget(page)
	if err != nil {
		utils.Debugf("主文档链接收集失败: %v", err)
	}
	set.AddAll(urls)

	frames, err := page.Elements("iframe")
	if err != nil {
		utils.Debugf("枚举iframe失败: %v", err)
		return set.Items()
	}
	for idx, el := range frames {
		frame, err := el.Frame()
		if err != nil {
			utils.Debugf("无法进入iframe #%d(可能跨域): %v", idx, err)
			continue
		}
		urls, err := lc.collectFromTarget(frame)
		if err != nil {
			utils.Debugf("iframe #%d 链接收集失败: %v", idx, err)
			continue
		}
		set.AddAll(urls)
	}
	return set.Items()
}

// CollectFiltered 收集候选链接并应用过滤正则
func (lc *LinkCollector) CollectFiltered(page *rod.Page, pattern *regexp.Regexp) []string {
	return FilterURLs(lc.CollectCandidates(page), pattern)
}

// collectFromTarget 从单个页面或iframe收集href与data属性链接
func (lc *LinkCollector) collectFromTarget(target *rod.Page) ([]string, error) {
	result, err := target.Evaluate(rod.Eval(hrefCollectScript, lc.selector))
	if err != nil {
		return nil, fmt.Errorf("执行链接收集脚本失败: %w", err)
	}
	var hrefs []string
	for _, item := range result.Value.Arr() {
		hrefs = append(hrefs, item.Str())
	}

	// data属性探测为尽力而为,失败不影响href结果
	htmlStr, err := target.HTML()
	if err != nil {
		utils.Debugf("读取目标HTML失败: %v", err)
		return NormalizeURLs(lc.baseURL, hrefs), nil
	}
	hrefs = append(hrefs, ExtractDataAttrURLs(htmlStr)...)
	return NormalizeURLs(lc.baseURL, hrefs), nil
}

// SampleElements 采样页面中的可交互元素,调试模式下帮助
// 排查选择器与过滤正则为何没有命中
func (lc *LinkCollector) SampleElements(page *rod.Page) []string {
	result, err := page.Evaluate(rod.Eval(sampleElementsScript))
	if err != nil {
		utils.Debugf("元素采样失败: %v", err)
		return nil
	}
	var samples []string
	for _, item := range result.Value.Arr() {
		samples = append(samples, item.Str())
	}
	return samples
}

// ProbeMediaElements 解析页面HTML,提取video/source元素的src
// 及data属性中的地址,用于调试模式的深度探测
func (lc *LinkCollector) ProbeMediaElements(page *rod.Page) []string {
	htmlStr, err := page.HTML()
	if err != nil {
		utils.Debugf("读取页面HTML失败: %v", err)
		return nil
	}
	raw := append(ExtractDataAttrURLs(htmlStr), ExtractMediaSrcURLs(htmlStr)...)
	return NormalizeURLs(lc.baseURL, raw)
}

// ExtractDataAttrURLs 解析HTML,收集任意元素上data-href/data-url/data-src
// 属性的取值(每个元素取第一个存在的属性)
func ExtractDataAttrURLs(htmlStr string) []string {
	return extractAttrValues(htmlStr, func(n *html.Node) (string, bool) {
		for _, attrName := range dataLinkAttrs {
			if v, ok := nodeAttr(n, attrName); ok && v != "" {
				return v, true
			}
		}
		return "", false
	})
}

// ExtractMediaSrcURLs 解析HTML,收集video与source元素的src属性
func ExtractMediaSrcURLs(htmlStr string) []string {
	return extractAttrValues(htmlStr, func(n *html.Node) (string, bool) {
		if n.Data != "video" && n.Data != "source" {
			return "", false
		}
		v, ok := nodeAttr(n, "src")
		if !ok || v == "" {
			return "", false
		}
		return v, true
	})
}

func extractAttrValues(htmlStr string, pick func(*html.Node) (string, bool)) []string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		utils.Debugf("HTML解析失败: %v", err)
		return nil
	}
	var values []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if v, ok := pick(n); ok {
				values = append(values, v)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return values
}

func nodeAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val), true
		}
	}
	return "", false
}
