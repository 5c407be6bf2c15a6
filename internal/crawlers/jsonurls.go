package crawlers

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/miltonstrat/myreplays/internal/models"
)

// ExtractURLsFromValue 深度优先遍历已解码的JSON值,提取字符串中
// 内嵌的http(s) URL。对象按键名排序遍历,保证结果确定。
// 提取出的URL会剥离粘连的尾部标点(.,;:])。
func ExtractURLsFromValue(value interface{}) []string {
	var out []string
	walkJSONValue(value, func(s string) {
		for _, match := range models.URLInText.FindAllString(s, -1) {
			out = append(out, strings.TrimRight(match, ".,;:]"))
		}
	})
	return out
}

// ExtractVideoPageURLs 在JSON值中查找名为"id"且取值为整数或纯数字
// 字符串的字段,为每个命中合成视频页链接 {base}/videoPage?id={id}。
func ExtractVideoPageURLs(value interface{}, baseURL string) []string {
	base := strings.TrimRight(baseURL, "/")
	var out []string
	walkJSONObjects(value, func(obj map[string]interface{}) {
		if raw, ok := obj["id"]; ok {
			if id, ok := digitString(raw); ok {
				out = append(out, fmt.Sprintf("%s/videoPage?id=%s", base, id))
			}
		}
	})
	return out
}

// walkJSONValue 对JSON值中的每个字符串调用fn,对象键排序后递归
func walkJSONValue(value interface{}, fn func(string)) {
	switch v := value.(type) {
	case string:
		fn(v)
	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			walkJSONValue(v[key], fn)
		}
	case []interface{}:
		for _, item := range v {
			walkJSONValue(item, fn)
		}
	}
}

// walkJSONObjects 对JSON值中的每个对象调用fn,先处理对象自身再递归子值
func walkJSONObjects(value interface{}, fn func(map[string]interface{})) {
	switch v := value.(type) {
	case map[string]interface{}:
		fn(v)
		for _, key := range sortedKeys(v) {
			walkJSONObjects(v[key], fn)
		}
	case []interface{}:
		for _, item := range v {
			walkJSONObjects(item, fn)
		}
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// digitString 将JSON中的id值转换为十进制数字串。
// 仅接受非负整数或纯数字字符串,其余类型一律拒绝。
func digitString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case string:
		if v == "" {
			return "", false
		}
		for _, r := range v {
			if r < '0' || r > '9' {
				return "", false
			}
		}
		return v, true
	default:
		return "", false
	}
}
