// Package crawlers 提供基于浏览器的回放列表采集能力。
//
// 核心组件:
//   - Browser: 浏览器生命周期管理与会话Cookie恢复
//   - LinkCollector: 主文档与同源iframe中的DOM链接收集
//   - ResponseListener / NetworkCapture: 网络响应监听与URL捕获,
//     包括JSON响应体中内嵌URL与视频页链接的提取
//   - NormalizeURLs / FilterURLs: URL规范化、去重与正则过滤
//
// 采集流程: 导航前挂载监听器 -> 页面加载并等待动态内容 ->
// DOM收集与网络捕获取并集 -> 过滤后交给下载协调器。
package crawlers
