package crawlers

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/miltonstrat/myreplays/internal/utils"
)

// 浏览器实例的经验内存下限,低于该值时提示但不阻止运行
const minAvailableMemoryMB = 500

// PreflightResources 启动浏览器前记录一次系统资源快照。
// 采集失败只降级为警告,不影响主流程。
func PreflightResources() {
	vm, err := mem.VirtualMemory()
	if err != nil {
		utils.Warnf("读取内存信息失败: %v", err)
		return
	}
	availMB := vm.Available / 1024 / 1024
	utils.Infof("💻 系统内存: 总计 %dMB, 可用 %dMB (%.1f%%已用)",
		vm.Total/1024/1024, availMB, vm.UsedPercent)

	if percents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(percents) > 0 {
		utils.Infof("💻 CPU使用率: %.1f%%", percents[0])
	} else if err != nil {
		utils.Debugf("读取CPU使用率失败: %v", err)
	}

	if availMB < minAvailableMemoryMB {
		utils.Warnf("⚠️ 可用内存不足%dMB,浏览器可能运行缓慢", minAvailableMemoryMB)
	}
}
