package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/miltonstrat/myreplays/internal/models"
	"github.com/miltonstrat/myreplays/internal/utils"
)

// SessionManager 负责会话状态文件的读写。
// 会话文件包含登录Cookie,以0600权限写入。
type SessionManager struct {
	path string
}

// NewSessionManager 创建会话管理器,path为会话文件路径
func NewSessionManager(path string) *SessionManager {
	return &SessionManager{path: path}
}

// Path 返回会话文件路径
func (sm *SessionManager) Path() string {
	return sm.path
}

// Exists 判断会话文件是否存在
func (sm *SessionManager) Exists() bool {
	info, err := os.Stat(sm.path)
	return err == nil && !info.IsDir()
}

// Save 序列化并写入会话状态
func (sm *SessionManager) Save(state *models.SessionState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("会话状态无效: %w", err)
	}
	data, err := state.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	if dir := filepath.Dir(sm.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建会话目录失败: %w", err)
		}
	}
	if err := os.WriteFile(sm.path, data, 0600); err != nil {
		return fmt.Errorf("写入会话文件失败: %w", err)
	}
	utils.Infof("✅ 会话已保存: %s (%d 个Cookie)", sm.path, len(state.Cookies))
	return nil
}

// Load 读取并解析会话状态。文件缺失时返回带补救指引的错误。
func (sm *SessionManager) Load() (*models.SessionState, error) {
	data, err := os.ReadFile(sm.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("会话文件 %s 不存在,请先运行: myreplays login", sm.path)
		}
		return nil, fmt.Errorf("读取会话文件失败: %w", err)
	}
	state := &models.SessionState{}
	if err := state.FromJSON(data); err != nil {
		return nil, fmt.Errorf("解析会话文件失败(可重新运行 myreplays login 重建): %w", err)
	}
	return state, nil
}
