package game

import (
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/ko2345-cloud/eat-party/pkg/config"
)

// 设置取值范围
const (
	minGameDurationSec = 30
	maxGameDurationSec = 600
	minSpawnIntervalMs = 300
)

// GameSettings 玩家设置
// 注意：设置是全局的，不绑定到特定玩家
type GameSettings struct {
	// 游戏设置
	GameDurationSec float64 `yaml:"gameDurationSec"` // 单局时长（秒）
	SpawnIntervalMs float64 `yaml:"spawnIntervalMs"` // 生成间隔（毫秒），0 表示使用 tuning.yaml 的值

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
	ShowDebug  bool `yaml:"showDebug"`  // 是否显示碰撞圆和调试信息

	// 观察者设置
	ObserverAddr string `yaml:"observerAddr"` // 事件广播地址，空字符串表示不启动
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		GameDurationSec: 120,
		SpawnIntervalMs: 0,
		Fullscreen:      false,
		ShowDebug:       false,
		ObserverAddr:    "",
	}
}

// ApplyTo 把设置覆盖到可调参数上
func (s *GameSettings) ApplyTo(tuning *config.TuningConfig) {
	if s.GameDurationSec > 0 {
		tuning.Game.DurationSec = s.GameDurationSec
	}
	if s.SpawnIntervalMs > 0 {
		tuning.Spawn.IntervalMs = s.SpawnIntervalMs
	}
}

// GameDuration 返回单局时长
func (s *GameSettings) GameDuration() time.Duration {
	return time.Duration(s.GameDurationSec * float64(time.Second))
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 目前总是 nil；加载失败只记录日志并使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 先填默认值，旧版本存档里缺少的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.GameDurationSec = clampDuration(loaded.GameDurationSec)
	loaded.SpawnIntervalMs = clampSpawnInterval(loaded.SpawnIntervalMs)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetGameDuration 设置单局时长
//
// 时长会被限制在 30 ~ 600 秒范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - seconds: 单局时长（秒）
func (sm *SettingsManager) SetGameDuration(seconds float64) {
	sm.settings.GameDurationSec = clampDuration(seconds)
}

// SetSpawnInterval 设置生成间隔
//
// 0 或负数表示恢复 tuning.yaml 的默认值；正数不小于 300 毫秒
//
// 参数：
//   - ms: 生成间隔（毫秒）
func (sm *SettingsManager) SetSpawnInterval(ms float64) {
	sm.settings.SpawnIntervalMs = clampSpawnInterval(ms)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetShowDebug 设置调试显示
func (sm *SettingsManager) SetShowDebug(enabled bool) {
	sm.settings.ShowDebug = enabled
}

// SetObserverAddr 设置事件广播地址
func (sm *SettingsManager) SetObserverAddr(addr string) {
	sm.settings.ObserverAddr = addr
}

func clampDuration(seconds float64) float64 {
	if seconds < minGameDurationSec {
		return minGameDurationSec
	}
	if seconds > maxGameDurationSec {
		return maxGameDurationSec
	}
	return seconds
}

func clampSpawnInterval(ms float64) float64 {
	if ms <= 0 {
		return 0
	}
	if ms < minSpawnIntervalMs {
		return minSpawnIntervalMs
	}
	return ms
}
