package game

import (
	"fmt"
	"log"

	"github.com/gonewx/avatarlab/pkg/utils"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 实验室查看器的偏好
// 注意：只保存查看方式，不保存任何化身配置
type ViewerSettings struct {
	// 叠加层
	ShowSkeleton bool `yaml:"showSkeleton"` // 骨骼线段
	ShowVolumes  bool `yaml:"showVolumes"`  // 体积
	ShowLabels   bool `yaml:"showLabels"`   // 名称标签

	// 相机
	CameraYaw   float64 `yaml:"cameraYaw"`
	CameraPitch float64 `yaml:"cameraPitch"`
	Zoom        float64 `yaml:"zoom"` // 像素/米，0 表示使用布局文件的值

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		ShowSkeleton: true,
		ShowVolumes:  true,
		ShowLabels:   true,
		CameraYaw:    0.6,
		CameraPitch:  0.35,
		Zoom:         0,
		Fullscreen:   false,
	}
}

// SettingsManager 设置管理器
// 负责查看器偏好的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方的统一签名；加载失败只记录日志，不影响创建
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
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置。
// 读到的相机参数会被限制在合法范围内。
func (sm *SettingsManager) Load() error {
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

	// 从默认值开始解码，旧版本文件缺失的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	sm.SetCameraPitch(loaded.CameraPitch)
	sm.SetZoom(loaded.Zoom)
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
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
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetShowSkeleton 设置骨骼叠加层开关
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowSkeleton(show bool) {
	sm.settings.ShowSkeleton = show
}

// SetShowVolumes 设置体积显示开关
func (sm *SettingsManager) SetShowVolumes(show bool) {
	sm.settings.ShowVolumes = show
}

// SetShowLabels 设置名称标签开关
func (sm *SettingsManager) SetShowLabels(show bool) {
	sm.settings.ShowLabels = show
}

// SetCameraYaw 设置相机偏航，规范到 (-π, π]
func (sm *SettingsManager) SetCameraYaw(yaw float64) {
	sm.settings.CameraYaw = utils.WrapAngle(yaw)
}

// SetCameraPitch 设置相机俯仰
//
// 俯仰会被限制在 utils.MinCameraPitch ~ utils.MaxCameraPitch 范围内
func (sm *SettingsManager) SetCameraPitch(pitch float64) {
	sm.settings.CameraPitch = utils.Clamp(pitch, utils.MinCameraPitch, utils.MaxCameraPitch)
}

// SetZoom 设置缩放；0 表示使用布局文件的值
func (sm *SettingsManager) SetZoom(zoom float64) {
	if zoom <= 0 {
		sm.settings.Zoom = 0
		return
	}
	sm.settings.Zoom = utils.Clamp(zoom, utils.MinCameraZoom, utils.MaxCameraZoom)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// CaptureCamera 把相机当前的朝向与缩放写入设置
func (sm *SettingsManager) CaptureCamera(c *utils.Camera) {
	sm.SetCameraYaw(c.Yaw)
	sm.SetCameraPitch(c.Pitch)
	sm.SetZoom(c.Zoom)
}
