package game

import (
	"math"
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/utils"
	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下打开 gdata 存储
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if !settings.ShowSkeleton || !settings.ShowVolumes || !settings.ShowLabels {
		t.Error("Expected all overlays visible by default")
	}
	if settings.Zoom != 0 {
		t.Errorf("Zoom: got %v, want 0 (use layout value)", settings.Zoom)
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManagerNilGdata 测试降级模式（仅内存）
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) returned error: %v", err)
	}

	sm.SetShowSkeleton(false)
	if err := sm.Save(); err != nil {
		t.Errorf("Save in degraded mode should not fail: %v", err)
	}
	if sm.GetSettings().ShowSkeleton {
		t.Error("Expected in-memory setting to be kept")
	}

	// 降级模式下 Load 恢复默认值
	if err := sm.Load(); err != nil {
		t.Errorf("Load in degraded mode should not fail: %v", err)
	}
	if !sm.GetSettings().ShowSkeleton {
		t.Error("Expected defaults after Load in degraded mode")
	}
}

// TestSettingsLoadSave 测试设置持久化往返
func TestSettingsLoadSave(t *testing.T) {
	gdataManager := openTestGdata(t, "test_viewer_settings")

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager failed: %v", err)
	}
	sm.SetShowVolumes(false)
	sm.SetShowLabels(false)
	sm.CaptureCamera(utils.NewCamera(1.25, 0.8, 320, mgl64.Vec3{}, 800, 600))
	if err := sm.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager failed: %v", err)
	}
	s := reloaded.GetSettings()
	if s.ShowVolumes || s.ShowLabels || !s.ShowSkeleton {
		t.Errorf("Overlay flags not persisted: %+v", s)
	}
	if s.CameraYaw != 1.25 || s.CameraPitch != 0.8 || s.Zoom != 320 {
		t.Errorf("Camera not persisted: yaw=%v pitch=%v zoom=%v", s.CameraYaw, s.CameraPitch, s.Zoom)
	}
}

// TestSettingsLoadCorrupted 测试损坏的存档回退到默认值
func TestSettingsLoadCorrupted(t *testing.T) {
	gdataManager := openTestGdata(t, "test_viewer_settings_corrupt")
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("showSkeleton: [not a bool")); err != nil {
		t.Fatalf("SaveObjectProp failed: %v", err)
	}

	sm, _ := NewSettingsManager(gdataManager)
	if err := sm.Load(); err == nil {
		t.Error("Expected Load to report the corrupted file")
	}
	if *sm.GetSettings() != *DefaultSettings() {
		t.Errorf("Expected defaults after corrupted load, got %+v", sm.GetSettings())
	}
}

// TestSettingsClamp 测试相机参数的范围限制
func TestSettingsClamp(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	tests := []struct {
		name  string
		apply func()
		got   func() float64
		want  float64
	}{
		{"pitch 上限", func() { sm.SetCameraPitch(5) }, func() float64 { return sm.GetSettings().CameraPitch }, utils.MaxCameraPitch},
		{"pitch 下限", func() { sm.SetCameraPitch(-5) }, func() float64 { return sm.GetSettings().CameraPitch }, utils.MinCameraPitch},
		{"zoom 上限", func() { sm.SetZoom(1e6) }, func() float64 { return sm.GetSettings().Zoom }, utils.MaxCameraZoom},
		{"zoom 下限", func() { sm.SetZoom(1) }, func() float64 { return sm.GetSettings().Zoom }, utils.MinCameraZoom},
		{"zoom 0 表示布局值", func() { sm.SetZoom(0) }, func() float64 { return sm.GetSettings().Zoom }, 0},
		{"yaw 规范化", func() { sm.SetCameraYaw(2*math.Pi + 1) }, func() float64 { return sm.GetSettings().CameraYaw }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.apply()
			if got := tt.got(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
