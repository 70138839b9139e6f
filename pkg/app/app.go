// Package app 提供实验室应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：读取配置、打开偏好存储、
// 创建场景管理器并加载实验室场景。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/embedded"
	"github.com/gonewx/avatarlab/pkg/game"
	"github.com/gonewx/avatarlab/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// DefaultAppName gdata 存储使用的应用名
const DefaultAppName = "avatarlab"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// DataRoot 从磁盘读取 data/ 目录的根路径；为空时使用嵌入资源
	DataRoot string
	// AppName 偏好存储的应用名，为空时使用 DefaultAppName
	AppName string
	// NoPersist 不打开偏好存储（偏好只保存在内存里）
	NoPersist bool
}

// App 是实验室应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	window                   config.WindowConfig
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// DataRoot 为空时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	bundle, err := config.LoadBundle(readFunc(cfg.DataRoot))
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	log.Printf("[App] Loaded %d avatars from %s", len(bundle.Lab.Avatars), config.LabConfigPath)

	settings, _ := game.NewSettingsManager(openStorage(cfg))

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(name string) (game.Scene, error) {
		switch name {
		case scenes.LabSceneName:
			return scenes.NewLabScene(sceneManager, settings, bundle)
		}
		return nil, fmt.Errorf("unknown scene %q", name)
	})
	if !sceneManager.Load(scenes.LabSceneName) {
		return nil, fmt.Errorf("failed to create scene %q", scenes.LabSceneName)
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		window:       bundle.Lab.Window,
		verbose:      cfg.Verbose,
	}, nil
}

// readFunc 选择配置来源
func readFunc(root string) config.ReadFunc {
	if root == "" {
		return embedded.ReadFile
	}
	return func(path string) ([]byte, error) {
		return os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	}
}

// openStorage 打开 gdata 存储，失败时返回 nil（降级模式）
func openStorage(cfg Config) *gdata.Manager {
	if cfg.NoPersist {
		return nil
	}
	name := cfg.AppName
	if name == "" {
		name = DefaultAppName
	}
	manager, err := gdata.Open(gdata.Config{AppName: name})
	if err != nil {
		log.Printf("[App] Warning: preferences storage unavailable: %v", err)
		return nil
	}
	return manager
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 关闭窗口前保存偏好（需要 ebiten.SetWindowClosingHandled(true)）
	if ebiten.IsWindowBeingClosed() {
		a.sceneManager.SaveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.window.Width, a.window.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.window.Width, a.window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.SetFullscreen(!ebiten.IsFullscreen())
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// SetFullscreen 切换全屏并记录偏好
func (a *App) SetFullscreen(enabled bool) {
	a.settings.SetFullscreen(enabled)
	if !enabled && ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		return
	}
	ebiten.SetFullscreen(enabled)
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.window.Width, a.window.Height
}

// Window 返回布局文件中的窗口参数
func (a *App) Window() config.WindowConfig {
	return a.window
}

// Settings 返回查看器偏好
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// GetSceneManager 返回场景管理器
// 用于在关闭时保存偏好
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
