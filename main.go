package main

import (
	"errors"
	"flag"
	"log"

	"github.com/gonewx/avatarlab/pkg/app"
	"github.com/gonewx/avatarlab/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
	dataRoot  = flag.String("data-root", "", "从磁盘读取 data/ 的根目录（默认使用嵌入资源）")
	noPersist = flag.Bool("no-persist", false, "不读写查看器偏好")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	lab, err := app.NewApp(app.Config{
		Verbose:   *verbose,
		DataRoot:  *dataRoot,
		NoPersist: *noPersist,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	window := lab.Window()
	ebiten.SetWindowSize(window.Width, window.Height)
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	if lab.Settings().GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(lab); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
