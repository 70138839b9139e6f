// validate_config 校验 data/ 下的配置文件
//
// 依次加载骨架比例、运动常量与实验室布局，并为布局里的每个化身构建骨架，
// 确认保证节点齐全。任何一步失败都以非零状态退出。
//
// 用法:
//
//	go run ./cmd/validate_config
//	go run ./cmd/validate_config --data-root /path/to/project
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/rig"
)

var (
	verbose  = flag.Bool("verbose", false, "显示详细调试信息")
	dataRoot = flag.String("data-root", ".", "包含 data/ 的根目录")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	read := func(path string) ([]byte, error) {
		return os.ReadFile(filepath.Join(*dataRoot, filepath.FromSlash(path)))
	}
	if err := validate(read, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// validate 加载配置并构建布局中的所有化身
func validate(read config.ReadFunc, w io.Writer) error {
	bundle, err := config.LoadBundle(read)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ %s (%d body types)\n", config.RigConfigPath, len(bundle.Rig.BodyTypes))
	fmt.Fprintf(w, "✓ %s\n", config.MotionConfigPath)
	fmt.Fprintf(w, "✓ %s (%d avatars)\n", config.LabConfigPath, len(bundle.Lab.Avatars))

	builder, err := rig.NewBuilder(bundle.Rig)
	if err != nil {
		return err
	}

	for _, a := range bundle.Lab.Avatars {
		preset, err := rig.ParsePreset(a.BodyType, a.SkinTone, a.PrimaryColor, a.Hair)
		if err != nil {
			return fmt.Errorf("avatar '%s': %w", a.Name, err)
		}
		r, err := builder.Build(preset)
		if err != nil {
			return fmt.Errorf("avatar '%s': %w", a.Name, err)
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("avatar '%s': %w", a.Name, err)
		}
		head, _ := r.WorldPosition(rig.PivotHead)
		fmt.Fprintf(w, "  ✓ %-10s %-6s %d pivots, head at %.3fm\n", a.Name, a.BodyType, len(r.IDs()), head.Y())
	}
	return nil
}
