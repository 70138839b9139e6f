// gait_dump 逐帧采样姿态通道并输出（YAML 或 CSV）
//
// 用法:
//
//	go run ./cmd/gait_dump --mode walk --intensity 1 --frames 60
//	go run ./cmd/gait_dump --mode idle --format csv --pivots head,chest > idle.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/pose"
	"github.com/gonewx/avatarlab/pkg/rig"
	"gopkg.in/yaml.v3"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	dataRoot   = flag.String("data-root", ".", "包含 data/ 的根目录")
	bodyType   = flag.String("body", "male", "体型: male | female")
	hair       = flag.Bool("hair", false, "包含头发节点")
	modeFlag   = flag.String("mode", "walk", "运动模式: idle | walk")
	intensity  = flag.Float64("intensity", 1, "步行强度")
	frames     = flag.Int("frames", 60, "采样帧数")
	fps        = flag.Float64("fps", 60, "采样帧率")
	start      = flag.Float64("start", 0, "起始时间（秒）")
	pivotsFlag = flag.String("pivots", "", "逗号分隔的节点列表（默认全部保证节点）")
	format     = flag.String("format", "yaml", "输出格式: yaml | csv")
)

// options 一次采样的参数
type options struct {
	Preset    rig.Preset
	Mode      pose.Mode
	Intensity float64
	Frames    int
	FPS       float64
	Start     float64
	Pivots    []rig.PivotID
	Format    string
}

// pivotSample 单个节点在一帧中的通道
type pivotSample struct {
	Position [3]float64 `yaml:"position"`
	Rotation [3]float64 `yaml:"rotation"`
}

// frameSample 一帧的采样
type frameSample struct {
	Time   float64                     `yaml:"t"`
	Pivots map[rig.PivotID]pivotSample `yaml:"pivots"`
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	opts, builder, animator, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gait_dump: %v\n", err)
		os.Exit(2)
	}
	if err := dump(os.Stdout, builder, animator, opts); err != nil {
		fmt.Fprintf(os.Stderr, "gait_dump: %v\n", err)
		os.Exit(1)
	}
}

// setup 解析命令行参数并加载配置
func setup() (options, *rig.Builder, *pose.Animator, error) {
	var opts options

	rigCfg, err := config.LoadRigConfig(dataPath(config.RigConfigPath))
	if err != nil {
		return opts, nil, nil, err
	}
	motionCfg, err := config.LoadMotionConfig(dataPath(config.MotionConfigPath))
	if err != nil {
		return opts, nil, nil, err
	}
	builder, err := rig.NewBuilder(rigCfg)
	if err != nil {
		return opts, nil, nil, err
	}
	animator, err := pose.NewAnimator(motionCfg)
	if err != nil {
		return opts, nil, nil, err
	}

	preset, err := rig.ParsePreset(*bodyType, "#d8b59a", "#2a2f38", *hair)
	if err != nil {
		return opts, nil, nil, err
	}
	mode, err := pose.ParseMode(*modeFlag)
	if err != nil {
		return opts, nil, nil, err
	}

	opts = options{
		Preset:    preset,
		Mode:      mode,
		Intensity: *intensity,
		Frames:    *frames,
		FPS:       *fps,
		Start:     *start,
		Pivots:    parsePivots(*pivotsFlag),
		Format:    *format,
	}
	return opts, builder, animator, nil
}

func dataPath(p string) string {
	return strings.TrimSuffix(*dataRoot, "/") + "/" + p
}

// parsePivots 解析节点列表，空字符串表示全部保证节点
func parsePivots(s string) []rig.PivotID {
	if strings.TrimSpace(s) == "" {
		return rig.GuaranteedIDs()
	}
	var ids []rig.PivotID
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, rig.PivotID(part))
		}
	}
	return ids
}

// sample 构建骨架并逐帧求解姿态
func sample(builder *rig.Builder, animator *pose.Animator, opts options) ([]frameSample, error) {
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", opts.Frames)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %v", opts.FPS)
	}

	r, err := builder.Build(opts.Preset)
	if err != nil {
		return nil, err
	}
	pivots := make([]rig.PivotID, 0, len(opts.Pivots))
	for _, id := range opts.Pivots {
		if _, ok := r.Pivot(id); !ok {
			return nil, fmt.Errorf("unknown pivot %q", id)
		}
		pivots = append(pivots, id)
	}

	out := make([]frameSample, 0, opts.Frames)
	for i := 0; i < opts.Frames; i++ {
		t := opts.Start + float64(i)/opts.FPS
		animator.Apply(r, pose.Params{Time: t, Mode: opts.Mode, Intensity: opts.Intensity})

		frame := frameSample{Time: t, Pivots: make(map[rig.PivotID]pivotSample, len(pivots))}
		for _, id := range pivots {
			p, _ := r.Pivot(id)
			frame.Pivots[id] = pivotSample{Position: p.Position, Rotation: p.Rotation}
		}
		out = append(out, frame)
	}
	log.Printf("[gait_dump] Sampled %d frames of %s at %.1f fps", len(out), opts.Mode, opts.FPS)
	return out, nil
}

// dump 采样并按格式写出
func dump(w io.Writer, builder *rig.Builder, animator *pose.Animator, opts options) error {
	samples, err := sample(builder, animator, opts)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(samples); err != nil {
			return err
		}
		return enc.Close()
	case "csv":
		return writeCSV(w, opts.Pivots, samples)
	}
	return fmt.Errorf("unknown format %q", opts.Format)
}

// writeCSV 每行一帧：t, <pivot>.rx, <pivot>.ry, <pivot>.rz, ...
func writeCSV(w io.Writer, pivots []rig.PivotID, samples []frameSample) error {
	cw := csv.NewWriter(w)

	header := []string{"t"}
	for _, id := range pivots {
		for _, axis := range []string{"rx", "ry", "rz"} {
			header = append(header, string(id)+"."+axis)
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{formatFloat(s.Time)}
		for _, id := range pivots {
			rot := s.Pivots[id].Rotation
			row = append(row, formatFloat(rot[0]), formatFloat(rot[1]), formatFloat(rot[2]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
