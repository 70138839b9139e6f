package rig

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/scene"
)

// 肢体各关节的静止朝向（相对父节点）
//
// 肩/髋绕 Y 轴翻转 180°，使局部 -Z 指向化身正前方：
// 此时绕局部 X 轴的正向旋转把肢体向前摆（屈曲）。
// 肘部沿用肩部坐标系，正向旋转把前臂向前弯；
// 膝部再翻转一次回到世界朝向，正向旋转把小腿向后弯。
// 腕部翻转回世界朝向，踝部沿用膝部，使手脚的 +Z 都朝前。
var (
	restFlip     = mgl64.QuatRotate(math.Pi, scene.AxisY)
	restIdentity = mgl64.QuatIdent()
)

// limbKind 描述一类肢体的构建参数，左右两侧共用同一份
type limbKind struct {
	name      string
	rootID    [2]PivotID
	midID     [2]PivotID
	endID     [2]PivotID
	rootRest  mgl64.Quat
	midRest   mgl64.Quat
	endRest   mgl64.Quat
	upperSkin bool // 上段用肤色（否则用衣物色）
	lowerSkin bool
	buildEnd  func(a *assembly, end *scene.Pivot, side Side, lp config.LimbProportions)
}

var (
	armKind = limbKind{
		name:     "arm",
		rootID:   [2]PivotID{PivotShoulderL, PivotShoulderR},
		midID:    [2]PivotID{PivotElbowL, PivotElbowR},
		endID:    [2]PivotID{PivotWristL, PivotWristR},
		rootRest: restFlip,
		midRest:  restIdentity,
		endRest:  restFlip,
		// 短袖：上臂衣物，前臂裸露
		upperSkin: false,
		lowerSkin: true,
		buildEnd:  (*assembly).buildHand,
	}
	legKind = limbKind{
		name:      "leg",
		rootID:    [2]PivotID{PivotHipL, PivotHipR},
		midID:     [2]PivotID{PivotKneeL, PivotKneeR},
		endID:     [2]PivotID{PivotAnkleL, PivotAnkleR},
		rootRest:  restFlip,
		midRest:   restFlip,
		endRest:   restIdentity,
		upperSkin: false,
		lowerSkin: false,
		buildEnd:  (*assembly).buildFoot,
	}
)

// Builder 骨架构建器
//
// 持有一份已校验的比例表，本身不可变，可重复构建任意数量的骨架。
type Builder struct {
	cfg        *config.RigConfig
	hairColor  color.RGBA
	visorColor color.RGBA
}

// NewBuilder 使用给定比例表创建构建器
//
// 参数:
//   - cfg: 比例配置，会先经过 Validate
//
// 返回:
//   - *Builder: 构建器
//   - error: 配置为空或校验失败
func NewBuilder(cfg *config.RigConfig) (*Builder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rig config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rig config: %w", err)
	}
	hair, err := config.ParseHexColor(cfg.Hair.Color)
	if err != nil {
		return nil, fmt.Errorf("hair color: %w", err)
	}
	visor := color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	if cfg.Materials.Visor.Color != "" {
		if visor, err = config.ParseHexColor(cfg.Materials.Visor.Color); err != nil {
			return nil, fmt.Errorf("visor color: %w", err)
		}
	}
	return &Builder{cfg: cfg, hairColor: hair, visorColor: visor}, nil
}

// DefaultBuilder 使用内置比例表创建构建器
func DefaultBuilder() *Builder {
	b, err := NewBuilder(config.DefaultRigConfig())
	if err != nil {
		// 内置表不合法属于程序错误
		panic(fmt.Sprintf("default rig config is invalid: %v", err))
	}
	return b
}

var defaultBuilder = DefaultBuilder()

// Build 使用内置比例表构建骨架
func Build(preset Preset) (*Rig, error) {
	return defaultBuilder.Build(preset)
}

// Config 返回构建器使用的比例表
func (b *Builder) Config() *config.RigConfig {
	return b.cfg
}

// Build 根据预设构建完整骨架
//
// 要么返回完整且通过 Validate 的骨架，要么返回 nil 和错误，
// 不会有部分构建的骨架泄漏给调用方。预设非法时返回 *InvalidPresetError。
func (b *Builder) Build(preset Preset) (*Rig, error) {
	if err := preset.Validate(); err != nil {
		return nil, err
	}
	bp, ok := b.cfg.Proportions(string(preset.BodyType))
	if !ok {
		return nil, &InvalidPresetError{
			Field:  "bodyType",
			Value:  string(preset.BodyType),
			Reason: "no proportions configured for body type",
		}
	}

	a := &assembly{
		b:      b,
		bp:     bp,
		preset: preset,
		pivots: make(map[PivotID]*scene.Pivot, len(guaranteedIDs)+len(structuralIDs)+1),
	}
	r := a.build()
	if a.err != nil {
		return nil, fmt.Errorf("failed to assemble %s rig: %w", preset.BodyType, a.err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	log.Printf("[RigBuilder] Built %s rig: %d pivots, %d volumes, hair=%v",
		preset.BodyType, len(r.pivots), a.volumes, preset.IncludeHair)
	return r, nil
}

// assembly 单次构建的临时状态
// 任何一步出错后只记录第一个错误，最终由 Build 丢弃整棵树
type assembly struct {
	b       *Builder
	bp      config.BodyProportions
	preset  Preset
	pivots  map[PivotID]*scene.Pivot
	volumes int
	err     error
}

func (a *assembly) pivot(id PivotID, parent *scene.Pivot, pos mgl64.Vec3, rest mgl64.Quat) *scene.Pivot {
	p := scene.NewPivot(string(id), pos)
	p.RestOrientation = rest
	if _, dup := a.pivots[id]; dup && a.err == nil {
		a.err = fmt.Errorf("duplicate pivot %q", id)
	}
	a.pivots[id] = p
	if parent != nil {
		if err := parent.Add(p); err != nil && a.err == nil {
			a.err = err
		}
	}
	return p
}

func (a *assembly) attach(p *scene.Pivot, vols ...*scene.Volume) {
	p.Attach(vols...)
	a.volumes += len(vols)
}

func (a *assembly) material(name string, c color.RGBA, params config.MaterialParams) scene.Material {
	return scene.Material{Name: name, Color: c, Roughness: params.Roughness, Metalness: params.Metalness}
}

func (a *assembly) skin() scene.Material {
	return a.material("skin", a.preset.SkinTone, a.b.cfg.Materials.Skin)
}

func (a *assembly) cloth() scene.Material {
	return a.material("cloth", a.preset.PrimaryColor, a.b.cfg.Materials.Cloth)
}

func (a *assembly) build() *Rig {
	bp := a.bp
	r := &Rig{preset: a.preset, proportions: bp}

	// 脊柱链：每级只有局部 Y 偏移
	r.Root = a.pivot(PivotRoot, nil, mgl64.Vec3{}, restIdentity)
	r.Pelvis = a.pivot(PivotPelvis, r.Root, mgl64.Vec3{0, bp.PelvisHeight, 0}, restIdentity)
	r.Waist = a.pivot(PivotWaist, r.Pelvis, mgl64.Vec3{0, bp.WaistOffset, 0}, restIdentity)
	r.Chest = a.pivot(PivotChest, r.Waist, mgl64.Vec3{0, bp.ChestOffset, 0}, restIdentity)
	r.Neck = a.pivot(PivotNeck, r.Chest, mgl64.Vec3{0, bp.NeckOffset, 0}, restIdentity)
	r.Head = a.pivot(PivotHead, r.Neck, mgl64.Vec3{0, bp.HeadOffset, 0}, restIdentity)

	a.buildTorso(r)
	a.buildHead(r)

	for _, side := range Sides {
		shoulder := mgl64.Vec3{side.Sign() * bp.ShoulderWidth, bp.ShoulderHeight, bp.ShoulderDepth}
		r.Arms[side] = a.buildLimb(armKind, side, r.Chest, shoulder, bp.Arm)

		hip := mgl64.Vec3{side.Sign() * bp.HipWidth, -bp.HipDrop, 0}
		r.Legs[side] = a.buildLimb(legKind, side, r.Pelvis, hip, bp.Leg)
	}

	if a.preset.IncludeHair {
		r.Extras.Hair = a.buildHair(r.Head)
	}

	r.pivots = a.pivots
	return r
}

func (a *assembly) buildTorso(r *Rig) {
	bp := a.bp
	t := bp.Torso
	skin, cloth := a.skin(), a.cloth()

	pelvisR := bp.HipWidth + bp.Leg.UpperRadius*0.5
	a.attach(r.Pelvis,
		scene.NewCapsule("pelvis", pelvisR, 0.06, cloth).
			At(mgl64.Vec3{0, 0.02, 0}).
			Scaled(mgl64.Vec3{t.PelvisScaleX, 1, t.Depth}),
	)
	for _, side := range Sides {
		a.attach(r.Pelvis,
			scene.NewSphere("glute"+side.Suffix(), bp.Leg.UpperRadius*1.1, cloth).
				At(mgl64.Vec3{side.Sign() * bp.HipWidth * 0.7, -0.02, -0.05}).
				Scaled(mgl64.Vec3{1, 0.9, 0.8}),
		)
	}

	a.attach(r.Waist,
		scene.NewCapsule("waist", bp.ShoulderWidth*0.45, bp.ChestOffset*0.5, cloth).
			At(mgl64.Vec3{0, bp.ChestOffset * 0.4, 0}).
			Scaled(mgl64.Vec3{t.WaistScaleX, 1, t.Depth}),
	)

	a.attach(r.Chest,
		scene.NewCapsule("chest", bp.ShoulderWidth*0.5, bp.ShoulderHeight*0.6, cloth).
			At(mgl64.Vec3{0, bp.ShoulderHeight * 0.5, 0}).
			Scaled(mgl64.Vec3{t.ChestScaleX, 1, t.Depth}),
		scene.NewBox("trap", mgl64.Vec3{bp.ShoulderWidth * 1.6, 0.05, 0.1 * t.Depth}, cloth).
			At(mgl64.Vec3{0, bp.ShoulderHeight, -0.01}),
	)

	if br := bp.Breasts; br != nil {
		for _, side := range Sides {
			v := scene.NewSphere("breast"+side.Suffix(), br.Radius, cloth).
				At(mgl64.Vec3{side.Sign() * br.Lateral, br.Height, br.Forward}).
				Scaled(mgl64.Vec3{1, 0.9, 0.8})
			a.attach(r.Chest, v)
			r.Extras.Breasts = append(r.Extras.Breasts, v)
		}
	}

	h := bp.Head
	a.attach(r.Neck,
		scene.NewCylinder("neck", h.SkullRadius*0.42, h.SkullRadius*0.5, bp.HeadOffset+0.02, skin).
			At(mgl64.Vec3{0, bp.HeadOffset / 2, 0}),
	)
}

// skullCenter 颅骨球心相对头部节点的高度
func (a *assembly) skullCenter() float64 {
	h := a.bp.Head
	return h.SkullRadius * h.SkullScaleY * 0.8
}

func (a *assembly) buildHead(r *Rig) {
	h := a.bp.Head
	skin := a.skin()
	visor := a.material("visor", a.b.visorColor, a.b.cfg.Materials.Visor)
	cy := a.skullCenter()

	a.attach(r.Head,
		scene.NewSphere("skull", h.SkullRadius, skin).
			At(mgl64.Vec3{0, cy, 0}).
			Scaled(mgl64.Vec3{1, h.SkullScaleY, 1}),
		scene.NewSphere("jaw", h.SkullRadius*0.7, skin).
			At(mgl64.Vec3{0, 0.03, 0.02}).
			Scaled(mgl64.Vec3{1, 0.8, 1}),
		scene.NewBox("visor", mgl64.Vec3{h.SkullRadius * 1.5, h.SkullRadius * 0.45, 0.02}, visor).
			At(mgl64.Vec3{0, cy + 0.01, h.SkullRadius * 0.95}),
	)
}

// buildHair 发帽加一排固定间距的发丝，发丝位置只由索引决定
func (a *assembly) buildHair(head *scene.Pivot) *Hair {
	hp := a.b.cfg.Hair
	mat := a.material("hair", a.b.hairColor, a.b.cfg.Materials.Hair)

	pivot := a.pivot(PivotHair, head, mgl64.Vec3{0, a.skullCenter(), 0}, restIdentity)
	hair := &Hair{
		Pivot: pivot,
		Cap: scene.NewSphere("hairCap", hp.CapRadius, mat).
			At(mgl64.Vec3{0, hp.CapHeight * 0.5, -0.01}).
			Scaled(mgl64.Vec3{1, 0.8, 1.05}),
	}
	a.attach(pivot, hair.Cap)

	mid := float64(hp.StrandCount-1) / 2
	for i := 0; i < hp.StrandCount; i++ {
		x := (float64(i) - mid) * hp.StrandSpacing
		s := scene.NewCapsule(fmt.Sprintf("hairStrand%d", i), hp.StrandRadius, hp.StrandLength, mat).
			At(mgl64.Vec3{x, -hp.CapHeight * 0.2, -hp.CapRadius * 0.85}).
			Rotated(mgl64.Vec3{hp.StrandTilt, 0, 0})
		hair.Strands = append(hair.Strands, s)
		a.attach(pivot, s)
	}
	return hair
}

// buildLimb 左右两侧共用的肢体构建
//
// 根关节 → 上段体积（沿 -Y 延伸）→ 中间关节（位于 -upper，带关节球）
// → 下段体积 → 末端节点（位于 -lower，带手/脚）
func (a *assembly) buildLimb(k limbKind, side Side, parent *scene.Pivot, at mgl64.Vec3, lp config.LimbProportions) Limb {
	upperR := lp.UpperRadius
	lowerR := lp.UpperRadius * lp.LowerRatio
	pick := func(skin bool) scene.Material {
		if skin {
			return a.skin()
		}
		return a.cloth()
	}

	root := a.pivot(k.rootID[side], parent, at, k.rootRest)
	a.attach(root,
		scene.NewCapsule(k.name+"Upper"+side.Suffix(), upperR, lp.UpperLength, pick(k.upperSkin)).
			At(mgl64.Vec3{0, -lp.UpperLength / 2, 0}),
	)

	mid := a.pivot(k.midID[side], root, mgl64.Vec3{0, -lp.UpperLength, 0}, k.midRest)
	a.attach(mid,
		scene.NewSphere(k.name+"Joint"+side.Suffix(), upperR*lp.JointRatio, pick(k.lowerSkin)),
		scene.NewCapsule(k.name+"Lower"+side.Suffix(), lowerR, lp.LowerLength, pick(k.lowerSkin)).
			At(mgl64.Vec3{0, -lp.LowerLength / 2, 0}),
	)

	end := a.pivot(k.endID[side], mid, mgl64.Vec3{0, -lp.LowerLength, 0}, k.endRest)
	k.buildEnd(a, end, side, lp)

	return Limb{
		Side:        side,
		Root:        root,
		Mid:         mid,
		End:         end,
		UpperLength: lp.UpperLength,
		LowerLength: lp.LowerLength,
		Outward:     side.Sign() * k.rootRest.Rotate(scene.AxisX).X(),
	}
}

func (a *assembly) buildHand(end *scene.Pivot, side Side, lp config.LimbProportions) {
	r := lp.UpperRadius * lp.LowerRatio
	skin := a.skin()
	// 拇指朝身体中线和前方
	inward := -side.Sign()
	a.attach(end,
		scene.NewSphere("hand"+side.Suffix(), r*1.15, skin).
			At(mgl64.Vec3{0, -r * 1.4, 0}).
			Scaled(mgl64.Vec3{0.8, 1.3, 0.55}),
		scene.NewCapsule("thumb"+side.Suffix(), r*0.35, r*0.8, skin).
			At(mgl64.Vec3{inward * r * 0.5, -r * 0.9, r * 0.6}).
			Rotated(mgl64.Vec3{0.4, 0, inward * 0.5}),
	)
}

func (a *assembly) buildFoot(end *scene.Pivot, side Side, lp config.LimbProportions) {
	r := lp.UpperRadius * lp.LowerRatio
	a.attach(end,
		scene.NewBox("foot"+side.Suffix(), mgl64.Vec3{r * 1.6, 0.06, 0.24}, a.cloth()).
			At(mgl64.Vec3{0, 0, 0.06}),
	)
}
