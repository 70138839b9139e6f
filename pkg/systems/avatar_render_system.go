package systems

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/ecs"
	"github.com/gonewx/avatarlab/pkg/scene"
	"github.com/gonewx/avatarlab/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 地面网格范围（米）
const groundExtent = 6

var (
	groundColor  = color.RGBA{70, 78, 92, 255}
	boneColor    = color.RGBA{255, 214, 64, 255}
	jointColor   = color.RGBA{255, 120, 48, 255}
	outlineColor = color.RGBA{20, 20, 28, 160}
)

// PrimitiveKind 屏幕空间基元类型
type PrimitiveKind int

const (
	// PrimitiveDisc 实心圆（球体）
	PrimitiveDisc PrimitiveKind = iota
	// PrimitiveStroke 粗线段（胶囊、圆台、盒子的投影近似）
	PrimitiveStroke
)

// Primitive 一个体积投影后的屏幕空间图元
type Primitive struct {
	Kind   PrimitiveKind
	X0, Y0 float64
	X1, Y1 float64
	// Width 线宽或圆的直径（像素）
	Width float64
	// RoundCaps 线段两端是否画半圆（胶囊）
	RoundCaps bool
	// Depth 视图空间深度，越大越近
	Depth float64
	Color color.RGBA
	// Volume 来源体积名称
	Volume string
}

// AvatarRenderSystem 将化身的体积与骨骼叠加层绘制到屏幕
//
// 正交投影 + 画家算法：所有图元按深度从远到近排序后依次绘制。
type AvatarRenderSystem struct {
	entityManager *ecs.EntityManager
	camera        *utils.Camera

	ShowVolumes  bool
	ShowSkeleton bool
	ShowLabels   bool

	primitives []Primitive // 复用，避免每帧分配
}

// NewAvatarRenderSystem 创建化身渲染系统
func NewAvatarRenderSystem(em *ecs.EntityManager, camera *utils.Camera) *AvatarRenderSystem {
	return &AvatarRenderSystem{
		entityManager: em,
		camera:        camera,
		ShowVolumes:   true,
		ShowSkeleton:  true,
		ShowLabels:    true,
		primitives:    make([]Primitive, 0, 256),
	}
}

// Collect 投影所有化身的体积并按深度排序（远 → 近）
func (s *AvatarRenderSystem) Collect() []Primitive {
	s.primitives = s.primitives[:0]
	if !s.ShowVolumes {
		return s.primitives
	}

	for _, id := range ecs.GetEntitiesWith1[*components.AvatarComponent](s.entityManager) {
		avatar, _ := ecs.GetComponent[*components.AvatarComponent](s.entityManager, id)
		avatar.Rig.Root.Walk(func(p *scene.Pivot) bool {
			if len(p.Volumes) == 0 {
				return true
			}
			world := p.WorldMatrix()
			for _, v := range p.Volumes {
				s.primitives = append(s.primitives, s.project(world.Mul4(v.LocalMatrix()), v))
			}
			return true
		})
	}

	sort.SliceStable(s.primitives, func(i, j int) bool {
		return s.primitives[i].Depth < s.primitives[j].Depth
	})
	return s.primitives
}

// project 把一个体积投影为屏幕图元
func (s *AvatarRenderSystem) project(m mgl64.Mat4, v *scene.Volume) Primitive {
	sx, sy, sz := columnScale(m)
	prim := Primitive{Color: v.Material.Color, Volume: v.Name}

	switch v.Shape {
	case scene.ShapeSphere:
		c := scene.TransformPoint(m, mgl64.Vec3{})
		prim.Kind = PrimitiveDisc
		prim.X0, prim.Y0, prim.Depth = s.camera.Project(c)
		prim.X1, prim.Y1 = prim.X0, prim.Y0
		prim.Width = 2 * s.camera.ProjectLength(v.Radius*math.Max(sx, math.Max(sy, sz)))

	case scene.ShapeBox:
		// 沿最长边方向画线段，宽度取次长边
		half := mgl64.Vec3{v.Size.X() * sx / 2, v.Size.Y() * sy / 2, v.Size.Z() * sz / 2}
		axis, width := mgl64.Vec3{0, v.Size.Y() / 2, 0}, math.Max(half.X(), half.Z())*2
		if half.X() >= half.Y() && half.X() >= half.Z() {
			axis, width = mgl64.Vec3{v.Size.X() / 2, 0, 0}, math.Max(half.Y(), half.Z())*2
		} else if half.Z() >= half.Y() {
			axis, width = mgl64.Vec3{0, 0, v.Size.Z() / 2}, math.Max(half.X(), half.Y())*2
		}
		s.stroke(&prim, m, axis.Mul(-1), axis, width, false)

	default:
		top, bottom := v.Extent()
		r := v.Radius
		if v.Shape == scene.ShapeCylinder {
			r = (v.Radius + v.TopRadius) / 2
		}
		s.stroke(&prim, m, bottom, top, 2*r*math.Max(sx, sz), v.Shape == scene.ShapeCapsule)
	}
	return prim
}

// stroke 填充线段图元
func (s *AvatarRenderSystem) stroke(prim *Primitive, m mgl64.Mat4, a, b mgl64.Vec3, width float64, caps bool) {
	wa := scene.TransformPoint(m, a)
	wb := scene.TransformPoint(m, b)
	var da, db float64
	prim.Kind = PrimitiveStroke
	prim.X0, prim.Y0, da = s.camera.Project(wa)
	prim.X1, prim.Y1, db = s.camera.Project(wb)
	prim.Depth = (da + db) / 2
	prim.Width = s.camera.ProjectLength(width)
	prim.RoundCaps = caps
}

// columnScale 从变换矩阵中取出三个轴的缩放
func columnScale(m mgl64.Mat4) (x, y, z float64) {
	return m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()
}

// Draw 绘制地面、体积、骨骼叠加层与名称标签
func (s *AvatarRenderSystem) Draw(screen *ebiten.Image) {
	s.drawGround(screen)
	s.drawMarkers(screen)

	for _, p := range s.Collect() {
		drawPrimitive(screen, p)
	}

	if s.ShowSkeleton {
		s.drawSkeleton(screen)
	}
	if s.ShowLabels {
		s.drawLabels(screen)
	}
}

func (s *AvatarRenderSystem) drawGround(screen *ebiten.Image) {
	for i := -groundExtent; i <= groundExtent; i++ {
		f := float64(i)
		s.line(screen, mgl64.Vec3{f, 0, -groundExtent}, mgl64.Vec3{f, 0, groundExtent}, 1, groundColor)
		s.line(screen, mgl64.Vec3{-groundExtent, 0, f}, mgl64.Vec3{groundExtent, 0, f}, 1, groundColor)
	}
}

// markerSegments 地面圆环的折线段数
const markerSegments = 24

// drawMarkers 绘制地面标记：随生命周期扩散到两倍半径并淡出
func (s *AvatarRenderSystem) drawMarkers(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.GroundMarkerComponent, *components.LifetimeComponent](s.entityManager) {
		marker, _ := ecs.GetComponent[*components.GroundMarkerComponent](s.entityManager, id)
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)

		f := lifetime.Fraction()
		r := marker.Radius * (1 + f)
		clr := marker.Color
		clr.A = uint8(float64(clr.A) * (1 - f))

		prev := mgl64.Vec3{marker.X + r, 0, marker.Z}
		for i := 1; i <= markerSegments; i++ {
			a := float64(i) / markerSegments * 2 * math.Pi
			next := mgl64.Vec3{marker.X + r*math.Cos(a), 0, marker.Z + r*math.Sin(a)}
			s.line(screen, prev, next, 2, premultiply(clr))
			prev = next
		}
	}
}

// premultiply 将直通 alpha 颜色转换为 ebiten 使用的预乘颜色
func premultiply(c color.RGBA) color.RGBA {
	a := uint16(c.A)
	return color.RGBA{uint8(uint16(c.R) * a / 255), uint8(uint16(c.G) * a / 255), uint8(uint16(c.B) * a / 255), c.A}
}

func (s *AvatarRenderSystem) drawSkeleton(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.SkeletonOverlayComponent](s.entityManager) {
		ov, _ := ecs.GetComponent[*components.SkeletonOverlayComponent](s.entityManager, id)
		for _, seg := range ov.Segments {
			s.line(screen, seg.A, seg.B, 2, boneColor)
		}
		for _, p := range ov.Joints {
			x, y, _ := s.camera.Project(p)
			vector.DrawFilledCircle(screen, float32(x), float32(y), 3, jointColor, true)
		}
	}
}

func (s *AvatarRenderSystem) drawLabels(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.AvatarComponent](s.entityManager) {
		avatar, _ := ecs.GetComponent[*components.AvatarComponent](s.entityManager, id)
		head := avatar.Rig.Head.WorldPosition()
		x, y, _ := s.camera.Project(head.Add(mgl64.Vec3{0, 0.35, 0}))
		label := avatar.Name + " [" + avatar.Mode.String() + "]"
		ebitenutil.DebugPrintAt(screen, label, int(x)-len(label)*3, int(y))
	}
}

// line 绘制一条世界空间线段
func (s *AvatarRenderSystem) line(screen *ebiten.Image, a, b mgl64.Vec3, width float32, clr color.Color) {
	x0, y0, _ := s.camera.Project(a)
	x1, y1, _ := s.camera.Project(b)
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, clr, true)
}

// drawPrimitive 绘制一个图元（先描边再填充）
func drawPrimitive(screen *ebiten.Image, p Primitive) {
	w := float32(p.Width)
	x0, y0, x1, y1 := float32(p.X0), float32(p.Y0), float32(p.X1), float32(p.Y1)

	switch p.Kind {
	case PrimitiveDisc:
		vector.DrawFilledCircle(screen, x0, y0, w/2+1, outlineColor, true)
		vector.DrawFilledCircle(screen, x0, y0, w/2, p.Color, true)
	case PrimitiveStroke:
		vector.StrokeLine(screen, x0, y0, x1, y1, w+2, outlineColor, true)
		if p.RoundCaps {
			vector.DrawFilledCircle(screen, x0, y0, w/2, p.Color, true)
			vector.DrawFilledCircle(screen, x1, y1, w/2, p.Color, true)
		}
		vector.StrokeLine(screen, x0, y0, x1, y1, w, p.Color, true)
	}
}
