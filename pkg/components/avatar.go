package components

import (
	"github.com/gonewx/avatarlab/pkg/pose"
	"github.com/gonewx/avatarlab/pkg/rig"
)

// AvatarComponent 一个化身实体拥有的骨架与当前运动模式
//
// Rig 由该实体独占：只有 PoseSystem 会写入它的节点。
type AvatarComponent struct {
	// Name 布局文件中的化身名称
	Name string

	// Rig 构建好的骨架（非 nil）
	Rig *rig.Rig

	// Mode 当前运动模式，由 LocomotionSystem 根据速度硬切换
	Mode pose.Mode

	// Intensity 步行强度（速度 / 参考速度）
	Intensity float64

	// PhaseOffset 加到全局时钟上的相位偏移（秒），避免多个化身同步呼吸
	PhaseOffset float64
}
