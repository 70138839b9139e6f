package rig

import "sort"

// PivotID 骨架节点的稳定标识符
type PivotID string

// 保证存在的节点（任何体型都有）
// 调试叠加层依赖这组名称，改名或删除都属于破坏性变更
const (
	PivotPelvis    PivotID = "pelvis"
	PivotWaist     PivotID = "waist"
	PivotChest     PivotID = "chest"
	PivotNeck      PivotID = "neck"
	PivotHead      PivotID = "head"
	PivotShoulderL PivotID = "shoulderL"
	PivotShoulderR PivotID = "shoulderR"
	PivotElbowL    PivotID = "elbowL"
	PivotElbowR    PivotID = "elbowR"
	PivotHipL      PivotID = "hipL"
	PivotHipR      PivotID = "hipR"
	PivotKneeL     PivotID = "kneeL"
	PivotKneeR     PivotID = "kneeR"
)

// 结构性附加节点：拓扑中总是存在，但不属于对外保证的集合
const (
	PivotRoot   PivotID = "root"
	PivotWristL PivotID = "wristL"
	PivotWristR PivotID = "wristR"
	PivotAnkleL PivotID = "ankleL"
	PivotAnkleR PivotID = "ankleR"
)

// PivotHair 可选节点，仅在预设包含头发时存在
const PivotHair PivotID = "hair"

// 别名：spine0 = waist，spine1 = chest
const (
	AliasSpine0 PivotID = "spine0"
	AliasSpine1 PivotID = "spine1"
)

var guaranteedIDs = []PivotID{
	PivotPelvis, PivotWaist, PivotChest, PivotNeck, PivotHead,
	PivotShoulderL, PivotShoulderR, PivotElbowL, PivotElbowR,
	PivotHipL, PivotHipR, PivotKneeL, PivotKneeR,
}

var structuralIDs = []PivotID{PivotRoot, PivotWristL, PivotWristR, PivotAnkleL, PivotAnkleR}

var aliases = map[PivotID]PivotID{
	AliasSpine0: PivotWaist,
	AliasSpine1: PivotChest,
}

// GuaranteedIDs 返回保证存在的节点标识符（副本）
func GuaranteedIDs() []PivotID {
	return append([]PivotID(nil), guaranteedIDs...)
}

// StructuralIDs 返回拓扑中总是存在的附加节点标识符（副本）
func StructuralIDs() []PivotID {
	return append([]PivotID(nil), structuralIDs...)
}

// Canonical 将别名解析为规范标识符，非别名原样返回
func Canonical(id PivotID) PivotID {
	if c, ok := aliases[id]; ok {
		return c
	}
	return id
}

func sortIDs(ids []PivotID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
