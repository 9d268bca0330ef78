// Package motion 负责动作片段的加载、修正与拼接
//
// 一个动作序列（Sequence）由若干个独立采集的片段按顺序拼接而成：
// 第一个片段被平移到画布中心并记录基线姿态，后续片段整体平移，
// 使每个拼接点处的根关节（pelvis）位置连续。
package motion

import "github.com/decker502/shadowpuppet/internal/clip"

// Corrections 采样数据的固定关节修正
// 用于抵消姿态估计的系统偏差，对每个片段的每一帧无条件生效
type Corrections struct {
	// ElbowDropY 左右肘部 Y 坐标的下移量（像素）
	ElbowDropY float64 `yaml:"elbow_drop_y" mapstructure:"elbow_drop_y"`

	// RightShoulderOffsetX 右肩相对双肩中点的 X 偏移
	RightShoulderOffsetX float64 `yaml:"right_shoulder_offset_x" mapstructure:"right_shoulder_offset_x"`

	// LeftShoulderOffsetX 左肩相对双肩中点的 X 偏移
	LeftShoulderOffsetX float64 `yaml:"left_shoulder_offset_x" mapstructure:"left_shoulder_offset_x"`
}

// DefaultCorrections 返回与素材调校一致的默认修正值
func DefaultCorrections() Corrections {
	return Corrections{
		ElbowDropY:           15,
		RightShoulderOffsetX: -30,
		LeftShoulderOffsetX:  0,
	}
}

// Apply 就地修正一组帧
//
// 规则：
//   - right_elbow.y / left_elbow.y 各自加上 ElbowDropY（关节存在时）
//   - 双肩同时存在时，按中点重新分配：right = mid + RightShoulderOffsetX，left = mid + LeftShoulderOffsetX
func (c Corrections) Apply(frames []clip.Frame) {
	for i := range frames {
		c.applyFrame(frames[i].Joints)
	}
}

func (c Corrections) applyFrame(joints clip.Pose) {
	for _, name := range [...]string{clip.JointRightElbow, clip.JointLeftElbow} {
		if j, ok := joints[name]; ok {
			j.Y += c.ElbowDropY
			joints[name] = j
		}
	}

	rs, okR := joints[clip.JointRightShoulder]
	ls, okL := joints[clip.JointLeftShoulder]
	if !okR || !okL {
		return
	}
	mid := (rs.X + ls.X) / 2
	rs.X = mid + c.RightShoulderOffsetX
	ls.X = mid + c.LeftShoulderOffsetX
	joints[clip.JointRightShoulder] = rs
	joints[clip.JointLeftShoulder] = ls
}
