package player

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/decker502/shadowpuppet/pkg/motion"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrEmptyIdle 空闲序列没有帧，播放器无法启动
var ErrEmptyIdle = errors.New("idle sequence has no frames")

// 用户可见的回退回复
const (
	ReplyUnknownAction = "我好像不认识这个动作。"
	ReplyCannotMove    = "抱歉，我好像动不了了。"
)

// State 播放器状态
type State int

const (
	StateIdle State = iota
	StateAction
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAction:
		return "action"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome 请求处理结果
type Outcome int

const (
	// OutcomeStarted 动作已开始播放
	OutcomeStarted Outcome = iota
	// OutcomeBusy 正在播放动作，请求未处理
	OutcomeBusy
	// OutcomeUnknownAction 没有任何动作名能解析为片段
	OutcomeUnknownAction
	// OutcomeEmptyAction 片段拼接结果为空
	OutcomeEmptyAction
)

// SequenceLoader 加载并拼接片段，*motion.Loader 实现了该接口
type SequenceLoader interface {
	Load(paths []string) *motion.Sequence
}

// Frame 一帧的播放结果
type Frame struct {
	// Joints 已加上当前全局偏移的关节位置（屏幕坐标）
	Joints clip.Pose

	// Sequence 当前帧所属的序列
	Sequence *motion.Sequence

	// Index 当前帧在序列中的序号
	Index int

	State State
}

// Player 动画播放器
// 非并发安全，只应在主循环中调用；跨协程的请求通过 Mailbox 传递
type Player struct {
	loader   SequenceLoader
	resolver *Resolver

	idle       *motion.Sequence
	idleIdx    int
	idleOffset mgl64.Vec2

	action       *motion.Sequence
	actionIdx    int
	actionOffset mgl64.Vec2

	state  State
	anchor mgl64.Vec2
}

// New 创建播放器
//
// 空闲序列是整个播放器的基准：它的基线同时作为蒙皮参考，
// 初始锚点为空闲基线的根关节（即画布中心），初始偏移为零。
//
// 返回：
//   - error: 空闲序列为空时返回 ErrEmptyIdle
func New(idle *motion.Sequence, loader SequenceLoader, resolver *Resolver) (*Player, error) {
	if idle.Empty() {
		return nil, ErrEmptyIdle
	}
	p := &Player{
		loader:   loader,
		resolver: resolver,
		idle:     idle,
		state:    StateIdle,
	}
	p.anchor = sequenceRoot(idle)
	return p, nil
}

// State 当前状态
func (p *Player) State() State {
	return p.state
}

// Anchor 当前根关节屏幕锚点
func (p *Player) Anchor() mgl64.Vec2 {
	return p.anchor
}

// Baseline 蒙皮参考基线（空闲序列的基线）
func (p *Player) Baseline() clip.Pose {
	return p.idle.Baseline
}

// Idle 空闲序列
func (p *Player) Idle() *motion.Sequence {
	return p.idle
}

// Request 处理一次动作请求
//
// 只有空闲状态下才会处理；正在播放动作时返回 OutcomeBusy，调用方应稍后重试。
//
// 返回：
//   - string: 应显示给用户的回复
//   - Outcome: 处理结果
func (p *Player) Request(req Request) (string, Outcome) {
	if p.state != StateIdle {
		return "", OutcomeBusy
	}

	paths := p.resolver.Resolve(req.Actions)
	if len(paths) == 0 {
		log.Printf("[Player] 请求 %s 的动作未找到有效的动作文件，保持 idle", req.ID)
		if len(req.Actions) == 0 {
			return req.Reply, OutcomeUnknownAction
		}
		return ReplyUnknownAction, OutcomeUnknownAction
	}

	seq := p.loader.Load(paths)
	if seq.Empty() {
		log.Printf("[Player] 请求 %s 的动作加载失败（空帧），保持 idle", req.ID)
		return ReplyCannotMove, OutcomeEmptyAction
	}

	p.action = seq
	p.actionIdx = 0
	p.actionOffset = p.anchor.Sub(sequenceRoot(seq))
	p.state = StateAction
	log.Printf("[Player] 请求 %s: 切换到 action，%d 帧 %v，偏移 (%.1f, %.1f)",
		req.ID, seq.Len(), paths, p.actionOffset.X(), p.actionOffset.Y())
	return req.Reply, OutcomeStarted
}

// Tick 输出当前帧并前进一帧
func (p *Player) Tick() Frame {
	if p.state == StateAction {
		return p.tickAction()
	}
	return p.tickIdle()
}

// Rewind 把播放位置后退 n 帧，用于暂停时逐帧回看
// 空闲序列循环回绕；动作序列最多退回第一帧
func (p *Player) Rewind(n int) {
	if n <= 0 {
		return
	}
	if p.state == StateAction {
		p.actionIdx -= n
		if p.actionIdx < 0 {
			p.actionIdx = 0
		}
		return
	}
	l := p.idle.Len()
	p.idleIdx = ((p.idleIdx-n)%l + l) % l
}

func (p *Player) tickIdle() Frame {
	idx := p.idleIdx
	joints := p.idle.Frames[idx].Joints.Translated(p.idleOffset.X(), p.idleOffset.Y())
	p.idleIdx = (p.idleIdx + 1) % p.idle.Len()
	p.track(joints)
	return Frame{Joints: joints, Sequence: p.idle, Index: idx, State: StateIdle}
}

func (p *Player) tickAction() Frame {
	seq := p.action
	idx := p.actionIdx
	joints := seq.Frames[idx].Joints.Translated(p.actionOffset.X(), p.actionOffset.Y())
	p.actionIdx++
	p.track(joints)

	if p.actionIdx >= seq.Len() {
		p.finishAction()
	}
	return Frame{Joints: joints, Sequence: seq, Index: idx, State: StateAction}
}

// track 渲染帧有根关节时更新锚点
func (p *Player) track(joints clip.Pose) {
	if root, ok := joints[clip.RootJoint]; ok {
		p.anchor = mgl64.Vec2{root.X, root.Y}
	}
}

// finishAction 动作播放完毕：锚点落在动作最后一帧的根关节，空闲以此为新原点继续循环
// 最后一帧没有根关节时退回动作起点（动作基线根关节加偏移）
func (p *Player) finishAction() {
	last := p.action.Frames[p.action.Len()-1]
	if root, ok := last.Root(); ok {
		p.anchor = mgl64.Vec2{root.X, root.Y}.Add(p.actionOffset)
	} else {
		p.anchor = sequenceRoot(p.action).Add(p.actionOffset)
		log.Printf("[Player] 警告: action 最后一帧缺少 '%s'，锚点退回动作起点 (%.1f, %.1f)", clip.RootJoint, p.anchor.X(), p.anchor.Y())
	}
	p.idleOffset = p.anchor.Sub(sequenceRoot(p.idle))
	p.action = nil
	p.actionIdx = 0
	p.state = StateIdle
	log.Printf("[Player] action 播放完毕，返回 idle；锚点 (%.1f, %.1f)", p.anchor.X(), p.anchor.Y())
}

// sequenceRoot 序列基线的根关节，缺失时退回画布中心
func sequenceRoot(seq *motion.Sequence) mgl64.Vec2 {
	if root, ok := seq.BaselineRoot(); ok {
		return mgl64.Vec2{root.X, root.Y}
	}
	cx, cy := seq.Center()
	return mgl64.Vec2{cx, cy}
}
