package motion

import (
	"errors"
	"io/fs"
	"log"

	"github.com/decker502/shadowpuppet/internal/clip"
)

// ClipSource 按路径读取并解析一个片段文件
type ClipSource func(path string) (*clip.File, error)

// Loader 动作序列加载器
// 负责读取片段、应用关节修正，并把多个片段拼接为一个连续序列
type Loader struct {
	corrections Corrections
	source      ClipSource
}

// NewLoader 创建从本地文件系统读取片段的加载器
func NewLoader(corrections Corrections) *Loader {
	return &Loader{
		corrections: corrections,
		source:      clip.ParseClipFile,
	}
}

// NewFSLoader 创建从 fs.FS 读取片段的加载器
func NewFSLoader(fsys fs.FS, corrections Corrections) *Loader {
	return &Loader{
		corrections: corrections,
		source: func(path string) (*clip.File, error) {
			return clip.ParseClipFS(fsys, path)
		},
	}
}

// Load 按顺序加载并拼接片段
//
// 单个片段读取失败、解析失败或没有帧时记录警告并跳过，不会中断整批加载。
// 即使所有片段都失败也返回一个空序列（不返回错误），由调用方决定如何回退。
//
// 参数：
//   - paths: 片段文件路径，按播放顺序排列
//
// 返回：
//   - *Sequence: 拼接后的序列，Frames 可能为空
func (l *Loader) Load(paths []string) *Sequence {
	seq := &Sequence{Baseline: clip.Pose{}}
	first := true

	for _, path := range paths {
		file, err := l.source(path)
		if err != nil {
			if errors.Is(err, clip.ErrNoFrames) {
				log.Printf("[ClipLoader] 警告: 动作文件 %s 没有帧数据", path)
			} else {
				log.Printf("[ClipLoader] 警告: 无法读取或解析动作文件 %s: %v", path, err)
			}
			continue
		}

		frames := file.Frames
		l.updateCanvas(seq, path, file.VideoInfo)
		l.corrections.Apply(frames)

		if first {
			first = false
			if CenterOnCanvas(frames, seq.Width, seq.Height) {
				seq.Baseline = frames[0].Clone().Joints
			} else {
				log.Printf("[ClipLoader] 警告: 首段动作文件 %s 的第一帧没有 '%s' 关节，无法居中和记录基线", path, clip.RootJoint)
			}
		} else if !AlignTo(seq.Frames[len(seq.Frames)-1], frames) {
			log.Printf("[ClipLoader] 警告: 动作文件 %s 无法与上一段对齐：缺少 '%s' 关节", path, clip.RootJoint)
		}

		start := len(seq.Frames)
		seq.Frames = append(seq.Frames, frames...)
		seq.Segments = append(seq.Segments, Segment{Path: path, Start: start, End: len(seq.Frames)})
	}

	if len(seq.Baseline) == 0 && len(seq.Frames) > 0 {
		fallbackBaseline(seq)
	}

	return seq
}

// updateCanvas 用当前片段的分辨率更新画布尺寸
// 片段之间分辨率不一致时只告警，仍以最后一个片段为准
func (l *Loader) updateCanvas(seq *Sequence, path string, info clip.VideoInfo) {
	w, h, ok := info.Size()
	if !ok {
		log.Printf("[ClipLoader] 警告: 动作文件 %s 缺少有效的 resolution，沿用 %dx%d", path, seq.Width, seq.Height)
		return
	}
	if seq.Width != 0 && (seq.Width != w || seq.Height != h) {
		log.Printf("[ClipLoader] 警告: 动作文件 %s 分辨率 %dx%d 与前一段 %dx%d 不一致，未做缩放", path, w, h, seq.Width, seq.Height)
	}
	seq.Width, seq.Height = w, h
}

// fallbackBaseline 没有得到居中基线时，用第一帧有关节数据的帧作为近似基线
func fallbackBaseline(seq *Sequence) {
	for _, fr := range seq.Frames {
		if len(fr.Joints) == 0 {
			continue
		}
		seq.Baseline = fr.Clone().Joints
		log.Printf("[ClipLoader] 警告: 未能使用 '%s' 设置基线，使用首个有效帧的关节作为近似基线", clip.RootJoint)
		return
	}
	log.Printf("[ClipLoader] 错误: 无法确定初始关节基线，所有帧均无关节数据")
}
