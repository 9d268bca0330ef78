// Package agent 对接外部的对话与语音识别服务
//
// 对话服务把一句用户输入变成一段回复和不超过三个动作名；语音识别服务把
// 16 位 PCM 采样变成文本。两者都是可替换的接口，本包提供基于 HTTP 的
// 适配器，以及负责超时、回退与投递的 Dispatcher。
package agent

import (
	"context"
	"errors"

	"github.com/decker502/shadowpuppet/pkg/player"
)

// MaxActions 一次回复最多携带的动作数
const MaxActions = player.MaxActions

// ErrEmptyTranscript 语音识别没有得到任何文本
var ErrEmptyTranscript = errors.New("empty transcript")

// Dialogue 对话服务
// 实现必须可并发调用
type Dialogue interface {
	// Process 返回动作名（最多 3 个，按播放顺序）和要显示的回复
	Process(ctx context.Context, input string) (actions []string, reply string, err error)
}

// Transcriber 语音识别服务
type Transcriber interface {
	// Transcribe 识别单声道 16 位 PCM 采样
	Transcribe(ctx context.Context, samples []int16) (string, error)
}

// DialogueFunc 把普通函数适配为 Dialogue
type DialogueFunc func(ctx context.Context, input string) ([]string, string, error)

// Process implements Dialogue.
func (f DialogueFunc) Process(ctx context.Context, input string) ([]string, string, error) {
	return f(ctx, input)
}

// TranscriberFunc 把普通函数适配为 Transcriber
type TranscriberFunc func(ctx context.Context, samples []int16) (string, error)

// Transcribe implements Transcriber.
func (f TranscriberFunc) Transcribe(ctx context.Context, samples []int16) (string, error) {
	return f(ctx, samples)
}
