package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/decker502/shadowpuppet/pkg/player"
	"github.com/go-basic/uuid"
)

// 回退回复
const (
	ReplyBusy        = "系统繁忙，请稍候..."
	ReplyTrouble     = "抱歉，我处理时遇到点麻烦。"
	ReplyUnavailable = "Agent系统似乎出了一些问题。"
)

// DefaultTimeout 一次对话请求的默认超时
const DefaultTimeout = 30 * time.Second

// Sink 接收产生的动作请求，*player.Mailbox 实现了该接口
type Sink interface {
	Offer(req player.Request) bool
}

// DispatcherConfig 分发器配置
type DispatcherConfig struct {
	Timeout time.Duration

	// IdleAction 对话失败或没有给出动作时使用的动作名
	IdleAction string

	// OnTranscript 识别出文本（或识别失败的提示）时回调，用于界面显示
	OnTranscript func(text string)
}

// Dispatcher 在后台协程中调用对话/识别服务，并把结果投递到 Sink
type Dispatcher struct {
	dialogue    Dialogue
	transcriber Transcriber
	sink        Sink
	cfg         DispatcherConfig
	wg          sync.WaitGroup
}

// NewDispatcher 创建分发器
// dialogue 或 transcriber 可以为 nil，对应的输入会得到回退回复
func NewDispatcher(dialogue Dialogue, transcriber Transcriber, sink Sink, cfg DispatcherConfig) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.IdleAction == "" {
		cfg.IdleAction = "idle"
	}
	return &Dispatcher{
		dialogue:    dialogue,
		transcriber: transcriber,
		sink:        sink,
		cfg:         cfg,
	}
}

// SubmitText 异步处理一条文本输入，空白输入被忽略
func (d *Dispatcher) SubmitText(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		log.Printf("[Dispatcher] 输入为空，忽略")
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(d.Handle(ctx, text))
	}()
}

// SubmitAudio 异步识别一段录音，识别出文本后再交给对话服务
func (d *Dispatcher) SubmitAudio(ctx context.Context, samples []int16) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		text, err := d.Transcribe(ctx, samples)
		if err != nil {
			return
		}
		d.deliver(d.Handle(ctx, text))
	}()
}

// Wait 等待所有在途请求结束
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Handle 同步处理一条文本输入并返回要投递的请求
//
// 对话服务超时或出错时返回空闲动作加道歉回复；服务没有给出动作时补上空闲动作。
func (d *Dispatcher) Handle(ctx context.Context, text string) player.Request {
	req := player.Request{ID: uuid.New()}

	if d.dialogue == nil {
		log.Printf("[Dispatcher] %s: 对话系统未初始化", req.ID)
		req.Actions, req.Reply = []string{d.cfg.IdleAction}, ReplyUnavailable
		return req
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	start := time.Now()
	actions, reply, err := d.process(ctx, text)
	switch {
	case errors.Is(err, context.DeadlineExceeded) || (err != nil && ctx.Err() != nil):
		log.Printf("[Dispatcher] %s: 处理超时 (%v)，返回默认动作", req.ID, d.cfg.Timeout)
		req.Actions, req.Reply = []string{d.cfg.IdleAction}, ReplyBusy
		return req
	case err != nil:
		log.Printf("[Dispatcher] %s: 调用失败: %v", req.ID, err)
		req.Actions, req.Reply = []string{d.cfg.IdleAction}, ReplyTrouble
		return req
	}

	if len(actions) == 0 {
		actions = []string{d.cfg.IdleAction}
	}
	if len(actions) > MaxActions {
		actions = actions[:MaxActions]
	}
	req.Actions, req.Reply = actions, reply
	log.Printf("[Dispatcher] %s: 输入 %q -> 回复 %q | 动作 %v (%v)", req.ID, text, reply, actions, time.Since(start).Round(time.Millisecond))
	return req
}

type dialogueResult struct {
	actions []string
	reply   string
	err     error
}

// process 在独立协程中调用对话服务，超时后立即返回 ctx.Err()
// 不理会 ctx 的实现迟到的结果会被丢弃
func (d *Dispatcher) process(ctx context.Context, text string) ([]string, string, error) {
	done := make(chan dialogueResult, 1)
	go func() {
		actions, reply, err := d.dialogue.Process(ctx, text)
		done <- dialogueResult{actions: actions, reply: reply, err: err}
	}()

	select {
	case r := <-done:
		return r.actions, r.reply, r.err
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

// Transcribe 同步识别一段录音
//
// 返回：
//   - string: 识别出的文本（已去除首尾空白）
//   - error: 识别失败，或结果为空时返回 ErrEmptyTranscript
func (d *Dispatcher) Transcribe(ctx context.Context, samples []int16) (string, error) {
	if d.transcriber == nil {
		d.notify("语音识别不可用")
		return "", fmt.Errorf("no transcriber configured")
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	log.Printf("[Dispatcher] 开始识别 %.2f 秒的音频", float64(len(samples))/DefaultSampleRate)
	text, err := d.transcriber.Transcribe(ctx, samples)
	if err != nil {
		log.Printf("[Dispatcher] 识别失败: %v", err)
		d.notify("识别过程出错")
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		d.notify("未识别到内容")
		return "", ErrEmptyTranscript
	}
	d.notify(text)
	return text, nil
}

func (d *Dispatcher) notify(text string) {
	if d.cfg.OnTranscript != nil {
		d.cfg.OnTranscript(text)
	}
}

func (d *Dispatcher) deliver(req player.Request) {
	if d.sink == nil {
		return
	}
	d.sink.Offer(req)
}
