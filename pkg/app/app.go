// Package app 提供数字人应用的核心包装器
//
// 该包把配置、资源、动画播放器、对话分发器和各个系统组装成一个 ebiten.Game，
// main.go 只负责解析命令行参数并调用 NewApp()。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/shadowpuppet/internal/audio"
	"github.com/decker502/shadowpuppet/pkg/agent"
	"github.com/decker502/shadowpuppet/pkg/config"
	"github.com/decker502/shadowpuppet/pkg/game"
	"github.com/decker502/shadowpuppet/pkg/motion"
	"github.com/decker502/shadowpuppet/pkg/player"
	"github.com/decker502/shadowpuppet/pkg/skeleton"
	"github.com/decker502/shadowpuppet/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// 画布尺寸都无法确定时使用
const (
	fallbackWidth  = 800
	fallbackHeight = 600
)

var backgroundColor = color.RGBA{R: 245, G: 235, B: 220, A: 255}

// Config 定义应用启动配置
type Config struct {
	// ConfigPath 舞台配置文件路径，为空时只使用默认值和环境变量
	ConfigPath string
	// Verbose 启用详细日志输出
	Verbose bool
}

// App 是数字人应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	stage *config.StageConfig

	player     *player.Player
	mailbox    *player.Mailbox
	dispatcher *agent.Dispatcher

	renderer *systems.SkeletonRenderSystem
	bubble   *systems.ReplyBubbleSystem
	input    *systems.TextInputSystem
	voice    *systems.VoiceInputSystem
	editor   *systems.PivotEditorSystem // 未启用枢轴编辑时为 nil

	recorder *audio.Recorder // 未配置识别服务或没有录音设备时为 nil

	background    *ebiten.Image
	width, height int

	frame    player.Frame
	hasFrame bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
// 空闲片段缺失或为空、配置无效时返回错误；贴图、背景、字体缺失只记录警告。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	stage, err := config.LoadStageConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("舞台配置加载失败: %w", err)
	}
	skelTable, err := config.LoadSkeletonTable(stage.SkeletonTable)
	if err != nil {
		return nil, fmt.Errorf("骨骼表加载失败: %w", err)
	}
	actionTable, err := config.LoadActionTable(stage.ActionTable)
	if err != nil {
		return nil, fmt.Errorf("动作表加载失败: %w", err)
	}

	clipDir := actionTable.ClipDir
	if stage.ClipDir != "" {
		clipDir = stage.ClipDir
	}
	loader := motion.NewLoader(stage.Corrections)
	resolver := player.NewResolver(clipDir, actionTable.Map())

	idlePaths := resolver.Resolve([]string{actionTable.IdleAction})
	if len(idlePaths) == 0 {
		return nil, fmt.Errorf("找不到空闲动作 %q 的片段 (clip_dir=%s)", actionTable.IdleAction, clipDir)
	}
	idle := loader.Load(idlePaths)
	p, err := player.New(idle, loader, resolver)
	if err != nil {
		return nil, fmt.Errorf("空闲动作 %v 加载失败: %w", idlePaths, err)
	}
	log.Printf("[App] Idle 动作加载成功 (%d 帧), 画布 %dx%d", idle.Len(), idle.Width, idle.Height)

	width, height := canvasSize(stage, idle)
	rm := game.NewResourceManager()

	sprites, err := rm.LoadSprites(stage.SpriteDir, skelTable.Bones)
	if err != nil {
		log.Printf("[App] Warning: %v，人物将不显示", err)
		sprites = &game.Sprites{}
	}
	table, err := skeleton.NewBoneTable(skelTable.Bones, sprites.Sizes)
	if err != nil {
		return nil, fmt.Errorf("骨骼表无效: %w", err)
	}

	store := game.NewPivotStore(openStorage(stage.AppName))
	table = table.WithPivots(store.Load(boneNames(table)))

	background, err := rm.LoadBackground(stage.Background, width, height)
	if err != nil {
		log.Printf("[App] Warning: 加载背景图片失败: %v，使用纯色背景", err)
	}
	face, err := rm.LoadFont(stage.FontPath, stage.FontSize)
	if err != nil {
		log.Printf("[App] Warning: 加载字体失败: %v，使用调试字体", err)
	}

	renderer := systems.NewSkeletonRenderSystem(table, sprites.Images, skeleton.Canvas{
		Width:        width,
		Height:       height,
		Scale:        stage.Scale,
		StageOffsetY: stage.StageOffsetY,
	})
	renderer.SetDebug(systems.DebugOptions{
		Pivots: stage.Debug.Pivots,
		Joints: stage.Debug.Joints,
		Label:  stage.Debug.Label,
	})

	bubble := systems.NewReplyBubbleSystem(face, stage.FPS)
	mailbox := player.NewMailbox()

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		stage:      stage,
		player:     p,
		mailbox:    mailbox,
		renderer:   renderer,
		bubble:     bubble,
		input:      systems.NewTextInputSystem(face),
		background: background,
		width:      width,
		height:     height,
		ctx:        ctx,
		cancel:     cancel,
	}
	if stage.Debug.PivotEditor {
		a.editor = systems.NewPivotEditorSystem(table, store)
	}

	transcriber := newTranscriber(stage)
	var recorder systems.Recorder
	if transcriber != nil {
		if a.recorder = openRecorder(stage.Transcription.SampleRate); a.recorder != nil {
			recorder = a.recorder
		}
	}
	a.voice = systems.NewVoiceInputSystem(face, recorder, bubble.ShowTranscript)

	a.dispatcher = agent.NewDispatcher(newDialogue(stage, actionTable), transcriber, mailbox, agent.DispatcherConfig{
		Timeout:      stage.Dialogue.Timeout,
		IdleAction:   actionTable.IdleAction,
		OnTranscript: bubble.ShowTranscript,
	})

	log.Printf("[App] 初始化完成: %d 个骨骼, %d 个对话动作", table.Len(), len(actionTable.DialogueActions()))
	return a, nil
}

// newDialogue 根据配置创建对话适配器，未启用时返回 nil 接口
func newDialogue(stage *config.StageConfig, actions *config.ActionTable) agent.Dialogue {
	if !stage.Dialogue.Enabled {
		log.Printf("[App] 对话服务未启用")
		return nil
	}
	return agent.NewChatClient(agent.ChatConfig{
		Endpoint:          stage.Dialogue.Endpoint,
		Model:             stage.Dialogue.Model,
		APIKey:            stage.Dialogue.APIKey,
		Actions:           actions.DialogueActions(),
		DefaultAction:     actions.FallbackAction(),
		TextTemperature:   agent.DefaultTextTemperature,
		ActionTemperature: agent.DefaultActionTemperature,
	}, nil)
}

// newTranscriber 根据配置创建识别适配器，没有配置地址时返回 nil 接口
func newTranscriber(stage *config.StageConfig) agent.Transcriber {
	if stage.Transcription.Endpoint == "" {
		return nil
	}
	return agent.NewHTTPTranscriber(stage.Transcription.Endpoint, stage.Transcription.SampleRate, nil)
}

// openRecorder 打开录音器，失败时返回 nil（语音模式只显示不可用）
func openRecorder(sampleRate int) *audio.Recorder {
	r, err := audio.NewRecorder(audio.Config{SampleRate: sampleRate})
	if err != nil {
		log.Printf("[App] Warning: 无法初始化录音: %v", err)
		return nil
	}
	return r
}

// openStorage 打开 gdata 存储，失败时返回 nil（枢轴只保存在内存中）
func openStorage(appName string) *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: 无法打开持久化存储: %v", err)
		return nil
	}
	return m
}

// canvasSize 窗口配置优先，其次使用空闲片段的分辨率
func canvasSize(stage *config.StageConfig, idle *motion.Sequence) (int, int) {
	w, h := stage.Window.Width, stage.Window.Height
	if w <= 0 || h <= 0 {
		w, h = idle.Width, idle.Height
	}
	if w <= 0 || h <= 0 {
		log.Printf("[App] Warning: 无法确定画布尺寸，使用 %dx%d", fallbackWidth, fallbackHeight)
		w, h = fallbackWidth, fallbackHeight
	}
	return w, h
}

func boneNames(table *skeleton.BoneTable) []string {
	names := make([]string, 0, table.Len())
	for _, b := range table.Bones() {
		names = append(names, b.Name)
	}
	return names
}

// Update 更新应用逻辑
// 每个 tick 调用一次（TPS = fps）
func (a *App) Update() error {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	deltaTime := 1.0 / float64(a.stage.FPS)
	a.bubble.Update()

	if samples, ok := a.voice.Update(a.width, a.height); ok {
		a.bubble.Dismiss()
		a.dispatcher.SubmitAudio(a.ctx, samples)
	}

	textMode := a.voice.Mode() == systems.ModeText
	if textMode {
		if submitted, ok := a.input.Update(deltaTime, a.width, a.height); ok {
			a.bubble.Dismiss()
			a.dispatcher.SubmitText(a.ctx, submitted)
		}
	} else {
		a.input.Cancel()
	}

	// 语音模式下空格用于录音，编辑器不处理按键
	step := 0
	if a.editor != nil && textMode && !a.input.Typing() {
		step = a.editor.Update(a.renderer.Placements())
		a.renderer.SetTable(a.editor.Table())
		a.renderer.SetSelected(a.editor.Selected())
	}

	if a.editor != nil && a.editor.Paused() {
		a.stepPaused(step)
		return nil
	}

	// 只在空闲时取请求，动作不会被打断
	if a.player.State() == player.StateIdle {
		if req, ok := a.mailbox.Poll(); ok {
			reply, outcome := a.player.Request(req)
			log.Printf("[App] 请求 %s: outcome=%d", req.ID, outcome)
			a.bubble.Show(reply)
		}
	}

	a.frame = a.player.Tick()
	a.hasFrame = true
	return nil
}

// stepPaused 暂停时只按方向键逐帧移动
func (a *App) stepPaused(step int) {
	switch {
	case !a.hasFrame || step > 0:
		a.frame = a.player.Tick()
		a.hasFrame = true
	case step < 0:
		// 回到上一帧：退两帧再前进一帧
		a.player.Rewind(2)
		a.frame = a.player.Tick()
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	if a.background != nil {
		screen.DrawImage(a.background, nil)
	} else {
		screen.Fill(backgroundColor)
	}

	if a.hasFrame {
		a.renderer.Draw(screen, a.frame.Joints, a.player.Baseline(), a.frame.Sequence, a.frame.Index)
	}

	a.bubble.Draw(screen)
	a.input.Draw(screen)
	a.voice.Draw(screen)

	if a.editor != nil && a.editor.Active() {
		a.drawEditorStatus(screen)
	}
}

func (a *App) drawEditorStatus(screen *ebiten.Image) {
	status := "Pivot 编辑: 点击关节选中部件"
	if name := a.editor.Selected(); name != "" {
		pv, _ := a.editor.Pivot(name)
		status = fmt.Sprintf("Pivot 编辑: %s (%.0f, %.0f)  方向键调整, Shift x10, S 保存", name, pv.X(), pv.Y())
	}
	if a.editor.Paused() {
		status += "  [暂停]"
	}
	ebitenutil.DebugPrintAt(screen, status, 10, a.height-80)
}

// Layout 返回逻辑屏幕尺寸（空闲片段的画布尺寸或窗口配置）
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// Size 逻辑屏幕尺寸
func (a *App) Size() (int, int) {
	return a.width, a.height
}

// Stage 返回生效的舞台配置
func (a *App) Stage() *config.StageConfig {
	return a.stage
}

// Close 取消进行中的对话请求并等待后台协程退出，然后释放录音设备
func (a *App) Close() {
	a.cancel()
	a.dispatcher.Wait()
	if a.recorder != nil {
		a.recorder.Close()
	}
}
